package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotHeld is returned when another admission currently holds any part of
// the requested interval.
var ErrSlotHeld = errors.New("slot is held by another booking in progress")

const (
	// Redis key prefix for slot holds
	slotHoldKeyPrefix = "slot:hold:"

	// Holds outlive the admission transaction by a wide margin and expire on
	// their own if the holder crashes before releasing.
	slotHoldTTL = 2 * time.Minute

	// Slots are bucketed per half hour; a hold claims every bucket its
	// interval covers so overlapping intervals contend on at least one key.
	holdBucketMinutes = 30
)

// acquireHoldScript claims every bucket key atomically: if any key exists the
// whole acquisition fails, otherwise all keys are set to the holder token.
// Go client sends EVALSHA after the first call.
var acquireHoldScript = redis.NewScript(`
	for i = 1, #KEYS do
		if redis.call('EXISTS', KEYS[i]) == 1 then
			return 0
		end
	end
	for i = 1, #KEYS do
		redis.call('SET', KEYS[i], ARGV[1], 'PX', ARGV[2])
	end
	return 1
`)

// releaseHoldScript deletes only the keys still owned by the holder token, so
// an expired-and-reacquired bucket is never released by the old holder.
var releaseHoldScript = redis.NewScript(`
	local released = 0
	for i = 1, #KEYS do
		if redis.call('GET', KEYS[i]) == ARGV[1] then
			redis.call('DEL', KEYS[i])
			released = released + 1
		end
	end
	return released
`)

// SlotHoldService places short-lived Redis holds on court time slots while an
// admission is in flight. It is a fast-path guard that shrinks the window in
// which two requests for the same slot reach the database; the admission
// transaction and the bookings exclusion constraint remain the authoritative
// double-booking guard.
type SlotHoldService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSlotHoldService(redisClient *redis.Client, log *logrus.Logger) *SlotHoldService {
	return &SlotHoldService{
		redisClient: redisClient,
		log:         log,
	}
}

// Acquire claims the interval [startMin, endMin) on (courtID, date) and
// returns an opaque token for Release. Fails with ErrSlotHeld when any
// covered bucket is already held.
func (s *SlotHoldService) Acquire(ctx context.Context, courtID uuid.UUID, date string, startMin, endMin int) (string, error) {
	keys := s.holdKeys(courtID, date, startMin, endMin)
	token := uuid.New().String()

	ok, err := acquireHoldScript.Run(ctx, s.redisClient, keys, token, slotHoldTTL.Milliseconds()).Int()
	if err != nil {
		s.log.Warnf("Failed to acquire slot hold for court %s on %s: %+v", courtID, date, err)
		return "", fmt.Errorf("acquire slot hold for court %s: %w", courtID, err)
	}
	if ok == 0 {
		return "", ErrSlotHeld
	}

	s.log.Debugf("Acquired slot hold: court=%s date=%s %s-%s", courtID, date, entity.FormatMinutes(startMin), entity.FormatMinutes(endMin))
	return token, nil
}

// Release drops the hold identified by token. Safe to call after expiry.
func (s *SlotHoldService) Release(ctx context.Context, courtID uuid.UUID, date string, startMin, endMin int, token string) {
	keys := s.holdKeys(courtID, date, startMin, endMin)
	if err := releaseHoldScript.Run(ctx, s.redisClient, keys, token).Err(); err != nil {
		// Non-fatal: unreleased holds expire via TTL.
		s.log.Warnf("Failed to release slot hold for court %s on %s (non-fatal): %+v", courtID, date, err)
	}
}

// holdKeys returns one key per half-hour bucket covered by [startMin, endMin)
func (s *SlotHoldService) holdKeys(courtID uuid.UUID, date string, startMin, endMin int) []string {
	first := startMin - startMin%holdBucketMinutes
	var keys []string
	for b := first; b < endMin; b += holdBucketMinutes {
		keys = append(keys, fmt.Sprintf("%s%s:%s:%d", slotHoldKeyPrefix, courtID, date, b))
	}
	return keys
}
