package service

import (
	"sync"
	"sync/atomic"
	"time"

	"courtside/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const sweepInterval = 1 * time.Minute

// CompletionSweeper periodically marks confirmed bookings whose end time has
// passed as completed. Completion is a system transition only; it is never
// applied on behalf of a user action.
type CompletionSweeper struct {
	db          *gorm.DB
	log         *logrus.Logger
	bookingRepo repository.BookingRepository

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewCompletionSweeper(db *gorm.DB, log *logrus.Logger, bookingRepo repository.BookingRepository) *CompletionSweeper {
	return &CompletionSweeper{
		db:          db,
		log:         log,
		bookingRepo: bookingRepo,
		stopChan:    make(chan struct{}),
	}
}

// Start launches the background sweep loop
func (s *CompletionSweeper) Start() {
	s.wg.Add(1)
	go s.loop()
}

// Stop shuts the sweeper down. Safe to call multiple times.
func (s *CompletionSweeper) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("CompletionSweeper stopped")
	}
}

func (s *CompletionSweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	// Sweep once at startup to catch bookings that finished while down.
	s.sweep()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *CompletionSweeper) sweep() {
	swept, err := s.bookingRepo.CompleteFinished(s.db, time.Now())
	if err != nil {
		s.log.Warnf("Completion sweep failed: %+v", err)
		return
	}
	if swept > 0 {
		s.log.Infof("Completion sweep: %d bookings completed", swept)
	}
}
