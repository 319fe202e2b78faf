package repository

import (
	"courtside/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	Update(db *gorm.DB, user *entity.User) error
	// AddRewardPoints atomically adjusts the reward-point balance by delta
	// (negative for redemption). Returns affected rows: 0 means the guard
	// reward_points + delta >= 0 failed.
	AddRewardPoints(db *gorm.DB, id uuid.UUID, delta int) (int64, error)
	// DeductRewardPointsFloored removes up to points from the balance,
	// flooring at zero when the user has already spent some of them.
	DeductRewardPointsFloored(db *gorm.DB, id uuid.UUID, points int) error
}
