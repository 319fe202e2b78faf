package repository

import (
	"errors"

	"courtside/internal/domain/entity"
	domainRepo "courtside/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(db *gorm.DB, user *entity.User) error {
	return db.Save(user).Error
}

func (r *userRepository) AddRewardPoints(db *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	result := db.Model(&entity.User{}).
		Where("id = ? AND reward_points + ? >= 0", id, delta).
		Update("reward_points", gorm.Expr("reward_points + ?", delta))
	return result.RowsAffected, result.Error
}

func (r *userRepository) DeductRewardPointsFloored(db *gorm.DB, id uuid.UUID, points int) error {
	return db.Model(&entity.User{}).
		Where("id = ?", id).
		Update("reward_points", gorm.Expr("GREATEST(reward_points - ?, 0)", points)).Error
}
