package repository

import (
	"courtside/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourtRepository interface {
	Create(db *gorm.DB, court *entity.Court) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Court, error)
	// FindByIDForUpdate locks the court row FOR UPDATE, serializing concurrent
	// admissions for the same court within the surrounding transaction.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Court, error)
	FindByFacilityID(db *gorm.DB, facilityID uuid.UUID) ([]entity.Court, error)
	FindAll(db *gorm.DB, filter *entity.CourtFilter) ([]entity.Court, error)
	Update(db *gorm.DB, court *entity.Court) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
