package repository

import (
	"errors"

	"courtside/internal/domain/entity"
	domainRepo "courtside/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type facilityRepository struct{}

func NewFacilityRepository() domainRepo.FacilityRepository {
	return &facilityRepository{}
}

func (r *facilityRepository) Create(db *gorm.DB, facility *entity.Facility) error {
	return db.Create(facility).Error
}

func (r *facilityRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Facility, error) {
	var facility entity.Facility
	err := db.Preload("Courts").Where("id = ?", id).First(&facility).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &facility, nil
}

func (r *facilityRepository) FindByOwnerID(db *gorm.DB, ownerID uuid.UUID) ([]entity.Facility, error) {
	var facilities []entity.Facility
	err := db.Preload("Courts").Where("owner_id = ?", ownerID).Order("name ASC").Find(&facilities).Error
	if err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *facilityRepository) FindAll(db *gorm.DB) ([]entity.Facility, error) {
	var facilities []entity.Facility
	err := db.Where("is_active = ?", true).Order("name ASC").Find(&facilities).Error
	if err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *facilityRepository) Update(db *gorm.DB, facility *entity.Facility) error {
	return db.Omit("Owner", "Courts").Save(facility).Error
}

func (r *facilityRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Facility{})
	return result.RowsAffected, result.Error
}
