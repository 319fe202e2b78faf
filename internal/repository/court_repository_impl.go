package repository

import (
	"errors"

	"courtside/internal/domain/entity"
	domainRepo "courtside/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type courtRepository struct{}

func NewCourtRepository() domainRepo.CourtRepository {
	return &courtRepository{}
}

func (r *courtRepository) Create(db *gorm.DB, court *entity.Court) error {
	return db.Create(court).Error
}

func (r *courtRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Court, error) {
	var court entity.Court
	err := db.Preload("Facility").Where("id = ?", id).First(&court).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &court, nil
}

func (r *courtRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Court, error) {
	var court entity.Court
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&court).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &court, nil
}

func (r *courtRepository) FindByFacilityID(db *gorm.DB, facilityID uuid.UUID) ([]entity.Court, error) {
	var courts []entity.Court
	err := db.Where("facility_id = ?", facilityID).Order("name ASC").Find(&courts).Error
	if err != nil {
		return nil, err
	}
	return courts, nil
}

func (r *courtRepository) FindAll(db *gorm.DB, filter *entity.CourtFilter) ([]entity.Court, error) {
	var courts []entity.Court
	query := db.
		Joins("JOIN facilities ON facilities.id = courts.facility_id").
		Where("courts.is_active = ? AND facilities.is_active = ?", true, true)

	if filter != nil {
		if filter.FacilityID != "" {
			query = query.Where("courts.facility_id = ?", filter.FacilityID)
		}
		if filter.SportType != "" {
			query = query.Where("courts.sport_type = ?", filter.SportType)
		}
		if filter.City != "" {
			query = query.Where("facilities.city ILIKE ?", "%"+filter.City+"%")
		}
	}

	err := query.
		Preload("Facility").
		Order("courts.name ASC").
		Find(&courts).Error
	if err != nil {
		return nil, err
	}
	return courts, nil
}

func (r *courtRepository) Update(db *gorm.DB, court *entity.Court) error {
	return db.Omit("Facility").Save(court).Error
}

func (r *courtRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Court{})
	return result.RowsAffected, result.Error
}
