package service

import (
	"courtside/internal/domain/entity"
	"courtside/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService writes the audit trail. Record takes the caller's transaction
// so the trail commits or rolls back with the mutation it describes.
type AuditService interface {
	Record(tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, before, after interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, before, after interface{}) error {
	auditLog := &entity.AuditLog{
		UserID: userID,
		Action: action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": before,
			"new_value": after,
		},
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to write audit log for %s: %+v", action, err)
		return err
	}
	return nil
}
