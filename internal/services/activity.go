package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/repos"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

const (
	ActivityActionCreate  = "create"
	ActivityActionUpdate  = "update"
	ActivityActionModify  = "modify"
	ActivityActionApprove = "approve"
	ActivityActionReject  = "reject"
	ActivityActionDelete  = "delete"

	ResourceTypeRecord = "record"
)

type ActivityInput struct {
	UserID       uuid.UUID
	Action       string
	ResourceType string
	ResourceID   uuid.UUID
	ResourceName string
	Details      map[string]any
}

// ActivityService records audit entries. Callers treat failures as
// log-and-continue: a failed activity write must never undo committed work.
type ActivityService interface {
	Log(ctx context.Context, input ActivityInput) error
}

type activityService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ActivityLogRepo
}

func NewActivityService(db *gorm.DB, baseLog *logger.Logger, repo repos.ActivityLogRepo) ActivityService {
	return &activityService{
		db:   db,
		log:  baseLog.With("service", "ActivityService"),
		repo: repo,
	}
}

func (s *activityService) Log(ctx context.Context, input ActivityInput) error {
	entry := &types.ActivityLog{
		ID:           uuid.New(),
		UserID:       input.UserID,
		Action:       input.Action,
		ResourceType: input.ResourceType,
		ResourceID:   input.ResourceID,
		ResourceName: input.ResourceName,
		Details:      datatypes.JSON(types.MarshalJSONB(input.Details)),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.repo.Create(ctx, nil, entry); err != nil {
		s.log.Warn("activity log write failed", "action", input.Action, "resource_id", input.ResourceID, "error", err)
		return err
	}
	return nil
}
