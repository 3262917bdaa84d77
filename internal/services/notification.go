package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/platform/redisbus"
	"github.com/NatiqIskandarli/papercut-backend/internal/repos"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type NotificationInput struct {
	UserID     uuid.UUID
	Title      string
	Message    string
	Type       string
	EntityType string
	EntityID   uuid.UUID
}

// NotificationService persists in-app notifications and fans them out on the
// event bus. Like activity logging, callers never roll back on its failure.
type NotificationService interface {
	Notify(ctx context.Context, input NotificationInput) error
}

type notificationService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.NotificationRepo
	bus  redisbus.Bus
}

// NewNotificationService builds the dispatcher. bus may be nil; fan-out is
// then skipped and only the notification row is written.
func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, repo repos.NotificationRepo, bus redisbus.Bus) NotificationService {
	return &notificationService{
		db:   db,
		log:  baseLog.With("service", "NotificationService"),
		repo: repo,
		bus:  bus,
	}
}

func (s *notificationService) Notify(ctx context.Context, input NotificationInput) error {
	if input.UserID == uuid.Nil {
		return nil
	}
	notification := &types.Notification{
		ID:         uuid.New(),
		UserID:     input.UserID,
		Title:      input.Title,
		Message:    input.Message,
		Type:       input.Type,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.repo.Create(ctx, nil, notification); err != nil {
		s.log.Warn("notification write failed", "user_id", input.UserID, "error", err)
		return err
	}

	if s.bus != nil {
		ev := redisbus.Event{
			Channel: input.UserID.String(),
			Type:    input.Type,
			Payload: map[string]any{
				"id":          notification.ID,
				"title":       input.Title,
				"message":     input.Message,
				"entity_type": input.EntityType,
				"entity_id":   input.EntityID,
			},
		}
		if err := s.bus.Publish(ctx, ev); err != nil {
			s.log.Warn("notification fan-out failed", "user_id", input.UserID, "error", err)
		}
	}
	return nil
}
