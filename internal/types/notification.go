package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeInfo      = "info"
	NotificationTypeApproval  = "approval"
	NotificationTypeRejection = "rejection"
	NotificationTypeUpdate    = "update"
	NotificationTypeModify    = "modify"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	Title      string    `gorm:"not null" json:"title"`
	Message    string    `gorm:"column:message" json:"message"`
	Type       string    `gorm:"column:type;not null;default:'info'" json:"type"`
	EntityType string    `gorm:"column:entity_type" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;column:entity_id" json:"entity_id"`
	IsRead     bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
