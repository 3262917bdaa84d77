package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityLog struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	Action       string    `gorm:"column:action;not null" json:"action"`
	ResourceType string    `gorm:"column:resource_type;not null;index" json:"resource_type"`
	ResourceID   uuid.UUID `gorm:"type:uuid;column:resource_id;index" json:"resource_id"`
	ResourceName string    `gorm:"column:resource_name" json:"resource_name"`
	// Details holds a free-form map of action context.
	Details   datatypes.JSON `gorm:"column:details;type:jsonb" json:"details"`
	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
