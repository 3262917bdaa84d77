package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	NoteTypeNote    = "note"
	NoteTypeComment = "comment"
	NoteTypeSystem  = "system"

	NoteActionApprove = "approve"
	NoteActionReject  = "reject"
)

// RecordNoteComment is a timestamped note, comment, or system entry attached
// to a record. Retrieval is newest-first.
type RecordNoteComment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecordID  uuid.UUID `gorm:"type:uuid;column:record_id;not null;index" json:"record_id"`
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type      string    `gorm:"column:type;not null;default:'note'" json:"type"`
	Action    string    `gorm:"column:action" json:"action"`
	Content   string    `gorm:"column:content;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (RecordNoteComment) TableName() string { return "record_note_comments" }
