package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RecordStatusDraft    = "draft"
	RecordStatusPending  = "pending"
	RecordStatusApproved = "approved"
	RecordStatusRejected = "rejected"
	RecordStatusArchived = "archived"
)

type Record struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	CabinetID   uuid.UUID `gorm:"type:uuid;column:cabinet_id;not null;index" json:"cabinet_id"`
	Cabinet     *Cabinet  `gorm:"foreignKey:CabinetID;references:ID" json:"cabinet,omitempty"`
	CreatorID   uuid.UUID `gorm:"type:uuid;column:creator_id;not null;index" json:"creator_id"`
	Creator     *User     `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	Status      string    `gorm:"column:status;not null;default:'draft';index" json:"status"`
	// CustomFields holds map[string]RecordFieldValue keyed by field id.
	CustomFields datatypes.JSON `gorm:"column:custom_fields;type:jsonb" json:"custom_fields"`
	// Tags holds []string.
	Tags datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags"`

	// File descriptor columns mirror the currently-active RecordVersion.
	// Version always equals the version number of that entry.
	Version  int    `gorm:"column:version;not null;default:1" json:"version"`
	FileName string `gorm:"column:file_name" json:"file_name"`
	FilePath string `gorm:"column:file_path" json:"file_path"`
	FileSize int64  `gorm:"column:file_size" json:"file_size"`
	FileType string `gorm:"column:file_type" json:"file_type"`
	FileHash string `gorm:"column:file_hash" json:"file_hash"`

	IsTemplate     bool       `gorm:"column:is_template;not null;default:false" json:"is_template"`
	IsActive       bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastModifiedBy *uuid.UUID `gorm:"type:uuid;column:last_modified_by" json:"last_modified_by,omitempty"`

	Versions []*RecordVersion     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecordID;references:ID" json:"versions,omitempty"`
	Notes    []*RecordNoteComment `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecordID;references:ID" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Record) TableName() string { return "records" }

func (r *Record) FieldValues() map[string]RecordFieldValue {
	out := map[string]RecordFieldValue{}
	if len(r.CustomFields) == 0 {
		return out
	}
	_ = json.Unmarshal(r.CustomFields, &out)
	return out
}

func (r *Record) TagList() []string {
	var tags []string
	if len(r.Tags) == 0 {
		return tags
	}
	_ = json.Unmarshal(r.Tags, &tags)
	return tags
}
