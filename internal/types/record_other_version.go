package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecordOtherVersion is a denormalized snapshot of a record's full state at
// the time of a modify operation. Its version counter is independent from the
// RecordVersion file lineage and starts at 2: the original record itself
// counts as version 1.
type RecordOtherVersion struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OriginalRecordID uuid.UUID `gorm:"type:uuid;column:original_record_id;not null;index" json:"original_record_id"`
	Version          int       `gorm:"column:version;not null" json:"version"`
	Title            string    `gorm:"not null" json:"title"`
	Description      string    `gorm:"column:description" json:"description"`
	Status           string    `gorm:"column:status" json:"status"`
	// CustomFields holds map[string]RecordFieldValue keyed by field id.
	CustomFields datatypes.JSON `gorm:"column:custom_fields;type:jsonb" json:"custom_fields"`
	// Tags holds []string.
	Tags       datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags"`
	FileName   string         `gorm:"column:file_name" json:"file_name"`
	FilePath   string         `gorm:"column:file_path" json:"file_path"`
	FileSize   int64          `gorm:"column:file_size" json:"file_size"`
	FileType   string         `gorm:"column:file_type" json:"file_type"`
	FileHash   string         `gorm:"column:file_hash" json:"file_hash"`
	ModifiedBy uuid.UUID      `gorm:"type:uuid;column:modified_by" json:"modified_by"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (RecordOtherVersion) TableName() string { return "record_other_versions" }
