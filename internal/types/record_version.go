package types

import (
	"time"

	"github.com/google/uuid"
)

// RecordVersion is one append-only file-revision entry for a record.
// Version numbers are unique per record and strictly increasing.
type RecordVersion struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecordID   uuid.UUID `gorm:"type:uuid;column:record_id;not null;index:idx_record_version,unique" json:"record_id"`
	Version    int       `gorm:"column:version;not null;index:idx_record_version,unique" json:"version"`
	FileName   string    `gorm:"column:file_name" json:"file_name"`
	FilePath   string    `gorm:"column:file_path" json:"file_path"`
	FileSize   int64     `gorm:"column:file_size" json:"file_size"`
	FileType   string    `gorm:"column:file_type" json:"file_type"`
	FileHash   string    `gorm:"column:file_hash" json:"file_hash"`
	UploadedBy uuid.UUID `gorm:"type:uuid;column:uploaded_by" json:"uploaded_by"`
	Note       string    `gorm:"column:note" json:"note"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (RecordVersion) TableName() string { return "record_versions" }
