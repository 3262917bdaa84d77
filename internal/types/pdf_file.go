package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PdfFile holds the opportunistically extracted content of a record's PDF
// attachment. Extraction is best-effort; a record can exist without one.
type PdfFile struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecordID         uuid.UUID `gorm:"type:uuid;column:record_id;not null;uniqueIndex" json:"record_id"`
	OriginalFileName string    `gorm:"column:original_file_name" json:"original_file_name"`
	FilePath         string    `gorm:"column:file_path" json:"file_path"`
	FileSize         int64     `gorm:"column:file_size" json:"file_size"`
	FileHash         string    `gorm:"column:file_hash" json:"file_hash"`
	PageCount        int       `gorm:"column:page_count;not null;default:1" json:"page_count"`
	ExtractedText    string    `gorm:"column:extracted_text;type:text" json:"extracted_text"`
	// ExtractedMetadata holds []ExtractedField name/value guesses.
	ExtractedMetadata datatypes.JSON `gorm:"column:extracted_metadata;type:jsonb" json:"extracted_metadata"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (PdfFile) TableName() string { return "pdf_files" }
