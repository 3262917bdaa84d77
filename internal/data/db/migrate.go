package db

import (
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity
		&types.User{},

		// Cabinets
		&types.Cabinet{},
		&types.CabinetMember{},

		// Records
		&types.Record{},
		&types.RecordVersion{},
		&types.RecordOtherVersion{},
		&types.RecordNoteComment{},
		&types.PdfFile{},

		// Side channels
		&types.ActivityLog{},
		&types.Notification{},
	)
}
