package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type RecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.Record) (*types.Record, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Record, error)
	// GetByIDFull hydrates cabinet, creator, versions, and notes/comments
	// (notes newest-first).
	GetByIDFull(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Record, error)
	GetByCabinetID(ctx context.Context, tx *gorm.DB, cabinetID uuid.UUID) ([]*types.Record, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type recordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecordRepo(db *gorm.DB, baseLog *logger.Logger) RecordRepo {
	return &recordRepo{db: db, log: baseLog.With("repo", "RecordRepo")}
}

func (r *recordRepo) Create(ctx context.Context, tx *gorm.DB, record *types.Record) (*types.Record, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *recordRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Record, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var record types.Record
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepo) GetByIDFull(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Record, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var record types.Record
	if err := transaction.WithContext(ctx).
		Preload("Cabinet").
		Preload("Creator").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("record_versions.version DESC")
		}).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("record_note_comments.created_at DESC")
		}).
		Preload("Notes.User").
		Where("id = ?", id).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepo) GetByCabinetID(ctx context.Context, tx *gorm.DB, cabinetID uuid.UUID) ([]*types.Record, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var records []*types.Record
	if err := transaction.WithContext(ctx).
		Where("cabinet_id = ?", cabinetID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Record{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *recordRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("id = ?", id).
		Delete(&types.Record{}).Error
}
