package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type RecordOtherVersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, snapshot *types.RecordOtherVersion) (*types.RecordOtherVersion, error)
	// GetByOriginalRecordID returns snapshots newest-first.
	GetByOriginalRecordID(ctx context.Context, tx *gorm.DB, originalRecordID uuid.UUID) ([]*types.RecordOtherVersion, error)
	// MaxVersion returns 0 when the record has no snapshots.
	MaxVersion(ctx context.Context, tx *gorm.DB, originalRecordID uuid.UUID) (int, error)
	FullDeleteByOriginalRecordID(ctx context.Context, tx *gorm.DB, originalRecordID uuid.UUID) error
}

type recordOtherVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecordOtherVersionRepo(db *gorm.DB, baseLog *logger.Logger) RecordOtherVersionRepo {
	return &recordOtherVersionRepo{db: db, log: baseLog.With("repo", "RecordOtherVersionRepo")}
}

func (r *recordOtherVersionRepo) Create(ctx context.Context, tx *gorm.DB, snapshot *types.RecordOtherVersion) (*types.RecordOtherVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *recordOtherVersionRepo) GetByOriginalRecordID(ctx context.Context, tx *gorm.DB, originalRecordID uuid.UUID) ([]*types.RecordOtherVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var snapshots []*types.RecordOtherVersion
	if err := transaction.WithContext(ctx).
		Where("original_record_id = ?", originalRecordID).
		Order("version DESC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *recordOtherVersionRepo) MaxVersion(ctx context.Context, tx *gorm.DB, originalRecordID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var max *int
	if err := transaction.WithContext(ctx).
		Model(&types.RecordOtherVersion{}).
		Where("original_record_id = ?", originalRecordID).
		Select("MAX(version)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *recordOtherVersionRepo) FullDeleteByOriginalRecordID(ctx context.Context, tx *gorm.DB, originalRecordID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("original_record_id = ?", originalRecordID).
		Delete(&types.RecordOtherVersion{}).Error
}
