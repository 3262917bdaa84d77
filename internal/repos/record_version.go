package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type RecordVersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, version *types.RecordVersion) (*types.RecordVersion, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RecordVersion, error)
	// GetByRecordID returns versions newest-first.
	GetByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) ([]*types.RecordVersion, error)
	// MaxVersion returns 0 when the record has no versions.
	MaxVersion(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (int, error)
	CountByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (int64, error)
	// GetHighestBelow returns the highest-numbered version strictly below the
	// given number, or nil when none exists.
	GetHighestBelow(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, below int) (*types.RecordVersion, error)
	FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	FullDeleteByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error
}

type recordVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecordVersionRepo(db *gorm.DB, baseLog *logger.Logger) RecordVersionRepo {
	return &recordVersionRepo{db: db, log: baseLog.With("repo", "RecordVersionRepo")}
}

func (r *recordVersionRepo) Create(ctx context.Context, tx *gorm.DB, version *types.RecordVersion) (*types.RecordVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(version).Error; err != nil {
		return nil, err
	}
	return version, nil
}

func (r *recordVersionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RecordVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var version types.RecordVersion
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&version).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *recordVersionRepo) GetByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) ([]*types.RecordVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var versions []*types.RecordVersion
	if err := transaction.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("version DESC").
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *recordVersionRepo) MaxVersion(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var max *int
	if err := transaction.WithContext(ctx).
		Model(&types.RecordVersion{}).
		Where("record_id = ?", recordID).
		Select("MAX(version)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *recordVersionRepo) CountByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RecordVersion{}).
		Where("record_id = ?", recordID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recordVersionRepo) GetHighestBelow(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, below int) (*types.RecordVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var version types.RecordVersion
	err := transaction.WithContext(ctx).
		Where("record_id = ? AND version < ?", recordID, below).
		Order("version DESC").
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *recordVersionRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("id = ?", id).
		Delete(&types.RecordVersion{}).Error
}

func (r *recordVersionRepo) FullDeleteByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("record_id = ?", recordID).
		Delete(&types.RecordVersion{}).Error
}
