package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type PdfFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pdfFile *types.PdfFile) (*types.PdfFile, error)
	// GetByRecordID returns nil when no extraction row exists.
	GetByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.PdfFile, error)
	FullDeleteByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error
}

type pdfFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPdfFileRepo(db *gorm.DB, baseLog *logger.Logger) PdfFileRepo {
	return &pdfFileRepo{db: db, log: baseLog.With("repo", "PdfFileRepo")}
}

func (r *pdfFileRepo) Create(ctx context.Context, tx *gorm.DB, pdfFile *types.PdfFile) (*types.PdfFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(pdfFile).Error; err != nil {
		return nil, err
	}
	return pdfFile, nil
}

func (r *pdfFileRepo) GetByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.PdfFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var pdfFile types.PdfFile
	err := transaction.WithContext(ctx).
		Where("record_id = ?", recordID).
		First(&pdfFile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pdfFile, nil
}

func (r *pdfFileRepo) FullDeleteByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("record_id = ?", recordID).
		Delete(&types.PdfFile{}).Error
}
