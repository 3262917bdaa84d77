package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type CabinetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cabinet *types.Cabinet) (*types.Cabinet, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Cabinet, error)
	Update(ctx context.Context, tx *gorm.DB, cabinet *types.Cabinet) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type cabinetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCabinetRepo(db *gorm.DB, baseLog *logger.Logger) CabinetRepo {
	return &cabinetRepo{db: db, log: baseLog.With("repo", "CabinetRepo")}
}

func (r *cabinetRepo) Create(ctx context.Context, tx *gorm.DB, cabinet *types.Cabinet) (*types.Cabinet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(cabinet).Error; err != nil {
		return nil, err
	}
	return cabinet, nil
}

func (r *cabinetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Cabinet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var cabinet types.Cabinet
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&cabinet).Error; err != nil {
		return nil, err
	}
	return &cabinet, nil
}

func (r *cabinetRepo) Update(ctx context.Context, tx *gorm.DB, cabinet *types.Cabinet) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(cabinet).Error
}

func (r *cabinetRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Cabinet{}).Error
}
