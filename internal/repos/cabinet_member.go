package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type CabinetMemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, member *types.CabinetMember) (*types.CabinetMember, error)
	GetByCabinetAndUser(ctx context.Context, tx *gorm.DB, cabinetID, userID uuid.UUID) (*types.CabinetMember, error)
	GetByCabinetID(ctx context.Context, tx *gorm.DB, cabinetID uuid.UUID) ([]*types.CabinetMember, error)
	DeleteByCabinetAndUser(ctx context.Context, tx *gorm.DB, cabinetID, userID uuid.UUID) error
}

type cabinetMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCabinetMemberRepo(db *gorm.DB, baseLog *logger.Logger) CabinetMemberRepo {
	return &cabinetMemberRepo{db: db, log: baseLog.With("repo", "CabinetMemberRepo")}
}

func (r *cabinetMemberRepo) Create(ctx context.Context, tx *gorm.DB, member *types.CabinetMember) (*types.CabinetMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

func (r *cabinetMemberRepo) GetByCabinetAndUser(ctx context.Context, tx *gorm.DB, cabinetID, userID uuid.UUID) (*types.CabinetMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var member types.CabinetMember
	if err := transaction.WithContext(ctx).
		Where("cabinet_id = ? AND user_id = ?", cabinetID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *cabinetMemberRepo) GetByCabinetID(ctx context.Context, tx *gorm.DB, cabinetID uuid.UUID) ([]*types.CabinetMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var members []*types.CabinetMember
	if err := transaction.WithContext(ctx).
		Where("cabinet_id = ?", cabinetID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *cabinetMemberRepo) DeleteByCabinetAndUser(ctx context.Context, tx *gorm.DB, cabinetID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("cabinet_id = ? AND user_id = ?", cabinetID, userID).
		Delete(&types.CabinetMember{}).Error
}
