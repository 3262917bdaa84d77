package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type RecordNoteCommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, note *types.RecordNoteComment) (*types.RecordNoteComment, error)
	// GetByRecordID returns entries newest-first, optionally filtered by type.
	GetByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, noteType string) ([]*types.RecordNoteComment, error)
	// GetLatestNote returns the newest entry of type note, or nil.
	GetLatestNote(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.RecordNoteComment, error)
	FullDeleteByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error
}

type recordNoteCommentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecordNoteCommentRepo(db *gorm.DB, baseLog *logger.Logger) RecordNoteCommentRepo {
	return &recordNoteCommentRepo{db: db, log: baseLog.With("repo", "RecordNoteCommentRepo")}
}

func (r *recordNoteCommentRepo) Create(ctx context.Context, tx *gorm.DB, note *types.RecordNoteComment) (*types.RecordNoteComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *recordNoteCommentRepo) GetByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, noteType string) ([]*types.RecordNoteComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("created_at DESC")
	if noteType != "" {
		q = q.Where("type = ?", noteType)
	}
	var notes []*types.RecordNoteComment
	if err := q.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *recordNoteCommentRepo) GetLatestNote(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.RecordNoteComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var note types.RecordNoteComment
	err := transaction.WithContext(ctx).
		Where("record_id = ? AND type = ?", recordID, types.NoteTypeNote).
		Order("created_at DESC").
		Limit(1).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *recordNoteCommentRepo) FullDeleteByRecordID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("record_id = ?", recordID).
		Delete(&types.RecordNoteComment{}).Error
}
