package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/platform/apierr"
	"github.com/NatiqIskandarli/papercut-backend/internal/repos"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type CreateVersionInput struct {
	RecordID   uuid.UUID
	UploadedBy uuid.UUID
	File       FileDescriptor
	Note       string
}

// RecordVersionService manages the linear per-record file history. Creating
// a version is the only path that advances Record.version and the record's
// file-descriptor columns.
type RecordVersionService interface {
	CreateNewVersion(ctx context.Context, tx *gorm.DB, input CreateVersionInput) (*types.RecordVersion, error)
	DeleteVersion(ctx context.Context, tx *gorm.DB, versionID, userID uuid.UUID) error
	GetRecordVersions(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) ([]*types.RecordVersion, error)
	GetOtherRecordsByOriginalID(ctx context.Context, tx *gorm.DB, originalRecordID uuid.UUID) ([]*types.RecordOtherVersion, error)
}

type recordVersionService struct {
	db               *gorm.DB
	log              *logger.Logger
	recordRepo       repos.RecordRepo
	versionRepo      repos.RecordVersionRepo
	otherVersionRepo repos.RecordOtherVersionRepo
	cabinetRepo      repos.CabinetRepo
	userRepo         repos.UserRepo
}

func NewRecordVersionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	recordRepo repos.RecordRepo,
	versionRepo repos.RecordVersionRepo,
	otherVersionRepo repos.RecordOtherVersionRepo,
	cabinetRepo repos.CabinetRepo,
	userRepo repos.UserRepo,
) RecordVersionService {
	return &recordVersionService{
		db:               db,
		log:              baseLog.With("service", "RecordVersionService"),
		recordRepo:       recordRepo,
		versionRepo:      versionRepo,
		otherVersionRepo: otherVersionRepo,
		cabinetRepo:      cabinetRepo,
		userRepo:         userRepo,
	}
}

func (s *recordVersionService) runInTx(tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	transaction := tx
	createdTx := false
	if transaction == nil {
		createdTx = true
		transaction = s.db.Begin()
		if transaction.Error != nil {
			return transaction.Error
		}
	}
	if err := fn(transaction); err != nil {
		if createdTx {
			if rbErr := transaction.Rollback().Error; rbErr != nil {
				s.log.Warn("transaction rollback failed", "error", rbErr)
			}
		}
		return err
	}
	if createdTx {
		return transaction.Commit().Error
	}
	return nil
}

func (s *recordVersionService) CreateNewVersion(ctx context.Context, tx *gorm.DB, input CreateVersionInput) (*types.RecordVersion, error) {
	record, err := s.recordRepo.GetByID(ctx, tx, input.RecordID)
	if err != nil {
		return nil, mapNotFound(err, "record %s not found", input.RecordID)
	}
	if _, err := s.userRepo.GetByID(ctx, tx, input.UploadedBy); err != nil {
		return nil, mapNotFound(err, "user %s not found", input.UploadedBy)
	}

	var version *types.RecordVersion
	if err := s.runInTx(tx, func(tx *gorm.DB) error {
		max, err := s.versionRepo.MaxVersion(ctx, tx, record.ID)
		if err != nil {
			return err
		}
		next := max + 1

		version = &types.RecordVersion{
			ID:         uuid.New(),
			RecordID:   record.ID,
			Version:    next,
			FileName:   input.File.FileName,
			FilePath:   input.File.FilePath,
			FileSize:   input.File.FileSize,
			FileType:   input.File.FileType,
			FileHash:   input.File.FileHash,
			UploadedBy: input.UploadedBy,
			Note:       input.Note,
			CreatedAt:  time.Now().UTC(),
		}
		if _, err := s.versionRepo.Create(ctx, tx, version); err != nil {
			return err
		}

		// The new version becomes the record's active file.
		return s.recordRepo.UpdateFields(ctx, tx, record.ID, map[string]interface{}{
			"version":          next,
			"file_name":        input.File.FileName,
			"file_path":        input.File.FilePath,
			"file_size":        input.File.FileSize,
			"file_type":        input.File.FileType,
			"file_hash":        input.File.FileHash,
			"last_modified_by": input.UploadedBy,
			"updated_at":       time.Now().UTC(),
		})
	}); err != nil {
		return nil, err
	}

	return version, nil
}

func (s *recordVersionService) DeleteVersion(ctx context.Context, tx *gorm.DB, versionID, userID uuid.UUID) error {
	version, err := s.versionRepo.GetByID(ctx, tx, versionID)
	if err != nil {
		return mapNotFound(err, "record version %s not found", versionID)
	}
	record, err := s.recordRepo.GetByID(ctx, tx, version.RecordID)
	if err != nil {
		return mapNotFound(err, "record %s not found", version.RecordID)
	}
	cabinet, err := s.cabinetRepo.GetByID(ctx, tx, record.CabinetID)
	if err != nil {
		return mapNotFound(err, "cabinet %s not found", record.CabinetID)
	}

	// Version history is narrower than record deletion: only the record
	// creator or the cabinet owner may prune it.
	if record.CreatorID != userID && cabinet.CreatedByID != userID {
		return apierr.Forbidden("user %s may not delete versions of this record", userID)
	}

	count, err := s.versionRepo.CountByRecordID(ctx, tx, record.ID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return apierr.InvalidState("cannot delete the only version of record %s", record.ID)
	}

	return s.runInTx(tx, func(tx *gorm.DB) error {
		if err := s.versionRepo.FullDeleteByID(ctx, tx, version.ID); err != nil {
			return err
		}
		if version.Version != record.Version {
			return nil
		}
		// The active version was removed: promote the highest surviving
		// one onto the record.
		previous, err := s.versionRepo.GetHighestBelow(ctx, tx, record.ID, version.Version)
		if err != nil {
			return err
		}
		if previous == nil {
			return nil
		}
		return s.recordRepo.UpdateFields(ctx, tx, record.ID, map[string]interface{}{
			"version":          previous.Version,
			"file_name":        previous.FileName,
			"file_path":        previous.FilePath,
			"file_size":        previous.FileSize,
			"file_type":        previous.FileType,
			"file_hash":        previous.FileHash,
			"last_modified_by": userID,
			"updated_at":       time.Now().UTC(),
		})
	})
}

func (s *recordVersionService) GetRecordVersions(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) ([]*types.RecordVersion, error) {
	if _, err := s.recordRepo.GetByID(ctx, tx, recordID); err != nil {
		return nil, mapNotFound(err, "record %s not found", recordID)
	}
	return s.versionRepo.GetByRecordID(ctx, tx, recordID)
}

func (s *recordVersionService) GetOtherRecordsByOriginalID(ctx context.Context, tx *gorm.DB, originalRecordID uuid.UUID) ([]*types.RecordOtherVersion, error) {
	snapshots, err := s.otherVersionRepo.GetByOriginalRecordID(ctx, tx, originalRecordID)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, apierr.NotFound("no snapshot versions found for record %s", originalRecordID)
	}
	return snapshots, nil
}
