package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/platform/apierr"
	"github.com/NatiqIskandarli/papercut-backend/internal/repos"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type CreateRecordInput struct {
	Title        string
	Description  string
	CabinetID    uuid.UUID
	CreatorID    uuid.UUID
	Status       string
	CustomFields map[string]any
	Tags         []string
	IsTemplate   bool
	// File is the already-uploaded attachment descriptor, when one exists.
	File *FileDescriptor
	// PdfData carries raw PDF bytes for opportunistic content extraction.
	PdfData []byte
}

// RecordEdits is the partial-update payload shared by update, approve, and
// reject. Nil pointers leave the column untouched; CustomFields are
// re-validated against the cabinet schema when present.
type RecordEdits struct {
	Title        *string
	Description  *string
	Status       *string
	CustomFields map[string]any
	Tags         *[]string
}

type UpdateRecordInput struct {
	Edits   RecordEdits
	Comment string
}

type ModifyRecordInput struct {
	RecordID     uuid.UUID
	UserID       uuid.UUID
	Title        string
	Description  string
	CustomFields map[string]any
	Tags         []string
	File         *FileDescriptor
}

type RecordService interface {
	CreateRecord(ctx context.Context, tx *gorm.DB, input CreateRecordInput) (*types.Record, error)
	UpdateRecord(ctx context.Context, tx *gorm.DB, id uuid.UUID, input UpdateRecordInput, userID uuid.UUID) (*types.Record, error)
	// ModifyRecord snapshots the record's full state as a new
	// RecordOtherVersion; the original record row is never touched.
	ModifyRecord(ctx context.Context, tx *gorm.DB, input ModifyRecordInput) (*types.RecordOtherVersion, error)
	ApproveRecord(ctx context.Context, tx *gorm.DB, recordID, userID uuid.UUID, note string, edits *RecordEdits) (*types.Record, error)
	RejectRecord(ctx context.Context, tx *gorm.DB, recordID, userID uuid.UUID, comments string, edits *RecordEdits) (*types.Record, error)
	DeleteRecord(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) error
	GetRecordByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Record, error)
}

type recordService struct {
	db               *gorm.DB
	log              *logger.Logger
	recordRepo       repos.RecordRepo
	versionRepo      repos.RecordVersionRepo
	otherVersionRepo repos.RecordOtherVersionRepo
	noteRepo         repos.RecordNoteCommentRepo
	pdfFileRepo      repos.PdfFileRepo
	cabinetRepo      repos.CabinetRepo
	memberRepo       repos.CabinetMemberRepo
	userRepo         repos.UserRepo
	pdfExtract       PdfExtractService
	activity         ActivityService
	notifier         NotificationService
}

func NewRecordService(
	db *gorm.DB,
	baseLog *logger.Logger,
	recordRepo repos.RecordRepo,
	versionRepo repos.RecordVersionRepo,
	otherVersionRepo repos.RecordOtherVersionRepo,
	noteRepo repos.RecordNoteCommentRepo,
	pdfFileRepo repos.PdfFileRepo,
	cabinetRepo repos.CabinetRepo,
	memberRepo repos.CabinetMemberRepo,
	userRepo repos.UserRepo,
	pdfExtract PdfExtractService,
	activity ActivityService,
	notifier NotificationService,
) RecordService {
	return &recordService{
		db:               db,
		log:              baseLog.With("service", "RecordService"),
		recordRepo:       recordRepo,
		versionRepo:      versionRepo,
		otherVersionRepo: otherVersionRepo,
		noteRepo:         noteRepo,
		pdfFileRepo:      pdfFileRepo,
		cabinetRepo:      cabinetRepo,
		memberRepo:       memberRepo,
		userRepo:         userRepo,
		pdfExtract:       pdfExtract,
		activity:         activity,
		notifier:         notifier,
	}
}

// runInTx executes fn inside tx when one was injected, otherwise it owns a
// fresh transaction. A failed rollback is logged, never surfaced past the
// original error.
func (s *recordService) runInTx(tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	transaction := tx
	createdTx := false
	if transaction == nil {
		createdTx = true
		transaction = s.db.Begin()
		if transaction.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", transaction.Error)
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
		if err := transaction.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}
	return nil
}

func mapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(format, args...)
	}
	return err
}

func (s *recordService) CreateRecord(ctx context.Context, tx *gorm.DB, input CreateRecordInput) (*types.Record, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierr.InvalidInput("record title is required")
	}

	cabinet, err := s.cabinetRepo.GetByID(ctx, tx, input.CabinetID)
	if err != nil {
		return nil, mapNotFound(err, "cabinet %s not found", input.CabinetID)
	}
	if _, err := s.userRepo.GetByID(ctx, tx, input.CreatorID); err != nil {
		return nil, mapNotFound(err, "user %s not found", input.CreatorID)
	}

	schema := cabinet.FieldDefs()
	validated, err := ValidateFields(input.CustomFields, schema)
	if err != nil {
		return nil, err
	}

	// An attachment field carrying file metadata mirrors onto the record's
	// own file-descriptor columns unless an explicit upload already did.
	fileDesc := input.File
	if fileDesc == nil {
		fileDesc = attachmentDescriptor(validated, schema)
	}

	status := input.Status
	if status == "" {
		status = types.RecordStatusDraft
	}
	if !validRecordStatus(status) {
		return nil, apierr.InvalidInput("invalid record status %q", status)
	}

	now := time.Now().UTC()
	record := &types.Record{
		ID:           uuid.New(),
		Title:        title,
		Description:  input.Description,
		CabinetID:    cabinet.ID,
		CreatorID:    input.CreatorID,
		Status:       status,
		CustomFields: datatypes.JSON(types.MarshalJSONB(validated)),
		Tags:         datatypes.JSON(types.MarshalJSONB(tagsOrEmpty(input.Tags))),
		Version:      1,
		IsTemplate:   input.IsTemplate,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if fileDesc != nil {
		record.FileName = fileDesc.FileName
		record.FilePath = fileDesc.FilePath
		record.FileSize = fileDesc.FileSize
		record.FileType = fileDesc.FileType
		record.FileHash = fileDesc.FileHash
	}

	if err := s.runInTx(tx, func(tx *gorm.DB) error {
		_, err := s.recordRepo.Create(ctx, tx, record)
		return err
	}); err != nil {
		return nil, err
	}

	// PDF extraction is opportunistic: a failure here is logged and the
	// already-committed record stands.
	if len(input.PdfData) > 0 && s.pdfExtract != nil {
		s.persistPdfExtraction(ctx, tx, record, input.PdfData, fileDesc)
	}

	return record, nil
}

func (s *recordService) persistPdfExtraction(ctx context.Context, tx *gorm.DB, record *types.Record, pdfData []byte, fileDesc *FileDescriptor) {
	content := s.pdfExtract.ProcessPdfFile(pdfData, record.FileName)
	pdfFile := &types.PdfFile{
		ID:                uuid.New(),
		RecordID:          record.ID,
		OriginalFileName:  record.FileName,
		FileSize:          int64(len(pdfData)),
		PageCount:         content.PageCount,
		ExtractedText:     content.Text,
		ExtractedMetadata: datatypes.JSON(types.MarshalJSONB(content.Fields)),
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	if fileDesc != nil {
		pdfFile.FilePath = fileDesc.FilePath
		pdfFile.FileHash = fileDesc.FileHash
	}
	if _, err := s.pdfFileRepo.Create(ctx, tx, pdfFile); err != nil {
		s.log.Warn("pdf extraction row write failed", "record_id", record.ID, "error", err)
	}
}

func (s *recordService) UpdateRecord(ctx context.Context, tx *gorm.DB, id uuid.UUID, input UpdateRecordInput, userID uuid.UUID) (*types.Record, error) {
	record, err := s.recordRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, mapNotFound(err, "record %s not found", id)
	}
	cabinet, err := s.cabinetRepo.GetByID(ctx, tx, record.CabinetID)
	if err != nil {
		return nil, mapNotFound(err, "cabinet %s not found", record.CabinetID)
	}

	updates, err := buildRecordUpdates(&input.Edits, cabinet)
	if err != nil {
		return nil, err
	}
	updates["last_modified_by"] = userID
	updates["updated_at"] = time.Now().UTC()

	if err := s.runInTx(tx, func(tx *gorm.DB) error {
		if err := s.recordRepo.UpdateFields(ctx, tx, record.ID, updates); err != nil {
			return err
		}
		if input.Comment != "" {
			note := &types.RecordNoteComment{
				ID:       uuid.New(),
				RecordID: record.ID,
				UserID:   userID,
				Type:     types.NoteTypeComment,
				Content:  input.Comment,
			}
			if _, err := s.noteRepo.Create(ctx, tx, note); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.dispatchSideEffects(ctx, ActivityInput{
		UserID:       userID,
		Action:       ActivityActionUpdate,
		ResourceType: ResourceTypeRecord,
		ResourceID:   record.ID,
		ResourceName: record.Title,
	}, NotificationInput{
		UserID:     cabinet.CreatedByID,
		Title:      "Record updated",
		Message:    fmt.Sprintf("Record %q was updated", record.Title),
		Type:       types.NotificationTypeUpdate,
		EntityType: ResourceTypeRecord,
		EntityID:   record.ID,
	})

	return s.GetRecordByID(ctx, tx, record.ID)
}

func (s *recordService) ModifyRecord(ctx context.Context, tx *gorm.DB, input ModifyRecordInput) (*types.RecordOtherVersion, error) {
	record, err := s.recordRepo.GetByID(ctx, tx, input.RecordID)
	if err != nil {
		return nil, mapNotFound(err, "record %s not found", input.RecordID)
	}
	cabinet, err := s.cabinetRepo.GetByID(ctx, tx, record.CabinetID)
	if err != nil {
		return nil, mapNotFound(err, "cabinet %s not found", record.CabinetID)
	}
	if _, err := s.userRepo.GetByID(ctx, tx, input.UserID); err != nil {
		return nil, mapNotFound(err, "user %s not found", input.UserID)
	}

	validated, err := ValidateFields(input.CustomFields, cabinet.FieldDefs())
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = record.Title
	}
	tags := input.Tags
	if tags == nil {
		tags = record.TagList()
	}
	fileDesc := input.File
	if fileDesc == nil {
		fileDesc = &FileDescriptor{
			FileName: record.FileName,
			FilePath: record.FilePath,
			FileSize: record.FileSize,
			FileType: record.FileType,
			FileHash: record.FileHash,
		}
	}

	var snapshot *types.RecordOtherVersion
	if err := s.runInTx(tx, func(tx *gorm.DB) error {
		// Snapshot versions start at 2: the original record itself counts
		// as version 1.
		max, err := s.otherVersionRepo.MaxVersion(ctx, tx, record.ID)
		if err != nil {
			return err
		}
		next := max + 1
		if next < 2 {
			next = 2
		}
		snapshot = &types.RecordOtherVersion{
			ID:               uuid.New(),
			OriginalRecordID: record.ID,
			Version:          next,
			Title:            title,
			Description:      input.Description,
			Status:           record.Status,
			CustomFields:     datatypes.JSON(types.MarshalJSONB(validated)),
			Tags:             datatypes.JSON(types.MarshalJSONB(tagsOrEmpty(tags))),
			FileName:         fileDesc.FileName,
			FilePath:         fileDesc.FilePath,
			FileSize:         fileDesc.FileSize,
			FileType:         fileDesc.FileType,
			FileHash:         fileDesc.FileHash,
			ModifiedBy:       input.UserID,
			CreatedAt:        time.Now().UTC(),
		}
		_, err = s.otherVersionRepo.Create(ctx, tx, snapshot)
		return err
	}); err != nil {
		return nil, err
	}

	s.dispatchSideEffects(ctx, ActivityInput{
		UserID:       input.UserID,
		Action:       ActivityActionModify,
		ResourceType: ResourceTypeRecord,
		ResourceID:   record.ID,
		ResourceName: record.Title,
		Details:      map[string]any{"snapshot_version": snapshot.Version},
	}, NotificationInput{
		UserID:     cabinet.CreatedByID,
		Title:      "Record modified",
		Message:    fmt.Sprintf("A new revision of record %q was submitted", record.Title),
		Type:       types.NotificationTypeModify,
		EntityType: ResourceTypeRecord,
		EntityID:   record.ID,
	})

	return snapshot, nil
}

func (s *recordService) ApproveRecord(ctx context.Context, tx *gorm.DB, recordID, userID uuid.UUID, note string, edits *RecordEdits) (*types.Record, error) {
	record, err := s.recordRepo.GetByID(ctx, tx, recordID)
	if err != nil {
		return nil, mapNotFound(err, "record %s not found", recordID)
	}
	cabinet, err := s.cabinetRepo.GetByID(ctx, tx, record.CabinetID)
	if err != nil {
		return nil, mapNotFound(err, "cabinet %s not found", record.CabinetID)
	}

	updates, err := buildRecordUpdates(edits, cabinet)
	if err != nil {
		return nil, err
	}
	updates["status"] = types.RecordStatusApproved
	updates["last_modified_by"] = userID
	updates["updated_at"] = time.Now().UTC()

	content := note
	if content == "" {
		content = "Record approved"
	}

	if err := s.runInTx(tx, func(tx *gorm.DB) error {
		if err := s.recordRepo.UpdateFields(ctx, tx, record.ID, updates); err != nil {
			return err
		}
		systemNote := &types.RecordNoteComment{
			ID:       uuid.New(),
			RecordID: record.ID,
			UserID:   userID,
			Type:     types.NoteTypeSystem,
			Action:   types.NoteActionApprove,
			Content:  content,
		}
		_, err := s.noteRepo.Create(ctx, tx, systemNote)
		return err
	}); err != nil {
		return nil, err
	}

	s.dispatchSideEffects(ctx, ActivityInput{
		UserID:       userID,
		Action:       ActivityActionApprove,
		ResourceType: ResourceTypeRecord,
		ResourceID:   record.ID,
		ResourceName: record.Title,
	}, NotificationInput{
		UserID:     record.CreatorID,
		Title:      "Record approved",
		Message:    fmt.Sprintf("Your record %q was approved", record.Title),
		Type:       types.NotificationTypeApproval,
		EntityType: ResourceTypeRecord,
		EntityID:   record.ID,
	})

	return s.GetRecordByID(ctx, tx, record.ID)
}

func (s *recordService) RejectRecord(ctx context.Context, tx *gorm.DB, recordID, userID uuid.UUID, comments string, edits *RecordEdits) (*types.Record, error) {
	record, err := s.recordRepo.GetByID(ctx, tx, recordID)
	if err != nil {
		return nil, mapNotFound(err, "record %s not found", recordID)
	}
	cabinet, err := s.cabinetRepo.GetByID(ctx, tx, record.CabinetID)
	if err != nil {
		return nil, mapNotFound(err, "cabinet %s not found", record.CabinetID)
	}

	// Rejection is allowed for cabinet approvers and member_full members
	// only; the creator and cabinet owner get no special treatment here.
	allowed := cabinet.HasApprover(userID)
	if !allowed {
		allowed, err = s.hasMemberRole(ctx, tx, cabinet.ID, userID, types.CabinetRoleMemberFull)
		if err != nil {
			return nil, err
		}
	}
	if !allowed {
		return nil, apierr.Forbidden("user %s may not reject records in this cabinet", userID)
	}

	if record.Status != types.RecordStatusPending {
		return nil, apierr.InvalidState("only pending records can be rejected (current status: %s)", record.Status)
	}

	updates, err := buildRecordUpdates(edits, cabinet)
	if err != nil {
		return nil, err
	}
	updates["status"] = types.RecordStatusRejected
	updates["last_modified_by"] = userID
	updates["updated_at"] = time.Now().UTC()

	if err := s.runInTx(tx, func(tx *gorm.DB) error {
		if err := s.recordRepo.UpdateFields(ctx, tx, record.ID, updates); err != nil {
			return err
		}
		if comments != "" {
			rejectNote := &types.RecordNoteComment{
				ID:       uuid.New(),
				RecordID: record.ID,
				UserID:   userID,
				Type:     types.NoteTypeComment,
				Action:   types.NoteActionReject,
				Content:  comments,
			}
			if _, err := s.noteRepo.Create(ctx, tx, rejectNote); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your record %q was rejected", record.Title)
	if comments != "" {
		message = fmt.Sprintf("%s: %s", message, comments)
	}
	s.dispatchSideEffects(ctx, ActivityInput{
		UserID:       userID,
		Action:       ActivityActionReject,
		ResourceType: ResourceTypeRecord,
		ResourceID:   record.ID,
		ResourceName: record.Title,
		Details:      map[string]any{"reason": comments},
	}, NotificationInput{
		UserID:     record.CreatorID,
		Title:      "Record rejected",
		Message:    message,
		Type:       types.NotificationTypeRejection,
		EntityType: ResourceTypeRecord,
		EntityID:   record.ID,
	})

	return s.GetRecordByID(ctx, tx, record.ID)
}

func (s *recordService) DeleteRecord(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) error {
	record, err := s.recordRepo.GetByID(ctx, tx, id)
	if err != nil {
		return mapNotFound(err, "record %s not found", id)
	}
	cabinet, err := s.cabinetRepo.GetByID(ctx, tx, record.CabinetID)
	if err != nil {
		return mapNotFound(err, "cabinet %s not found", record.CabinetID)
	}

	allowed := record.CreatorID == userID ||
		cabinet.CreatedByID == userID ||
		cabinet.HasApprover(userID)
	if !allowed {
		allowed, err = s.hasMemberRole(ctx, tx, cabinet.ID, userID, types.CabinetRoleMemberFull)
		if err != nil {
			return err
		}
	}
	if !allowed {
		return apierr.Forbidden("user %s may not delete this record", userID)
	}

	// The record owns its versions, notes, snapshots, and extraction rows;
	// the whole family goes in one transaction.
	if err := s.runInTx(tx, func(tx *gorm.DB) error {
		if err := s.versionRepo.FullDeleteByRecordID(ctx, tx, record.ID); err != nil {
			return err
		}
		if err := s.noteRepo.FullDeleteByRecordID(ctx, tx, record.ID); err != nil {
			return err
		}
		if err := s.pdfFileRepo.FullDeleteByRecordID(ctx, tx, record.ID); err != nil {
			return err
		}
		if err := s.otherVersionRepo.FullDeleteByOriginalRecordID(ctx, tx, record.ID); err != nil {
			return err
		}
		return s.recordRepo.FullDeleteByID(ctx, tx, record.ID)
	}); err != nil {
		return err
	}

	if s.activity != nil {
		if err := s.activity.Log(ctx, ActivityInput{
			UserID:       userID,
			Action:       ActivityActionDelete,
			ResourceType: ResourceTypeRecord,
			ResourceID:   record.ID,
			ResourceName: record.Title,
		}); err != nil {
			s.log.Warn("post-delete activity log failed", "record_id", record.ID, "error", err)
		}
	}
	return nil
}

func (s *recordService) GetRecordByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Record, error) {
	record, err := s.recordRepo.GetByIDFull(ctx, tx, id)
	if err != nil {
		return nil, mapNotFound(err, "record %s not found", id)
	}
	normalizeRecordAttachments(record)
	return record, nil
}

func (s *recordService) hasMemberRole(ctx context.Context, tx *gorm.DB, cabinetID, userID uuid.UUID, role string) (bool, error) {
	member, err := s.memberRepo.GetByCabinetAndUser(ctx, tx, cabinetID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return member.Role == role, nil
}

// dispatchSideEffects runs the post-commit collaborators. Their failures are
// logged and swallowed: the committed mutation already succeeded from the
// caller's point of view.
func (s *recordService) dispatchSideEffects(ctx context.Context, activity ActivityInput, notification NotificationInput) {
	if s.activity != nil {
		if err := s.activity.Log(ctx, activity); err != nil {
			s.log.Warn("post-commit activity log failed", "resource_id", activity.ResourceID, "error", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, notification); err != nil {
			s.log.Warn("post-commit notification failed", "resource_id", notification.EntityID, "error", err)
		}
	}
}

// buildRecordUpdates converts partial edits into a column update map,
// re-validating custom fields against the cabinet schema when supplied.
func buildRecordUpdates(edits *RecordEdits, cabinet *types.Cabinet) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if edits == nil {
		return updates, nil
	}
	if edits.Title != nil {
		title := strings.TrimSpace(*edits.Title)
		if title == "" {
			return nil, apierr.InvalidInput("record title is required")
		}
		updates["title"] = title
	}
	if edits.Description != nil {
		updates["description"] = *edits.Description
	}
	if edits.Status != nil {
		if !validRecordStatus(*edits.Status) {
			return nil, apierr.InvalidInput("invalid record status %q", *edits.Status)
		}
		updates["status"] = *edits.Status
	}
	if edits.Tags != nil {
		updates["tags"] = datatypes.JSON(types.MarshalJSONB(tagsOrEmpty(*edits.Tags)))
	}
	if edits.CustomFields != nil {
		validated, err := ValidateFields(edits.CustomFields, cabinet.FieldDefs())
		if err != nil {
			return nil, err
		}
		updates["custom_fields"] = datatypes.JSON(types.MarshalJSONB(validated))
	}
	return updates, nil
}

func validRecordStatus(status string) bool {
	switch status {
	case types.RecordStatusDraft,
		types.RecordStatusPending,
		types.RecordStatusApproved,
		types.RecordStatusRejected,
		types.RecordStatusArchived:
		return true
	}
	return false
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// attachmentDescriptor pulls file metadata from the first schema attachment
// field that carried it, in schema order.
func attachmentDescriptor(validated map[string]types.RecordFieldValue, schema []types.CustomFieldDef) *FileDescriptor {
	for _, def := range schema {
		if def.Type != types.FieldAttachment {
			continue
		}
		fv, ok := validated[def.ID]
		if !ok {
			continue
		}
		m, ok := fv.Value.(map[string]any)
		if !ok {
			continue
		}
		desc := &FileDescriptor{
			FileName: stringValue(m["fileName"]),
			FilePath: stringValue(m["filePath"]),
			FileType: stringValue(m["fileType"]),
			FileHash: stringValue(m["fileHash"]),
		}
		if size, ok := m["fileSize"].(float64); ok {
			desc.FileSize = int64(size)
		}
		if desc.FileName != "" || desc.FilePath != "" {
			return desc
		}
	}
	return nil
}

// normalizeRecordAttachments coalesces attachment file info stored as
// top-level siblings (a legacy shape) into the value object, so callers see
// one consistent layout.
func normalizeRecordAttachments(record *types.Record) {
	if len(record.CustomFields) == 0 {
		return
	}
	var raw map[string]map[string]any
	if err := json.Unmarshal(record.CustomFields, &raw); err != nil {
		return
	}
	changed := false
	for id, entry := range raw {
		fieldType, _ := entry["type"].(string)
		if types.FieldType(fieldType) != types.FieldAttachment {
			continue
		}
		value, _ := entry["value"].(map[string]any)
		for _, key := range []string{"fileName", "filePath", "fileSize", "fileType", "fileHash"} {
			sibling, has := entry[key]
			if !has {
				continue
			}
			if value == nil {
				value = map[string]any{}
			}
			if _, present := value[key]; !present {
				value[key] = sibling
				changed = true
			}
		}
		if value != nil {
			entry["value"] = value
			raw[id] = entry
		}
	}
	if changed {
		record.CustomFields = datatypes.JSON(types.MarshalJSONB(raw))
	}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
