package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/platform/apierr"
	"github.com/NatiqIskandarli/papercut-backend/internal/repos"
	"github.com/NatiqIskandarli/papercut-backend/internal/repos/testutil"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

type activityRecorder struct {
	entries []ActivityInput
}

func (a *activityRecorder) Log(ctx context.Context, input ActivityInput) error {
	a.entries = append(a.entries, input)
	return nil
}

type notificationRecorder struct {
	entries []NotificationInput
}

func (n *notificationRecorder) Notify(ctx context.Context, input NotificationInput) error {
	n.entries = append(n.entries, input)
	return nil
}

type recordHarness struct {
	svc         RecordService
	versionRepo repos.RecordVersionRepo
	noteRepo    repos.RecordNoteCommentRepo
	otherRepo   repos.RecordOtherVersionRepo
	recordRepo  repos.RecordRepo
	pdfFileRepo repos.PdfFileRepo
	activity    *activityRecorder
	notifier    *notificationRecorder
}

func newRecordHarness(t *testing.T, db *gorm.DB) *recordHarness {
	t.Helper()
	log := testutil.Logger(t)
	recordRepo := repos.NewRecordRepo(db, log)
	versionRepo := repos.NewRecordVersionRepo(db, log)
	otherRepo := repos.NewRecordOtherVersionRepo(db, log)
	noteRepo := repos.NewRecordNoteCommentRepo(db, log)
	pdfFileRepo := repos.NewPdfFileRepo(db, log)
	cabinetRepo := repos.NewCabinetRepo(db, log)
	memberRepo := repos.NewCabinetMemberRepo(db, log)
	userRepo := repos.NewUserRepo(db, log)

	activity := &activityRecorder{}
	notifier := &notificationRecorder{}
	pdfExtract := NewPdfExtractService(log, t.TempDir())
	svc := NewRecordService(db, log, recordRepo, versionRepo, otherRepo, noteRepo, pdfFileRepo, cabinetRepo, memberRepo, userRepo, pdfExtract, activity, notifier)
	return &recordHarness{
		svc:         svc,
		versionRepo: versionRepo,
		noteRepo:    noteRepo,
		otherRepo:   otherRepo,
		recordRepo:  recordRepo,
		pdfFileRepo: pdfFileRepo,
		activity:    activity,
		notifier:    notifier,
	}
}

func TestCreateRecordStoresValidatedFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	creator := testutil.SeedUser(t, ctx, tx, "creator-create@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, creator.ID, []types.CustomFieldDef{
		{ID: "inv", Name: "Invoice No", Type: types.FieldTextWithSymbols, IsMandatory: true},
		{ID: "amt", Name: "Amount", Type: types.FieldCurrency},
	})

	record, err := h.svc.CreateRecord(ctx, tx, CreateRecordInput{
		Title:     "  March invoice  ",
		CabinetID: cabinet.ID,
		CreatorID: creator.ID,
		CustomFields: map[string]any{
			"inv": "INV-7",
			"amt": "120.50",
			"zzz": "not in schema",
		},
		Tags: []string{"finance"},
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if record.Title != "March invoice" {
		t.Fatalf("expected trimmed title, got %q", record.Title)
	}
	if record.Version != 1 {
		t.Fatalf("expected version 1, got %d", record.Version)
	}
	if record.Status != types.RecordStatusDraft {
		t.Fatalf("expected draft status, got %q", record.Status)
	}

	values := record.FieldValues()
	if values["inv"].Value != "INV-7" {
		t.Fatalf("expected validated inv field, got %+v", values["inv"])
	}
	if values["amt"].Value != 120.5 {
		t.Fatalf("expected normalized currency, got %+v", values["amt"])
	}
	if _, ok := values["zzz"]; ok {
		t.Fatalf("expected non-schema key to be dropped")
	}

	// A fresh record has no version history rows yet.
	count, err := h.versionRepo.CountByRecordID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("CountByRecordID: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no version rows after create, got %d", count)
	}
}

func TestCreateRecordRejectsInvalidInput(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	creator := testutil.SeedUser(t, ctx, tx, "creator-invalid@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, creator.ID, []types.CustomFieldDef{
		{ID: "inv", Name: "Invoice No", Type: types.FieldTextWithSymbols, IsMandatory: true},
	})

	if _, err := h.svc.CreateRecord(ctx, tx, CreateRecordInput{
		Title:     "   ",
		CabinetID: cabinet.ID,
		CreatorID: creator.ID,
	}); apierr.CodeOf(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected invalid_input for blank title, got %v", err)
	}

	if _, err := h.svc.CreateRecord(ctx, tx, CreateRecordInput{
		Title:     "no mandatory field",
		CabinetID: cabinet.ID,
		CreatorID: creator.ID,
	}); apierr.CodeOf(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected invalid_input for missing mandatory field, got %v", err)
	}

	if _, err := h.svc.CreateRecord(ctx, tx, CreateRecordInput{
		Title:        "missing cabinet",
		CabinetID:    uuid.New(),
		CreatorID:    creator.ID,
		CustomFields: map[string]any{"inv": "x"},
	}); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found for missing cabinet, got %v", err)
	}

	records, err := h.recordRepo.GetByCabinetID(ctx, tx, cabinet.ID)
	if err != nil {
		t.Fatalf("GetByCabinetID: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records persisted after failed creates, got %d", len(records))
	}
}

func TestCreateRecordMirrorsAttachmentFileInfo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	creator := testutil.SeedUser(t, ctx, tx, "creator-attach@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, creator.ID, []types.CustomFieldDef{
		{ID: "doc", Name: "Document", Type: types.FieldAttachment},
	})

	record, err := h.svc.CreateRecord(ctx, tx, CreateRecordInput{
		Title:     "with attachment",
		CabinetID: cabinet.ID,
		CreatorID: creator.ID,
		CustomFields: map[string]any{
			"doc": map[string]any{
				"fileName": "contract.pdf",
				"filePath": "records/123-contract.pdf",
				"fileSize": float64(2048),
				"fileType": "application/pdf",
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if record.FileName != "contract.pdf" || record.FilePath != "records/123-contract.pdf" {
		t.Fatalf("expected mirrored file descriptor, got %q %q", record.FileName, record.FilePath)
	}
	if record.FileSize != 2048 {
		t.Fatalf("expected mirrored file size, got %d", record.FileSize)
	}
}

func TestCreateRecordPersistsPdfExtraction(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	creator := testutil.SeedUser(t, ctx, tx, "creator-pdf@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, creator.ID, nil)

	pdfData := []byte("not really a pdf but plenty of bytes to size it")
	record, err := h.svc.CreateRecord(ctx, tx, CreateRecordInput{
		Title:     "Scanned contract",
		CabinetID: cabinet.ID,
		CreatorID: creator.ID,
		File: &FileDescriptor{
			FileName: "contract.pdf",
			FilePath: "records/55-contract.pdf",
			FileSize: int64(len(pdfData)),
			FileType: "application/pdf",
		},
		PdfData: pdfData,
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	pdfFile, err := h.pdfFileRepo.GetByRecordID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByRecordID: %v", err)
	}
	if pdfFile == nil {
		t.Fatalf("expected a pdf extraction row")
	}
	if pdfFile.OriginalFileName != "contract.pdf" {
		t.Fatalf("expected original file name, got %q", pdfFile.OriginalFileName)
	}
	if pdfFile.FilePath != "records/55-contract.pdf" {
		t.Fatalf("expected descriptor path, got %q", pdfFile.FilePath)
	}
	if pdfFile.FileSize != int64(len(pdfData)) {
		t.Fatalf("expected file size %d, got %d", len(pdfData), pdfFile.FileSize)
	}
	// Garbage bytes degrade to the fixed fallback metadata.
	if pdfFile.PageCount != 1 {
		t.Fatalf("expected fallback page count 1, got %d", pdfFile.PageCount)
	}
	if pdfFile.ExtractedText == "" {
		t.Fatalf("expected fallback extracted text")
	}
}

func TestCreateRecordRejectsUnknownStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	creator := testutil.SeedUser(t, ctx, tx, "creator-status@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, creator.ID, nil)

	_, err := h.svc.CreateRecord(ctx, tx, CreateRecordInput{
		Title:     "Bad status",
		CabinetID: cabinet.ID,
		CreatorID: creator.ID,
		Status:    "published",
	})
	if apierr.CodeOf(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected invalid_input for unknown status, got %v", err)
	}
}

func TestUpdateRecordRejectsUnknownStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "owner-status@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, nil)
	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, owner.ID, types.RecordStatusDraft)

	bogus := "published"
	_, err := h.svc.UpdateRecord(ctx, tx, record.ID, UpdateRecordInput{
		Edits: RecordEdits{Status: &bogus},
	}, owner.ID)
	if apierr.CodeOf(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected invalid_input for unknown status, got %v", err)
	}

	pending := types.RecordStatusPending
	updated, err := h.svc.UpdateRecord(ctx, tx, record.ID, UpdateRecordInput{
		Edits: RecordEdits{Status: &pending},
	}, owner.ID)
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if updated.Status != types.RecordStatusPending {
		t.Fatalf("expected pending status, got %q", updated.Status)
	}
}

func TestUpdateRecordCommentAndSideEffects(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "owner-update@example.com")
	editor := testutil.SeedUser(t, ctx, tx, "editor-update@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, nil)
	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, editor.ID, types.RecordStatusDraft)

	newTitle := "renamed"
	updated, err := h.svc.UpdateRecord(ctx, tx, record.ID, UpdateRecordInput{
		Edits:   RecordEdits{Title: &newTitle},
		Comment: "fixed the title",
	}, editor.ID)
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if updated.Title != "renamed" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	if updated.LastModifiedBy == nil || *updated.LastModifiedBy != editor.ID {
		t.Fatalf("expected last_modified_by to be the editor, got %v", updated.LastModifiedBy)
	}

	notes, err := h.noteRepo.GetByRecordID(ctx, tx, record.ID, types.NoteTypeComment)
	if err != nil {
		t.Fatalf("GetByRecordID: %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "fixed the title" {
		t.Fatalf("expected one comment note, got %+v", notes)
	}

	if len(h.activity.entries) != 1 || h.activity.entries[0].Action != ActivityActionUpdate {
		t.Fatalf("expected one update activity entry, got %+v", h.activity.entries)
	}
	if len(h.notifier.entries) != 1 || h.notifier.entries[0].UserID != owner.ID {
		t.Fatalf("expected cabinet owner notification, got %+v", h.notifier.entries)
	}
}

func TestModifyRecordSnapshotsWithoutTouchingOriginal(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "owner-modify@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, []types.CustomFieldDef{
		{ID: "n", Name: "Notes", Type: types.FieldTextOnly},
	})
	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, owner.ID, types.RecordStatusApproved)

	first, err := h.svc.ModifyRecord(ctx, tx, ModifyRecordInput{
		RecordID:     record.ID,
		UserID:       owner.ID,
		Title:        "revised once",
		CustomFields: map[string]any{"n": "v2 content"},
	})
	if err != nil {
		t.Fatalf("ModifyRecord: %v", err)
	}
	if first.Version != 2 {
		t.Fatalf("expected first snapshot at version 2, got %d", first.Version)
	}

	second, err := h.svc.ModifyRecord(ctx, tx, ModifyRecordInput{
		RecordID: record.ID,
		UserID:   owner.ID,
		Title:    "revised twice",
	})
	if err != nil {
		t.Fatalf("ModifyRecord (second): %v", err)
	}
	if second.Version != 3 {
		t.Fatalf("expected second snapshot at version 3, got %d", second.Version)
	}

	// The live record is untouched by snapshots.
	reloaded, err := h.recordRepo.GetByID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Title != record.Title || reloaded.Version != record.Version {
		t.Fatalf("expected original record untouched, got title=%q version=%d", reloaded.Title, reloaded.Version)
	}
}

func TestApproveRecord(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "owner-approve@example.com")
	creator := testutil.SeedUser(t, ctx, tx, "creator-approve@example.com")
	approver := testutil.SeedUser(t, ctx, tx, "approver-approve@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, nil, approver.ID)
	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, creator.ID, types.RecordStatusPending)

	approved, err := h.svc.ApproveRecord(ctx, tx, record.ID, approver.ID, "looks good", nil)
	if err != nil {
		t.Fatalf("ApproveRecord: %v", err)
	}
	if approved.Status != types.RecordStatusApproved {
		t.Fatalf("expected approved status, got %q", approved.Status)
	}

	notes, err := h.noteRepo.GetByRecordID(ctx, tx, record.ID, types.NoteTypeSystem)
	if err != nil {
		t.Fatalf("GetByRecordID: %v", err)
	}
	if len(notes) != 1 || notes[0].Action != types.NoteActionApprove || notes[0].Content != "looks good" {
		t.Fatalf("expected approval system note, got %+v", notes)
	}

	if len(h.notifier.entries) != 1 || h.notifier.entries[0].UserID != creator.ID {
		t.Fatalf("expected approval notification to creator, got %+v", h.notifier.entries)
	}
	if h.notifier.entries[0].Type != types.NotificationTypeApproval {
		t.Fatalf("expected approval notification type, got %q", h.notifier.entries[0].Type)
	}
}

func TestRejectRecordPermissionAndState(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "owner-reject@example.com")
	creator := testutil.SeedUser(t, ctx, tx, "creator-reject@example.com")
	approver := testutil.SeedUser(t, ctx, tx, "approver-reject@example.com")
	outsider := testutil.SeedUser(t, ctx, tx, "outsider-reject@example.com")
	member := testutil.SeedUser(t, ctx, tx, "member-reject@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, nil, approver.ID)
	testutil.SeedCabinetMember(t, ctx, tx, cabinet.ID, member.ID, types.CabinetRoleMemberFull)

	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, creator.ID, types.RecordStatusPending)

	if _, err := h.svc.RejectRecord(ctx, tx, record.ID, outsider.ID, "nope", nil); apierr.CodeOf(err) != apierr.CodeForbidden {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}

	draft := testutil.SeedRecord(t, ctx, tx, cabinet.ID, creator.ID, types.RecordStatusDraft)
	if _, err := h.svc.RejectRecord(ctx, tx, draft.ID, approver.ID, "nope", nil); apierr.CodeOf(err) != apierr.CodeInvalidState {
		t.Fatalf("expected invalid_state for non-pending record, got %v", err)
	}

	rejected, err := h.svc.RejectRecord(ctx, tx, record.ID, approver.ID, "missing signature", nil)
	if err != nil {
		t.Fatalf("RejectRecord: %v", err)
	}
	if rejected.Status != types.RecordStatusRejected {
		t.Fatalf("expected rejected status, got %q", rejected.Status)
	}

	notes, err := h.noteRepo.GetByRecordID(ctx, tx, record.ID, types.NoteTypeComment)
	if err != nil {
		t.Fatalf("GetByRecordID: %v", err)
	}
	if len(notes) != 1 || notes[0].Action != types.NoteActionReject {
		t.Fatalf("expected rejection comment note, got %+v", notes)
	}

	if len(h.notifier.entries) != 1 || h.notifier.entries[0].UserID != creator.ID {
		t.Fatalf("expected rejection notification to creator, got %+v", h.notifier.entries)
	}
	if h.notifier.entries[0].Type != types.NotificationTypeRejection {
		t.Fatalf("expected rejection notification type, got %q", h.notifier.entries[0].Type)
	}

	// member_full membership also grants rejection rights.
	pending := testutil.SeedRecord(t, ctx, tx, cabinet.ID, creator.ID, types.RecordStatusPending)
	if _, err := h.svc.RejectRecord(ctx, tx, pending.ID, member.ID, "", nil); err != nil {
		t.Fatalf("RejectRecord by member_full: %v", err)
	}
}

func TestDeleteRecordPermissionsAndCascade(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "owner-delete@example.com")
	creator := testutil.SeedUser(t, ctx, tx, "creator-delete@example.com")
	outsider := testutil.SeedUser(t, ctx, tx, "outsider-delete@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, nil)
	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, creator.ID, types.RecordStatusDraft)
	testutil.SeedRecordVersion(t, ctx, tx, record.ID, creator.ID, 1)
	testutil.SeedRecordVersion(t, ctx, tx, record.ID, creator.ID, 2)
	if _, err := h.noteRepo.Create(ctx, tx, &types.RecordNoteComment{
		ID:       uuid.New(),
		RecordID: record.ID,
		UserID:   creator.ID,
		Type:     types.NoteTypeComment,
		Content:  "leftover comment",
	}); err != nil {
		t.Fatalf("seed note: %v", err)
	}
	if _, err := h.pdfFileRepo.Create(ctx, tx, &types.PdfFile{
		ID:               uuid.New(),
		RecordID:         record.ID,
		OriginalFileName: "scan.pdf",
	}); err != nil {
		t.Fatalf("seed pdf file: %v", err)
	}
	if _, err := h.otherRepo.Create(ctx, tx, &types.RecordOtherVersion{
		ID:               uuid.New(),
		OriginalRecordID: record.ID,
		Version:          2,
		Title:            record.Title,
		ModifiedBy:       creator.ID,
	}); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	if err := h.svc.DeleteRecord(ctx, tx, record.ID, outsider.ID); apierr.CodeOf(err) != apierr.CodeForbidden {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}

	if err := h.svc.DeleteRecord(ctx, tx, record.ID, creator.ID); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}

	if _, err := h.recordRepo.GetByID(ctx, tx, record.ID); apierr.CodeOf(mapNotFound(err, "record")) != apierr.CodeNotFound {
		t.Fatalf("expected record gone, got %v", err)
	}
	count, err := h.versionRepo.CountByRecordID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("CountByRecordID: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected version rows deleted, got %d", count)
	}
	notes, err := h.noteRepo.GetByRecordID(ctx, tx, record.ID, "")
	if err != nil {
		t.Fatalf("GetByRecordID notes: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected note rows deleted, got %d", len(notes))
	}
	pdfFile, err := h.pdfFileRepo.GetByRecordID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByRecordID pdf: %v", err)
	}
	if pdfFile != nil {
		t.Fatalf("expected pdf extraction row deleted, got %+v", pdfFile)
	}
	snapshots, err := h.otherRepo.GetByOriginalRecordID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByOriginalRecordID: %v", err)
	}
	if len(snapshots) != 0 {
		t.Fatalf("expected snapshot rows deleted, got %d", len(snapshots))
	}
}

func TestDeleteRecordMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	h := newRecordHarness(t, db)

	user := testutil.SeedUser(t, ctx, tx, "user-delete-missing@example.com")
	if err := h.svc.DeleteRecord(ctx, tx, uuid.New(), user.ID); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
