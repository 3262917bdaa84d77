package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/NatiqIskandarli/papercut-backend/internal/repos/testutil"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

func TestRecordRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecordRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "recordrepo@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, nil)
	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, owner.ID, types.RecordStatusDraft)

	got, err := repo.GetByID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != record.ID {
		t.Fatalf("GetByID: unexpected record %+v", got)
	}

	if err := repo.UpdateFields(ctx, tx, record.ID, map[string]interface{}{
		"title":  "updated",
		"status": types.RecordStatusPending,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Title != "updated" || got.Status != types.RecordStatusPending {
		t.Fatalf("UpdateFields: unexpected result %+v", got)
	}

	byCabinet, err := repo.GetByCabinetID(ctx, tx, cabinet.ID)
	if err != nil {
		t.Fatalf("GetByCabinetID: %v", err)
	}
	if len(byCabinet) != 1 {
		t.Fatalf("GetByCabinetID: expected 1 record, got %d", len(byCabinet))
	}

	if err := repo.FullDeleteByID(ctx, tx, record.ID); err != nil {
		t.Fatalf("FullDeleteByID: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, record.ID); err == nil {
		t.Fatalf("expected not-found after hard delete")
	}
}

func TestRecordRepoGetByIDFullHydrates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecordRepo(db, testutil.Logger(t))
	noteRepo := NewRecordNoteCommentRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "recordfull@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, nil)
	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, owner.ID, types.RecordStatusDraft)
	testutil.SeedRecordVersion(t, ctx, tx, record.ID, owner.ID, 1)
	testutil.SeedRecordVersion(t, ctx, tx, record.ID, owner.ID, 2)
	if _, err := noteRepo.Create(ctx, tx, &types.RecordNoteComment{
		ID:       uuid.New(),
		RecordID: record.ID,
		UserID:   owner.ID,
		Type:     types.NoteTypeComment,
		Content:  "hello",
	}); err != nil {
		t.Fatalf("note Create: %v", err)
	}

	full, err := repo.GetByIDFull(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetByIDFull: %v", err)
	}
	if full.Cabinet == nil || full.Cabinet.ID != cabinet.ID {
		t.Fatalf("expected hydrated cabinet, got %+v", full.Cabinet)
	}
	if full.Creator == nil || full.Creator.ID != owner.ID {
		t.Fatalf("expected hydrated creator, got %+v", full.Creator)
	}
	if len(full.Versions) != 2 || full.Versions[0].Version != 2 {
		t.Fatalf("expected versions newest-first, got %+v", full.Versions)
	}
	if len(full.Notes) != 1 || full.Notes[0].Content != "hello" {
		t.Fatalf("expected hydrated notes, got %+v", full.Notes)
	}
}

func TestRecordVersionRepoMaxAndHighestBelow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecordVersionRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "versionrepo@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, nil)
	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, owner.ID, types.RecordStatusDraft)

	max, err := repo.MaxVersion(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("MaxVersion (empty): %v", err)
	}
	if max != 0 {
		t.Fatalf("MaxVersion (empty): expected 0, got %d", max)
	}

	testutil.SeedRecordVersion(t, ctx, tx, record.ID, owner.ID, 1)
	testutil.SeedRecordVersion(t, ctx, tx, record.ID, owner.ID, 2)
	testutil.SeedRecordVersion(t, ctx, tx, record.ID, owner.ID, 3)

	max, err = repo.MaxVersion(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("MaxVersion: %v", err)
	}
	if max != 3 {
		t.Fatalf("MaxVersion: expected 3, got %d", max)
	}

	below, err := repo.GetHighestBelow(ctx, tx, record.ID, 3)
	if err != nil {
		t.Fatalf("GetHighestBelow: %v", err)
	}
	if below == nil || below.Version != 2 {
		t.Fatalf("GetHighestBelow: expected version 2, got %+v", below)
	}

	below, err = repo.GetHighestBelow(ctx, tx, record.ID, 1)
	if err != nil {
		t.Fatalf("GetHighestBelow (none): %v", err)
	}
	if below != nil {
		t.Fatalf("GetHighestBelow (none): expected nil, got %+v", below)
	}
}

func TestRecordNoteCommentRepoFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecordNoteCommentRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "noterepo@example.com")
	cabinet := testutil.SeedCabinet(t, ctx, tx, owner.ID, nil)
	record := testutil.SeedRecord(t, ctx, tx, cabinet.ID, owner.ID, types.RecordStatusDraft)

	for _, n := range []struct {
		noteType string
		content  string
	}{
		{types.NoteTypeNote, "a note"},
		{types.NoteTypeComment, "a comment"},
		{types.NoteTypeSystem, "approved"},
	} {
		if _, err := repo.Create(ctx, tx, &types.RecordNoteComment{
			ID:       uuid.New(),
			RecordID: record.ID,
			UserID:   owner.ID,
			Type:     n.noteType,
			Content:  n.content,
		}); err != nil {
			t.Fatalf("Create %s: %v", n.noteType, err)
		}
	}

	all, err := repo.GetByRecordID(ctx, tx, record.ID, "")
	if err != nil {
		t.Fatalf("GetByRecordID: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(all))
	}

	comments, err := repo.GetByRecordID(ctx, tx, record.ID, types.NoteTypeComment)
	if err != nil {
		t.Fatalf("GetByRecordID (filtered): %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "a comment" {
		t.Fatalf("expected only the comment, got %+v", comments)
	}

	latest, err := repo.GetLatestNote(ctx, tx, record.ID)
	if err != nil {
		t.Fatalf("GetLatestNote: %v", err)
	}
	if latest == nil || latest.Content != "a note" {
		t.Fatalf("expected the note back, got %+v", latest)
	}
}

func TestPdfFileRepoNilOnMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPdfFileRepo(db, testutil.Logger(t))

	got, err := repo.GetByRecordID(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("GetByRecordID (missing): %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing pdf file, got %+v", got)
	}
}
