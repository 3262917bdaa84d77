package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      "member",
		IsActive:  true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCabinet(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, defs []types.CustomFieldDef, approverIDs ...uuid.UUID) *types.Cabinet {
	tb.Helper()
	approvers := make([]types.CabinetApprover, 0, len(approverIDs))
	for _, id := range approverIDs {
		approvers = append(approvers, types.CabinetApprover{UserID: id.String()})
	}
	c := &types.Cabinet{
		ID:           uuid.New(),
		Name:         "cabinet",
		CustomFields: datatypes.JSON(types.MarshalJSONB(defs)),
		Approvers:    datatypes.JSON(types.MarshalJSONB(approvers)),
		CreatedByID:  ownerID,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed cabinet: %v", err)
	}
	return c
}

func SeedCabinetMember(tb testing.TB, ctx context.Context, tx *gorm.DB, cabinetID, userID uuid.UUID, role string) *types.CabinetMember {
	tb.Helper()
	m := &types.CabinetMember{
		ID:        uuid.New(),
		CabinetID: cabinetID,
		UserID:    userID,
		Role:      role,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed cabinet member: %v", err)
	}
	return m
}

func SeedRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, cabinetID, creatorID uuid.UUID, status string) *types.Record {
	tb.Helper()
	r := &types.Record{
		ID:           uuid.New(),
		Title:        "record",
		CabinetID:    cabinetID,
		CreatorID:    creatorID,
		Status:       status,
		CustomFields: datatypes.JSON([]byte("{}")),
		Tags:         datatypes.JSON([]byte("[]")),
		Version:      1,
		IsActive:     true,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed record: %v", err)
	}
	return r
}

func SeedRecordVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, recordID, uploadedBy uuid.UUID, version int) *types.RecordVersion {
	tb.Helper()
	v := &types.RecordVersion{
		ID:         uuid.New(),
		RecordID:   recordID,
		Version:    version,
		FileName:   fmt.Sprintf("file-v%d.pdf", version),
		FilePath:   fmt.Sprintf("records/file-v%d.pdf", version),
		FileSize:   1024,
		FileType:   "application/pdf",
		FileHash:   fmt.Sprintf("hash-%d", version),
		UploadedBy: uploadedBy,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed record version: %v", err)
	}
	return v
}

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }
