package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/platform/r2"
)

// FileDescriptor mirrors the file columns carried by records and versions.
type FileDescriptor struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
	FileHash string `json:"fileHash"`
}

// FileService stores uploaded record files in the bucket and produces the
// descriptor persisted alongside the record.
type FileService interface {
	UploadRecordFile(ctx context.Context, originalName, contentType string, data []byte) (*FileDescriptor, error)
	DeleteRecordFile(ctx context.Context, key string) error
}

type fileService struct {
	log    *logger.Logger
	bucket r2.BucketService
}

func NewFileService(baseLog *logger.Logger, bucket r2.BucketService) FileService {
	return &fileService{
		log:    baseLog.With("service", "FileService"),
		bucket: bucket,
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// BuildStorageKey derives the bucket key for an uploaded file. Keys are
// timestamped, so identical filenames only collide when uploaded within the
// same millisecond.
func BuildStorageKey(originalName string) string {
	name := unsafeKeyChars.ReplaceAllString(strings.TrimSpace(originalName), "_")
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("records/%d-%s", time.Now().UnixMilli(), name)
}

func (fs *fileService) UploadRecordFile(ctx context.Context, originalName, contentType string, data []byte) (*FileDescriptor, error) {
	if fs.bucket == nil {
		return nil, fmt.Errorf("bucket service not configured")
	}
	key := BuildStorageKey(originalName)
	if err := fs.bucket.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		fs.log.Error("record file upload failed", "key", key, "error", err)
		return nil, err
	}
	sum := sha256.Sum256(data)
	return &FileDescriptor{
		FileName: originalName,
		FilePath: key,
		FileSize: int64(len(data)),
		FileType: contentType,
		FileHash: hex.EncodeToString(sum[:]),
	}, nil
}

func (fs *fileService) DeleteRecordFile(ctx context.Context, key string) error {
	if fs.bucket == nil || key == "" {
		return nil
	}
	if err := fs.bucket.Delete(ctx, key); err != nil {
		fs.log.Warn("record file delete failed", "key", key, "error", err)
		return err
	}
	return nil
}
