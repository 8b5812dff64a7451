package ledger

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sourcingops/backend/internal/domain/shared"
)

// ReceiptStorage abstracts the object store holding receipt images.
// Implementations are S3-compatible; uploads and downloads go through
// presigned URLs so image bytes never pass through this service.
type ReceiptStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// allowed receipt content types, keyed by extension
var receiptContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// PresignedURL is a presigned storage URL with its expiry and the key it
// addresses.
type PresignedURL struct {
	URL        string    `json:"url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ReceiptService issues presigned URLs for receipt images attached to
// ledger transactions.
type ReceiptService struct {
	storage ReceiptStorage
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(storage ReceiptStorage) *ReceiptService {
	return &ReceiptService{storage: storage}
}

// RequestUpload issues a presigned upload URL for a new receipt image
// belonging to the given transaction.
func (s *ReceiptService) RequestUpload(ctx context.Context, transactionID uuid.UUID, contentType string) (*PresignedURL, error) {
	ext, ok := receiptContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not accepted for receipts", contentType))
	}

	key := path.Join("receipts", transactionID.String(), uuid.NewString()+ext)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to presign receipt upload: %w", err)
	}

	return &PresignedURL{URL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// RequestDownload issues a presigned download URL for a stored receipt.
func (s *ReceiptService) RequestDownload(ctx context.Context, storageKey string) (*PresignedURL, error) {
	if !validReceiptKey(storageKey) {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Not a receipt storage key")
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check receipt: %w", err)
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to presign receipt download: %w", err)
	}

	return &PresignedURL{URL: url, StorageKey: storageKey, ExpiresAt: expiresAt}, nil
}

// Delete removes a stored receipt.
func (s *ReceiptService) Delete(ctx context.Context, storageKey string) error {
	if !validReceiptKey(storageKey) {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Not a receipt storage key")
	}
	return s.storage.DeleteObject(ctx, storageKey)
}

// validReceiptKey confines key access to the receipts/ prefix so handler
// input cannot address arbitrary bucket objects.
func validReceiptKey(key string) bool {
	if !strings.HasPrefix(key, "receipts/") {
		return false
	}
	return !strings.Contains(key, "..")
}
