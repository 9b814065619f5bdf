package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/repository/storage"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	ThumbnailWidth   = 200
	DisplayWidth     = 1200
	JPEGQuality      = 85

	receiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge     = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat       = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall     = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData  = errors.New("invalid image data")
	ErrReceiptsUnavailable = errors.New("receipt storage not configured")
	ErrNoReceipt           = errors.New("expense has no receipt")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptURLs holds presigned URLs for the stored receipt variants
type ReceiptURLs struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
}

// ReceiptService attaches receipt images to expenses: validates and resizes
// the upload, stores the variants in object storage and serves presigned
// URLs back. Runs disabled when no storage is configured.
type ReceiptService struct {
	storage     storage.ReceiptRepository
	expenseRepo domain.ExpenseRepository
}

// NewReceiptService creates a new ReceiptService. A nil storage disables it.
func NewReceiptService(storage storage.ReceiptRepository, expenseRepo domain.ExpenseRepository) *ReceiptService {
	return &ReceiptService{
		storage:     storage,
		expenseRepo: expenseRepo,
	}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the upload and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// receiptVariants are the sizes generated per upload. Width 0 keeps the
// source dimensions.
var receiptVariants = []struct {
	name     string
	maxWidth int
}{
	{"thumb", ThumbnailWidth},
	{"display", DisplayWidth},
}

// AttachReceipt validates and resizes the uploaded image, stores the
// variants and records the base object path on the expense. An existing
// receipt is replaced.
func (s *ReceiptService) AttachReceipt(ctx context.Context, accountID, expenseID int32, data []byte, filename string) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptsUnavailable
	}

	expense, err := s.expenseRepo.GetByID(accountID, expenseID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	if expense.ReceiptPath != nil {
		s.deleteVariants(ctx, *expense.ReceiptPath)
	}

	basePath := fmt.Sprintf("%d/receipts/%d/%s", accountID, expenseID, uuid.New().String())

	uploaded := make([]string, 0, len(receiptVariants))
	for _, variant := range receiptVariants {
		processed := img
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode receipt: %w", err)
		}

		objectPath := variantPath(basePath, variant.name)
		if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			for _, path := range uploaded {
				_ = s.storage.Delete(ctx, path)
			}
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		uploaded = append(uploaded, objectPath)
	}

	if err := s.expenseRepo.SetReceiptPath(accountID, expenseID, &basePath); err != nil {
		for _, path := range uploaded {
			_ = s.storage.Delete(ctx, path)
		}
		return nil, err
	}

	return s.presign(ctx, basePath)
}

// ReceiptURLs returns presigned URLs for the expense's stored receipt.
func (s *ReceiptService) ReceiptURLs(ctx context.Context, accountID, expenseID int32) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptsUnavailable
	}

	expense, err := s.expenseRepo.GetByID(accountID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptPath == nil {
		return nil, ErrNoReceipt
	}

	return s.presign(ctx, *expense.ReceiptPath)
}

// DeleteReceipt removes the stored variants and clears the expense's
// receipt path.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, accountID, expenseID int32) error {
	if !s.IsEnabled() {
		return ErrReceiptsUnavailable
	}

	expense, err := s.expenseRepo.GetByID(accountID, expenseID)
	if err != nil {
		return err
	}
	if expense.ReceiptPath == nil {
		return ErrNoReceipt
	}

	s.deleteVariants(ctx, *expense.ReceiptPath)
	return s.expenseRepo.SetReceiptPath(accountID, expenseID, nil)
}

// deleteVariants removes all stored variants, best effort
func (s *ReceiptService) deleteVariants(ctx context.Context, basePath string) {
	for _, variant := range receiptVariants {
		_ = s.storage.Delete(ctx, variantPath(basePath, variant.name))
	}
}

func (s *ReceiptService) presign(ctx context.Context, basePath string) (*ReceiptURLs, error) {
	thumbURL, err := s.storage.GeneratePresignedURL(ctx, variantPath(basePath, "thumb"), receiptURLExpiry)
	if err != nil {
		return nil, err
	}
	displayURL, err := s.storage.GeneratePresignedURL(ctx, variantPath(basePath, "display"), receiptURLExpiry)
	if err != nil {
		return nil, err
	}
	return &ReceiptURLs{ThumbnailURL: thumbURL, DisplayURL: displayURL}, nil
}

func variantPath(basePath, variant string) string {
	return basePath + "_" + variant + ".jpg"
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
