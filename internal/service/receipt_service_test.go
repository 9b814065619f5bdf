package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennyflow/pennyflow-backend/internal/domain"
	"github.com/pennyflow/pennyflow-backend/internal/testutil"
)

// createTestImage creates a test image of the specified size and format
func createTestImage(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	var filename string

	switch format {
	case "png":
		png.Encode(&buf, img)
		filename = "receipt.png"
	default:
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		filename = "receipt.jpg"
	}

	return buf.Bytes(), filename
}

// memoryReceiptStore is an in-memory storage.ReceiptRepository
type memoryReceiptStore struct {
	objects map[string][]byte
}

func newMemoryReceiptStore() *memoryReceiptStore {
	return &memoryReceiptStore{objects: make(map[string][]byte)}
}

func (m *memoryReceiptStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.objects[objectPath] = b
	return objectPath, nil
}

func (m *memoryReceiptStore) Delete(ctx context.Context, objectPath string) error {
	delete(m.objects, objectPath)
	return nil
}

func (m *memoryReceiptStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if _, ok := m.objects[objectPath]; !ok {
		return "", errors.New("object not found")
	}
	return fmt.Sprintf("https://receipts.test/%s?signed=1", objectPath), nil
}

func newReceiptServiceFixture() (*ReceiptService, *memoryReceiptStore, *testutil.MockExpenseRepository) {
	store := newMemoryReceiptStore()
	expenseRepo := testutil.NewMockExpenseRepository(nil)
	svc := NewReceiptService(store, expenseRepo)
	return svc, store, expenseRepo
}

func addTestExpense(expenseRepo *testutil.MockExpenseRepository) *domain.Expense {
	expense := &domain.Expense{
		AccountID:  1,
		CategoryID: 1,
		Amount:     decimal.NewFromInt(10),
		Date:       time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	expenseRepo.AddExpense(expense)
	return expense
}

func TestAttachReceipt_StoresVariantsAndPath(t *testing.T) {
	svc, store, expenseRepo := newReceiptServiceFixture()
	expense := addTestExpense(expenseRepo)

	data, filename := createTestImage(1600, 1200, "jpeg")
	urls, err := svc.AttachReceipt(context.Background(), 1, expense.ID, data, filename)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if urls.ThumbnailURL == "" || urls.DisplayURL == "" {
		t.Error("expected presigned URLs for both variants")
	}
	if len(store.objects) != 2 {
		t.Errorf("expected 2 stored variants, got %d", len(store.objects))
	}
	if expense.ReceiptPath == nil {
		t.Error("expected receipt path recorded on expense")
	}
}

func TestAttachReceipt_ReplacesExisting(t *testing.T) {
	svc, store, expenseRepo := newReceiptServiceFixture()
	expense := addTestExpense(expenseRepo)

	data, filename := createTestImage(100, 100, "jpeg")
	if _, err := svc.AttachReceipt(context.Background(), 1, expense.ID, data, filename); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	firstPath := *expense.ReceiptPath

	if _, err := svc.AttachReceipt(context.Background(), 1, expense.ID, data, filename); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if *expense.ReceiptPath == firstPath {
		t.Error("expected a fresh receipt path after replacement")
	}
	// Old variants cleaned up, new pair stored
	if len(store.objects) != 2 {
		t.Errorf("expected 2 stored variants after replacement, got %d", len(store.objects))
	}
}

func TestAttachReceipt_ValidationErrors(t *testing.T) {
	svc, _, expenseRepo := newReceiptServiceFixture()
	expense := addTestExpense(expenseRepo)
	ctx := context.Background()

	t.Run("too large", func(t *testing.T) {
		data := make([]byte, MaxReceiptSize+1)
		if _, err := svc.AttachReceipt(ctx, 1, expense.ID, data, "receipt.jpg"); err != ErrReceiptTooLarge {
			t.Errorf("expected ErrReceiptTooLarge, got %v", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		data, _ := createTestImage(100, 100, "jpeg")
		if _, err := svc.AttachReceipt(ctx, 1, expense.ID, data, "receipt.gif"); err != ErrInvalidFormat {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})

	t.Run("too small", func(t *testing.T) {
		data, filename := createTestImage(30, 30, "jpeg")
		if _, err := svc.AttachReceipt(ctx, 1, expense.ID, data, filename); err != ErrReceiptTooSmall {
			t.Errorf("expected ErrReceiptTooSmall, got %v", err)
		}
	})

	t.Run("garbage data", func(t *testing.T) {
		if _, err := svc.AttachReceipt(ctx, 1, expense.ID, []byte("not an image"), "receipt.jpg"); err != ErrInvalidReceiptData {
			t.Errorf("expected ErrInvalidReceiptData, got %v", err)
		}
	})
}

func TestAttachReceipt_PNGAccepted(t *testing.T) {
	svc, _, expenseRepo := newReceiptServiceFixture()
	expense := addTestExpense(expenseRepo)

	data, filename := createTestImage(100, 100, "png")
	if _, err := svc.AttachReceipt(context.Background(), 1, expense.ID, data, filename); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestAttachReceipt_ExpenseNotFound(t *testing.T) {
	svc, _, _ := newReceiptServiceFixture()

	data, filename := createTestImage(100, 100, "jpeg")
	_, err := svc.AttachReceipt(context.Background(), 1, 999, data, filename)
	if !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestReceiptURLs_NoReceipt(t *testing.T) {
	svc, _, expenseRepo := newReceiptServiceFixture()
	expense := addTestExpense(expenseRepo)

	_, err := svc.ReceiptURLs(context.Background(), 1, expense.ID)
	if err != ErrNoReceipt {
		t.Errorf("expected ErrNoReceipt, got %v", err)
	}
}

func TestDeleteReceipt_RemovesVariantsAndPath(t *testing.T) {
	svc, store, expenseRepo := newReceiptServiceFixture()
	expense := addTestExpense(expenseRepo)

	data, filename := createTestImage(100, 100, "jpeg")
	if _, err := svc.AttachReceipt(context.Background(), 1, expense.ID, data, filename); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.DeleteReceipt(context.Background(), 1, expense.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if expense.ReceiptPath != nil {
		t.Error("expected receipt path cleared")
	}
	if len(store.objects) != 0 {
		t.Errorf("expected all variants deleted, got %d", len(store.objects))
	}
}

func TestReceiptService_DisabledWithoutStorage(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository(nil)
	svc := NewReceiptService(nil, expenseRepo)
	expense := addTestExpense(expenseRepo)

	if svc.IsEnabled() {
		t.Error("expected service disabled without storage")
	}

	data, filename := createTestImage(100, 100, "jpeg")
	if _, err := svc.AttachReceipt(context.Background(), 1, expense.ID, data, filename); err != ErrReceiptsUnavailable {
		t.Errorf("expected ErrReceiptsUnavailable, got %v", err)
	}
	if err := svc.DeleteReceipt(context.Background(), 1, expense.ID); err != ErrReceiptsUnavailable {
		t.Errorf("expected ErrReceiptsUnavailable, got %v", err)
	}
}
