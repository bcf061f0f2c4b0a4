package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/parcelkeep/internal/validation"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupModelsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:models_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), NewGormConfig(false))
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestFormatWeightAndPrice(t *testing.T) {
	if got := FormatWeight(2.5); got != "2.50 kg" {
		t.Fatalf("weight want 2.50 kg got %s", got)
	}
	if got := FormatPrice(50); got != "$50.00" {
		t.Fatalf("price want $50.00 got %s", got)
	}
	if got := FormatPrice(19.999); got != "$20.00" {
		t.Fatalf("price want $20.00 got %s", got)
	}
}

func TestPackageBeforeSaveRejectsInvalidAttachment(t *testing.T) {
	db := setupModelsTestDB(t)

	pkg := &Package{
		TrackingNumber: 1,
		Status:         "pending",
		SendDate:       time.Now(),
		SenderName:     "John Smith",
		RecipientID:    1,
		Origin:         "New York",
		Destination:    "Los Angeles",
		PackageWeight:  2.5,
		Price:          50,
		IDProof: Attachment{
			Data:        []byte("BM"),
			ContentType: "image/bmp",
			Size:        2,
		},
	}
	err := db.Create(pkg).Error
	var attErr *validation.AttachmentError
	if !errors.As(err, &attErr) {
		t.Fatalf("expected attachment error from hook, got %v", err)
	}

	var count int64
	db.Model(&Package{}).Count(&count)
	if count != 0 {
		t.Fatalf("invalid package should not be persisted, count=%d", count)
	}
}

func TestRecipientBeforeSaveChecksImageKind(t *testing.T) {
	db := setupModelsTestDB(t)
	recipient := &Recipient{
		RecipientName:    "Jane Doe",
		RecipientEmail:   "jane@x.com",
		RecipientContact: 1234567890,
		Address:          "123 Test Street",
		Image: Attachment{
			Data:        []byte("%PDF-1.4"),
			ContentType: "application/pdf",
			Size:        8,
		},
	}
	if err := db.Create(recipient).Error; err == nil {
		t.Fatalf("pdf image should be rejected by hook")
	}

	recipient.Image = Attachment{}
	recipient.IDProof = Attachment{Data: []byte("%PDF-1.4"), ContentType: "application/pdf", Size: 8}
	if err := db.Create(recipient).Error; err != nil {
		t.Fatalf("pdf id proof should be accepted: %v", err)
	}
}

func TestAttachmentMeta(t *testing.T) {
	if (Attachment{}).Meta() != nil {
		t.Fatalf("empty attachment meta should be nil")
	}
	meta := Attachment{Data: []byte{1, 2}, ContentType: "image/png", Size: 2}.Meta()
	if meta == nil || meta.Data != nil || meta.Size != 2 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}
