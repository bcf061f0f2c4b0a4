package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/parcelkeep/internal/constants"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/repository"
	"github.com/parcelkeep/internal/validation"
)

func TestPackageCreateAssignsSequentialTrackingNumbers(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)

	first, err := s.packages.Create(packageInput(jane.ID))
	if err != nil {
		t.Fatalf("create first package failed: %v", err)
	}
	if first.TrackingNumber != 1 {
		t.Fatalf("first tracking number want 1 got %d", first.TrackingNumber)
	}
	second, err := s.packages.Create(packageInput(jane.ID))
	if err != nil {
		t.Fatalf("create second package failed: %v", err)
	}
	if second.TrackingNumber != 2 {
		t.Fatalf("second tracking number want 2 got %d", second.TrackingNumber)
	}
}

func TestPackageCreateFollowsCurrentMaximum(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)

	seeded := models.Package{
		TrackingNumber: 41,
		Status:         constants.PackageStatusPending,
		SendDate:       time.Now(),
		SenderName:     "Seed",
		RecipientID:    jane.ID,
		Origin:         "Here",
		Destination:    "There",
		PackageWeight:  1,
		Price:          1,
	}
	if err := s.db.Create(&seeded).Error; err != nil {
		t.Fatalf("seed package failed: %v", err)
	}

	pkg, err := s.packages.Create(packageInput(jane.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if pkg.TrackingNumber != 42 {
		t.Fatalf("tracking number want 42 got %d", pkg.TrackingNumber)
	}
}

func TestPackageCreateRoundTrip(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)

	input := packageInput(jane.ID)
	input.Description = strPtr("fragile")
	before := time.Now().Add(-time.Second)
	created, err := s.packages.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := s.packages.Get(created.TrackingNumber)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != "pending" || got.SenderName != "John Smith" || got.Origin != "New York" ||
		got.Destination != "Los Angeles" || got.Description != "fragile" ||
		got.PackageWeight != 2.5 || got.Price != 50 || got.RecipientID != jane.ID {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.SendDate.Before(before) {
		t.Fatalf("send date should default to creation time, got %v", got.SendDate)
	}
	if got.Recipient == nil || got.Recipient.RecipientName != "Jane Doe" {
		t.Fatalf("recipient should be populated: %+v", got.Recipient)
	}
	if models.FormatWeight(got.PackageWeight) != "2.50 kg" || models.FormatPrice(got.Price) != "$50.00" {
		t.Fatalf("unexpected display values")
	}
}

func TestPackageCreateUnknownRecipient(t *testing.T) {
	s := setupServiceTest(t)

	_, err := s.packages.Create(packageInput(999))
	if !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("expected recipient not found, got %v", err)
	}
	var count int64
	s.db.Model(&models.Package{}).Count(&count)
	if count != 0 {
		t.Fatalf("no package should be persisted, count=%d", count)
	}
}

func TestPackageCreateValidation(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)

	cases := []struct {
		name  string
		edit  func(in *PackageInput)
		field string
	}{
		{name: "missing status", edit: func(in *PackageInput) { in.Status = nil }, field: "status"},
		{name: "missing price", edit: func(in *PackageInput) { in.Price = nil }, field: "price"},
		{name: "bad status", edit: func(in *PackageInput) { in.Status = strPtr("lost") }, field: "status"},
		{name: "digits in sender", edit: func(in *PackageInput) { in.SenderName = strPtr("John 5mith") }, field: "sender_name"},
		{name: "three decimals", edit: func(in *PackageInput) { in.PackageWeight = float64Ptr(1.234) }, field: "package_weight"},
		{name: "zero price", edit: func(in *PackageInput) { in.Price = float64Ptr(0) }, field: "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := packageInput(jane.ID)
			tc.edit(&input)
			_, err := s.packages.Create(input)
			var fieldErr *validation.FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected field error, got %v", err)
			}
			if fieldErr.Field != tc.field {
				t.Fatalf("field want %s got %s", tc.field, fieldErr.Field)
			}
		})
	}
}

func TestPackageGetMissing(t *testing.T) {
	s := setupServiceTest(t)
	if _, err := s.packages.Get(404); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("expected package not found, got %v", err)
	}
}

func TestPackageReplaceKeepsTrackingNumberAndIDProof(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)
	other := createJane(t, s, 1234567899)
	created, err := s.packages.Create(packageInput(jane.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.packages.AttachIDProof(created.TrackingNumber, pngAttachment(16)); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	input := packageInput(other.ID)
	input.Status = strPtr("delivered")
	input.Origin = strPtr("Boston")
	replaced, err := s.packages.Replace(created.TrackingNumber, input)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if replaced.TrackingNumber != created.TrackingNumber || replaced.Origin != "Boston" || replaced.RecipientID != other.ID {
		t.Fatalf("unexpected replaced package: %+v", replaced)
	}
	if replaced.IDProof.ContentType != constants.ContentTypePNG {
		t.Fatalf("id proof should survive replace: %+v", replaced.IDProof)
	}

	if _, err := s.packages.Replace(999, input); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("replace missing want not found, got %v", err)
	}
}

func TestPackagePatchStatusRecordsEvents(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)
	created, err := s.packages.Create(packageInput(jane.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := s.packages.PatchStatus(created.TrackingNumber, strPtr("unknown")); err == nil {
		t.Fatalf("invalid status should be rejected")
	}
	patched, err := s.packages.PatchStatus(created.TrackingNumber, strPtr("in-transit"))
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if patched.Status != "in-transit" {
		t.Fatalf("status want in-transit got %s", patched.Status)
	}
	if _, err := s.packages.PatchStatus(404, strPtr("delivered")); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("patch missing want not found, got %v", err)
	}

	events, err := s.packages.Events(created.TrackingNumber)
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events want 2 got %d", len(events))
	}
	if events[0].Source != constants.PackageEventSourceCreate || events[1].PreviousStatus != "pending" || events[1].Status != "in-transit" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestPackageDeleteRemovesEvents(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)
	created, err := s.packages.Create(packageInput(jane.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.packages.Delete(created.TrackingNumber); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := s.packages.Delete(created.TrackingNumber); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("second delete want not found, got %v", err)
	}
	var count int64
	s.db.Model(&models.PackageEvent{}).Where("tracking_number = ?", created.TrackingNumber).Count(&count)
	if count != 0 {
		t.Fatalf("events should be removed with the package, count=%d", count)
	}
}

func TestPackageListOmitsAttachmentData(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)
	created, err := s.packages.Create(packageInput(jane.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.packages.AttachIDProof(created.TrackingNumber, pngAttachment(32)); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	items, total, err := s.packages.List(repository.PackageListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("unexpected list result total=%d len=%d", total, len(items))
	}
	if len(items[0].IDProof.Data) != 0 || items[0].IDProof.Size != 32 {
		t.Fatalf("list should expose only attachment meta: %+v", items[0].IDProof)
	}
}

func pngAttachment(size int) models.Attachment {
	data := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, size)...)
	data = data[:size]
	return models.Attachment{Data: data, ContentType: constants.ContentTypePNG, Size: int64(size)}
}

func TestPackageIDProofLifecycle(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)
	created, err := s.packages.Create(packageInput(jane.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	tn := created.TrackingNumber

	if _, err := s.packages.FetchIDProof(tn); !errors.Is(err, ErrIDProofNotFound) {
		t.Fatalf("fetch before upload want id proof not found, got %v", err)
	}
	if _, err := s.packages.FetchIDProof(999); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("fetch on missing package want package not found, got %v", err)
	}

	pdf := models.Attachment{Data: []byte("%PDF-1.4 test"), ContentType: constants.ContentTypePDF, Size: 13}
	updated, err := s.packages.AttachIDProof(tn, pdf)
	if err != nil {
		t.Fatalf("attach pdf failed: %v", err)
	}
	if updated.IDProof.ContentType != constants.ContentTypePDF {
		t.Fatalf("unexpected id proof meta: %+v", updated.IDProof)
	}

	fetched, err := s.packages.FetchIDProof(tn)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if string(fetched.Data) != "%PDF-1.4 test" || fetched.ContentType != constants.ContentTypePDF {
		t.Fatalf("unexpected fetched attachment: %+v", fetched)
	}

	meta, err := s.packages.ValidateIDProof(tn)
	if err != nil || meta == nil || meta.Size != 13 {
		t.Fatalf("validate stored id proof failed: %+v %v", meta, err)
	}

	if err := s.packages.DeleteIDProof(tn); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := s.packages.DeleteIDProof(tn); err != nil {
		t.Fatalf("second delete should be idempotent: %v", err)
	}
	if _, err := s.packages.FetchIDProof(tn); !errors.Is(err, ErrIDProofNotFound) {
		t.Fatalf("fetch after delete want id proof not found, got %v", err)
	}
	if err := s.packages.DeleteIDProof(999); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("delete on missing package want not found, got %v", err)
	}
}

func TestPackageAttachIDProofPolicy(t *testing.T) {
	s := setupServiceTest(t)
	jane := createJane(t, s, 1234567890)
	created, err := s.packages.Create(packageInput(jane.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	tn := created.TrackingNumber

	big := bytes.Repeat([]byte{0xff}, 6*1024*1024)
	_, err = s.packages.AttachIDProof(tn, models.Attachment{Data: big, ContentType: constants.ContentTypeJPEG, Size: int64(len(big))})
	var attErr *validation.AttachmentError
	if !errors.As(err, &attErr) || attErr.Cause != validation.CauseTooLarge {
		t.Fatalf("expected too large error, got %v", err)
	}
	if !strings.Contains(attErr.Message, "5MB") {
		t.Fatalf("unexpected size message: %s", attErr.Message)
	}

	_, err = s.packages.AttachIDProof(tn, models.Attachment{Data: []byte("BM"), ContentType: "image/bmp", Size: 2})
	if !errors.As(err, &attErr) || attErr.Cause != validation.CauseUnsupportedType {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
	if !strings.Contains(attErr.Message, "image/bmp") {
		t.Fatalf("unexpected format message: %s", attErr.Message)
	}

	if _, err := s.packages.AttachIDProof(tn, models.Attachment{}); !errors.As(err, &attErr) || attErr.Cause != validation.CauseMissing {
		t.Fatalf("expected missing data error, got %v", err)
	}
	if _, err := s.packages.AttachIDProof(999, pngAttachment(8)); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("attach on missing package want not found, got %v", err)
	}

	if _, err := s.packages.FetchIDProof(tn); !errors.Is(err, ErrIDProofNotFound) {
		t.Fatalf("rejected uploads must not be stored, got %v", err)
	}
}
