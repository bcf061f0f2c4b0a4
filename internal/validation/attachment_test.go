package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/parcelkeep/internal/constants"
)

func TestValidateAttachmentEmptyIsValid(t *testing.T) {
	if err := ValidateAttachment("id_proof", constants.AttachmentKindIDProof, nil, "", 0); err != nil {
		t.Fatalf("empty attachment should pass, got %v", err)
	}
}

func TestValidateAttachmentTooLarge(t *testing.T) {
	data := make([]byte, 6*1024*1024)
	err := ValidateAttachment("id_proof", constants.AttachmentKindIDProof, data, constants.ContentTypePNG, int64(len(data)))
	var attErr *AttachmentError
	if !errors.As(err, &attErr) {
		t.Fatalf("expected AttachmentError, got %v", err)
	}
	if attErr.Cause != CauseTooLarge {
		t.Fatalf("cause want too_large got %s", attErr.Cause)
	}
	if !strings.Contains(attErr.Message, "5MB") {
		t.Fatalf("unexpected size message: %s", attErr.Message)
	}
}

func TestValidateAttachmentBoundary(t *testing.T) {
	data := make([]byte, constants.AttachmentMaxSize)
	if err := ValidateAttachment("id_proof", constants.AttachmentKindIDProof, data, constants.ContentTypeJPEG, int64(len(data))); err != nil {
		t.Fatalf("exactly 5 MiB should pass, got %v", err)
	}
}

func TestValidateAttachmentUnsupportedType(t *testing.T) {
	err := ValidateAttachment("id_proof", constants.AttachmentKindIDProof, []byte("BM"), "image/bmp", 2)
	var attErr *AttachmentError
	if !errors.As(err, &attErr) {
		t.Fatalf("expected AttachmentError, got %v", err)
	}
	if attErr.Cause != CauseUnsupportedType {
		t.Fatalf("cause want unsupported_type got %s", attErr.Cause)
	}
	if !strings.Contains(attErr.Message, "image/bmp") {
		t.Fatalf("message should name rejected type: %s", attErr.Message)
	}
}

func TestValidateAttachmentPDFByKind(t *testing.T) {
	pdf := []byte("%PDF-1.4")
	if err := ValidateAttachment("id_proof", constants.AttachmentKindIDProof, pdf, constants.ContentTypePDF, int64(len(pdf))); err != nil {
		t.Fatalf("pdf id proof should pass, got %v", err)
	}
	if err := ValidateAttachment("image", constants.AttachmentKindImage, pdf, constants.ContentTypePDF, int64(len(pdf))); err == nil {
		t.Fatalf("pdf image should be rejected")
	}
}

func TestValidateAttachmentMissingData(t *testing.T) {
	err := ValidateAttachment("id_proof", constants.AttachmentKindIDProof, nil, constants.ContentTypePNG, 10)
	var attErr *AttachmentError
	if !errors.As(err, &attErr) || attErr.Cause != CauseMissing {
		t.Fatalf("expected missing cause, got %v", err)
	}
}
