package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckName(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{value: "John Smith", ok: true},
		{value: "New York", ok: true},
		{value: "O'Brien", ok: false},
		{value: "Agent 007", ok: false},
		{value: "", ok: false},
	}
	for _, tc := range cases {
		err := Check("sender_name", KindName, tc.value)
		if (err == nil) != tc.ok {
			t.Fatalf("name %q: want ok=%v got err=%v", tc.value, tc.ok, err)
		}
	}
}

func TestCheckEmail(t *testing.T) {
	if err := Check("recipient_email", KindEmail, "jane@x.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	for _, bad := range []string{"jane@x", "jane x@x.com", "@x.com", "jane@@x.com"} {
		if err := Check("recipient_email", KindEmail, bad); err == nil {
			t.Fatalf("invalid email %q accepted", bad)
		}
	}
}

func TestCheckContactDigitLength(t *testing.T) {
	cases := []struct {
		value interface{}
		ok    bool
	}{
		{value: int64(1234567890), ok: true},
		{value: int64(123456789012345), ok: true},
		{value: int64(123456789), ok: false},
		{value: int64(1234567890123456), ok: false},
		{value: int64(-1234567890), ok: false},
		{value: "1234567890", ok: true},
		{value: "12345abcde", ok: false},
		{value: 1.5, ok: false},
	}
	for _, tc := range cases {
		err := Check("recipient_contact", KindContact, tc.value)
		if (err == nil) != tc.ok {
			t.Fatalf("contact %v: want ok=%v got err=%v", tc.value, tc.ok, err)
		}
	}
}

func TestCheckAddress(t *testing.T) {
	if err := Check("address", KindAddress, "123 Test Street"); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}
	if err := Check("address", KindAddress, "Apt. 4, O'Neil-Road"); err != nil {
		t.Fatalf("address with punctuation rejected: %v", err)
	}
	if err := Check("address", KindAddress, "short"); err == nil {
		t.Fatalf("short address accepted")
	}
	if err := Check("address", KindAddress, strings.Repeat("a", 101)); err == nil {
		t.Fatalf("long address accepted")
	}
	if err := Check("address", KindAddress, "123 Test Street #5"); err == nil {
		t.Fatalf("address with # accepted")
	}
}

func TestCheckStatus(t *testing.T) {
	for _, status := range []string{"pending", "in-transit", "delivered", "not-delivered"} {
		if err := Check("status", KindStatus, status); err != nil {
			t.Fatalf("status %s rejected: %v", status, err)
		}
	}
	err := Check("status", KindStatus, "lost")
	if err == nil {
		t.Fatalf("unknown status accepted")
	}
	if !strings.Contains(err.Error(), "lost") {
		t.Fatalf("message should contain rejected value, got %s", err.Error())
	}
}

func TestCheckAmount(t *testing.T) {
	cases := []struct {
		value interface{}
		ok    bool
	}{
		{value: 2.5, ok: true},
		{value: 50.0, ok: true},
		{value: 19.99, ok: true},
		{value: 0.01, ok: true},
		{value: 1.234, ok: false},
		{value: 0.0, ok: false},
		{value: -3.0, ok: false},
		{value: 50, ok: true},
		{value: "50", ok: false},
	}
	for _, tc := range cases {
		err := Check("price", KindAmount, tc.value)
		if (err == nil) != tc.ok {
			t.Fatalf("amount %v: want ok=%v got err=%v", tc.value, tc.ok, err)
		}
	}
}

func TestFieldErrorCarriesFieldAndValue(t *testing.T) {
	err := Validate(
		Field{Name: "sender_name", Kind: KindName, Value: "John Smith"},
		Field{Name: "origin", Kind: KindName, Value: "N3w York"},
		Field{Name: "destination", Kind: KindName, Value: "L4"},
	)
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fieldErr.Field != "origin" {
		t.Fatalf("expected first failing field origin, got %s", fieldErr.Field)
	}
	if !strings.Contains(fieldErr.Message, "N3w York") || !strings.Contains(fieldErr.Message, "origin") {
		t.Fatalf("unexpected message: %s", fieldErr.Message)
	}
	if strings.Contains(fieldErr.Message, "EXTRA") {
		t.Fatalf("message has formatting artefacts: %s", fieldErr.Message)
	}
}

func TestRequired(t *testing.T) {
	err := Required("price")
	if err.Field != "price" || err.Error() != "price is required" {
		t.Fatalf("unexpected required error: %+v", err)
	}
}
