package vo

import (
	"errors"
	"testing"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "valid", raw: "alice@example.com", want: "alice@example.com"},
		{name: "uppercase normalized", raw: "Alice@Example.COM", want: "alice@example.com"},
		{name: "surrounding spaces trimmed", raw: "  bob@example.org  ", want: "bob@example.org"},
		{name: "missing at", raw: "alice.example.com", wantErr: true},
		{name: "missing tld", raw: "alice@example", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := NewEmail(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEmail) {
					t.Fatalf("got %v, want ErrInvalidEmail", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if email.String() != tt.want {
				t.Fatalf("got %q, want %q", email.String(), tt.want)
			}
		})
	}
}

func TestNewPhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "e164", raw: "+4915112345678", want: "+4915112345678"},
		{name: "digits only", raw: "15112345678", want: "15112345678"},
		{name: "spaces stripped", raw: "+49 151 1234 5678", want: "+4915112345678"},
		{name: "empty is optional", raw: "", want: ""},
		{name: "letters rejected", raw: "phone123", wantErr: true},
		{name: "too short", raw: "12345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone, err := NewPhone(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPhone) {
					t.Fatalf("got %v, want ErrInvalidPhone", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if phone.String() != tt.want {
				t.Fatalf("got %q, want %q", phone.String(), tt.want)
			}
		})
	}
}
