package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewKey(t *testing.T) {
	now := time.Unix(1723550000, 0)
	tests := []struct {
		name    string
		key     string
		source  string
		wantErr error
	}{
		{"valid", "alpha", "list.txt", nil},
		{"empty key", "", "list.txt", ErrEmptyKey},
		{"empty source", "alpha", "", ErrEmptySource},
		{"too long", strings.Repeat("x", MaxKeyLength+1), "list.txt", ErrKeyTooLong},
		{"max length", strings.Repeat("x", MaxKeyLength), "list.txt", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKey(tt.key, tt.source, now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewKey(%q, %q) err = %v, want %v", tt.key, tt.source, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if k.Name != tt.key || k.Source != tt.source || !k.AddedAt.Equal(now) {
				t.Fatalf("unexpected key: %+v", k)
			}
			if string(k.Bytes()) != tt.key {
				t.Fatalf("Bytes() = %q, want %q", k.Bytes(), tt.key)
			}
		})
	}
}

func TestFilterParams_Validate(t *testing.T) {
	if err := (FilterParams{BitLength: 1, HashCount: 1}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (FilterParams{BitLength: 0, HashCount: 3}).Validate(); !errors.Is(err, ErrZeroBitLength) {
		t.Fatalf("want ErrZeroBitLength, got %v", err)
	}
	if err := (FilterParams{BitLength: 8, HashCount: 0}).Validate(); !errors.Is(err, ErrZeroHashCount) {
		t.Fatalf("want ErrZeroHashCount, got %v", err)
	}
}
