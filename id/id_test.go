package id_test

import (
	"strings"
	"testing"

	"github.com/vendolabs/vendo/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"ItemID", id.NewItemID, "item_"},
		{"SnapshotID", id.NewSnapshotID, "snap_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixItem)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixItem {
		t.Errorf("expected prefix %q, got %q", id.PrefixItem, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"ItemID", id.NewItemID, id.ParseItemID},
		{"SnapshotID", id.NewSnapshotID, id.ParseSnapshotID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		parseFn func(string) (id.ID, error)
	}{
		{"ParseItemID rejects snap_", id.NewSnapshotID().String(), id.ParseItemID},
		{"ParseSnapshotID rejects item_", id.NewItemID().String(), id.ParseSnapshotID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.parseFn(tt.input); err == nil {
				t.Error("expected cross-type parse to fail")
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no separator", "item01h2xcejqtf2nbrexx3vqjhp41"},
		{"garbage", "!!not-a-typeid!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := id.Parse(tt.input); err == nil {
				t.Errorf("expected parse of %q to fail", tt.input)
			}
		})
	}
}

func TestTextMarshalRoundTrip(t *testing.T) {
	original := id.NewItemID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var parsed id.ID
	if err := parsed.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
	}

	var nilID id.ID
	if err := nilID.UnmarshalText(nil); err != nil {
		t.Fatalf("unmarshal of empty text failed: %v", err)
	}
	if !nilID.IsNil() {
		t.Error("expected nil ID from empty text")
	}
}
