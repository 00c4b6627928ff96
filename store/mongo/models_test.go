package mongo

import (
	"testing"
	"time"

	"github.com/vendolabs/vendo/id"
	"github.com/vendolabs/vendo/inventory"
	vendostore "github.com/vendolabs/vendo/store"
)

func TestSnapshotModelRoundTrip(t *testing.T) {
	itemID := id.NewItemID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	snap := &vendostore.Snapshot{
		ID:            id.NewSnapshotID(),
		Denominations: []int{1, 5, 10, 50},
		Currency:      "KES",
		Items: []inventory.Item{
			{ID: itemID, Type: "water", Quantity: 7, Price: 80, Currency: "KES"},
		},
		Register: vendostore.RegisterState{Amount: 1240, Currency: "KES"},
		Stamp:    now,
	}
	snap.Items[0].CreatedAt = now
	snap.Items[0].UpdatedAt = now

	model := toSnapshotModel(snap)
	if model.ID != snap.ID.String() {
		t.Errorf("model id = %q, want %q", model.ID, snap.ID.String())
	}

	got, err := fromSnapshotModel(model)
	if err != nil {
		t.Fatalf("fromSnapshotModel() error = %v", err)
	}

	if got.ID.String() != snap.ID.String() {
		t.Errorf("id = %q, want %q", got.ID.String(), snap.ID.String())
	}
	if got.Currency != "KES" || got.Register.Amount != 1240 {
		t.Errorf("register = %+v, want 1240 KES", got.Register)
	}
	if len(got.Denominations) != 4 || got.Denominations[3] != 50 {
		t.Errorf("denominations = %v", got.Denominations)
	}
	if len(got.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(got.Items))
	}
	if got.Items[0].ID.String() != itemID.String() {
		t.Errorf("item id = %q, want %q", got.Items[0].ID.String(), itemID.String())
	}
	if got.Items[0].Quantity != 7 || got.Items[0].Price != 80 {
		t.Errorf("item = %+v", got.Items[0])
	}
	if !got.Items[0].CreatedAt.Equal(now) {
		t.Errorf("item created at = %v, want %v", got.Items[0].CreatedAt, now)
	}
	if !got.Stamp.Equal(now) {
		t.Errorf("stamp = %v, want %v", got.Stamp, now)
	}
}

func TestSnapshotModelGeneratesID(t *testing.T) {
	snap := &vendostore.Snapshot{Currency: "KES", Stamp: time.Now().UTC()}

	model := toSnapshotModel(snap)
	if model.ID == "" {
		t.Fatal("model id is empty")
	}
	if _, err := id.ParseSnapshotID(model.ID); err != nil {
		t.Errorf("generated id %q does not parse: %v", model.ID, err)
	}
}

func TestFromSnapshotModelRejectsBadIDs(t *testing.T) {
	tests := []struct {
		name  string
		model snapshotModel
	}{
		{"bad snapshot id", snapshotModel{ID: "not-an-id"}},
		{"bad item id", snapshotModel{
			ID:    id.NewSnapshotID().String(),
			Items: []itemModel{{ID: "garbage", Type: "water"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fromSnapshotModel(&tt.model); err == nil {
				t.Error("fromSnapshotModel() error = nil, want parse error")
			}
		})
	}
}
