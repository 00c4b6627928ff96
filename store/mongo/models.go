package mongo

import (
	"fmt"
	"time"

	"github.com/vendolabs/vendo/id"
	"github.com/vendolabs/vendo/inventory"
	vendostore "github.com/vendolabs/vendo/store"
)

// snapshotModel is the BSON document shape for one machine snapshot.
// IDs are stored as plain TypeID strings.
type snapshotModel struct {
	ID            string        `bson:"_id"`
	Denominations []int         `bson:"denominations"`
	Currency      string        `bson:"currency"`
	Items         []itemModel   `bson:"items"`
	Register      registerModel `bson:"cash_register"`
	Stamp         time.Time     `bson:"stamp"`
	CreatedAt     time.Time     `bson:"created_at"`
}

type itemModel struct {
	ID        string    `bson:"id"`
	Type      string    `bson:"type"`
	Quantity  int       `bson:"quantity"`
	Price     int       `bson:"price"`
	Currency  string    `bson:"currency"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type registerModel struct {
	Amount   int    `bson:"amount"`
	Currency string `bson:"currency"`
}

func toSnapshotModel(snap *vendostore.Snapshot) *snapshotModel {
	snapID := snap.ID
	if snapID.IsNil() {
		snapID = id.NewSnapshotID()
	}

	items := make([]itemModel, len(snap.Items))
	for i, it := range snap.Items {
		items[i] = itemModel{
			ID:        it.ID.String(),
			Type:      it.Type,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Currency:  it.Currency,
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
		}
	}

	return &snapshotModel{
		ID:            snapID.String(),
		Denominations: append([]int(nil), snap.Denominations...),
		Currency:      snap.Currency,
		Items:         items,
		Register:      registerModel(snap.Register),
		Stamp:         snap.Stamp,
		CreatedAt:     time.Now().UTC(),
	}
}

func fromSnapshotModel(m *snapshotModel) (*vendostore.Snapshot, error) {
	snapID, err := id.ParseSnapshotID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("vendo/mongo: snapshot id: %w", err)
	}

	items := make([]inventory.Item, len(m.Items))
	for i, it := range m.Items {
		itemID, err := id.ParseItemID(it.ID)
		if err != nil {
			return nil, fmt.Errorf("vendo/mongo: item id: %w", err)
		}
		items[i] = inventory.Item{
			ID:       itemID,
			Type:     it.Type,
			Quantity: it.Quantity,
			Price:    it.Price,
			Currency: it.Currency,
		}
		items[i].CreatedAt = it.CreatedAt
		items[i].UpdatedAt = it.UpdatedAt
	}

	return &vendostore.Snapshot{
		ID:            snapID,
		Denominations: m.Denominations,
		Currency:      m.Currency,
		Items:         items,
		Register:      vendostore.RegisterState(m.Register),
		Stamp:         m.Stamp,
	}, nil
}
