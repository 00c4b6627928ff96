// Package mongo implements the snapshot store on MongoDB using the
// official driver. Snapshots land in one collection; the latest is resolved
// by sorting on the stamp field.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	vendo "github.com/vendolabs/vendo"
	vendostore "github.com/vendolabs/vendo/store"
)

const colSnapshots = "machine_configs"

// compile-time interface check
var _ vendostore.Store = (*Store)(nil)

// Store persists machine snapshots to a MongoDB collection.
type Store struct {
	client *mongo.Client
	col    *mongo.Collection
}

// New connects to MongoDB and returns a snapshot store on the given
// database.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("vendo/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("vendo/mongo: ping: %w", err)
	}

	return &Store{
		client: client,
		col:    client.Database(database).Collection(colSnapshots),
	}, nil
}

// Migrate creates the stamp index used by LoadLatest.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "stamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("vendo/mongo: migrate stamp index: %w", err)
	}
	return nil
}

// SaveSnapshot inserts one snapshot document.
func (s *Store) SaveSnapshot(ctx context.Context, snap *vendostore.Snapshot) error {
	if _, err := s.col.InsertOne(ctx, toSnapshotModel(snap)); err != nil {
		return fmt.Errorf("vendo/mongo: save snapshot: %w", err)
	}
	return nil
}

// LoadLatest returns the most recently stamped snapshot.
func (s *Store) LoadLatest(ctx context.Context) (*vendostore.Snapshot, error) {
	var m snapshotModel
	err := s.col.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "stamp", Value: -1}}),
	).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, vendo.ErrNoSnapshot
		}
		return nil, fmt.Errorf("vendo/mongo: load latest snapshot: %w", err)
	}
	return fromSnapshotModel(&m)
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
