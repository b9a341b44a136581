package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Mongo is the production directory backed by the user_directory
// collection.
type Mongo struct {
	collection *mongo.Collection
}

// NewMongo creates a Mongo-backed directory.
func NewMongo(db *mongo.Database, collection string) *Mongo {
	return &Mongo{collection: db.Collection(collection)}
}

// Lookup implements UserDirectory.
func (m *Mongo) Lookup(ctx context.Context, phone string) (*Entry, error) {
	var entry Entry
	err := m.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	return &entry, nil
}

// EnsureSeed populates an empty directory collection with the seed
// entries. A non-empty collection is left untouched, so operator imports
// always win over the built-in list.
func (m *Mongo) EnsureSeed(ctx context.Context, entries []Entry) error {
	count, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("directory count: %w", err)
	}
	if count > 0 || len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, entry)
	}
	if _, err := m.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("directory seed: %w", err)
	}
	return nil
}

// All returns every known user, used by the sync orchestrator.
func (m *Mongo) All(ctx context.Context) ([]Entry, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("directory scan: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("directory decode: %w", err)
	}
	return entries, nil
}
