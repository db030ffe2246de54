package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const draftsCollection = "drafts"

// Mongo stores drafts in a single collection keyed by draft ID.
type Mongo struct {
	client *mongo.Client
	drafts *mongo.Collection
}

func NewMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	if dbName == "" {
		dbName = "pokedrafter"
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(dbName).Collection(draftsCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create name index: %w", err)
	}
	return &Mongo{client: client, drafts: coll}, nil
}

func (m *Mongo) Create(ctx context.Context, d *DraftTemplate) error {
	if err := prepare(d, time.Now().UTC()); err != nil {
		return err
	}
	if _, err := m.drafts.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (m *Mongo) Get(ctx context.Context, id string) (*DraftTemplate, error) {
	var d DraftTemplate
	err := m.drafts.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return &d, nil
}

func (m *Mongo) List(ctx context.Context) ([]DraftTemplate, error) {
	cur, err := m.drafts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	out := []DraftTemplate{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode drafts: %w", err)
	}
	return out, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
