package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"archcanvas/pkg/diagram"
)

const (
	mongoDatabase   = "archcanvas"
	mongoCollection = "diagrams"

	// The store holds exactly one diagram, so the document id is fixed.
	mongoDocID = "current"

	mongoConnectTimeout = 10 * time.Second
)

// mongoDoc wraps the diagram JSON so the schema stays owned by the
// diagram package rather than being mirrored in bson tags.
type mongoDoc struct {
	ID        string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps the diagram snapshot in a MongoDB collection so
// multiple instances see the same state.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the MongoDB deployment at uri and verifies
// the connection before returning.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context) (*diagram.Description, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": mongoDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load diagram: %w", err)
	}
	d, err := diagram.Unmarshal(doc.Data)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MongoStore) Save(ctx context.Context, d diagram.Description) error {
	data, err := diagram.Marshal(d)
	if err != nil {
		return err
	}
	doc := mongoDoc{ID: mongoDocID, Data: data, UpdatedAt: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": mongoDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save diagram: %w", err)
	}
	return nil
}

func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": mongoDocID}); err != nil {
		return fmt.Errorf("clear diagram: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
