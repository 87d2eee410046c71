// infrastructure/mongo_document_store.go
package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitovidale/ai-video-backend/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const maxDiagnosticCollections = 10

type MongoDocumentStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDocumentStore connects to uri and verifies the connection with a
// ping before returning.
func NewMongoDocumentStore(ctx context.Context, uri, dbName string) (*MongoDocumentStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return NewMongoDocumentStoreFromClient(client, dbName), nil
}

// NewMongoDocumentStoreFromClient wraps an already connected client without
// contacting the server.
func NewMongoDocumentStoreFromClient(client *mongo.Client, dbName string) *MongoDocumentStore {
	return &MongoDocumentStore{client: client, db: client.Database(dbName)}
}

func (s *MongoDocumentStore) Insert(ctx context.Context, collection string, doc domain.Document) (string, error) {
	if s.db == nil {
		return "", domain.ErrStoreUnavailable
	}

	res, err := s.db.Collection(collection).InsertOne(ctx, toBSON(doc))
	if err != nil {
		return "", mongoError("insert", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}
	return oid.Hex(), nil
}

func (s *MongoDocumentStore) Find(ctx context.Context, collection string, filter domain.Document, limit int64) ([]domain.Document, error) {
	if s.db == nil {
		return nil, domain.ErrStoreUnavailable
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.db.Collection(collection).Find(ctx, toBSON(filter), opts)
	if err != nil {
		return nil, mongoError("find", err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, mongoError("decode", err)
	}

	docs := make([]domain.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBSON(m))
	}
	return docs, nil
}

func (s *MongoDocumentStore) FindOne(ctx context.Context, collection, id string) (domain.Document, error) {
	if s.db == nil {
		return nil, domain.ErrStoreUnavailable
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidIdentifier
	}

	var m bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, mongoError("find one", err)
	}
	return fromBSON(m), nil
}

func (s *MongoDocumentStore) UpdateOne(ctx context.Context, collection, id string, fields domain.Document) error {
	if s.db == nil {
		return domain.ErrStoreUnavailable
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidIdentifier
	}

	set := toBSON(fields)
	delete(set, "_id")
	delete(set, "id")
	if len(set) == 0 {
		return nil
	}
	if _, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		return mongoError("update", err)
	}
	return nil
}

func (s *MongoDocumentStore) Diagnose(ctx context.Context) domain.StoreDiagnostics {
	diag := domain.StoreDiagnostics{Backend: "mongodb"}
	if s.db == nil {
		diag.Err = domain.ErrStoreUnavailable
		return diag
	}
	diag.Name = s.db.Name()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		diag.Err = fmt.Errorf("mongodb ping: %w: %v", domain.ErrStoreUnavailable, err)
		return diag
	}
	diag.Available = true

	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		diag.Err = err
		return diag
	}
	if len(names) > maxDiagnosticCollections {
		names = names[:maxDiagnosticCollections]
	}
	diag.Collections = names
	return diag
}

func (s *MongoDocumentStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// mongoError marks connectivity failures as ErrStoreUnavailable so callers
// can tell them apart from query errors.
func mongoError(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("mongodb %s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("mongodb %s: %w", op, err)
}

func toBSON(doc domain.Document) bson.M {
	m := bson.M{}
	for k, v := range doc {
		if k == "id" {
			continue
		}
		m[k] = v
	}
	return m
}

func fromBSON(m bson.M) domain.Document {
	doc := make(domain.Document, len(m))
	for k, v := range m {
		if k == "_id" {
			doc["id"] = normalizeBSONValue(v)
			continue
		}
		doc[k] = normalizeBSONValue(v)
	}
	return doc
}

func normalizeBSONValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case bson.M:
		return map[string]any(fromBSON(t))
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeBSONValue(e)
		}
		return out
	default:
		return v
	}
}
