// Package mongo loads a dataset from a MongoDB collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
)

type Loader struct {
	client     *mongo.Client
	database   string
	collection string
}

func New(ctx context.Context, cfg config.SourceConfig) (*Loader, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	return &Loader{client: client, database: cfg.Database, collection: cfg.Collection}, nil
}

func (l *Loader) Name() string {
	return "mongodb:" + l.database + "." + l.collection
}

func (l *Loader) Close() error {
	return l.client.Disconnect(context.Background())
}

// Fetch reads every document of the collection, keeping field order.
func (l *Loader) Fetch(ctx context.Context) (*frame.Frame, error) {
	cur, err := l.client.Database(l.database).Collection(l.collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", l.collection, err)
	}
	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", l.collection, err)
	}
	return frame.FromDocuments(toDocuments(docs)), nil
}

func toDocuments(docs []bson.D) []frame.Document {
	out := make([]frame.Document, len(docs))
	for i, d := range docs {
		doc := make(frame.Document, len(d))
		for j, e := range d {
			doc[j] = frame.Field{Key: e.Key, Value: bsonValue(e.Value)}
		}
		out[i] = doc
	}
	return out
}

func bsonValue(v any) any {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time()
	case primitive.Decimal128:
		return x.String()
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return v
	}
}
