// Package archive persists run history to MongoDB. The archive is
// optional: when disabled the assistant simply runs without one.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// MongoArchive stores one document per completed operation.
type MongoArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoArchive connects to MongoDB and pings it before returning.
func NewMongoArchive(cfg config.Archive, logger *slog.Logger) (*MongoArchive, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoArchive{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger.With("component", "archive"),
	}, nil
}

// Record inserts one run outcome.
func (a *MongoArchive) Record(ctx context.Context, rec types.RunRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := a.collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}
	a.logger.Debug("run archived", "op", rec.Op, "records", rec.Records)
	return nil
}

// Recent returns the latest runs, newest first.
func (a *MongoArchive) Recent(ctx context.Context, limit int) ([]types.RunRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := a.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	defer cursor.Close(ctx)

	var recs []types.RunRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("mongodb decode: %w", err)
	}
	return recs, nil
}

// Close disconnects from MongoDB.
func (a *MongoArchive) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}
