package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	leadsCollection       = "leads"
	postsCollection       = "posts"
	commentsCollection    = "comments"
	draftsCollection      = "wizard_drafts"
	submissionsCollection = "wizard_submissions"
)

// Connect opens a MongoDB client and pings it
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories query by. Failures are logged, not fatal.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) {
	owned := bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}
	createIndex(ctx, logger, db.Collection(leadsCollection), owned, false)
	createIndex(ctx, logger, db.Collection(postsCollection), owned, false)
	createIndex(ctx, logger, db.Collection(commentsCollection), owned, false)
	createIndex(ctx, logger, db.Collection(commentsCollection), bson.D{{Key: "postId", Value: 1}}, false)
	createIndex(ctx, logger, db.Collection(draftsCollection), bson.D{{Key: "ownerId", Value: 1}, {Key: "updatedAt", Value: -1}}, false)
	createIndex(ctx, logger, db.Collection(submissionsCollection), bson.D{{Key: "sessionId", Value: 1}}, true)
	createIndex(ctx, logger, db.Collection(submissionsCollection), bson.D{{Key: "ownerId", Value: 1}, {Key: "submittedAt", Value: -1}}, false)

	logger.Debug("mongo indexes ensured")
}

func createIndex(ctx context.Context, logger *zap.Logger, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		logger.Warn("failed to create index", zap.String("collection", coll.Name()), zap.Error(err))
	}
}

// ownedIDs matches documents of one owner among ids
func ownedIDs(ownerID string, ids []string) bson.M {
	return bson.M{"ownerId": ownerID, "_id": bson.M{"$in": ids}}
}

// byOwner lists an owner's documents, newest first
func byOwner[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) ([]*T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []*T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// findOne decodes a single document, nil when absent
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var item T
	err := coll.FindOne(ctx, filter).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
