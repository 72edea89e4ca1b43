package repository

import (
	"context"
	"time"

	"realtyflow/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostRepo handles MongoDB operations for posts
type PostRepo interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.Post, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
	CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error)
	DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error)
}

type postRepo struct {
	collection *mongo.Collection
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *mongo.Database) PostRepo {
	return &postRepo{
		collection: db.Collection(postsCollection),
	}
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = primitive.NewObjectID().Hex()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	return findOne[model.Post](ctx, r.collection, bson.M{"_id": id})
}

func (r *postRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Post, error) {
	return findOne[model.Post](ctx, r.collection, bson.M{"sessionId": sessionID})
}

func (r *postRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Post, error) {
	return byOwner[model.Post](ctx, r.collection, bson.M{"ownerId": ownerID})
}

func (r *postRepo) Update(ctx context.Context, post *model.Post) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *postRepo) CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error) {
	return r.collection.CountDocuments(ctx, ownedIDs(ownerID, ids))
}

func (r *postRepo) DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, ownedIDs(ownerID, ids))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
