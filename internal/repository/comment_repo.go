package repository

import (
	"context"
	"time"

	"realtyflow/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CommentRepo handles MongoDB operations for post comments
type CommentRepo interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
	CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error)
	DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error)
}

type commentRepo struct {
	collection *mongo.Collection
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &commentRepo{
		collection: db.Collection(commentsCollection),
	}
}

func (r *commentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = primitive.NewObjectID().Hex()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	return findOne[model.Comment](ctx, r.collection, bson.M{"_id": id})
}

func (r *commentRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Comment, error) {
	return byOwner[model.Comment](ctx, r.collection, bson.M{"ownerId": ownerID})
}

func (r *commentRepo) Update(ctx context.Context, comment *model.Comment) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": comment.ID}, comment)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *commentRepo) DeleteByPost(ctx context.Context, postID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"postId": postID})
	return err
}

func (r *commentRepo) CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error) {
	return r.collection.CountDocuments(ctx, ownedIDs(ownerID, ids))
}

func (r *commentRepo) DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, ownedIDs(ownerID, ids))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
