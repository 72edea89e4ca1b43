package repository

import (
	"context"
	"time"

	"realtyflow/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LeadRepo handles MongoDB operations for leads
type LeadRepo interface {
	Create(ctx context.Context, lead *model.Lead) error
	GetByID(ctx context.Context, id string) (*model.Lead, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Lead, error)
	Update(ctx context.Context, lead *model.Lead) error
	Delete(ctx context.Context, id string) error
	CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error)
	DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error)
}

type leadRepo struct {
	collection *mongo.Collection
}

// NewLeadRepo creates a new lead repository
func NewLeadRepo(db *mongo.Database) LeadRepo {
	return &leadRepo{
		collection: db.Collection(leadsCollection),
	}
}

func (r *leadRepo) Create(ctx context.Context, lead *model.Lead) error {
	if lead.ID == "" {
		lead.ID = primitive.NewObjectID().Hex()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, lead)
	return err
}

func (r *leadRepo) GetByID(ctx context.Context, id string) (*model.Lead, error) {
	return findOne[model.Lead](ctx, r.collection, bson.M{"_id": id})
}

func (r *leadRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Lead, error) {
	return byOwner[model.Lead](ctx, r.collection, bson.M{"ownerId": ownerID})
}

func (r *leadRepo) Update(ctx context.Context, lead *model.Lead) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": lead.ID}, lead)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *leadRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *leadRepo) CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error) {
	return r.collection.CountDocuments(ctx, ownedIDs(ownerID, ids))
}

func (r *leadRepo) DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, ownedIDs(ownerID, ids))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
