package repository

import (
	"context"

	"realtyflow/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DraftRepo persists saved wizard sessions so a save outlives the Redis TTL
type DraftRepo interface {
	Save(ctx context.Context, session *model.WizardSession) error
	GetByID(ctx context.Context, id string) (*model.WizardSession, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.WizardSession, error)
	Delete(ctx context.Context, id string) error
}

type draftRepo struct {
	collection *mongo.Collection
}

// NewDraftRepo creates a new wizard draft repository
func NewDraftRepo(db *mongo.Database) DraftRepo {
	return &draftRepo{
		collection: db.Collection(draftsCollection),
	}
}

func (r *draftRepo) Save(ctx context.Context, session *model.WizardSession) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, opts)
	return err
}

func (r *draftRepo) GetByID(ctx context.Context, id string) (*model.WizardSession, error) {
	return findOne[model.WizardSession](ctx, r.collection, bson.M{"_id": id})
}

func (r *draftRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.WizardSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	drafts := []*model.WizardSession{}
	if err := cursor.All(ctx, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (r *draftRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
