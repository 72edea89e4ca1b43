package repository

import (
	"context"

	"realtyflow/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmissionRepo stores submitted questionnaires, one per wizard session
type SubmissionRepo interface {
	Save(ctx context.Context, sub *model.Submission) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.Submission, error)
	ListByOwner(ctx context.Context, ownerID, questionnaireID string) ([]*model.Submission, error)
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection(submissionsCollection),
	}
}

func (r *submissionRepo) Save(ctx context.Context, sub *model.Submission) error {
	// One submission per session, keyed the same way
	if sub.ID == "" {
		sub.ID = sub.SessionID
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"sessionId": sub.SessionID}, sub, opts)
	return err
}

func (r *submissionRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Submission, error) {
	return findOne[model.Submission](ctx, r.collection, bson.M{"sessionId": sessionID})
}

// ListByOwner lists submissions newest first; an empty questionnaireID matches all
func (r *submissionRepo) ListByOwner(ctx context.Context, ownerID, questionnaireID string) ([]*model.Submission, error) {
	filter := bson.M{"ownerId": ownerID}
	if questionnaireID != "" {
		filter["questionnaireId"] = questionnaireID
	}
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []*model.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
