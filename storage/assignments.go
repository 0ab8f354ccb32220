package storage

import (
	"context"

	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssignmentStorage interface {
	GetByEmail(ctx context.Context, email string) ([]*UserJudgeAssignment, error)
	Create(ctx context.Context, assignment *UserJudgeAssignment) error
}

type MongoAssignmentStorage struct {
	Collection *mongo.Collection
}

func (s *MongoAssignmentStorage) GetByEmail(ctx context.Context, email string) ([]*UserJudgeAssignment, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		logging.Log.Errorf("ASSIGNMENTS: failed to query assignments for %s: %v", email, err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []*UserJudgeAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		logging.Log.Errorf("ASSIGNMENTS: failed to decode assignments for %s: %v", email, err)
		return nil, err
	}
	return assignments, nil
}

func (s *MongoAssignmentStorage) Create(ctx context.Context, assignment *UserJudgeAssignment) error {
	if _, err := s.Collection.InsertOne(ctx, assignment); err != nil {
		logging.Log.Errorf("ASSIGNMENTS: failed to create assignment for %s: %v", assignment.Email, err)
		return err
	}
	return nil
}
