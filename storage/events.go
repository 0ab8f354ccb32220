package storage

import (
	"context"
	"errors"

	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrEventNotFound = errors.New("event not found in storage")

type EventStorage interface {
	Get(ctx context.Context, id string) (*Event, error)
	GetAll(ctx context.Context) ([]*Event, error)
	Create(ctx context.Context, event *Event) (string, error)
	SetStatus(ctx context.Context, id, status string) error
}

type MongoEventStorage struct {
	Collection *mongo.Collection
}

func (s *MongoEventStorage) Get(ctx context.Context, id string) (*Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrEventNotFound
	}

	var event Event
	err = s.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		logging.Log.Errorf("EVENTS: failed to get event %s: %v", id, err)
		return nil, err
	}
	return &event, nil
}

func (s *MongoEventStorage) GetAll(ctx context.Context) ([]*Event, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		logging.Log.Errorf("EVENTS: failed to list events: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*Event
	if err := cursor.All(ctx, &events); err != nil {
		logging.Log.Errorf("EVENTS: failed to decode events: %v", err)
		return nil, err
	}
	return events, nil
}

func (s *MongoEventStorage) Create(ctx context.Context, event *Event) (string, error) {
	res, err := s.Collection.InsertOne(ctx, event)
	if err != nil {
		logging.Log.Errorf("EVENTS: failed to create event %s: %v", event.Name, err)
		return "", err
	}
	id := res.InsertedID.(primitive.ObjectID)
	logging.Log.Infof("EVENTS: created event %s (%s)", event.Name, id.Hex())
	return id.Hex(), nil
}

func (s *MongoEventStorage) SetStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrEventNotFound
	}

	res, err := s.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		logging.Log.Errorf("EVENTS: failed to set status for event %s: %v", id, err)
		return err
	}
	if res.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}
