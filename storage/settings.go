package storage

import (
	"context"
	"errors"

	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Hardcoded fallbacks used when an event has no RaceSetting document (or the
// relevant field is unset). A missing configuration is indistinguishable from
// an explicit "use defaults".
const (
	DefaultTotalGates    = 14
	DefaultTotalSections = 6
)

// RaceConfig is the resolved per-event sizing for penalty arrays.
type RaceConfig struct {
	TotalGates    int
	TotalSections int
}

type RaceSettingStorage interface {
	Resolve(ctx context.Context, eventID string) (RaceConfig, error)
	Get(ctx context.Context, eventID string) (*RaceSetting, error)
	Upsert(ctx context.Context, setting *RaceSetting) error
}

type MongoRaceSettingStorage struct {
	Collection *mongo.Collection
}

// Resolve returns the event's gate/section totals, defaulting silently when
// the document or a field is absent. Resolved fresh on every submission.
func (s *MongoRaceSettingStorage) Resolve(ctx context.Context, eventID string) (RaceConfig, error) {
	config := RaceConfig{
		TotalGates:    DefaultTotalGates,
		TotalSections: DefaultTotalSections,
	}

	setting, err := s.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logging.Log.Debugf("SETTINGS: no race setting for event %s, using defaults", eventID)
			return config, nil
		}
		return config, err
	}

	if setting.Slalom.TotalGate > 0 {
		config.TotalGates = setting.Slalom.TotalGate
	}
	if setting.DRR.TotalSection > 0 {
		config.TotalSections = setting.DRR.TotalSection
	}
	return config, nil
}

func (s *MongoRaceSettingStorage) Get(ctx context.Context, eventID string) (*RaceSetting, error) {
	var setting RaceSetting
	err := s.Collection.FindOne(ctx, bson.M{"eventId": eventID}).Decode(&setting)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			logging.Log.Errorf("SETTINGS: failed to get race setting for event %s: %v", eventID, err)
		}
		return nil, err
	}
	return &setting, nil
}

func (s *MongoRaceSettingStorage) Upsert(ctx context.Context, setting *RaceSetting) error {
	filter := bson.M{"eventId": setting.EventID}
	update := bson.M{"$set": bson.M{
		"eventId": setting.EventID,
		"slalom":  setting.Slalom,
		"drr":     setting.DRR,
	}}

	_, err := s.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logging.Log.Errorf("SETTINGS: failed to upsert race setting for event %s: %v", setting.EventID, err)
		return err
	}
	logging.Log.Infof("SETTINGS: race setting updated for event %s", setting.EventID)
	return nil
}
