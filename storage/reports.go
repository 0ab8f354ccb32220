package storage

import (
	"context"
	"time"

	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DetailFilter selects ledger records for the paginated GET side.
type DetailFilter struct {
	EventID     string
	Discipline  string
	TeamID      string
	Judge       string
	Judges      []string
	JudgeLike   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	Limit       int
	SortBy      string
	SortAsc     bool
}

type JudgeReportStorage interface {
	AppendDetail(ctx context.Context, detail *JudgeReportDetail) (primitive.ObjectID, error)
	ListDetails(ctx context.Context, filter DetailFilter) ([]*JudgeReportDetail, int64, error)
	GetReport(ctx context.Context, eventID, judgeID string) (*JudgeReport, error)
}

type MongoJudgeReportStorage struct {
	Reports *mongo.Collection
	Details *mongo.Collection
}

func disciplineBucket(discipline string) string {
	switch discipline {
	case DisciplineSprint:
		return "sprintDetails"
	case DisciplineSlalom:
		return "slalomDetails"
	case DisciplineH2H:
		return "h2hDetails"
	default:
		return "drrDetails"
	}
}

// AppendDetail inserts the immutable ledger record and pushes its reference
// onto the judge's per-event report, creating the report on first submission.
// The upsert makes find-or-create a single atomic operation.
func (s *MongoJudgeReportStorage) AppendDetail(ctx context.Context, detail *JudgeReportDetail) (primitive.ObjectID, error) {
	if detail.CreatedAt.IsZero() {
		detail.CreatedAt = time.Now().UTC()
	}

	res, err := s.Details.InsertOne(ctx, detail)
	if err != nil {
		logging.Log.Errorf("LEDGER: failed to insert detail for event %s: %v", detail.EventID, err)
		return primitive.NilObjectID, err
	}
	detailID := res.InsertedID.(primitive.ObjectID)
	detail.ID = detailID

	filter := bson.M{"eventId": detail.EventID, "judgeId": detail.JudgeID}
	update := bson.M{
		"$push": bson.M{disciplineBucket(detail.Discipline): detailID},
		"$set":  bson.M{"updatedAt": detail.CreatedAt},
		"$setOnInsert": bson.M{
			"eventId":   detail.EventID,
			"judgeId":   detail.JudgeID,
			"createdAt": detail.CreatedAt,
		},
	}

	var report JudgeReport
	err = s.Reports.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&report)
	if err != nil {
		// The detail exists but the report push failed: the audit trail is
		// incomplete and that must be loud.
		logging.Log.Errorf("LEDGER: detail %s inserted but report push failed for judge %s: %v",
			detailID.Hex(), detail.JudgeID, err)
		return primitive.NilObjectID, err
	}

	logging.Log.Infof("LEDGER: recorded %s detail %s for judge %s", detail.Discipline, detailID.Hex(), detail.JudgeID)
	return report.ID, nil
}

func (s *MongoJudgeReportStorage) GetReport(ctx context.Context, eventID, judgeID string) (*JudgeReport, error) {
	var report JudgeReport
	err := s.Reports.FindOne(ctx, bson.M{"eventId": eventID, "judgeId": judgeID}).Decode(&report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *MongoJudgeReportStorage) ListDetails(ctx context.Context, f DetailFilter) ([]*JudgeReportDetail, int64, error) {
	filter := bson.M{}
	if f.EventID != "" {
		filter["eventId"] = f.EventID
	}
	if f.Discipline != "" {
		filter["eventType"] = f.Discipline
	}
	if f.TeamID != "" {
		filter["teamId"] = f.TeamID
	}
	if f.Judge != "" {
		filter["judgeId"] = f.Judge
	}
	if len(f.Judges) > 0 {
		filter["judgeId"] = bson.M{"$in": f.Judges}
	}
	if f.JudgeLike != "" {
		filter["judgeId"] = bson.M{"$regex": f.JudgeLike, "$options": "i"}
	}
	if f.CreatedFrom != nil || f.CreatedTo != nil {
		created := bson.M{}
		if f.CreatedFrom != nil {
			created["$gte"] = *f.CreatedFrom
		}
		if f.CreatedTo != nil {
			created["$lte"] = *f.CreatedTo
		}
		filter["createdAt"] = created
	}

	total, err := s.Details.CountDocuments(ctx, filter)
	if err != nil {
		logging.Log.Errorf("LEDGER: failed to count details: %v", err)
		return nil, 0, err
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	order := -1
	if f.SortAsc {
		order = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: order}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cursor, err := s.Details.Find(ctx, filter, opts)
	if err != nil {
		logging.Log.Errorf("LEDGER: failed to list details: %v", err)
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var details []*JudgeReportDetail
	if err := cursor.All(ctx, &details); err != nil {
		logging.Log.Errorf("LEDGER: failed to decode details: %v", err)
		return nil, 0, err
	}
	return details, total, nil
}
