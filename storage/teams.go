package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TeamStorage interface {
	GetGroup(ctx context.Context, key GroupKey) (*RegisteredTeamGroup, error)
	GetGroupsByCategory(ctx context.Context, eventID, initialID, divisionID, raceID string) ([]*RegisteredTeamGroup, error)
	CreateGroup(ctx context.Context, group *RegisteredTeamGroup) error
	FindTeamLabel(ctx context.Context, eventID, teamID string) (string, string, error)
	SetSprintPenalty(ctx context.Context, key GroupKey, teamID, position string, penalty float64, judge string, at time.Time) error
	SetSlalomRunPenalty(ctx context.Context, key GroupKey, teamID string, runNumber int, position string, penalty float64, totalGates int, judge string, at time.Time) error
	SetSlalomGatePenalty(ctx context.Context, key GroupKey, teamID string, runNumber, gateNumber, totalGates int, penalty float64, judge string, at time.Time) error
	SetDRRSectionPenalty(ctx context.Context, key GroupKey, teamID string, section, totalSections int, penalty float64, judge string, at time.Time) error
	SetH2HResult(ctx context.Context, key GroupKey, teamID string, heat int, booyan, passed bool, judge string, at time.Time) error
}

// How often a conditional update is retried after losing a race before the
// caller gets ErrConflict.
const slotUpdateRetries = 3

type MongoTeamStorage struct {
	Collection *mongo.Collection
}

func groupFilter(key GroupKey) bson.M {
	return bson.M{
		"eventId":    key.EventID,
		"initialId":  key.InitialID,
		"divisionId": key.DivisionID,
		"raceId":     key.RaceID,
		"discipline": key.Discipline,
	}
}

func teamArrayFilters(teamID string) *options.UpdateOptions {
	return options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"t.teamId": teamID}},
	})
}

// teamPath prefixes a team-relative field path for a $[t] positional update.
func teamPath(field string) string {
	return "teams.$[t]." + field
}

// appendLenCond asserts inside an $elemMatch that the array at path has
// exactly n entries right now. n == 0 also covers a missing or null array.
// This is the compare-and-swap guard that closes the resize race.
func appendLenCond(cond bson.M, path string, n int) {
	cond[fmt.Sprintf("%s.%d", path, n)] = bson.M{"$exists": false}
	if n > 0 {
		cond[fmt.Sprintf("%s.%d", path, n-1)] = bson.M{"$exists": true}
	}
}

func (s *MongoTeamStorage) GetGroup(ctx context.Context, key GroupKey) (*RegisteredTeamGroup, error) {
	var group RegisteredTeamGroup
	err := s.Collection.FindOne(ctx, groupFilter(key)).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		logging.Log.Errorf("TEAMS: failed to get group for event %s: %v", key.EventID, err)
		return nil, err
	}
	return &group, nil
}

func (s *MongoTeamStorage) GetGroupsByCategory(ctx context.Context, eventID, initialID, divisionID, raceID string) ([]*RegisteredTeamGroup, error) {
	filter := bson.M{"eventId": eventID}
	if initialID != "" {
		filter["initialId"] = initialID
	}
	if divisionID != "" {
		filter["divisionId"] = divisionID
	}
	if raceID != "" {
		filter["raceId"] = raceID
	}

	cursor, err := s.Collection.Find(ctx, filter)
	if err != nil {
		logging.Log.Errorf("TEAMS: failed to list groups for event %s: %v", eventID, err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []*RegisteredTeamGroup
	if err := cursor.All(ctx, &groups); err != nil {
		logging.Log.Errorf("TEAMS: failed to decode groups for event %s: %v", eventID, err)
		return nil, err
	}
	return groups, nil
}

func (s *MongoTeamStorage) CreateGroup(ctx context.Context, group *RegisteredTeamGroup) error {
	key := GroupKey{
		EventID:    group.EventID,
		InitialID:  group.InitialID,
		DivisionID: group.DivisionID,
		RaceID:     group.RaceID,
		Discipline: group.Discipline,
	}
	if _, err := s.GetGroup(ctx, key); err == nil {
		logging.Log.Warnf("TEAMS: group already exists for event %s discipline %s", group.EventID, group.Discipline)
		return ErrItemAlreadyExists
	} else if !errors.Is(err, ErrGroupNotFound) {
		return err
	}

	if _, err := s.Collection.InsertOne(ctx, group); err != nil {
		logging.Log.Errorf("TEAMS: failed to create group: %v", err)
		return err
	}
	return nil
}

// FindTeamLabel resolves a team's display name and bib for ledger enrichment.
func (s *MongoTeamStorage) FindTeamLabel(ctx context.Context, eventID, teamID string) (string, string, error) {
	var group RegisteredTeamGroup
	err := s.Collection.FindOne(ctx, bson.M{"eventId": eventID, "teams.teamId": teamID}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", "", ErrTeamNotFound
		}
		return "", "", err
	}
	for _, t := range group.Teams {
		if t.TeamID == teamID {
			return t.Name, t.BibNumber, nil
		}
	}
	return "", "", ErrTeamNotFound
}

// findTeam fetches the group and the addressed team, mapping absences to the
// sentinel errors the controllers translate into 404s.
func (s *MongoTeamStorage) findTeam(ctx context.Context, key GroupKey, teamID string) (*RegisteredTeamGroup, *Team, error) {
	group, err := s.GetGroup(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	for i := range group.Teams {
		if group.Teams[i].TeamID == teamID {
			return group, &group.Teams[i], nil
		}
	}
	return nil, nil, ErrTeamNotFound
}

// SetSprintPenalty records a start or finish penalty exactly once. The guard
// ("position not yet recorded") is part of the update filter, so two
// concurrent submissions for the same position cannot both pass it.
func (s *MongoTeamStorage) SetSprintPenalty(ctx context.Context, key GroupKey, teamID, position string, penalty float64, judge string, at time.Time) error {
	field := "sprintResult.startPenalty"
	if position == PositionFinish {
		field = "sprintResult.finishPenalty"
	}

	filter := groupFilter(key)
	filter["teams"] = bson.M{"$elemMatch": bson.M{"teamId": teamID, field: nil}}

	update := bson.M{"$set": bson.M{
		teamPath(field):                     penalty,
		teamPath("sprintResult.judgesBy"):   judge,
		teamPath("sprintResult.judgesTime"): at,
	}}

	res, err := s.Collection.UpdateOne(ctx, filter, update, teamArrayFilters(teamID))
	if err != nil {
		logging.Log.Errorf("TEAMS: sprint update failed for team %s: %v", teamID, err)
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// The filter missed: tell a missing team apart from a duplicate.
	_, _, err = s.findTeam(ctx, key, teamID)
	if err != nil {
		return err
	}
	logging.Log.Warnf("TEAMS: duplicate sprint %s submission for team %s", position, teamID)
	return ErrDuplicateSubmission
}

// ensureSlalomRuns grows the team's run list to runNumber entries, each with
// a zero-filled gates array. Returns the current runs after the grow.
func (s *MongoTeamStorage) ensureSlalomRuns(ctx context.Context, key GroupKey, teamID string, runNumber, totalGates int) ([]SlalomRun, error) {
	for attempt := 0; attempt < slotUpdateRetries; attempt++ {
		_, team, err := s.findTeam(ctx, key, teamID)
		if err != nil {
			return nil, err
		}
		runs := team.SlalomResult
		if len(runs) >= runNumber {
			return runs, nil
		}

		padded := make([]SlalomRun, runNumber)
		copy(padded, runs)
		for i := len(runs); i < runNumber; i++ {
			padded[i] = SlalomRun{PenaltyTotal: PenaltyTotal{Gates: make([]float64, totalGates)}}
		}

		cond := bson.M{"teamId": teamID}
		appendLenCond(cond, "slalomResult", len(runs))
		filter := groupFilter(key)
		filter["teams"] = bson.M{"$elemMatch": cond}

		update := bson.M{"$set": bson.M{teamPath("slalomResult"): padded}}
		res, err := s.Collection.UpdateOne(ctx, filter, update, teamArrayFilters(teamID))
		if err != nil {
			logging.Log.Errorf("TEAMS: failed to grow slalom runs for team %s: %v", teamID, err)
			return nil, err
		}
		if res.MatchedCount > 0 {
			return padded, nil
		}
		// Someone else grew the array between our read and write; re-read.
	}
	return nil, ErrConflict
}

func (s *MongoTeamStorage) SetSlalomRunPenalty(ctx context.Context, key GroupKey, teamID string, runNumber int, position string, penalty float64, totalGates int, judge string, at time.Time) error {
	if _, err := s.ensureSlalomRuns(ctx, key, teamID, runNumber, totalGates); err != nil {
		return err
	}

	prefix := fmt.Sprintf("slalomResult.%d", runNumber-1)
	field := prefix + ".startPenalty"
	if position == PositionFinish {
		field = prefix + ".finishPenalty"
	}

	filter := groupFilter(key)
	filter["teams"] = bson.M{"$elemMatch": bson.M{"teamId": teamID}}
	update := bson.M{"$set": bson.M{
		teamPath(field):                  penalty,
		teamPath(prefix + ".judgesBy"):   judge,
		teamPath(prefix + ".judgesTime"): at,
	}}

	res, err := s.Collection.UpdateOne(ctx, filter, update, teamArrayFilters(teamID))
	if err != nil {
		logging.Log.Errorf("TEAMS: slalom %s update failed for team %s: %v", position, teamID, err)
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// SetSlalomGatePenalty applies the sized-slot policy to one gate of one run.
// When the stored gates array already has the configured length only the
// targeted slot is written; otherwise the array is allocated or resized as a
// whole, guarded by a length assertion in the filter.
func (s *MongoTeamStorage) SetSlalomGatePenalty(ctx context.Context, key GroupKey, teamID string, runNumber, gateNumber, totalGates int, penalty float64, judge string, at time.Time) error {
	if _, err := s.ensureSlalomRuns(ctx, key, teamID, runNumber, totalGates); err != nil {
		return err
	}

	prefix := fmt.Sprintf("slalomResult.%d", runNumber-1)
	gatesPath := prefix + ".penaltyTotal.gates"
	gateIdx := gateNumber - 1

	for attempt := 0; attempt < slotUpdateRetries; attempt++ {
		_, team, err := s.findTeam(ctx, key, teamID)
		if err != nil {
			return err
		}
		if len(team.SlalomResult) < runNumber {
			continue
		}
		gates := team.SlalomResult[runNumber-1].PenaltyTotal.Gates
		plan := planSlotUpdate(floatsToSlots(gates), totalGates, gateIdx, penalty, true)

		cond := bson.M{"teamId": teamID}
		filter := groupFilter(key)
		stamps := bson.M{
			teamPath(prefix + ".judgesBy"):   judge,
			teamPath(prefix + ".judgesTime"): at,
		}

		var update bson.M
		switch plan.Kind {
		case slotPatch:
			old := gates[gateIdx]
			appendLenCond(cond, gatesPath, totalGates)
			// Slot equality doubles as the existence assertion when the
			// targeted slot is the last one.
			cond[fmt.Sprintf("%s.%d", gatesPath, gateIdx)] = old

			set := bson.M{teamPath(fmt.Sprintf("%s.%d", gatesPath, gateIdx)): penalty}
			for k, v := range stamps {
				set[k] = v
			}
			update = bson.M{
				"$set": set,
				"$inc": bson.M{teamPath(prefix + ".penaltyTotal.total"): penalty - old},
			}
		default:
			appendLenCond(cond, gatesPath, plan.OldLen)
			update = bson.M{"$set": bson.M{
				teamPath(gatesPath):                      slotsToFloats(plan.Array),
				teamPath(prefix + ".penaltyTotal.total"): slotsTotal(plan.Array),
			}}
			for k, v := range stamps {
				update["$set"].(bson.M)[k] = v
			}
			if plan.Kind == slotResize {
				logging.Log.Warnf("TEAMS: resizing gates array for team %s from %d to %d, values past the new length are dropped",
					teamID, plan.OldLen, totalGates)
			}
		}

		filter["teams"] = bson.M{"$elemMatch": cond}
		res, err := s.Collection.UpdateOne(ctx, filter, update, teamArrayFilters(teamID))
		if err != nil {
			logging.Log.Errorf("TEAMS: slalom gate update failed for team %s: %v", teamID, err)
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
		// Lost the race against a concurrent writer; re-read and retry.
	}
	return ErrConflict
}

// SetDRRSectionPenalty is the slalom gate logic one level shallower: no run
// dimension, index 0 of the result array, null-filled sections.
func (s *MongoTeamStorage) SetDRRSectionPenalty(ctx context.Context, key GroupKey, teamID string, section, totalSections int, penalty float64, judge string, at time.Time) error {
	sectionsPath := "drrResult.0.sectionPenalty"
	sectionIdx := section - 1

	for attempt := 0; attempt < slotUpdateRetries; attempt++ {
		_, team, err := s.findTeam(ctx, key, teamID)
		if err != nil {
			return err
		}

		cond := bson.M{"teamId": teamID}
		filter := groupFilter(key)

		if len(team.DRRResult) == 0 {
			// First submission for this team: write the whole result entry.
			plan := planSlotUpdate(nil, totalSections, sectionIdx, penalty, false)
			appendLenCond(cond, "drrResult", 0)
			filter["teams"] = bson.M{"$elemMatch": cond}
			update := bson.M{"$set": bson.M{
				teamPath("drrResult"): []DRRResult{{
					SectionPenalty: plan.Array,
					JudgesBy:       judge,
					JudgesTime:     at,
				}},
			}}
			res, err := s.Collection.UpdateOne(ctx, filter, update, teamArrayFilters(teamID))
			if err != nil {
				logging.Log.Errorf("TEAMS: drr result create failed for team %s: %v", teamID, err)
				return err
			}
			if res.MatchedCount > 0 {
				return nil
			}
			continue
		}

		sections := team.DRRResult[0].SectionPenalty
		plan := planSlotUpdate(sections, totalSections, sectionIdx, penalty, false)
		stamps := bson.M{
			teamPath("drrResult.0.judgesBy"):   judge,
			teamPath("drrResult.0.judgesTime"): at,
		}

		var update bson.M
		switch plan.Kind {
		case slotPatch:
			appendLenCond(cond, sectionsPath, totalSections)
			set := bson.M{teamPath(fmt.Sprintf("%s.%d", sectionsPath, sectionIdx)): penalty}
			for k, v := range stamps {
				set[k] = v
			}
			update = bson.M{"$set": set}
		default:
			appendLenCond(cond, sectionsPath, plan.OldLen)
			set := bson.M{teamPath(sectionsPath): plan.Array}
			for k, v := range stamps {
				set[k] = v
			}
			update = bson.M{"$set": set}
			if plan.Kind == slotResize {
				logging.Log.Warnf("TEAMS: resizing sections array for team %s from %d to %d, values past the new length are dropped",
					teamID, plan.OldLen, totalSections)
			}
		}

		filter["teams"] = bson.M{"$elemMatch": cond}
		res, err := s.Collection.UpdateOne(ctx, filter, update, teamArrayFilters(teamID))
		if err != nil {
			logging.Log.Errorf("TEAMS: drr section update failed for team %s: %v", teamID, err)
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
	}
	return ErrConflict
}

func (s *MongoTeamStorage) SetH2HResult(ctx context.Context, key GroupKey, teamID string, heat int, booyan, passed bool, judge string, at time.Time) error {
	filter := groupFilter(key)
	filter["teams"] = bson.M{"$elemMatch": bson.M{"teamId": teamID}}

	update := bson.M{"$set": bson.M{
		teamPath("h2hResult"): H2HResult{
			Heat:       heat,
			Booyan:     booyan,
			Passed:     passed,
			JudgesBy:   judge,
			JudgesTime: at,
		},
	}}

	res, err := s.Collection.UpdateOne(ctx, filter, update, teamArrayFilters(teamID))
	if err != nil {
		logging.Log.Errorf("TEAMS: h2h update failed for team %s: %v", teamID, err)
		return err
	}
	if res.MatchedCount == 0 {
		_, _, err := s.findTeam(ctx, key, teamID)
		if err != nil {
			return err
		}
		return ErrTeamNotFound
	}
	return nil
}
