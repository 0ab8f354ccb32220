package controllers

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"github.com/rizkybor/sts-jurysystem-sub000/realtime"
	"github.com/rizkybor/sts-jurysystem-sub000/storage"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory stand-ins for the mongo stores. They implement the same
// interfaces the controllers are injected with and the same update policies,
// so the endpoint semantics are testable without a running database.

type fakeTeamStorage struct {
	groups map[string]*storage.RegisteredTeamGroup
}

func newFakeTeamStorage() *fakeTeamStorage {
	return &fakeTeamStorage{groups: make(map[string]*storage.RegisteredTeamGroup)}
}

func keyOf(k storage.GroupKey) string {
	return strings.Join([]string{k.EventID, k.InitialID, k.DivisionID, k.RaceID, k.Discipline}, "/")
}

func (s *fakeTeamStorage) GetGroup(_ context.Context, key storage.GroupKey) (*storage.RegisteredTeamGroup, error) {
	group, ok := s.groups[keyOf(key)]
	if !ok {
		return nil, storage.ErrGroupNotFound
	}
	return group, nil
}

func (s *fakeTeamStorage) GetGroupsByCategory(_ context.Context, eventID, initialID, divisionID, raceID string) ([]*storage.RegisteredTeamGroup, error) {
	var groups []*storage.RegisteredTeamGroup
	for _, g := range s.groups {
		if g.EventID != eventID {
			continue
		}
		if initialID != "" && g.InitialID != initialID {
			continue
		}
		if divisionID != "" && g.DivisionID != divisionID {
			continue
		}
		if raceID != "" && g.RaceID != raceID {
			continue
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (s *fakeTeamStorage) CreateGroup(_ context.Context, group *storage.RegisteredTeamGroup) error {
	key := keyOf(storage.GroupKey{
		EventID:    group.EventID,
		InitialID:  group.InitialID,
		DivisionID: group.DivisionID,
		RaceID:     group.RaceID,
		Discipline: group.Discipline,
	})
	if _, ok := s.groups[key]; ok {
		return storage.ErrItemAlreadyExists
	}
	s.groups[key] = group
	return nil
}

func (s *fakeTeamStorage) FindTeamLabel(_ context.Context, eventID, teamID string) (string, string, error) {
	for _, g := range s.groups {
		if g.EventID != eventID {
			continue
		}
		for _, t := range g.Teams {
			if t.TeamID == teamID {
				return t.Name, t.BibNumber, nil
			}
		}
	}
	return "", "", storage.ErrTeamNotFound
}

func (s *fakeTeamStorage) findTeam(key storage.GroupKey, teamID string) (*storage.Team, error) {
	group, ok := s.groups[keyOf(key)]
	if !ok {
		return nil, storage.ErrGroupNotFound
	}
	for i := range group.Teams {
		if group.Teams[i].TeamID == teamID {
			return &group.Teams[i], nil
		}
	}
	return nil, storage.ErrTeamNotFound
}

func (s *fakeTeamStorage) SetSprintPenalty(_ context.Context, key storage.GroupKey, teamID, position string, penalty float64, judge string, at time.Time) error {
	team, err := s.findTeam(key, teamID)
	if err != nil {
		return err
	}
	if team.SprintResult == nil {
		team.SprintResult = &storage.SprintResult{}
	}
	target := &team.SprintResult.StartPenalty
	if position == storage.PositionFinish {
		target = &team.SprintResult.FinishPenalty
	}
	if *target != nil {
		return storage.ErrDuplicateSubmission
	}
	*target = &penalty
	team.SprintResult.JudgesBy = judge
	team.SprintResult.JudgesTime = at
	return nil
}

func (s *fakeTeamStorage) ensureRuns(team *storage.Team, runNumber, totalGates int) {
	for len(team.SlalomResult) < runNumber {
		team.SlalomResult = append(team.SlalomResult, storage.SlalomRun{
			PenaltyTotal: storage.PenaltyTotal{Gates: make([]float64, totalGates)},
		})
	}
}

func (s *fakeTeamStorage) SetSlalomRunPenalty(_ context.Context, key storage.GroupKey, teamID string, runNumber int, position string, penalty float64, totalGates int, judge string, at time.Time) error {
	team, err := s.findTeam(key, teamID)
	if err != nil {
		return err
	}
	s.ensureRuns(team, runNumber, totalGates)
	run := &team.SlalomResult[runNumber-1]
	if position == storage.PositionFinish {
		run.FinishPenalty = penalty
	} else {
		run.StartPenalty = penalty
	}
	run.JudgesBy = judge
	run.JudgesTime = at
	return nil
}

func (s *fakeTeamStorage) SetSlalomGatePenalty(_ context.Context, key storage.GroupKey, teamID string, runNumber, gateNumber, totalGates int, penalty float64, judge string, at time.Time) error {
	team, err := s.findTeam(key, teamID)
	if err != nil {
		return err
	}
	s.ensureRuns(team, runNumber, totalGates)
	run := &team.SlalomResult[runNumber-1]

	gates := run.PenaltyTotal.Gates
	if len(gates) != totalGates {
		resized := make([]float64, totalGates)
		copy(resized, gates)
		gates = resized
	}
	gates[gateNumber-1] = penalty

	var total float64
	for _, v := range gates {
		total += v
	}
	run.PenaltyTotal = storage.PenaltyTotal{Gates: gates, Total: total}
	run.JudgesBy = judge
	run.JudgesTime = at
	return nil
}

func (s *fakeTeamStorage) SetDRRSectionPenalty(_ context.Context, key storage.GroupKey, teamID string, section, totalSections int, penalty float64, judge string, at time.Time) error {
	team, err := s.findTeam(key, teamID)
	if err != nil {
		return err
	}
	if len(team.DRRResult) == 0 {
		team.DRRResult = []storage.DRRResult{{}}
	}
	entry := &team.DRRResult[0]

	sections := entry.SectionPenalty
	if len(sections) != totalSections {
		resized := make([]*float64, totalSections)
		copy(resized, sections)
		sections = resized
	}
	sections[section-1] = &penalty

	entry.SectionPenalty = sections
	entry.JudgesBy = judge
	entry.JudgesTime = at
	return nil
}

func (s *fakeTeamStorage) SetH2HResult(_ context.Context, key storage.GroupKey, teamID string, heat int, booyan, passed bool, judge string, at time.Time) error {
	team, err := s.findTeam(key, teamID)
	if err != nil {
		return err
	}
	team.H2HResult = &storage.H2HResult{
		Heat:       heat,
		Booyan:     booyan,
		Passed:     passed,
		JudgesBy:   judge,
		JudgesTime: at,
	}
	return nil
}

type fakeSettingStorage struct {
	byEvent map[string]*storage.RaceSetting
}

func newFakeSettingStorage() *fakeSettingStorage {
	return &fakeSettingStorage{byEvent: make(map[string]*storage.RaceSetting)}
}

func (s *fakeSettingStorage) Resolve(_ context.Context, eventID string) (storage.RaceConfig, error) {
	config := storage.RaceConfig{
		TotalGates:    storage.DefaultTotalGates,
		TotalSections: storage.DefaultTotalSections,
	}
	setting, ok := s.byEvent[eventID]
	if !ok {
		return config, nil
	}
	if setting.Slalom.TotalGate > 0 {
		config.TotalGates = setting.Slalom.TotalGate
	}
	if setting.DRR.TotalSection > 0 {
		config.TotalSections = setting.DRR.TotalSection
	}
	return config, nil
}

func (s *fakeSettingStorage) Get(_ context.Context, eventID string) (*storage.RaceSetting, error) {
	setting, ok := s.byEvent[eventID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return setting, nil
}

func (s *fakeSettingStorage) Upsert(_ context.Context, setting *storage.RaceSetting) error {
	s.byEvent[setting.EventID] = setting
	return nil
}

type fakeAssignmentStorage struct {
	byEmail map[string][]*storage.UserJudgeAssignment
}

func newFakeAssignmentStorage() *fakeAssignmentStorage {
	return &fakeAssignmentStorage{byEmail: make(map[string][]*storage.UserJudgeAssignment)}
}

func (s *fakeAssignmentStorage) GetByEmail(_ context.Context, email string) ([]*storage.UserJudgeAssignment, error) {
	return s.byEmail[email], nil
}

func (s *fakeAssignmentStorage) Create(_ context.Context, assignment *storage.UserJudgeAssignment) error {
	s.byEmail[assignment.Email] = append(s.byEmail[assignment.Email], assignment)
	return nil
}

type fakeReportStorage struct {
	details []*storage.JudgeReportDetail
	reports map[string]*storage.JudgeReport
}

func newFakeReportStorage() *fakeReportStorage {
	return &fakeReportStorage{reports: make(map[string]*storage.JudgeReport)}
}

func (s *fakeReportStorage) AppendDetail(_ context.Context, detail *storage.JudgeReportDetail) (primitive.ObjectID, error) {
	detail.ID = primitive.NewObjectID()
	if detail.CreatedAt.IsZero() {
		detail.CreatedAt = time.Now().UTC()
	}
	s.details = append(s.details, detail)

	key := detail.EventID + "/" + detail.JudgeID
	report, ok := s.reports[key]
	if !ok {
		report = &storage.JudgeReport{
			ID:            primitive.NewObjectID(),
			EventID:       detail.EventID,
			JudgeID:       detail.JudgeID,
			SprintDetails: []primitive.ObjectID{},
			SlalomDetails: []primitive.ObjectID{},
			H2HDetails:    []primitive.ObjectID{},
			DRRDetails:    []primitive.ObjectID{},
			CreatedAt:     detail.CreatedAt,
		}
		s.reports[key] = report
	}
	switch detail.Discipline {
	case storage.DisciplineSprint:
		report.SprintDetails = append(report.SprintDetails, detail.ID)
	case storage.DisciplineSlalom:
		report.SlalomDetails = append(report.SlalomDetails, detail.ID)
	case storage.DisciplineH2H:
		report.H2HDetails = append(report.H2HDetails, detail.ID)
	default:
		report.DRRDetails = append(report.DRRDetails, detail.ID)
	}
	report.UpdatedAt = detail.CreatedAt
	return report.ID, nil
}

func (s *fakeReportStorage) GetReport(_ context.Context, eventID, judgeID string) (*storage.JudgeReport, error) {
	report, ok := s.reports[eventID+"/"+judgeID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return report, nil
}

func (s *fakeReportStorage) ListDetails(_ context.Context, f storage.DetailFilter) ([]*storage.JudgeReportDetail, int64, error) {
	var matched []*storage.JudgeReportDetail
	for _, d := range s.details {
		if f.EventID != "" && d.EventID != f.EventID {
			continue
		}
		if f.Discipline != "" && d.Discipline != f.Discipline {
			continue
		}
		if f.TeamID != "" && d.TeamID != f.TeamID {
			continue
		}
		if f.JudgeLike != "" {
			if !strings.Contains(strings.ToLower(d.JudgeID), strings.ToLower(f.JudgeLike)) {
				continue
			}
		} else if len(f.Judges) > 0 {
			found := false
			for _, j := range f.Judges {
				if d.JudgeID == j {
					found = true
				}
			}
			if !found {
				continue
			}
		} else if f.Judge != "" && d.JudgeID != f.Judge {
			continue
		}
		if f.CreatedFrom != nil && d.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && d.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		matched = append(matched, d)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if f.SortAsc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type fakeEventStorage struct {
	byID map[string]*storage.Event
}

func newFakeEventStorage() *fakeEventStorage {
	return &fakeEventStorage{byID: make(map[string]*storage.Event)}
}

func (s *fakeEventStorage) Get(_ context.Context, id string) (*storage.Event, error) {
	event, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrEventNotFound
	}
	return event, nil
}

func (s *fakeEventStorage) GetAll(_ context.Context) ([]*storage.Event, error) {
	var events []*storage.Event
	for _, e := range s.byID {
		events = append(events, e)
	}
	return events, nil
}

func (s *fakeEventStorage) Create(_ context.Context, event *storage.Event) (string, error) {
	event.ID = primitive.NewObjectID()
	s.byID[event.ID.Hex()] = event
	return event.ID.Hex(), nil
}

func (s *fakeEventStorage) SetStatus(_ context.Context, id, status string) error {
	event, ok := s.byID[id]
	if !ok {
		return storage.ErrEventNotFound
	}
	event.Status = status
	return nil
}

type testEnv struct {
	teams       *fakeTeamStorage
	settings    *fakeSettingStorage
	assignments *fakeAssignmentStorage
	reports     *fakeReportStorage
	events      *fakeEventStorage
	router      *gin.Engine
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	logging.Log = logrus.New()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		teams:       newFakeTeamStorage(),
		settings:    newFakeSettingStorage(),
		assignments: newFakeAssignmentStorage(),
		reports:     newFakeReportStorage(),
		events:      newFakeEventStorage(),
	}

	r := gin.New()
	notifier := realtime.NewNotifier("")

	NewSlalomController(env.teams, env.settings, env.assignments, env.reports, notifier).RegisterRoutes(r)
	NewDRRController(env.teams, env.settings, env.assignments, env.reports, notifier).RegisterRoutes(r)
	NewJudgeReportController(env.teams, env.settings, env.assignments, env.reports, notifier).RegisterRoutes(r)
	NewEventController(env.events, env.teams).RegisterRoutes(r)
	NewAssignmentController(env.assignments).RegisterRoutes(r)
	NewAdminController(env.events, env.teams, env.settings, env.assignments).RegisterRoutes(r)

	env.router = r
	return env
}

const (
	testEvent = "E1"
	testJudge = "judge@example.com"
)

func testKey(discipline string) storage.GroupKey {
	return storage.GroupKey{
		EventID:    testEvent,
		InitialID:  "I1",
		DivisionID: "D1",
		RaceID:     "R1",
		Discipline: discipline,
	}
}

// seedGroup registers a group with the given teams under the default
// category slice.
func (e *testEnv) seedGroup(discipline string, teams ...storage.Team) storage.GroupKey {
	key := testKey(discipline)
	e.teams.groups[keyOf(key)] = &storage.RegisteredTeamGroup{
		EventID:    key.EventID,
		InitialID:  key.InitialID,
		DivisionID: key.DivisionID,
		RaceID:     key.RaceID,
		Discipline: discipline,
		Teams:      teams,
	}
	return key
}

// assignEverything grants the test judge every position of every discipline
// for the test event, so authorization does not get in the way of protocol
// tests. Tests about authorization seed narrower assignments themselves.
func (e *testEnv) assignEverything(email string) {
	gates := make([]int, 30)
	sections := make([]int, 30)
	for i := range gates {
		gates[i] = i + 1
		sections[i] = i + 1
	}
	for _, d := range []string{storage.DisciplineSprint, storage.DisciplineSlalom, storage.DisciplineH2H, storage.DisciplineDRR} {
		e.assignments.byEmail[email] = append(e.assignments.byEmail[email], &storage.UserJudgeAssignment{
			Email:      email,
			EventID:    testEvent,
			Discipline: d,
			Start:      true,
			Finish:     true,
			Gates:      gates,
			Sections:   sections,
			Booyan:     true,
		})
	}
}

func judgeHeaders() map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		"x-judge-email": testJudge,
	}
}
