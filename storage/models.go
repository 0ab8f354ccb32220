package storage

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discipline names as stored on RegisteredTeamGroup documents and ledger records.
const (
	DisciplineSprint = "SPRINT"
	DisciplineSlalom = "SLALOM"
	DisciplineH2H    = "H2H"
	DisciplineDRR    = "DRR"
)

// Sprint/Slalom penalty positions.
const (
	PositionStart  = "START"
	PositionFinish = "FINISH"
)

// Event statuses.
const (
	EventActivated   = "Activated"
	EventDeactivated = "Deactivated"
)

type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"eventName" json:"eventName"`
	Location  string             `bson:"location" json:"location"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	Initials  []CategoryRef      `bson:"initials" json:"initials"`
	Divisions []CategoryRef      `bson:"divisions" json:"divisions"`
	Races     []CategoryRef      `bson:"races" json:"races"`
	Officials []string           `bson:"officials" json:"officials"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// CategoryRef is one entry of an event's initial/division/race lists.
type CategoryRef struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// GroupKey identifies exactly one RegisteredTeamGroup document.
type GroupKey struct {
	EventID    string
	InitialID  string
	DivisionID string
	RaceID     string
	Discipline string
}

// RegisteredTeamGroup holds the teams racing one category slice of one
// discipline. There is exactly one document per key tuple; teams inside are
// addressed by teamId, never by array position.
type RegisteredTeamGroup struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID    string             `bson:"eventId" json:"eventId"`
	InitialID  string             `bson:"initialId" json:"initialId"`
	DivisionID string             `bson:"divisionId" json:"divisionId"`
	RaceID     string             `bson:"raceId" json:"raceId"`
	Discipline string             `bson:"discipline" json:"discipline"`
	Teams      []Team             `bson:"teams" json:"teams"`
}

type Team struct {
	TeamID       string        `bson:"teamId" json:"teamId"`
	Name         string        `bson:"teamName" json:"teamName"`
	BibNumber    string        `bson:"bibNumber" json:"bibNumber"`
	SprintResult *SprintResult `bson:"sprintResult,omitempty" json:"sprintResult,omitempty"`
	SlalomResult []SlalomRun   `bson:"slalomResult,omitempty" json:"slalomResult,omitempty"`
	DRRResult    []DRRResult   `bson:"drrResult,omitempty" json:"drrResult,omitempty"`
	H2HResult    *H2HResult    `bson:"h2hResult,omitempty" json:"h2hResult,omitempty"`
}

type SprintResult struct {
	StartPenalty  *float64  `bson:"startPenalty" json:"startPenalty"`
	FinishPenalty *float64  `bson:"finishPenalty" json:"finishPenalty"`
	JudgesBy      string    `bson:"judgesBy" json:"judgesBy"`
	JudgesTime    time.Time `bson:"judgesTime" json:"judgesTime"`
}

type SlalomRun struct {
	StartPenalty  float64      `bson:"startPenalty" json:"startPenalty"`
	FinishPenalty float64      `bson:"finishPenalty" json:"finishPenalty"`
	PenaltyTotal  PenaltyTotal `bson:"penaltyTotal" json:"penaltyTotal"`
	JudgesBy      string       `bson:"judgesBy" json:"judgesBy"`
	JudgesTime    time.Time    `bson:"judgesTime" json:"judgesTime"`
}

// PenaltyTotal keeps the per-gate penalties plus their running sum. The gates
// array length always equals the event's configured total after a write.
type PenaltyTotal struct {
	Gates []float64 `bson:"gates" json:"gates"`
	Total float64   `bson:"total" json:"total"`
}

// DRRResult is one down-river-race result entry; index 0 of the team's
// drrResult array is the only slot in use. Unrecorded sections stay null.
type DRRResult struct {
	SectionPenalty []*float64 `bson:"sectionPenalty" json:"sectionPenalty"`
	JudgesBy       string     `bson:"judgesBy" json:"judgesBy"`
	JudgesTime     time.Time  `bson:"judgesTime" json:"judgesTime"`
}

type H2HResult struct {
	Heat       int       `bson:"heat" json:"heat"`
	Booyan     bool      `bson:"booyan" json:"booyan"`
	Passed     bool      `bson:"passed" json:"passed"`
	JudgesBy   string    `bson:"judgesBy" json:"judgesBy"`
	JudgesTime time.Time `bson:"judgesTime" json:"judgesTime"`
}

// RaceSetting fixes how many gates/sections an event runs with. Absence of
// the document, or of a field, falls back to the defaults in settings.go.
type RaceSetting struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID string             `bson:"eventId" json:"eventId"`
	Slalom  SlalomSetting      `bson:"slalom" json:"slalom"`
	DRR     DRRSetting         `bson:"drr" json:"drr"`
}

type SlalomSetting struct {
	TotalGate int `bson:"totalGate" json:"totalGate"`
}

type DRRSetting struct {
	TotalSection int `bson:"totalSection" json:"totalSection"`
}

// JudgeReportDetail is the immutable audit record of one judge action. It is
// never updated after creation; the mutable team result can be overwritten by
// later submissions, this cannot.
type JudgeReportDetail struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID    string             `bson:"eventId" json:"eventId"`
	Discipline string             `bson:"eventType" json:"eventType"`
	TeamID     string             `bson:"teamId" json:"teamId"`
	TeamLabel  string             `bson:"teamLabel,omitempty" json:"teamLabel,omitempty"`
	Position   string             `bson:"position,omitempty" json:"position,omitempty"`
	RunNumber  int                `bson:"runNumber,omitempty" json:"runNumber,omitempty"`
	GateNumber int                `bson:"gateNumber,omitempty" json:"gateNumber,omitempty"`
	Section    int                `bson:"section,omitempty" json:"section,omitempty"`
	Heat       int                `bson:"heat,omitempty" json:"heat,omitempty"`
	Booyan     *bool              `bson:"booyan,omitempty" json:"booyan,omitempty"`
	Penalty    float64            `bson:"penalty" json:"penalty"`
	JudgeID    string             `bson:"judgeId" json:"judgeId"`
	JudgeName  string             `bson:"judgeName,omitempty" json:"judgeName,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// JudgeReport buckets a judge's detail records per discipline for one event.
// Created lazily on the first submission of the (event, judge) pair.
type JudgeReport struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	EventID       string               `bson:"eventId" json:"eventId"`
	JudgeID       string               `bson:"judgeId" json:"judgeId"`
	SprintDetails []primitive.ObjectID `bson:"sprintDetails" json:"sprintDetails"`
	SlalomDetails []primitive.ObjectID `bson:"slalomDetails" json:"slalomDetails"`
	H2HDetails    []primitive.ObjectID `bson:"h2hDetails" json:"h2hDetails"`
	DRRDetails    []primitive.ObjectID `bson:"drrDetails" json:"drrDetails"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserJudgeAssignment enumerates what one judge may report on.
type UserJudgeAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	EventID    string             `bson:"eventId" json:"eventId"`
	Discipline string             `bson:"discipline" json:"discipline"`
	Start      bool               `bson:"start" json:"start"`
	Finish     bool               `bson:"finish" json:"finish"`
	Gates      []int              `bson:"gates" json:"gates"`
	Sections   []int              `bson:"sections" json:"sections"`
	Booyan     bool               `bson:"booyan" json:"booyan"`
}

// AssignmentClaim is the slice of an assignment a submission needs.
type AssignmentClaim struct {
	Position string
	Gate     int
	Section  int
	Booyan   bool
}

// Allows reports whether this assignment covers the claim for the given
// event and discipline.
func (a *UserJudgeAssignment) Allows(eventID, discipline string, claim AssignmentClaim) bool {
	if a.EventID != eventID || a.Discipline != discipline {
		return false
	}
	switch {
	case claim.Position == PositionStart:
		return a.Start
	case claim.Position == PositionFinish:
		return a.Finish
	case claim.Gate > 0:
		for _, g := range a.Gates {
			if g == claim.Gate {
				return true
			}
		}
		return false
	case claim.Section > 0:
		for _, s := range a.Sections {
			if s == claim.Section {
				return true
			}
		}
		return false
	case claim.Booyan:
		return a.Booyan
	}
	return false
}
