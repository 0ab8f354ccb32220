package models

import (
	"time"

	"github.com/rizkybor/sts-jurysystem-sub000/storage"
)

// ErrorResponse is the uniform failure envelope of every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SubmitResponse struct {
	Success         bool                         `json:"success"`
	Message         string                       `json:"message"`
	TeamsRegistered *storage.RegisteredTeamGroup `json:"teamsRegistered,omitempty"`
	Data            interface{}                  `json:"data,omitempty"`
	JudgeReportID   string                       `json:"judgeReportId,omitempty"`
	UpdatedTeam     *storage.Team                `json:"updatedTeam,omitempty"`
}

type ListMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type DetailListResponse struct {
	Success bool             `json:"success"`
	Meta    ListMeta         `json:"meta"`
	Data    []DetailResponse `json:"data"`
}

// DetailResponse is one ledger record enriched with a best-effort team
// name/bib lookup.
type DetailResponse struct {
	ID         string    `json:"id"`
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	TeamID     string    `json:"teamId"`
	TeamName   string    `json:"teamName"`
	BibNumber  string    `json:"bibNumber"`
	Position   string    `json:"position,omitempty"`
	RunNumber  int       `json:"runNumber,omitempty"`
	GateNumber int       `json:"gateNumber,omitempty"`
	Section    int       `json:"section,omitempty"`
	Heat       int       `json:"heat,omitempty"`
	Booyan     *bool     `json:"booyan,omitempty"`
	Penalty    float64   `json:"penalty"`
	JudgeID    string    `json:"judgeId"`
	JudgeName  string    `json:"judgeName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func TransformDetailFromStorage(d *storage.JudgeReportDetail, teamName, bibNumber string) DetailResponse {
	return DetailResponse{
		ID:         d.ID.Hex(),
		EventID:    d.EventID,
		EventType:  d.Discipline,
		TeamID:     d.TeamID,
		TeamName:   teamName,
		BibNumber:  bibNumber,
		Position:   d.Position,
		RunNumber:  d.RunNumber,
		GateNumber: d.GateNumber,
		Section:    d.Section,
		Heat:       d.Heat,
		Booyan:     d.Booyan,
		Penalty:    d.Penalty,
		JudgeID:    d.JudgeID,
		JudgeName:  d.JudgeName,
		CreatedAt:  d.CreatedAt,
	}
}

// JudgeTaskEntry is one row of the flattened team list a judge sees for an
// assigned category slice.
type JudgeTaskEntry struct {
	Discipline string `json:"discipline"`
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName"`
	BibNumber  string `json:"bibNumber"`
}

func TransformGroupsToTasks(groups []*storage.RegisteredTeamGroup) []JudgeTaskEntry {
	tasks := make([]JudgeTaskEntry, 0)
	for _, g := range groups {
		for _, t := range g.Teams {
			tasks = append(tasks, JudgeTaskEntry{
				Discipline: g.Discipline,
				TeamID:     t.TeamID,
				TeamName:   t.Name,
				BibNumber:  t.BibNumber,
			})
		}
	}
	return tasks
}

type JudgeTasksResponse struct {
	Success   bool             `json:"success"`
	EventID   string           `json:"eventId"`
	EventName string           `json:"eventName,omitempty"`
	Tasks     []JudgeTaskEntry `json:"tasks"`
}

type AssignmentsResponse struct {
	Success     bool                           `json:"success"`
	Assignments []*storage.UserJudgeAssignment `json:"assignments"`
}
