package models

// SlalomSubmitRequest is the body of POST /api/judges/slalom. Operation
// defaults to "gate" when empty.
type SlalomSubmitRequest struct {
	RunNumber  int         `json:"runNumber"`
	Team       string      `json:"team"`
	Operation  string      `json:"operation"`
	Penalty    interface{} `json:"penalty"`
	GateNumber int         `json:"gateNumber"`
	EventID    string      `json:"eventId"`
	InitialID  string      `json:"initialId"`
	DivisionID string      `json:"divisionId"`
	RaceID     string      `json:"raceId"`
}

// DRRSubmitRequest is the body of POST /api/judges/drr.
type DRRSubmitRequest struct {
	Team       string      `json:"team"`
	Penalty    interface{} `json:"penalty"`
	Section    int         `json:"section"`
	EventID    string      `json:"eventId"`
	InitialID  string      `json:"initialId"`
	DivisionID string      `json:"divisionId"`
	RaceID     string      `json:"raceId"`
}

// JudgeReportSubmitRequest is the discriminated body of
// POST /api/judges/judge-reports/detail, tagged by EventType.
type JudgeReportSubmitRequest struct {
	EventType  string      `json:"eventType"`
	EventID    string      `json:"eventId"`
	InitialID  string      `json:"initialId"`
	DivisionID string      `json:"divisionId"`
	RaceID     string      `json:"raceId"`
	Team       string      `json:"team"`
	Penalty    interface{} `json:"penalty"`

	// Sprint
	Position string `json:"position"`

	// Slalom
	RunNumber  int    `json:"runNumber"`
	Operation  string `json:"operation"`
	GateNumber int    `json:"gateNumber"`

	// DRR
	Section int `json:"section"`

	// H2H
	Heat   int   `json:"heat"`
	Booyan *bool `json:"booyan"`
	Passed *bool `json:"passed"`

	// Judge identity; defaults to the session email when empty.
	Judge     string `json:"judge"`
	JudgeName string `json:"judgeName"`
}

type EventCreateRequest struct {
	Name      string   `json:"eventName"`
	Location  string   `json:"location"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Initials  []string `json:"initials"`
	Divisions []string `json:"divisions"`
	Races     []string `json:"races"`
	Officials []string `json:"officials"`
}

type RaceSettingRequest struct {
	EventID      string `json:"eventId"`
	TotalGate    int    `json:"totalGate"`
	TotalSection int    `json:"totalSection"`
}

type TeamGroupCreateRequest struct {
	EventID    string             `json:"eventId"`
	InitialID  string             `json:"initialId"`
	DivisionID string             `json:"divisionId"`
	RaceID     string             `json:"raceId"`
	Discipline string             `json:"discipline"`
	Teams      []TeamEntryRequest `json:"teams"`
}

type TeamEntryRequest struct {
	Name      string `json:"teamName"`
	BibNumber string `json:"bibNumber"`
}

type AssignmentCreateRequest struct {
	Email      string `json:"email"`
	EventID    string `json:"eventId"`
	Discipline string `json:"discipline"`
	Start      bool   `json:"start"`
	Finish     bool   `json:"finish"`
	Gates      []int  `json:"gates"`
	Sections   []int  `json:"sections"`
	Booyan     bool   `json:"booyan"`
}
