package models

import "github.com/rizkybor/sts-jurysystem-sub000/storage"

// Alphabet for generated team identifiers.
var Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Slalom submission operations.
const (
	OperationGate   = "gate"
	OperationStart  = "start"
	OperationFinish = "finish"
)

var ValidDisciplines = map[string]bool{
	storage.DisciplineSprint: true,
	storage.DisciplineSlalom: true,
	storage.DisciplineH2H:    true,
	storage.DisciplineDRR:    true,
}

var ValidPositions = map[string]bool{
	storage.PositionStart:  true,
	storage.PositionFinish: true,
}
