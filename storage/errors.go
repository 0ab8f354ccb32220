package storage

import "errors"

var ErrGroupNotFound = errors.New("registered team group not found in storage")
var ErrTeamNotFound = errors.New("team not found in registered group")
var ErrDuplicateSubmission = errors.New("penalty already recorded for this position")
var ErrConflict = errors.New("conflicting concurrent update, retries exhausted")
var ErrItemAlreadyExists = errors.New("item already exists in storage")
