package storage

import "time"

// Completion modes.
const (
	ModeChat = "chat"
	ModeCode = "code"
)

// Completion is one row of the completion log.
type Completion struct {
	ID           string // UUID
	Mode         string // ModeChat or ModeCode
	Model        string
	State        string // terminal state of the request
	TotalTokens  int
	ErrorMessage string
	CreatedAt    time.Time
}
