package communication

import (
	"context"

	"tictactoe/game"
)

// FindMoveRequest asks a remote searcher for a move. State is required. Zero
// values fall back to the server's defaults, and Iterations overrides
// BudgetMs when set.
type FindMoveRequest struct {
	State      *game.State `json:"state"`
	BudgetMs   int         `json:"budget_ms,omitempty"`
	Iterations int         `json:"iterations,omitempty"`
	Seed       *uint64     `json:"seed,omitempty"`
}

type FindMoveResponse struct {
	Move       game.Move `json:"move"`
	Iterations int       `json:"iterations"`
	Nodes      int       `json:"nodes"`
	DurationMs float64   `json:"duration_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Communicator is an interface that abstracts the transport to a move server.
type Communicator interface {
	FindMove(ctx context.Context, req FindMoveRequest) (FindMoveResponse, error)
	Health(ctx context.Context) error
}
