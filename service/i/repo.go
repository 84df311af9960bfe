package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-navigator/domain"
	"github.com/beka-birhanu/vinom-navigator/identity"
	"github.com/google/uuid"
)

// OperatorRepo defines the interface for operator persistence operations.
type OperatorRepo interface {
	// Save inserts or updates an operator in the repository.
	Save(operator *identity.Operator) error

	// ByName retrieves an operator by their unique name.
	// Returns an error if the operator is not found or in case of an unexpected error.
	ByName(name string) (*identity.Operator, error)
}

// RunRepo stores the summaries of closed exploration sessions.
type RunRepo interface {
	Save(ctx context.Context, run *dmn.RunRecord) error
	ByID(ctx context.Context, id uuid.UUID) (*dmn.RunRecord, error)
}
