package project

import (
	"context"

	"github.com/google/uuid"
)

type Store interface {
	Save(ctx context.Context, p Project) error
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
