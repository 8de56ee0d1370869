package port

import (
	"context"

	"swissvote/internal/domain"
)

// MetadataStore is the keyed lookup service for initiative records.
type MetadataStore interface {
	PutInitiative(ctx context.Context, ini domain.Initiative) error

	// GetInitiative returns the record for voteID. A missing id is
	// reported through the boolean, not an error.
	GetInitiative(ctx context.Context, voteID string) (domain.Initiative, bool, error)

	ListInitiatives(ctx context.Context) ([]domain.Initiative, error)

	// SearchInitiatives matches the keyword against title, short title
	// and policy area.
	SearchInitiatives(ctx context.Context, keyword string, limit int) ([]domain.Initiative, error)

	// LogQuery records a query analytics entry.
	LogQuery(ctx context.Context, entry domain.QueryLogEntry) error

	Close() error
}
