package usecase

import (
	"context"

	"github.com/morning-sprint/backend/domain"
)

// ImportJournal abstracts the local receipt store so use cases stay
// storage-agnostic.
type ImportJournal interface {
	Append(ctx context.Context, receipt domain.ImportReceipt) error
	ListByUser(ctx context.Context, userID string) ([]domain.ImportReceipt, error)
}
