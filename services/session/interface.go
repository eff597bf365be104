package session

import (
	"context"
	"errors"

	"guidewizard/models"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("wizard session not found or expired")

// Store holds wizard sessions for the lifetime of one operator session.
type Store interface {
	Create(ctx context.Context, sess *models.WizardSession) error
	Get(ctx context.Context, id string) (*models.WizardSession, error)
	Save(ctx context.Context, sess *models.WizardSession) error
	Delete(ctx context.Context, id string) error
}
