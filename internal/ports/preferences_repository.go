package ports

import (
	"context"

	"github.com/hvacdesk/hv/internal/domain"
)

type PreferencesRepository interface {
	Load(ctx context.Context) (domain.Preferences, error)
	Save(ctx context.Context, preferences domain.Preferences) error
}
