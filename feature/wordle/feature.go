package wordle

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature adapts the tracker to the loader lifecycle.
type Feature struct {
	service *Service
	logger  *zap.Logger
}

// NewFeature creates the wordle feature over an already-wired service.
func NewFeature(service *Service, logger *zap.Logger) *Feature {
	return &Feature{service: service, logger: logger}
}

// Name identifies the feature.
func (f *Feature) Name() string {
	return "wordle"
}

// IsEnabled reports whether the feature should load. The tracker is the
// application's reason to exist, so it is always on.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the HTTP routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service, f.logger).RegisterRoutes(app)
	return nil
}
