package selection

import (
	"errors"

	"go.uber.org/zap"
)

// Fallback evaluates with Primary and retries with Secondary when Primary
// reports ErrTooLarge. Any other Primary error is returned unchanged.
type Fallback struct {
	Primary   Strategy
	Secondary Strategy
	logger    *zap.Logger
}

// NewFallback builds a Fallback that logs each delegation at debug level.
//
// Precondition: primary, secondary, and logger must be non-nil.
func NewFallback(primary, secondary Strategy, logger *zap.Logger) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary, logger: logger}
}

// Probabilities implements Strategy.
func (f *Fallback) Probabilities(p []float64) ([]float64, error) {
	w, err := f.Primary.Probabilities(p)
	if err == nil || !errors.Is(err, ErrTooLarge) {
		return w, err
	}
	if f.logger != nil {
		f.logger.Debug("selection: delegating oversized group",
			zap.Int("candidates", len(p)),
			zap.Error(err),
		)
	}
	return f.Secondary.Probabilities(p)
}
