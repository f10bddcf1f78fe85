package analyzer

import "context"

// Prefilter scores how likely a text chunk is to contain PII at all, so
// clean chunks can skip the pattern pass. Implementations must be safe for
// concurrent use.
type Prefilter interface {
	// Ready reports whether the model is loaded and usable
	Ready() bool

	// Score returns a PII-likelihood in [0,1] for the chunk
	Score(ctx context.Context, text string) (float64, error)

	// Threshold is the score below which a chunk is considered clean
	Threshold() float64

	// Close releases model resources
	Close() error
}
