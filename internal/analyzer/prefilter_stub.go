//go:build !onnx
// +build !onnx

package analyzer

import (
	"go.uber.org/zap"
)

// Stub implementation used when the 'onnx' build tag is not set.
func NewModelPrefilter(logger *zap.Logger, modelPath string, maxLength int, threshold float64) Prefilter {
	logger.Warn("Model pre-filter requested but this build has no ONNX support, running full pattern passes",
		zap.String("model", modelPath))
	return nil
}
