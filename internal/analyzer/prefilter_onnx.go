//go:build onnx
// +build onnx

package analyzer

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// onnxPrefilter implements Prefilter using ONNX Runtime (via
// yalue/onnxruntime_go) with a binary text-classification model.
type onnxPrefilter struct {
	session    *ort.DynamicAdvancedSession
	inputNames []string
	outputName string
	maxLength  int
	threshold  float64
	logger     *zap.Logger
	ready      bool
	mu         sync.RWMutex
}

// NewModelPrefilter initializes the ONNX Runtime pre-filter. Requires build
// tag 'onnx'. Returns nil (no pre-filter) on any initialization failure so
// detection degrades to the full pattern pass.
func NewModelPrefilter(logger *zap.Logger, modelPath string, maxLength int, threshold float64) Prefilter {
	// Allow user to provide shared library path via environment variable.
	if shlib := os.Getenv("ONNXRUNTIME_SHARED_LIB"); shlib != "" {
		ort.SetSharedLibraryPath(shlib)
	} else if shlib := os.Getenv("ORT_SHLIB"); shlib != "" {
		ort.SetSharedLibraryPath(shlib)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		logger.Error("ONNX Runtime environment init failed", zap.Error(err))
		return nil
	}

	// Inspect model IO to determine names
	inputsInfo, outputsInfo, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		logger.Error("Failed to inspect ONNX model IO", zap.Error(err), zap.String("model", modelPath))
		return nil
	}

	// Prefer common transformer inputs order
	preferredInputs := []string{"input_ids", "attention_mask"}
	available := map[string]bool{}
	for _, ii := range inputsInfo {
		available[strings.ToLower(ii.Name)] = true
	}
	var inputNames []string
	for _, name := range preferredInputs {
		if available[name] {
			inputNames = append(inputNames, name)
		}
	}
	// If no preferred names matched, fall back to model-declared order
	if len(inputNames) == 0 && len(inputsInfo) > 0 {
		sorted := make([]string, 0, len(inputsInfo))
		for _, ii := range inputsInfo {
			sorted = append(sorted, ii.Name)
		}
		sort.Strings(sorted)
		inputNames = sorted
	}

	if len(outputsInfo) == 0 {
		logger.Error("ONNX model reports no outputs", zap.String("model", modelPath))
		return nil
	}
	outputName := outputsInfo[0].Name

	sess, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{outputName}, nil)
	if err != nil {
		logger.Error("ONNX Runtime session creation failed", zap.Error(err), zap.String("model", modelPath))
		return nil
	}

	logger.Info("ONNX pre-filter ready",
		zap.String("model", modelPath),
		zap.Strings("inputs", inputNames),
		zap.String("output", outputName))

	return &onnxPrefilter{
		session:    sess,
		inputNames: inputNames,
		outputName: outputName,
		maxLength:  maxLength,
		threshold:  threshold,
		logger:     logger,
		ready:      true,
	}
}

func (p *onnxPrefilter) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready && p.session != nil
}

func (p *onnxPrefilter) Threshold() float64 { return p.threshold }

func (p *onnxPrefilter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil {
		p.session.Destroy()
		p.session = nil
	}
	ort.DestroyEnvironment()
	p.ready = false
	return nil
}

// Score runs one inference over the hashed token IDs of the chunk and
// returns the PII-likelihood from the model's logits.
func (p *onnxPrefilter) Score(ctx context.Context, text string) (float64, error) {
	if !p.Ready() {
		return 0, fmt.Errorf("onnx pre-filter not ready")
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	ids, mask := p.tokenize(text)
	seqLen := len(ids)

	shape := ort.NewShape(1, int64(seqLen))
	idsTensor, err := ort.NewTensor[int64](shape, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor[int64](shape, mask)
	if err != nil {
		return 0, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	inputs := make([]ort.Value, 0, len(p.inputNames))
	for _, rawName := range p.inputNames {
		name := strings.ToLower(rawName)
		switch {
		case strings.Contains(name, "ids") || name == "input":
			inputs = append(inputs, idsTensor)
		case strings.Contains(name, "attention") || strings.Contains(name, "mask"):
			inputs = append(inputs, maskTensor)
		default:
			inputs = append(inputs, idsTensor)
		}
	}

	outputs := make([]ort.Value, 1)
	if err := p.session.Run(inputs, outputs); err != nil {
		return 0, fmt.Errorf("onnx inference failed: %w", err)
	}
	defer outputs[0].Destroy()

	logits, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return 0, fmt.Errorf("unexpected output tensor type")
	}

	data := logits.GetData()
	switch len(data) {
	case 1:
		// Single-logit model: sigmoid
		return 1 / (1 + math.Exp(-float64(data[0]))), nil
	case 2:
		// Two-class model: softmax over [clean, pii]
		a, b := float64(data[0]), float64(data[1])
		m := math.Max(a, b)
		ea, eb := math.Exp(a-m), math.Exp(b-m)
		return eb / (ea + eb), nil
	default:
		return 0, fmt.Errorf("unexpected logits length %d", len(data))
	}
}

const prefilterVocabSize = 30522

// tokenize hashes whitespace-separated tokens into a fixed vocab range.
// Crude, but the pre-filter model is trained on the same hashing scheme.
func (p *onnxPrefilter) tokenize(text string) ([]int64, []int64) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) > p.maxLength {
		fields = fields[:p.maxLength]
	}

	ids := make([]int64, p.maxLength)
	mask := make([]int64, p.maxLength)
	for i, tok := range fields {
		var h uint64 = 14695981039346656037
		for _, c := range []byte(tok) {
			h ^= uint64(c)
			h *= 1099511628211
		}
		ids[i] = int64(h % prefilterVocabSize)
		mask[i] = 1
	}
	return ids, mask
}
