// Package embedder loads a multilingual sentence-transformer through the
// hugot ONNX runtime bindings and exposes batch feature extraction over word
// tokens. Loading is the engine's one-time capability probe: when it fails,
// the aligner runs on its heuristic strategy for the rest of the process
// lifetime. A loaded Embedder is read-only and safe for concurrent use.
package embedder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
)

// DefaultModelRepo is the HuggingFace repository downloaded when no local
// model path is configured. The multilingual MiniLM covers both source
// families and the common target languages.
const DefaultModelRepo = "sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2"

// Config holds model loading parameters.
type Config struct {
	// ModelRepo is the HuggingFace repository to download when the model is
	// not already present in CacheDir. Defaults to DefaultModelRepo.
	ModelRepo string
	// CacheDir is where downloaded models live. Defaults to
	// ~/.lexalign/models.
	CacheDir string
	// ORTLibraryPath points at the onnxruntime shared library when it is
	// not on the default search path.
	ORTLibraryPath string
	// Threads caps intra-op parallelism; 0 means NumCPU.
	Threads int
}

// Embedder wraps a hugot feature-extraction pipeline.
type Embedder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// Load performs the one-time probe: it ensures the model exists locally
// (downloading it if necessary), creates an ONNX runtime session and builds
// the feature-extraction pipeline. Any failure means the embedding
// capability is unavailable; callers degrade to the heuristic strategy
// rather than surfacing the error to users.
func Load(cfg Config) (*Embedder, error) {
	if cfg.ModelRepo == "" {
		cfg.ModelRepo = DefaultModelRepo
	}
	if cfg.CacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.CacheDir = filepath.Join(home, ".lexalign", "models")
	}
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create model cache dir: %w", err)
	}

	modelPath := filepath.Join(cfg.CacheDir, filepath.Base(cfg.ModelRepo))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		downloaded, err := hugot.DownloadModel(cfg.ModelRepo, cfg.CacheDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("download model %s: %w", cfg.ModelRepo, err)
		}
		modelPath = downloaded
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	sessionOpts := []options.WithOption{
		options.WithIntraOpNumThreads(threads),
	}
	if cfg.ORTLibraryPath != "" {
		sessionOpts = append(sessionOpts, options.WithOnnxLibraryPath(cfg.ORTLibraryPath))
	}

	session, err := hugot.NewORTSession(sessionOpts...)
	if err != nil {
		return nil, fmt.Errorf("create ORT session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      filepath.Base(modelPath),
	})
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("create feature extraction pipeline: %w", err)
	}

	return &Embedder{session: session, pipeline: pipeline}, nil
}

// EmbedBatch returns one embedding vector per input text, in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, nil
	}

	output, err := e.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	return output.Embeddings, nil
}

// Close releases the ONNX runtime session.
func (e *Embedder) Close() error {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	e.pipeline = nil
	return nil
}
