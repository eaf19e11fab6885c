/*
Copyright © 2025 The lexalign authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lexalign/lexalign/internal"
	"github.com/lexalign/lexalign/internal/aligner"
	"github.com/lexalign/lexalign/internal/detector"
	"github.com/lexalign/lexalign/internal/embedder"
	"github.com/lexalign/lexalign/internal/store"
)

var (
	sourceText  string
	sourceFile  string
	literalText string
	literalFile string
	dynamicText string
	dynamicFile string

	sourceLanguage string
	targetLanguage string
	heuristicOnly  bool
	detectTarget   bool

	modelDir     string
	modelRepo    string
	ortLibrary   string
	simThreshold float64
	alignTimeout time.Duration

	verseRef   string
	dbPath     string
	noCache    bool
	outputFile string
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align a source passage against its translations",
	Long: `Align the words of a source passage against one or two independently
produced translations (literal and dynamic variants).

The source and each translation can be given inline or as a file. When only
a literal translation is supplied, the dynamic variant reuses it.

Alignment prefers a multilingual embedding model (downloaded on first use);
when the model cannot be loaded, or a specific call fails, a deterministic
heuristic strategy takes over and the "method" field reports it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readInput(sourceText, sourceFile, "source")
		if err != nil {
			return err
		}
		literal, err := readInput(literalText, literalFile, "literal")
		if err != nil {
			return err
		}
		dynamic, err := readInput(dynamicText, dynamicFile, "")
		if err != nil {
			return err
		}
		if dynamic == "" {
			dynamic = literal
		}

		lang := internal.ParseLanguage(sourceLanguage)
		if lang == internal.Target {
			return fmt.Errorf("unsupported source language %q (expected latin or sanskrit)", sourceLanguage)
		}

		applyConfigDefaults()

		logger := newLogger(viper.GetString("log_level"))
		ctx := context.Background()

		var db *store.Store
		if !noCache && verseRef != "" && dbPath != "" {
			db, err = store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if cached, found, cacheErr := db.GetAlignment(ctx, verseRef, targetLanguage); cacheErr == nil && found {
				fmt.Fprintf(os.Stderr, "Using cached alignment for %s\n", verseRef)
				return writeResult(cached)
			}
		}

		service := buildService(logger)

		if detectTarget {
			det := detector.New()
			if code, ok := det.DetectISO(literal); ok {
				fmt.Fprintf(os.Stderr, "Detected target language: %s\n", code)
				if !strings.EqualFold(code, targetLanguage) {
					fmt.Fprintf(os.Stderr, "Warning: expected %s but detected %s\n", targetLanguage, code)
				}
			}
		}

		result := service.AlignVariants(ctx, source, literal, dynamic, lang)

		if db != nil {
			if err := db.SaveAlignment(ctx, verseRef, targetLanguage, result); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to cache alignment: %v\n", err)
			}
		}

		return writeResult(&result)
	},
}

// buildService probes the embedding capability once and wires the engine.
// A failed probe is a silent, permanent degradation for this process; it is
// logged and every call runs the heuristic strategy.
func buildService(logger *slog.Logger) *aligner.Service {
	var primary aligner.Strategy
	if !heuristicOnly {
		emb, err := embedder.Load(embedder.Config{
			ModelRepo:      modelRepo,
			CacheDir:       modelDir,
			ORTLibraryPath: ortLibrary,
		})
		if err != nil {
			logger.Info("embedding model unavailable, alignments will use the heuristic strategy", "error", err)
		} else {
			primary = aligner.NewEmbedding(emb, simThreshold)
			logger.Info("embedding model loaded")
		}
	}

	return aligner.NewService(primary,
		aligner.WithLogger(logger),
		aligner.WithTimeout(alignTimeout),
	)
}

// applyConfigDefaults fills flags that were left at their zero value from
// the viper config, so file/env settings act as defaults without shadowing
// explicit flags.
func applyConfigDefaults() {
	if modelDir == "" {
		modelDir = viper.GetString("model_dir")
	}
	if modelRepo == "" {
		modelRepo = viper.GetString("model_repo")
	}
	if ortLibrary == "" {
		ortLibrary = viper.GetString("ort_library")
	}
	if simThreshold == 0 {
		simThreshold = viper.GetFloat64("similarity_threshold")
	}
}

func readInput(inline, file, name string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if file == "" {
		if name == "" {
			return "", nil
		}
		return "", fmt.Errorf("%s text is required (inline or --%s-file)", name, name)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func writeResult(result *internal.DualAlignment) error {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if outputFile == "" {
		fmt.Println(string(payload))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, payload, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Alignment written to %s\n", outputFile)
	return nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringVar(&sourceText, "source", "", "Source passage text")
	alignCmd.Flags().StringVar(&sourceFile, "source-file", "", "File containing the source passage")
	alignCmd.Flags().StringVar(&literalText, "literal", "", "Literal translation text")
	alignCmd.Flags().StringVar(&literalFile, "literal-file", "", "File containing the literal translation")
	alignCmd.Flags().StringVar(&dynamicText, "dynamic", "", "Dynamic translation text (defaults to the literal)")
	alignCmd.Flags().StringVar(&dynamicFile, "dynamic-file", "", "File containing the dynamic translation")

	alignCmd.Flags().StringVarP(&sourceLanguage, "language", "l", "latin", "Source language (latin or sanskrit)")
	alignCmd.Flags().StringVarP(&targetLanguage, "target", "t", "en", "Target language code (cache key and detection check)")
	alignCmd.Flags().BoolVar(&heuristicOnly, "heuristic-only", false, "Skip the embedding model entirely")
	alignCmd.Flags().BoolVar(&detectTarget, "detect-target", false, "Report the detected target language")

	alignCmd.Flags().StringVar(&modelDir, "model-dir", "", "Model cache directory (default ~/.lexalign/models)")
	alignCmd.Flags().StringVar(&modelRepo, "model-repo", "", "HuggingFace model repository override")
	alignCmd.Flags().StringVar(&ortLibrary, "ort-lib", "", "Path to the onnxruntime shared library")
	alignCmd.Flags().Float64Var(&simThreshold, "threshold", 0, "Cosine similarity threshold (0 = default)")
	alignCmd.Flags().DurationVar(&alignTimeout, "timeout", 30*time.Second, "Per-call embedding timeout")

	alignCmd.Flags().StringVar(&verseRef, "verse", "", "Verse reference used as the cache key (e.g. Gn 1:1)")
	alignCmd.Flags().StringVar(&dbPath, "db", "./data/lexalign.db", "Database path for the alignment cache")
	alignCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the alignment cache")
	alignCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
}
