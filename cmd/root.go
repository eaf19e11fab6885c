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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lexalign",
	Short: "Cross-lingual word aligner for ancient texts",
	Long: `Computes position-to-position word alignments between a passage in a
source ancient language (Latin or Sanskrit) and independently produced
translations of it, with a confidence score per mapping.

Alignment runs on a multilingual embedding model when one can be loaded,
and degrades transparently to a deterministic heuristic strategy when not.

Use "lexalign align --help" for alignment options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./lexalign.yaml)")
}

// initConfig loads the optional config file and environment overrides.
// Recognised keys: model_dir, model_repo, ort_library, similarity_threshold,
// db, log_level. Environment variables use the LEXALIGN_ prefix.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lexalign")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.lexalign")
	}

	viper.SetEnvPrefix("LEXALIGN")
	viper.AutomaticEnv()

	viper.SetDefault("similarity_threshold", 0.5)
	viper.SetDefault("db", "./data/lexalign.db")
	viper.SetDefault("log_level", "info")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", err)
		}
	}
}
