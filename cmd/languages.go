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
	"fmt"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported source languages",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Supported source languages:")
		fmt.Println("  latin      (la)  enclitic suffixes -que/-ve/-ne are split off their stems")
		fmt.Println("  sanskrit   (sa)  IAST transliteration; compound boundaries approximated")
		fmt.Println()
		fmt.Println("Target translations are tokenized on whitespace and may be in any language.")
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
