package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"loupe/internal/lang"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their adapter family",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := lang.NewRegistry()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-12s %-12s %s\n", "LANGUAGE", "FAMILY", "EXTENSIONS")
		for _, info := range reg.Languages() {
			fmt.Fprintf(out, "%-12s %-12s %s\n",
				info.Lang, familyName(info.Family), strings.Join(info.Extensions, " "))
		}
		return nil
	},
}

func familyName(f lang.Family) string {
	switch f {
	case lang.FamilyReflective:
		return "reflective"
	case lang.FamilyGrammar:
		return "grammar"
	case lang.FamilyDeclarative:
		return "declarative"
	}
	return "unknown"
}
