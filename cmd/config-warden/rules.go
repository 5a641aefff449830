package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the effective severity rules",
	Long: `Show the severity rules that would apply during validation, in
evaluation order. Passing --rules also checks that the file compiles.`,
	RunE: runRules,
}

var (
	rulesFile   string
	rulesFormat string
)

func init() {
	rulesCmd.Flags().StringVar(&rulesFile, "rules", "", "Severity rules YAML file (built-in rules if omitted)")
	rulesCmd.Flags().StringVar(&rulesFormat, "format", "table", "Output format: table, json")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	classifier, err := loadClassifier(rulesFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rules := classifier.Rules()

	if rulesFormat == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"default_weight": classifier.DefaultWeight(),
			"rules":          rules,
		})
	}

	fmt.Fprintf(out, "Severity rules (first match wins)\n")
	fmt.Fprintf(out, "---------------------------------\n")
	for i, rule := range rules {
		fmt.Fprintf(out, "%2d. %-30s %.2f\n", i+1, rule.Pattern, rule.Weight)
	}
	fmt.Fprintf(out, "    %-30s %.2f\n", "(default)", classifier.DefaultWeight())
	return nil
}
