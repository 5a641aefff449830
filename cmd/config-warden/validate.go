package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/config-warden/pkg/renderer"
	"github.com/wonderfulspam/config-warden/pkg/tree"
)

// errFlagged signals a flag decision to main without printing an error;
// the rendered report already carries the detail.
var errFlagged = errors.New("configuration flagged")

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a proposed configuration against its history",
	Long: `Validate a proposed configuration file (YAML or JSON) against the
recorded history of its config type. Exits 0 when the proposal is accepted,
1 when it is flagged and 2 on errors, so the command can gate CI deploys.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var (
	validateType        string
	validateSensitivity float64
	validateRules       string
	validateFormat      string
	validateAccept      bool
)

func init() {
	validateCmd.Flags().StringVar(&validateType, "type", "", "Config type, e.g. sshd or nginx (required)")
	validateCmd.Flags().Float64Var(&validateSensitivity, "sensitivity", 0.8, "Flagging sensitivity in [0,1]; higher flags more readily")
	validateCmd.Flags().StringVar(&validateRules, "rules", "", "Severity rules YAML file (built-in rules if omitted)")
	validateCmd.Flags().StringVar(&validateFormat, "format", "table", "Output format: table, json")
	validateCmd.Flags().BoolVar(&validateAccept, "accept", false, "Append the proposal to history when the decision is accept")
	validateCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	proposed, err := tree.ParseFile(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	eng, err := newEngine(store, validateRules)
	if err != nil {
		return err
	}

	report, err := eng.Validate(cmd.Context(), validateType, proposed, validateSensitivity)
	if err != nil {
		return err
	}

	switch validateFormat {
	case "json":
		err = renderer.RenderJSON(cmd.OutOrStdout(), report)
	case "table":
		err = renderer.RenderTable(cmd.OutOrStdout(), report)
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json)", validateFormat)
	}
	if err != nil {
		return err
	}

	if report.Flagged() {
		return errFlagged
	}

	if validateAccept {
		snapshot, err := eng.Accept(cmd.Context(), validateType, proposed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Accepted as snapshot %s\n", snapshot.ID)
	}
	return nil
}
