package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/config-warden/pkg/tree"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded snapshots",
	Long: `List the snapshots recorded for a config type, oldest first. Without
--type, lists the config types present in the store.`,
	RunE: runHistory,
}

var (
	historyType   string
	historyFormat string
)

func init() {
	historyCmd.Flags().StringVar(&historyType, "type", "", "Config type to list snapshots for")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "Output format: table, json")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if historyType == "" {
		types, err := store.Types(cmd.Context())
		if err != nil {
			return err
		}
		if historyFormat == "json" {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(types)
		}
		if len(types) == 0 {
			fmt.Fprintln(out, "No snapshots recorded.")
			return nil
		}
		for _, configType := range types {
			fmt.Fprintln(out, configType)
		}
		return nil
	}

	snapshots, err := store.Read(cmd.Context(), historyType)
	if err != nil {
		return err
	}

	if historyFormat == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snapshots)
	}

	if len(snapshots) == 0 {
		fmt.Fprintf(out, "No snapshots recorded for config type %q.\n", historyType)
		return nil
	}

	fmt.Fprintf(out, "Snapshots for %s (%d)\n", historyType, len(snapshots))
	for _, snapshot := range snapshots {
		fields := 0
		tree.Walk(snapshot.Tree, func(path tree.Path, node *tree.Node) {
			if node.Kind == tree.KindScalar {
				fields++
			}
		})
		fmt.Fprintf(out, "  %s  %s  %d field(s)\n",
			snapshot.CreatedAt.Format("2006-01-02 15:04:05"), snapshot.ID, fields)
	}
	return nil
}
