package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/config-warden/pkg/tree"
)

var acceptCmd = &cobra.Command{
	Use:   "accept [file]",
	Short: "Record a configuration as an accepted snapshot",
	Long: `Append a configuration file to the history store without validating
it first. Useful for seeding the history of a new config type from known-good
states.`,
	Args: cobra.ExactArgs(1),
	RunE: runAccept,
}

var acceptType string

func init() {
	acceptCmd.Flags().StringVar(&acceptType, "type", "", "Config type the snapshot belongs to (required)")
	acceptCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(acceptCmd)
}

func runAccept(cmd *cobra.Command, args []string) error {
	proposed, err := tree.ParseFile(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	eng, err := newEngine(store, "")
	if err != nil {
		return err
	}

	snapshot, err := eng.Accept(cmd.Context(), acceptType, proposed)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded snapshot %s for config type %s\n", snapshot.ID, snapshot.ConfigType)
	return nil
}
