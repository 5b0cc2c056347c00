package cmd

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/aware-network/aware-kernel/internal/journal"
	"github.com/aware-network/aware-kernel/internal/receipt"
)

var (
	journalDB     string
	journalObject string
	journalLimit  int
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Index and query journal entries derived from receipts",
}

var journalIndexCmd = &cobra.Command{
	Use:   "index [receipt.json...]",
	Short: "Fold receipt documents into the journal index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := journal.Open(journalDB)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read receipt %s: %w", path, err)
			}
			parsed, err := oj.Parse(data)
			if err != nil {
				return fmt.Errorf("parse receipt %s: %w", path, err)
			}
			dict, ok := parsed.(map[string]any)
			if !ok {
				return fmt.Errorf("receipt %s: not a JSON object", path)
			}
			id, err := store.Append(receipt.ToJournalEntry(dict))
			if err != nil {
				return fmt.Errorf("index %s: %w", path, err)
			}
			fmt.Printf("%s %s\n", id, path)
		}
		return nil
	},
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed journal entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := journal.Open(journalDB)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		var entries []journal.Entry
		if journalObject != "" {
			entries, err = store.ByObject(journalObject, journalLimit)
		} else {
			entries, err = store.Recent(journalLimit)
		}
		if err != nil {
			return err
		}
		fmt.Println(oj.JSON(entries, 2))
		return nil
	},
}

func init() {
	journalCmd.PersistentFlags().StringVar(&journalDB, "db", "journal.db", "journal index database path")
	journalListCmd.Flags().StringVar(&journalObject, "object", "", "restrict to one object type")
	journalListCmd.Flags().IntVar(&journalLimit, "limit", 50, "maximum entries to return")
	journalCmd.AddCommand(journalIndexCmd)
	journalCmd.AddCommand(journalListCmd)
	rootCmd.AddCommand(journalCmd)
}
