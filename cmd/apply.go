package cmd

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/aware-network/aware-kernel/internal/executor"
	"github.com/aware-network/aware-kernel/internal/plan"
	"github.com/aware-network/aware-kernel/internal/receipt"
)

var (
	applyRoot    string
	applyDryRun  bool
	applyJournal bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [plan.json]",
	Short: "Apply an operation plan document and print the receipt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read plan: %w", err)
		}
		p, err := plan.Unmarshal(data)
		if err != nil {
			return err
		}

		// Plan paths are interpreted relative to --root.
		fsys := osfs.New(applyRoot)
		opts := []executor.Option{}
		if applyDryRun {
			opts = append(opts, executor.DryRun())
		}

		rec, applyErr := executor.Apply(fsys, p, opts...)
		if rec != nil {
			dict := receipt.ToDict(rec)
			out := dict
			if applyJournal {
				out = receipt.ToJournalEntry(dict)
			}
			fmt.Println(oj.JSON(out, 2))
		}
		// The receipt above reflects everything applied before a
		// failure; partial application is surfaced, not hidden.
		return applyErr
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyRoot, "root", ".", "document tree root the plan paths resolve under")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "preview the plan without mutating anything")
	applyCmd.Flags().BoolVar(&applyJournal, "journal", false, "print the journal entry instead of the full receipt")
	rootCmd.AddCommand(applyCmd)
}
