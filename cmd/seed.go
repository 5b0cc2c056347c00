package cmd

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aware-network/aware-kernel/internal/environ"
	"github.com/aware-network/aware-kernel/internal/pathspec"
)

var (
	seedRoot        string
	seedPrivateRoot string
	seedSelectors   string
)

// seedSelectorFile is the YAML shape of --selectors files.
type seedSelectorFile struct {
	Global map[string]string            `yaml:"global"`
	Specs  map[string]map[string]string `yaml:"specs"`
}

var seedCmd = &cobra.Command{
	Use:   "seed [manifest.hcl]",
	Short: "Scaffold a document tree from an environment manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := environ.Load(args[0])
		if err != nil {
			return err
		}

		var selectors seedSelectorFile
		if seedSelectors != "" {
			data, err := os.ReadFile(seedSelectors)
			if err != nil {
				return fmt.Errorf("read selectors: %w", err)
			}
			if err := yaml.Unmarshal(data, &selectors); err != nil {
				return fmt.Errorf("parse selectors: %w", err)
			}
		}

		fsys := osfs.New(seedRoot)
		seeded, err := pathspec.Seed(fsys, manifest.AllSpecs(), ".", seedPrivateRoot, selectors.Global, selectors.Specs)
		for _, path := range seeded {
			fmt.Println(path)
		}
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d documents under %s\n", len(seeded), seedRoot)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedRoot, "root", ".", "document tree root to seed under")
	seedCmd.Flags().StringVar(&seedPrivateRoot, "private-root", "", "alternate root for private pathspecs")
	seedCmd.Flags().StringVar(&seedSelectors, "selectors", "", "YAML file with global and per-spec selector values")
	rootCmd.AddCommand(seedCmd)
}
