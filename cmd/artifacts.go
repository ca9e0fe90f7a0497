package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List tracked artifacts with their versions and aliases",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		arts, err := store.Artifacts()
		if err != nil {
			return err
		}
		if len(arts) == 0 {
			fmt.Println("No artifacts tracked yet. Import one with: rentaldata get <csv>")
			return nil
		}
		for _, a := range arts {
			// Invert the alias map for per-version display.
			byVersion := map[int][]string{}
			for alias, v := range a.Aliases {
				byVersion[v] = append(byVersion[v], alias)
			}
			fmt.Printf("%s\n", a.Name)
			for _, v := range a.Versions {
				aliases := byVersion[v.Version]
				sort.Strings(aliases)
				line := fmt.Sprintf("  v%d  %s  %s", v.Version, v.CreatedAt.Format("2006-01-02 15:04"), v.Type)
				for _, al := range aliases {
					line += "  [" + al + "]"
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

var aliasCmd = &cobra.Command{
	Use:   "alias <artifact> <alias> <version>",
	Short: "Point an alias (e.g. reference) at an artifact version",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		version, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("version must be a number: %w", err)
		}
		if err := store.SetAlias(args[0], args[1], version); err != nil {
			return err
		}
		fmt.Printf("%s:%s -> v%d\n", args[0], args[1], version)
		return nil
	},
}

func init() {
	artifactsCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(artifactsCmd)
}
