package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PmSerg/social-media-agent-system/workflow"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the workflow commands available in the commands directory",
	RunE:  runCommands,
}

func runCommands(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	loader := workflow.NewLoader(dir)
	names, err := loader.List()
	if err != nil {
		return err
	}

	for _, name := range names {
		def, err := loader.Load(name)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "/%s (invalid: %v)\n", name, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "/%s: %s (%d steps)\n", name, def.Description, len(def.Steps))
	}
	return nil
}

func init() {
	commandsCmd.Flags().String("dir", "commands", "directory of workflow command files")
}
