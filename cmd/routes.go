package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sherut/sherut/core"
	"github.com/spf13/cobra"
)

var (
	colorMethod  = color.New(color.FgCyan, color.Bold)
	colorPath    = color.New(color.FgGreen)
	colorCommand = color.New(color.FgYellow)
)

// routesCmd prints the normalized route table.
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the normalized route table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		var specs []core.RouteSpec
		for _, r := range configuration.Routes {
			specs = append(specs, core.RouteSpec{Spec: r.Route, Command: r.Command})
		}
		entries, err := core.ParseRoutes(specs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, entry := range entries {
			fmt.Fprintf(out, "%s %s -> %s\n",
				colorMethod.Sprintf("%-7s", entry.Method),
				colorPath.Sprint(entry.Path),
				colorCommand.Sprintf("`%s`", entry.Command))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
