package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/schoolit/servicedesk/internal/interfaces/cli/migrate"
	"github.com/schoolit/servicedesk/internal/interfaces/cli/seed"
	"github.com/schoolit/servicedesk/internal/interfaces/cli/server"
	"github.com/schoolit/servicedesk/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "servicedesk",
		Short:   "School IT service desk",
		Long:    `Service desk backend for school IT teams: service calls, equipment inventory, technician work sessions and live query streams.`,
		Version: version.Current,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
