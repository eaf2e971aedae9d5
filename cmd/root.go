package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/agendaq/agendaq_backend/cmd/http"
	systemcmd "github.com/agendaq/agendaq_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "agendaq",
	Short: "AgendaQ multi-tenant booking engine for clinics.",
	Long: `AgendaQ is a multi-tenant slot reservation and booking engine for clinics.
It computes availability grids and handles the booking lifecycle (create,
cancel, reschedule) atomically, isolated per tenant.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
