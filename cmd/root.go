package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/offgate/offgate/server"
)

func init() {
	rootCmd.AddCommand(healthCheckCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(addUserCmd)
}

var rootCmd = &cobra.Command{
	Use:   "offgate",
	Short: "offgate serves daily report archives to authenticated users",
	Run: func(cmd *cobra.Command, args []string) {
		server.RunServer()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}
}
