package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/offgate/offgate/config"
	"github.com/offgate/offgate/handlers"
	"github.com/offgate/offgate/user"
	"github.com/offgate/offgate/vault/sqlite"
)

var (
	newUsername string
	makeAdmin   bool
)

func init() {
	addUserCmd.Flags().StringVarP(&newUsername, "username", "u", "", "username for the new account")
	addUserCmd.Flags().BoolVar(&makeAdmin, "admin", false, "make the new account an admin")
	_ = addUserCmd.MarkFlagRequired("username")
}

var addUserCmd = &cobra.Command{
	Use:   "adduser",
	Short: "creates an account directly in the vault",
	Long: "creates an account directly in the vault with a generated temporary password. " +
		"Use this to bootstrap the first admin account; day-to-day account management " +
		"belongs in the web admin pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}

		v, err := sqlite.NewFromConfig()
		if err != nil {
			return err
		}
		defer v.Close()

		accountType := user.AccountTypeUser
		if makeAdmin {
			accountType = user.AccountTypeAdmin
		}

		password, err := handlers.GenerateTemporaryPassword()
		if err != nil {
			return err
		}

		if err := v.CreateUser(cmd.Context(), newUsername, password, accountType); err != nil {
			return err
		}

		log.Info().Str("username", newUsername).Str("account_type", string(accountType)).Msg("account created")
		fmt.Printf("created %s (%s)\n", newUsername, accountType)
		fmt.Printf("temporary password (must be changed on first sign in): %s\n", password)
		return nil
	},
}
