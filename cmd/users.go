package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/offgate/offgate/config"
	"github.com/offgate/offgate/middlewares/authn"
	"github.com/offgate/offgate/vault/sqlite"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "lists the accounts in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}

		v, err := sqlite.NewFromConfig()
		if err != nil {
			return err
		}
		defer v.Close()

		records, err := v.ListUsers(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Username", "Type", "Disabled", "Password Expires", "Locked Until"})

		for i, rec := range records {
			lockedUntil := ""
			if until, locked := rec.LockedUntil(); locked {
				lockedUntil = until.Format(authn.TimestampDisplayFormat)
			}

			t.AppendRow(table.Row{
				i + 1,
				rec.Username,
				string(rec.AccountType),
				rec.Disabled,
				rec.Expires.Format(authn.TimestampDisplayFormat),
				lockedUntil,
			})
		}

		t.Render()

		log.Info().Int("count", len(records)).Msg("listed users")
		return nil
	},
}
