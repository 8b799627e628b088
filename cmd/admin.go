package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) adminCmd() *cobra.Command {
	var username, name, password string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create the administrator or change its login, name and password",
		Long: `Creates the administrator on first use. Afterwards it rewrites the
existing administrator's username, display name and password. The password is
read from standard input when --password is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if password == "" {
				fmt.Fprint(out, "Password: ")
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return errors.New("no password given")
				}
				password = line
			}

			repo, err := openRepository(c.cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			creds, err := buildCredentials(c.cfg, repo)
			if err != nil {
				return err
			}
			admin, created, err := creds.Provision(cmd.Context(), username, name, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "Administrator %s created\n", admin.Username)
			} else {
				fmt.Fprintf(out, "Administrator %s updated\n", admin.Username)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "administrator login name")
	cmd.Flags().StringVar(&name, "name", "", "administrator display name")
	cmd.Flags().StringVar(&password, "password", "", "administrator password")
	return cmd
}
