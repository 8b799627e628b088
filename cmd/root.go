// Package cmd is the folio command line.
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"folio/app/config"
	"folio/app/logging"

	"github.com/spf13/cobra"
)

var version = "dev"

// cli carries state shared by every subcommand of one invocation.
type cli struct {
	cfgFile string
	cfg     config.Config
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "folio",
		Short: "folio runs a single-author project site with moderated comments.",
		Long: `folio serves projects written by one administrator. Visitors may
comment; comments pass a content filter before they are stored and the
administrator can answer each one.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			c.cfg = cfg
			logging.Configure(cmd.ErrOrStderr(), cfg.Log.Level)
			return nil
		},
	}
	root.Version = version

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default ./folio.yaml)")
	root.PersistentFlags().String("data-dir", "", "database directory (default data/badger)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		c.serveCmd(),
		c.initCmd(),
		c.adminCmd(),
		c.cleanCmd(),
		c.backupCmd(),
		c.restoreCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio version %s\n", version)
		},
	}
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// confirm asks a yes/no question on the command's streams. Anything but
// y or Y is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	response, _ := readLine(cmd.InOrStdin())
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
