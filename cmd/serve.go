package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"folio/app/auth"
	"folio/app/logging"
	"folio/app/repositories"
	"folio/app/routes"
	"folio/app/services"
	"folio/app/session"

	"github.com/spf13/cobra"
)

const sweepInterval = time.Minute

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
	cmd.Flags().String("listen", "", "address to listen on (default :8080)")
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	repo, err := openRepository(c.cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	admin, err := repo.FirstAdmin(ctx)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		logging.Warnf("no administrator yet, run `folio admin` to create one")
	case err != nil:
		return err
	default:
		logging.Infof("administrator: %s", admin.DisplayName())
	}
	if c.cfg.InsecureSecret() {
		logging.Warnf("session.secret is the built-in default, set it before exposing the site")
	}

	commentFilter, err := buildFilter(c.cfg)
	if err != nil {
		return err
	}
	creds, err := buildCredentials(c.cfg, repo)
	if err != nil {
		return err
	}
	sessions := auth.NewSessionManager(creds, c.cfg.Session.TTL)
	go sweepSessions(ctx, sessions)

	service := services.NewModerationService(repo, sessions, commentFilter, services.NewMarkdownRenderer())
	router := routes.SetupRoutes(routes.Deps{
		Service:  service,
		Sessions: session.NewStore(c.cfg.Session.Secret, c.cfg.Session.TTL, c.cfg.Session.Secure),
	})
	return routes.Serve(ctx, routes.NewServer(c.cfg.Listen, router))
}

func sweepSessions(ctx context.Context, sessions *auth.SessionManager) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				logging.Debugf("expired %d sessions, %d active", n, sessions.Active())
			}
		}
	}
}
