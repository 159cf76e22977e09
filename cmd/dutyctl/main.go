// Command dutyctl performs operator tasks against the booking database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/examduty/dutybook-backend/internal/database"
	"github.com/examduty/dutybook-backend/internal/logger"
	"github.com/examduty/dutybook-backend/internal/repository"
	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once the database is reachable.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	pool    *pgxpool.Pool
	faculty *service.FacultyService
	catalog *service.CatalogService
}

func (a *app) connect(ctx context.Context) error {
	a.cfg = config.Load()
	a.log = logger.Setup(a.cfg.LogLevel, a.cfg.LogFormat)

	pool, err := database.NewPostgresPool(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	a.pool = pool

	auth := service.NewAuthService(a.cfg)
	a.faculty = service.NewFacultyService(repository.NewFacultyRepository(pool), auth, service.NewMediaService(a.cfg), a.log)
	// No event queue here: operator changes are not streamed to the live feed.
	a.catalog = service.NewCatalogService(repository.NewAvailableDateRepository(pool), nil, a.log)
	return nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "dutyctl",
		Short:         "Operator tools for the exam duty booking portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.connect(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	root.AddCommand(
		newCreateFacultyCmd(a),
		newAddDateCmd(a),
		newResetDatesCmd(a),
		newRollupCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
