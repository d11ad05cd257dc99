// Package cli implements papelera, the maintenance command line for the
// trash: run a retention sweep, print the recovery tree, restore rows and
// provision the administrator password hash.
package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/clinica/susceptibles/internal/config"
	"github.com/clinica/susceptibles/internal/observability"
	"github.com/clinica/susceptibles/internal/repo"
	"github.com/clinica/susceptibles/internal/services"
	"github.com/clinica/susceptibles/internal/sysutil"
)

// RootOptions holds the global flags shared by every command.
type RootOptions struct {
	DBPath    string
	Format    string // "text" | "json"
	Retention time.Duration
	Verbose   bool

	// Clock overrides the system clock; tests only.
	Clock services.Clock

	logger zerolog.Logger
}

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand builds the papelera command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	var shutdownOTel func(context.Context) error

	cmd := &cobra.Command{
		Use:   "papelera",
		Short: "Maintain the susceptibles trash",
		Long: `papelera inspects and maintains the trash of the susceptibles registry.

Soft-deleted periods and records stay recoverable for the retention window
and are purged by "papelera sweep" or by the API before each request.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Retention <= 0 {
				return fmt.Errorf("invalid retention %s: must be > 0", opts.Retention)
			}
			lvl := zerolog.WarnLevel
			if opts.Verbose {
				lvl = zerolog.DebugLevel
			}
			opts.logger = sysutil.NewLogger(cmd.ErrOrStderr(), lvl, true)

			var err error
			shutdownOTel, err = observability.SetupOTel(cmd.Context(), config.OTELFromEnv("susceptibles-papelera"), "cli")
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if shutdownOTel == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return shutdownOTel(ctx)
		},
	}

	defaultDB := sysutil.FirstNonEmpty(os.Getenv("DB_PATH"), "susceptibles.db")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", defaultDB, "SQLite database path (DB_PATH)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.Retention, "retention", services.DefaultRetention, "how long trashed rows stay recoverable")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output on stderr")

	cmd.AddCommand(newSweepCommand(opts))
	cmd.AddCommand(newTreeCommand(opts))
	cmd.AddCommand(newRecoverCommand(opts))
	cmd.AddCommand(newHashPasswordCommand(opts))

	return cmd
}

// openDB opens and migrates the database named by --db. The caller closes
// it with the returned function.
func (o *RootOptions) openDB() (*gorm.DB, func(), error) {
	db, err := repo.OpenSQLite(o.DBPath, repo.WithTracing())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", o.DBPath, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate %s: %w", o.DBPath, err)
	}
	o.logger.Debug().Str("db", o.DBPath).Msg("database opened")
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

func (o *RootOptions) clock() services.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return services.SystemClock{}
}
