package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinica/susceptibles/internal/services"
)

func newSweepCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Purge trashed rows older than the retention window",
		Long: `Permanently delete every trashed period row and record whose deletion is
older than --retention, plus expired idempotency keys. Rows deleted exactly
at the cutoff survive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := opts.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			res, err := services.NewRetentionSweeper(db, opts.clock(), opts.Retention).Sweep(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			opts.logger.Info().Int64("records", res.Records).Int64("periods", res.Periods).Msg("sweep done")

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d records, %d periods and %d idempotency keys deleted before %s\n",
				res.Records, res.Periods, res.Idempotency, res.Cutoff.Format(stamp))
			return nil
		},
	}
}

func newTreeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print what is in the trash, grouped by year and month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := opts.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			tree, err := services.NewTrashService(db, opts.clock(), opts.Retention).BuildRecoveryTree(cmd.Context())
			if err != nil {
				return fmt.Errorf("recovery tree: %w", err)
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), tree)
			}
			writeTree(cmd.OutOrStdout(), tree)
			return nil
		},
	}
}

// recoverResult is the JSON output of the recover command.
type recoverResult struct {
	Scope    string `json:"scope"`
	Key      string `json:"key"`
	Restored int64  `json:"restored"`
}

func newRecoverCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recover SCOPE KEY",
		Short: "Restore a record, a period or a year from the trash",
		Long: `Restore rows from the trash.

  papelera recover record 42
  papelera recover period "2024/Enero (2)"
  papelera recover year 2023

Period keys may also use the legacy form "2024Enero".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := opts.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			scope, key := args[0], args[1]
			n, err := services.NewTrashService(db, opts.clock(), opts.Retention).Recover(cmd.Context(), scope, key)
			if err != nil {
				return fmt.Errorf("recover %s %q: %w", scope, key, err)
			}
			opts.logger.Info().Str("scope", scope).Str("key", key).Int64("restored", n).Msg("recovered")

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), recoverResult{Scope: scope, Key: key, Restored: n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d rows\n", n)
			return nil
		},
	}
}

func newHashPasswordCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [PASSWORD]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long: `Print a bcrypt hash suitable for ADMIN_PASSWORD_HASH. Without an argument
the password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				sc := bufio.NewScanner(cmd.InOrStdin())
				if sc.Scan() {
					password = strings.TrimRight(sc.Text(), "\r")
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}
			if password == "" {
				return errors.New("empty password")
			}
			hash, err := services.HashPassword(password)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"hash": hash})
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
