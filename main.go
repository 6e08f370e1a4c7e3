package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "loadpg <command-file.toml>",
	Short: "bulk loader: DBF/SQLite sources into PostgreSQL via COPY",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "emit debug-level log lines and full stack traces on failure")
}

func main() {
	os.Exit(run())
}

// run returns the process exit code per spec.md §7: 0 success, 1 unhandled
// condition, 3 reserved for a user-supplied extension failing to load (the
// out-of-scope self-upgrade/extension collaborator; never produced by this
// binary).
func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfgPath := args[0]

	cf, err := loadCommandFile(cfgPath)
	if err != nil {
		return err
	}
	cf.Debug = cf.Debug || debugFlag

	log, err := NewLogger(cf.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	enc, err := cf.resolveEncoding()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cf.Target.DSN)
	if err != nil {
		return fmt.Errorf("connect target: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping target: %w", err)
	}

	rc := NewRunContext(log, cf.RootDir, enc, pool)
	log.Info("run %s: %d source(s), root-dir=%s", rc.RunID, len(cf.Sources), rc.RootDir)

	if err := runSQLHooks(ctx, pool, cf.dir, cf.Hooks.BeforeData, cf.RootDir, "before_data"); err != nil {
		return fmt.Errorf("before_data hooks: %w", err)
	}

	opts := LoadOptions{
		DataOnly:       cf.DataOnly,
		SchemaOnly:     cf.SchemaOnly,
		Truncate:       cf.Truncate,
		CreateTables:   cf.CreateTables,
		CreateIndexes:  cf.CreateIndexes,
		IncludeDrop:    cf.IncludeDrop,
		ResetSequences: cf.ResetSequences,
		OnlyTables:     cf.OnlyTables,
		Including:      cf.Including,
		Excluding:      cf.Excluding,
	}

	orch, err := NewOrchestrator(ctx, rc, cf.Sources, opts)
	if err != nil {
		return fmt.Errorf("discover schema: %w", err)
	}

	bundle, runErr := orch.Run(ctx)

	if err := runSQLHooks(ctx, pool, cf.dir, cf.Hooks.AfterData, cf.RootDir, "after_data"); err != nil {
		log.Error("after_data hooks: %v", err)
	}

	reportFullSummary(os.Stdout, bundle)
	if cf.SummaryPath != "" {
		f, err := os.Create(cf.SummaryPath)
		if err != nil {
			log.Error("write summary file: %v", err)
		} else {
			reportFullSummary(f, bundle)
			f.Close()
		}
	}

	return runErr
}
