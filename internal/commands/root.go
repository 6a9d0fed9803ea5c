package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/balkashynov/lifetrack/internal/config"
	"github.com/balkashynov/lifetrack/internal/db"
	"github.com/balkashynov/lifetrack/internal/logger"
	"github.com/balkashynov/lifetrack/internal/models"
	"github.com/balkashynov/lifetrack/internal/parser"
	"github.com/balkashynov/lifetrack/internal/tracker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every data command needs. Fields below the flags are
// filled by open.
type app struct {
	configPath string
	dateFlag   string
	verbose    bool
	now        func() time.Time

	cfg     *config.Config
	log     *zap.Logger
	loc     *time.Location
	store   *db.Store
	tracker *tracker.Tracker
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lifetrack",
		Short: "A CLI habit tracker",
		Long: `lifetrack tracks daily habits across life domains.
Check tasks off, earn points, and keep a streak going by completing at least
one task in every active domain each day.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.lifetrack/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&a.dateFlag, "date", "d", "today", "Date: today, yesterday, yyyy-mm-dd, dd/mm/yyyy, 'N days ago' or -N")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging to stderr")

	// Add subcommands here
	rootCmd.AddCommand(newTodayCmd(a))
	rootCmd.AddCommand(newDoneCmd(a))
	rootCmd.AddCommand(newTaskCmd(a))
	rootCmd.AddCommand(newDomainCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newResetCmd(a))
	rootCmd.AddCommand(newRepairCmd(a))
	rootCmd.AddCommand(newUICmd(a))
	rootCmd.SetHelpCommand(newHelpCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// open loads config, logging and storage, then the session.
func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:    level,
		Encoding: cfg.Log.Encoding,
		Output:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := db.Open(db.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		Logger: log,
	})
	if err != nil {
		return err
	}

	tr := tracker.New(store,
		tracker.WithLogger(log),
		tracker.WithClock(a.now))
	if err := tr.Load(cmd.Context()); err != nil {
		store.Close()
		return err
	}

	log.Debug("Opened store",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("path", cfg.Storage.Path))

	a.cfg, a.log, a.loc, a.store, a.tracker = cfg, log, loc, store, tr
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("Failed to close store", zap.Error(err))
		}
		a.store = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// withApp wraps a command function to open storage first and close it after.
func (a *app) withApp(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if cmd.Context() == nil {
			cmd.SetContext(context.Background())
		}
		if err := a.open(cmd); err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args)
	}
}

// today is the current date key in the configured timezone.
func (a *app) today() string {
	return models.Today(a.now(), a.loc)
}

// date resolves --date against today.
func (a *app) date() (string, error) {
	return parser.ParseDate(a.dateFlag, a.today())
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
