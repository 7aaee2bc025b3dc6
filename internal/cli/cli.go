// Package cli defines the draftboard command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/draftboard/internal/adapters/http/api"
	"github.com/okian/draftboard/internal/adapters/repository"
	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/internal/config"
	"github.com/okian/draftboard/pkg/logger"
)

// ServiceFactory builds the pipeline service for a loaded configuration.
type ServiceFactory func(cfg *config.Config, log logger.Logger, opts ...service.Option) *service.Service

// Option configures the root command.
type Option func(*runner)

// WithServiceFactory replaces how the service is built.
func WithServiceFactory(f ServiceFactory) Option {
	return func(r *runner) {
		if f != nil {
			r.factory = f
		}
	}
}

// WithClock sets the clock used for the default run date.
func WithClock(now func() time.Time) Option {
	return func(r *runner) {
		if now != nil {
			r.now = now
		}
	}
}

type runner struct {
	factory ServiceFactory
	now     func() time.Time

	date       string
	configPath string
	logLevel   string
	addr       string

	cfg *config.Config
	log logger.Logger
}

func defaultFactory(cfg *config.Config, log logger.Logger, opts ...service.Option) *service.Service {
	return service.New(append([]service.Option{service.WithConfig(cfg), service.WithLogger(log)}, opts...)...)
}

// New returns the root command with every subcommand attached.
func New(opts ...Option) *cobra.Command {
	r := &runner{factory: defaultFactory, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	root := &cobra.Command{
		Use:               "draftboard",
		Short:             "Fantasy football draft board pipeline",
		SilenceUsage:      true,
		PersistentPreRunE: r.setup,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&r.date, "date", "", "run date YYYY-MM-DD (default today)")
	flags.StringVar(&r.configPath, "config", "", "config file (default $"+config.EnvConfigPath+")")
	flags.StringVar(&r.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(
		r.stageCommand(service.StageIngest, "Fetch the roster into raw_players", (*service.Service).Ingest),
		r.stageCommand(service.StageClean, "Keep rostered players at starting positions", (*service.Service).Clean),
		r.stageCommand(service.StageEnrich, "Assign slugs and join ADP and projections", (*service.Service).Enrich),
		r.stageCommand(service.StageStats, "Aggregate history and compute expected points per game", (*service.Service).Stats),
		r.stageCommand(service.StageVOR, "Rank players by value over replacement", (*service.Service).VOR),
		r.stageCommand("all", "Run enrich, stats and vor", (*service.Service).All),
		r.cheatsheetCommand(),
		r.serveCommand(),
	)
	return root
}

func (r *runner) setup(cmd *cobra.Command, _ []string) error {
	if r.date == "" {
		r.date = r.now().Format(repository.DateLayout)
	}
	if _, err := time.Parse(repository.DateLayout, r.date); err != nil {
		return fmt.Errorf("%w: --date %q: want YYYY-MM-DD", repository.ErrInvalidDate, r.date)
	}

	cfg, err := config.Load(cmd.Context(), r.configPath)
	if err != nil {
		return err
	}
	if r.logLevel != "" {
		cfg.LogLevel = r.logLevel
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %w", config.ErrInvalidConfig, err)
	}
	r.cfg = cfg
	r.log = logger.Get()
	return nil
}

func (r *runner) stageCommand(name, short string, stage func(*service.Service, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := r.factory(r.cfg, r.log)
			return r.finish(cmd.Context(), svc, name, stage(svc, cmd.Context(), r.date))
		},
	}
}

func (r *runner) cheatsheetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   service.StageCheatsheet,
		Short: "Write tiered CSV cheatsheets for the final board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := r.factory(r.cfg, r.log)
			paths, err := svc.Cheatsheet(cmd.Context(), r.date)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return r.finish(cmd.Context(), svc, service.StageCheatsheet, err)
		},
	}
}

func (r *runner) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the final board over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []service.Option
			if cmd.Flags().Changed("date") {
				opts = append(opts, service.WithBoardDate(r.date))
			}
			addr := r.cfg.Addr
			if r.addr != "" {
				addr = r.addr
			}
			svc := r.factory(r.cfg, r.log, opts...)
			srv := api.NewServer(svc,
				api.WithMaxLimit(r.cfg.MaxBoardLimit),
				api.WithLogger(r.log.Named("api")),
			)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&r.addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// finish exports metrics whether or not the stage succeeded. A failed
// export is logged and does not change the outcome.
func (r *runner) finish(ctx context.Context, svc *service.Service, job string, stageErr error) error {
	if err := svc.ExportMetrics(context.WithoutCancel(ctx), job, r.date); err != nil {
		r.log.Warn(ctx, "metrics export failed", logger.Error(err))
	}
	return stageErr
}

// Main runs the command line and returns the process exit code.
func Main(ctx context.Context, args []string, stderr io.Writer, opts ...Option) int {
	root := New(opts...)
	root.SetArgs(args)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
