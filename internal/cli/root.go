// Package cli implements the rowkit command.
package cli

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/rowkit"
	"github.com/syssam/rowkit/dialect"
	"github.com/syssam/rowkit/dialect/sql"
	"github.com/syssam/rowkit/internal/config"
	"github.com/syssam/rowkit/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	v *viper.Viper
}

// NewRootCommand creates the root command of the rowkit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{v: viper.New()}
	opts.v.SetEnvPrefix("ROWKIT")
	opts.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	opts.v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "rowkit",
		Short: "Query and mutate a relational table with JSON descriptors",
		Long: `Query and mutate a single relational table with JSON descriptors.

Descriptors are compiled into parameterized statements; values are never
interpolated into SQL.

Example:
  rowkit find students '{"filter":{"class_id":"c1","current_balance":{">=":50}},"options":{"order":{"name":1},"limit":2}}'
  rowkit update students '{"current_balance":{"inc":5}}' '"abc"'`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to a YAML config file")
	flags.String("dialect", "", "database dialect (mysql|sqlite|postgres)")
	flags.String("dsn", "", "data source name")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.Bool("debug", false, "log every statement")
	for _, name := range []string{"config", "dialect", "dsn", "log-level", "debug"} {
		_ = opts.v.BindPFlag(name, flags.Lookup(name))
	}

	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// Config resolves the configuration: file, .env and environment, then
// command line flags.
func (o *RootOptions) Config() (*config.Config, error) {
	cfg, err := config.Load(o.v.GetString("config"), ".env")
	if err != nil {
		return nil, err
	}
	if o.v.IsSet("dialect") {
		cfg.Dialect = o.v.GetString("dialect")
	}
	if o.v.IsSet("dsn") {
		cfg.DSN = o.v.GetString("dsn")
	}
	if o.v.IsSet("log-level") {
		cfg.Log.Level = o.v.GetString("log-level")
	}
	if o.v.GetBool("debug") {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is an open client and the resources to release with it.
type session struct {
	client *rowkit.Client
	stats  *sql.StatsDriver
	log    zerolog.Logger
}

func (s *session) Close() error {
	if s.stats != nil {
		s.log.Debug().Str("stats", s.stats.Stats().Snapshot().String()).Msg("statements")
	}
	return s.client.Close()
}

func (o *RootOptions) open(cmd *cobra.Command, clientOpts ...rowkit.Option) (*session, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}
	drv, err := sql.Open(cfg.Dialect, dsn)
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.MaxOpenConns > 0:
		drv.DB().SetMaxOpenConns(cfg.MaxOpenConns)
	case cfg.Dialect == dialect.SQLite:
		// SQLite allows a single writer.
		drv.DB().SetMaxOpenConns(1)
	}
	logger := logging.NewWithComponent(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	}, "rowkit")

	s := &session{log: logger}
	var d dialect.Driver = drv
	if cfg.SlowThreshold > 0 {
		s.stats = sql.NewStatsDriver(d,
			sql.WithSlowThreshold(cfg.SlowThreshold),
			sql.WithSlowQueryLog(logger),
		)
		d = s.stats
	}
	if logger.GetLevel() <= zerolog.DebugLevel {
		d = sql.NewDebugDriver(d, logger)
	}
	opts := []rowkit.Option{rowkit.WithMaxConcurrency(cfg.MaxConcurrency)}
	if cfg.Cache.Enabled {
		opts = append(opts, rowkit.WithCache(rowkit.NewMemoryCache(), cfg.Cache.TTL))
	}
	s.client = rowkit.NewClient(d, append(opts, clientOpts...)...)
	return s, nil
}

func tableArg(args []string) (string, error) {
	table := strings.TrimSpace(args[0])
	if table == "" {
		return "", usageErrorf("table name is required")
	}
	return table, nil
}
