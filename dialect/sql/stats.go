package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/syssam/rowkit/dialect"
)

// StatementKind classifies a statement by its leading keyword.
type StatementKind int

// Statement kinds counted by StatsDriver.
const (
	KindOther StatementKind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	numKinds
)

var kindNames = [numKinds]string{"other", "select", "insert", "update", "delete"}

// String returns the lower-case keyword of the kind.
func (k StatementKind) String() string {
	if k < 0 || k >= numKinds {
		return kindNames[KindOther]
	}
	return kindNames[k]
}

// KindOf returns the kind of query.
func KindOf(query string) StatementKind {
	query = strings.TrimLeft(query, " \t\r\n(")
	i := strings.IndexAny(query, " \t\r\n(")
	if i < 0 {
		i = len(query)
	}
	switch strings.ToUpper(query[:i]) {
	case "SELECT":
		return KindSelect
	case "INSERT":
		return KindInsert
	case "UPDATE":
		return KindUpdate
	case "DELETE":
		return KindDelete
	}
	return KindOther
}

// Stats counts the statements that went through a StatsDriver. It is
// safe for concurrent use.
type Stats struct {
	counts   [numKinds]atomic.Int64
	duration atomic.Int64 // nanoseconds
	slow     atomic.Int64
	errors   atomic.Int64
}

func (s *Stats) add(kind StatementKind, d time.Duration, slow bool, err error) {
	s.counts[kind].Add(1)
	s.duration.Add(int64(d))
	if slow {
		s.slow.Add(1)
	}
	if err != nil {
		s.errors.Add(1)
	}
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	var snap StatsSnapshot
	for k := range s.counts {
		snap.Counts[k] = s.counts[k].Load()
	}
	snap.Duration = time.Duration(s.duration.Load())
	snap.Slow = s.slow.Load()
	snap.Errors = s.errors.Load()
	return snap
}

// Reset sets every counter back to zero.
func (s *Stats) Reset() {
	for k := range s.counts {
		s.counts[k].Store(0)
	}
	s.duration.Store(0)
	s.slow.Store(0)
	s.errors.Store(0)
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Counts   [numKinds]int64 // Indexed by StatementKind
	Duration time.Duration   // Total time spent in the database
	Slow     int64
	Errors   int64
}

// Count returns the number of statements of kind k.
func (s StatsSnapshot) Count(k StatementKind) int64 {
	if k < 0 || k >= numKinds {
		return 0
	}
	return s.Counts[k]
}

// Total returns the number of statements of every kind.
func (s StatsSnapshot) Total() int64 {
	var n int64
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Avg returns the mean statement duration.
func (s StatsSnapshot) Avg() time.Duration {
	if n := s.Total(); n > 0 {
		return s.Duration / time.Duration(n)
	}
	return 0
}

// String formats the snapshot as space-separated key=value pairs.
func (s StatsSnapshot) String() string {
	var b strings.Builder
	for k := KindSelect; k < numKinds; k++ {
		fmt.Fprintf(&b, "%s=%d ", k, s.Counts[k])
	}
	fmt.Fprintf(&b, "other=%d slow=%d errors=%d avg=%s", s.Counts[KindOther], s.Slow, s.Errors, s.Avg())
	return b.String()
}

// SlowStatement describes a statement that ran longer than the threshold
// of a StatsDriver.
type SlowStatement struct {
	Kind     StatementKind
	Query    string
	Args     []any
	Duration time.Duration
}

// StatsDriver is a driver that counts statements by kind and reports slow
// ones.
type StatsDriver struct {
	dialect.Driver
	stats     *Stats
	threshold time.Duration
	onSlow    []func(context.Context, SlowStatement)
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement is slow.
// The default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold = d
	}
}

// WithSlowQueryHook registers f to be called for every slow statement.
func WithSlowQueryHook(f func(context.Context, SlowStatement)) StatsOption {
	return func(s *StatsDriver) {
		s.onSlow = append(s.onSlow, f)
	}
}

// WithSlowQueryLog logs slow statements as warnings.
func WithSlowQueryLog(logger zerolog.Logger) StatsOption {
	return WithSlowQueryHook(func(_ context.Context, st SlowStatement) {
		logger.Warn().
			Stringer("kind", st.Kind).
			Dur("duration", st.Duration).
			Str("query", st.Query).
			Interface("args", st.Args).
			Msg("slow query detected")
	})
}

// NewStatsDriver wraps drv with statement counters.
//
//	drv, _ := sql.Open(dialect.MySQL, dsn)
//	stats := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(logger),
//	)
//	client := rowkit.NewClient(stats)
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:    drv,
		stats:     &Stats{},
		threshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the live counters of the driver.
func (d *StatsDriver) Stats() *Stats { return d.stats }

// SlowThreshold returns the slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration { return d.threshold }

// Query implements the dialect.ExecQuerier interface.
func (d *StatsDriver) Query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.Driver.Query(ctx, query, args)
	d.record(ctx, query, args, start, err)
	return rows, err
}

// Exec implements the dialect.ExecQuerier interface.
func (d *StatsDriver) Exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	start := time.Now()
	res, err := d.Driver.Exec(ctx, query, args)
	d.record(ctx, query, args, start, err)
	return res, err
}

func (d *StatsDriver) record(ctx context.Context, query string, args []any, start time.Time, err error) {
	st := SlowStatement{Kind: KindOf(query), Query: query, Args: args, Duration: time.Since(start)}
	slow := st.Duration > d.threshold
	d.stats.add(st.Kind, st.Duration, slow, err)
	if slow {
		for _, f := range d.onSlow {
			f(ctx, st)
		}
	}
}

// Tx starts a transaction whose statements are counted too.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &statsTx{Tx: tx, drv: d}, nil
}

type statsTx struct {
	dialect.Tx
	drv *StatsDriver
}

func (tx *statsTx) Query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := tx.Tx.Query(ctx, query, args)
	tx.drv.record(ctx, query, args, start, err)
	return rows, err
}

func (tx *statsTx) Exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	start := time.Now()
	res, err := tx.Tx.Exec(ctx, query, args)
	tx.drv.record(ctx, query, args, start, err)
	return res, err
}

// DebugDriver is a driver that logs every statement at debug level.
type DebugDriver struct {
	dialect.Driver
	log zerolog.Logger
}

// NewDebugDriver wraps drv with statement logging.
//
//	drv, _ := sql.Open(dialect.MySQL, dsn)
//	client := rowkit.NewClient(sql.NewDebugDriver(drv, logger))
func NewDebugDriver(drv dialect.Driver, logger zerolog.Logger) *DebugDriver {
	return &DebugDriver{
		Driver: drv,
		log:    logger.With().Str("dialect", drv.Dialect()).Logger(),
	}
}

func logStatement(log zerolog.Logger, query string, args []any) {
	log.Debug().
		Stringer("kind", KindOf(query)).
		Str("query", query).
		Interface("args", args).
		Msg("statement")
}

// Query implements the dialect.ExecQuerier interface.
func (d *DebugDriver) Query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	logStatement(d.log, query, args)
	return d.Driver.Query(ctx, query, args)
}

// Exec implements the dialect.ExecQuerier interface.
func (d *DebugDriver) Exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	logStatement(d.log, query, args)
	return d.Driver.Exec(ctx, query, args)
}

// Tx starts a transaction whose statements are logged too.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	log := d.log.With().Bool("tx", true).Logger()
	log.Debug().Msg("begin transaction")
	return &debugTx{Tx: tx, log: log}, nil
}

type debugTx struct {
	dialect.Tx
	log zerolog.Logger
}

func (tx *debugTx) Query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	logStatement(tx.log, query, args)
	return tx.Tx.Query(ctx, query, args)
}

func (tx *debugTx) Exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	logStatement(tx.log, query, args)
	return tx.Tx.Exec(ctx, query, args)
}

func (tx *debugTx) Commit() error {
	tx.log.Debug().Msg("commit transaction")
	return tx.Tx.Commit()
}

func (tx *debugTx) Rollback() error {
	tx.log.Debug().Msg("rollback transaction")
	return tx.Tx.Rollback()
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*statsTx)(nil)
	_ dialect.Tx     = (*debugTx)(nil)
)
