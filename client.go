package rowkit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/rowkit/dialect"
	"github.com/syssam/rowkit/dialect/sql"
)

// Record is a row: column name to value. It is both the payload of an
// insert and the shape of returned rows.
type Record map[string]any

// Order sorts a selection by a single column. A Key of 1 sorts ascending,
// any other key descending.
type Order struct {
	Column string
	Key    int
}

// Query describes a selection on a single table.
type Query struct {
	Filter sql.Filter // Conditions joined with AND; empty matches every row
	View   []string   // Projected columns; empty selects "*"
	Order  *Order     // Optional sort
	Limit  int        // Maximum number of rows; 0 means no limit
	Skip   int        // Number of rows to skip
}

// Result summarizes a mutation.
type Result struct {
	RowsAffected int64 `json:"rows_affected"`
	LastInsertID int64 `json:"last_insert_id,omitempty"`
	// ID is the id of an inserted record: the generated one, the one the
	// record carried, or LastInsertID.
	ID any `json:"id,omitempty"`
}

// Client compiles descriptors into statements and executes them on a
// driver. It holds no state between calls apart from its optional cache
// and is safe for concurrent use.
type Client struct {
	drv      dialect.Driver
	cache    Cache
	cacheTTL time.Duration
	idgen    IDGenerator
	workers  int
	// gens counts the evictions of every table. A result read before an
	// eviction is never cached after it.
	gens sync.Map // table name -> *atomic.Uint64
}

// Option configures the Client.
type Option func(*Client)

// WithCache caches Find, FindOne and Count results in c for ttl. Every
// mutation of a table evicts that table's entries.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache, cl.cacheTTL = c, ttl
	}
}

// WithIDGenerator fills the id column of inserted records that lack one.
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *Client) {
		c.idgen = gen
	}
}

// WithMaxConcurrency bounds the number of statements a batch insert runs
// at once. Zero or less means one goroutine per record.
func WithMaxConcurrency(n int) Option {
	return func(c *Client) {
		c.workers = n
	}
}

// NewClient returns a Client executing on drv.
func NewClient(drv dialect.Driver, opts ...Option) *Client {
	c := &Client{drv: drv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Driver returns the underlying driver.
func (c *Client) Driver() dialect.Driver { return c.drv }

// Close closes the underlying driver.
func (c *Client) Close() error { return c.drv.Close() }

func (c *Client) dialect() *sql.DialectBuilder {
	return sql.Dialect(c.drv.Dialect())
}

// Find returns the rows of table matching q.
//
//	rows, err := client.Find(ctx, "students", rowkit.Query{
//	    Filter: sql.Where(
//	        sql.C("class_id", sql.Eq("c1")),
//	        sql.C("current_balance", sql.GTE(50)),
//	    ),
//	    Order: &rowkit.Order{Column: "name", Key: 1},
//	    Limit: 2,
//	})
func (c *Client) Find(ctx context.Context, table string, q Query) ([]Record, error) {
	sel, err := c.selector(table, q)
	if err != nil {
		return nil, err
	}
	return c.query(ctx, table, "find", sel)
}

// FindOne returns the first row of table matching q, or a NotFoundError.
func (c *Client) FindOne(ctx context.Context, table string, q Query) (Record, error) {
	q.Limit = 1
	rows, err := c.Find(ctx, table, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NewNotFoundError(table)
	}
	return rows[0], nil
}

// Count returns the number of rows of table matching f.
func (c *Client) Count(ctx context.Context, table string, f sql.Filter) (int64, error) {
	rows, err := c.query(ctx, table, "count", c.dialect().Select().From(table).Where(f).Count())
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for _, v := range rows[0] {
		n, ok := asInt64(v)
		if !ok {
			return 0, &ExecError{Table: table, Op: "count", Err: errUnexpectedCount{v}}
		}
		return n, nil
	}
	return 0, nil
}

func (c *Client) selector(table string, q Query) (*sql.Selector, error) {
	if q.Limit < 0 {
		return nil, NewInputError("find", "limit must not be negative, got %d", q.Limit)
	}
	if q.Skip < 0 {
		return nil, NewInputError("find", "skip must not be negative, got %d", q.Skip)
	}
	sel := c.dialect().Select(q.View...).From(table).Where(q.Filter)
	if q.Order != nil {
		sel.OrderBy(q.Order.Column, q.Order.Key)
	}
	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}
	if q.Skip > 0 {
		sel.Offset(q.Skip)
	}
	return sel, nil
}

func (c *Client) query(ctx context.Context, table, op string, q sql.Querier) ([]Record, error) {
	query, args, err := q.Query()
	if err != nil {
		return nil, inputError(op, err)
	}
	var (
		key string
		gen uint64
	)
	if c.cache != nil {
		gen = c.generation(table).Load()
		if key, err = cacheKey(table, query, args); err == nil {
			if b, err := c.cache.Get(ctx, key); err == nil && b != nil {
				if rows, err := decodeRows(b); err == nil {
					return rows, nil
				}
			}
		}
	}
	rs, err := c.drv.Query(ctx, query, args)
	if err != nil {
		return nil, &ExecError{Table: table, Op: op, Err: err}
	}
	maps, err := sql.ScanMaps(rs)
	if err != nil {
		return nil, &ExecError{Table: table, Op: op, Err: err}
	}
	rows := make([]Record, len(maps))
	for i := range maps {
		rows[i] = maps[i]
	}
	if key != "" {
		c.store(ctx, table, key, gen, rows)
	}
	return rows, nil
}

// store caches rows read at generation gen of table, unless the table was
// evicted in the meantime.
func (c *Client) store(ctx context.Context, table, key string, gen uint64, rows []Record) {
	g := c.generation(table)
	if g.Load() != gen {
		return
	}
	b, err := encodeRows(rows)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, key, b, c.cacheTTL)
	// An eviction that ran between the check and Set may have missed the entry.
	if g.Load() != gen {
		_ = c.cache.DeletePrefix(ctx, key)
	}
}

func (c *Client) generation(table string) *atomic.Uint64 {
	if g, ok := c.gens.Load(table); ok {
		return g.(*atomic.Uint64)
	}
	g, _ := c.gens.LoadOrStore(table, new(atomic.Uint64))
	return g.(*atomic.Uint64)
}

func cacheKey(table, query string, args []any) (string, error) {
	b, err := msgpack.Marshal(args)
	if err != nil {
		return "", err
	}
	return CacheKey{Table: table, Query: query, Args: b}.String(), nil
}

// Insert inserts a single record into table.
func (c *Client) Insert(ctx context.Context, table string, r Record) (Result, error) {
	ins, err := c.insert(table, r)
	if err != nil {
		return Result{}, err
	}
	return c.execInsert(ctx, table, ins)
}

// InsertMany inserts every record of rs into table. Each record is a
// separate statement, and all statements run concurrently; results are
// returned in input order. Input errors are reported before any statement
// runs. Failed rows are reported as RowErrors and leave a zero Result;
// rows that succeeded stay committed.
func (c *Client) InsertMany(ctx context.Context, table string, rs []Record) ([]Result, error) {
	if len(rs) == 0 {
		return nil, NewInputError("insert", "no records to insert")
	}
	stmts := make([]insertStmt, len(rs))
	for i, r := range rs {
		ins, err := c.insert(table, r)
		if err != nil {
			return nil, &RowError{Index: i, Err: err}
		}
		stmts[i] = ins
	}
	var (
		g       errgroup.Group
		results = make([]Result, len(rs))
		errs    = make([]error, len(rs))
	)
	if c.workers > 0 {
		g.SetLimit(c.workers)
	}
	for i := range stmts {
		g.Go(func() error {
			res, err := c.execInsert(ctx, table, stmts[i])
			if err != nil {
				errs[i] = &RowError{Index: i, Err: err}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results, NewAggregateError(errs...)
}

type insertStmt struct {
	query string
	args  []any
	id    any
}

func (c *Client) insert(table string, r Record) (insertStmt, error) {
	if len(r) == 0 {
		return insertStmt{}, NewInputError("insert", "empty record")
	}
	r, id := withID(r, c.idgen)
	query, args, err := c.dialect().Insert(table).Record(r).Query()
	if err != nil {
		return insertStmt{}, inputError("insert", err)
	}
	return insertStmt{query: query, args: args, id: id}, nil
}

func (c *Client) execInsert(ctx context.Context, table string, s insertStmt) (Result, error) {
	res, err := c.exec(ctx, table, "insert", s.query, s.args)
	if err != nil {
		return Result{}, err
	}
	res.ID = s.id
	if res.ID == nil && res.LastInsertID != 0 {
		res.ID = res.LastInsertID
	}
	return res, nil
}

// Update applies changes to the rows of table matched by where, usually
// sql.ByID or sql.Match. Undefined assignments are dropped; an update
// without assignments or without a target is rejected.
//
//	client.Update(ctx, "students",
//	    sql.Changes{}.Set("current_balance", sql.Inc(5)),
//	    sql.ByID("abc"),
//	)
func (c *Client) Update(ctx context.Context, table string, changes sql.Changes, where sql.Filter) (Result, error) {
	query, args, err := c.dialect().Update(table).Apply(changes).Where(where).Query()
	if err != nil {
		return Result{}, inputError("update", err)
	}
	return c.exec(ctx, table, "update", query, args)
}

// Delete removes the rows of table matched by where. A positive limit caps
// the number of removed rows; zero means no cap.
func (c *Client) Delete(ctx context.Context, table string, where sql.Filter, limit int) (Result, error) {
	if limit < 0 {
		return Result{}, NewInputError("delete", "limit must be positive, got %d", limit)
	}
	del := c.dialect().Delete(table).Where(where)
	if limit > 0 {
		del.Limit(limit)
	}
	query, args, err := del.Query()
	if err != nil {
		return Result{}, inputError("delete", err)
	}
	return c.exec(ctx, table, "delete", query, args)
}

func (c *Client) exec(ctx context.Context, table, op, query string, args []any) (Result, error) {
	res, err := c.drv.Exec(ctx, query, args)
	c.evict(ctx, table)
	if err != nil {
		return Result{}, &ExecError{Table: table, Op: op, Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Result{}, &ExecError{Table: table, Op: op, Err: err}
	}
	// Drivers without insert ids (lib/pq) report an error here.
	id, _ := res.LastInsertId()
	return Result{RowsAffected: affected, LastInsertID: id}, nil
}

func (c *Client) evict(ctx context.Context, table string) {
	if c.cache != nil {
		c.generation(table).Add(1)
		_ = c.cache.DeletePrefix(ctx, tablePrefix(table))
	}
}

type errUnexpectedCount struct{ v any }

func (e errUnexpectedCount) Error() string {
	return fmt.Sprintf("unexpected count value %v (%T)", e.v, e.v)
}

// asInt64 converts a scanned COUNT(*) value. Some drivers report it as
// text, and the cache round trip may narrow it.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case float64:
		return int64(n), n == float64(int64(n))
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}
