package driver

import (
	"context"
	"database/sql"
	"strings"
	"time"

	// mysql driver
	"github.com/go-sql-driver/mysql"
)

// MySQLDuplicateEntry mysql error number for unique constraint violations
const MySQLDuplicateEntry = 1062

// IsDuplicateEntry reports whether err is a mysql duplicate-key violation
func IsDuplicateEntry(err error) bool {
	if myErr, ok := err.(*mysql.MySQLError); ok {
		return myErr.Number == MySQLDuplicateEntry
	}
	return false
}

// SQLWrapper Wraps a *sql.DB object and provides the implementation of
// ITransactionalDB
type SQLWrapper struct {
	db *sql.DB
}

// SQLWrapperTx transaction wrapper
type SQLWrapperTx struct {
	tx *sql.Tx
}

// NewMySQLConn Returns a MySQL connection pool
func NewMySQLConn(dsn string, cfg *DBConfig) (ITransactionalDB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(int(cfg.MaxConn))
	return &SQLWrapper{conn}, err
}

func mysqlTxOptionAdapter(opts *TxOptions) *sql.TxOptions {
	if opts == nil {
		return nil
	}
	return &sql.TxOptions{
		Isolation: opts.Isolation,
		ReadOnly:  opts.AccessMode == AccessReadOnly,
	}
}

// mysqlAdapter rewrite pg-style SQL into the mysql dialect
func mysqlAdapter(query string) string {
	query = strings.Replace(query, "\"", "`", -1)
	query = DollarPlaceholderPattern.ReplaceAllString(query, "?")
	query = SpacePattern.ReplaceAllString(query, " ")
	return query
}

// BeginTx start a new transaction context
func (mw *SQLWrapper) BeginTx(ctx context.Context, opts *TxOptions) (ITransactionalDB, error) {
	start := time.Now()
	tx, err := mw.db.BeginTx(ctx, mysqlTxOptionAdapter(opts))
	logQuery(ctx, "BeginTx", "", nil, start, err)
	return &SQLWrapperTx{tx}, err
}

func (mw *SQLWrapper) Commit(ctx context.Context) error {
	return nil
}

func (mw *SQLWrapper) Rollback(ctx context.Context) error {
	return nil
}

func (mw *SQLWrapper) Close(ctx context.Context) error {
	return mw.db.Close()
}

func (mw *SQLWrapper) Ping() error {
	return mw.db.Ping()
}

func (mw *SQLWrapper) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	query = mysqlAdapter(query)
	res, err := mw.db.ExecContext(ctx, query, args...)
	logQuery(ctx, "Exec", query, args, start, err)
	return res, err
}

func (mw *SQLWrapper) QueryContext(ctx context.Context, query string, args ...interface{}) (ISQLRows, error) {
	start := time.Now()
	query = mysqlAdapter(query)
	rows, err := mw.db.QueryContext(ctx, query, args...)
	logQuery(ctx, "Query", query, args, start, err)
	return rows, err
}

func (mwt *SQLWrapperTx) BeginTx(ctx context.Context, opts *TxOptions) (ITransactionalDB, error) {
	panic("create transaction inside a transaction")
}

func (mwt *SQLWrapperTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	query = mysqlAdapter(query)
	res, err := mwt.tx.ExecContext(ctx, query, args...)
	logQuery(ctx, "Exec", query, args, start, err)
	return res, err
}

func (mwt *SQLWrapperTx) QueryContext(ctx context.Context, query string, args ...interface{}) (ISQLRows, error) {
	start := time.Now()
	query = mysqlAdapter(query)
	rows, err := mwt.tx.QueryContext(ctx, query, args...)
	logQuery(ctx, "Query", query, args, start, err)
	return rows, err
}

func (mwt *SQLWrapperTx) Commit(ctx context.Context) error {
	start := time.Now()
	err := mwt.tx.Commit()
	logQuery(ctx, "Commit", "", nil, start, err)
	return err
}

func (mwt *SQLWrapperTx) Rollback(ctx context.Context) error {
	start := time.Now()
	err := mwt.tx.Rollback()
	logQuery(ctx, "Rollback", "", nil, start, err)
	return err
}

func (mwt *SQLWrapperTx) Close(ctx context.Context) error {
	return nil
}

func (mwt *SQLWrapperTx) Ping() error {
	return nil
}
