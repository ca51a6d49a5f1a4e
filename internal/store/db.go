package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Knetic/go-namedParameterQuery"
	"github.com/go-sql-driver/mysql"
	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

type ltx struct {
	*sqlx.Tx
}

func (t ltx) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, fmt.Errorf("already in transaction")
}

type txDB interface {
	Commit() error
	Rollback() error
}

func (ms *SQLStore) DB() dependency.DB {
	return ms.db
}

// Tx starts transaction and executes the function passing to it Handler
// using this transaction. It automatically rolls the transaction back if
// function returns an error. If the error has been caused by serialization
// error, it calls the function again. In order for serialization errors
// handling to work, the function should return Handler errors
// unchanged, or wrap them using %w.
func (ms *SQLStore) Tx(ctx context.Context, f func(context.Context, dependency.Repository) error) error {
	for {
		pst, err := ms.TxBegin(ctx)
		if err != nil {
			return err
		}
		err = f(ctx, pst)
		if err == nil {
			if err = pst.TxCommit(ctx); err == nil {
				return nil
			}
		}
		_ = pst.TxRollback(ctx)
		if ms.IsErrorRepeat(err) {
			continue
		}
		return err
	}
}

func (ms *SQLStore) TxBegin(ctx context.Context) (dependency.Repository, error) {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	if ms.db.DriverName() == DriverSQLite {
		// sqlite transactions are serializable already and reject explicit levels
		opts = nil
	}
	tx, err := ms.DB().BeginTxx(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &SQLStore{
		db:   ltx{Tx: tx},
		txDB: tx,
		ts:   ms.Now(),
	}, nil
}

// Now returns current time for the store. It is frozen during transactions.
func (ms *SQLStore) Now() time.Time {
	if ms.ts.IsZero() {
		return time.Now().UTC()
	}
	return ms.ts
}

func (ms *SQLStore) TxCommit(ctx context.Context) error {
	if ms.txDB == nil {
		return fmt.Errorf("not in transaction")
	}
	err := ms.txDB.Commit()
	if err == nil {
		ms.db = nil
		ms.txDB = nil
	}
	return err
}

func (ms *SQLStore) TxRollback(ctx context.Context) error {
	if ms.txDB == nil {
		return fmt.Errorf("not in transaction")
	}
	err := ms.txDB.Rollback()
	if err == nil {
		ms.db = nil
		ms.txDB = nil
	}
	return err
}

// IsErrorRepeat reports serialization failures and deadlocks worth retrying.
func (ms *SQLStore) IsErrorRepeat(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == "40001" || pe.Code == "40P01"
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1213
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}

func (ms *SQLStore) IsErrUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// prepareNamed turns a :name query into a driver-specific positional one,
// expanding slice parameters for IN clauses.
func prepareNamed(conn dependency.DB, query string, params map[string]any) (string, []any, error) {
	queryNamed := namedParameterQuery.NewNamedParameterQuery(query)
	queryNamed.SetValuesFromMap(params)
	query, args, err := sqlx.In(queryNamed.GetParsedQuery(), queryNamed.GetParsedParameters()...)
	if err != nil {
		return "", nil, fmt.Errorf("sqlx in: %w", err)
	}
	return conn.Rebind(query), args, nil
}

func QueryListNamed[T any](
	ctx context.Context,
	conn dependency.DB,
	query string,
	params map[string]any,
) ([]T, error) {
	query, args, err := prepareNamed(conn, query, params)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var target []T
	for rows.Next() {
		var t T
		if err := rows.StructScan(&t); err != nil {
			return nil, fmt.Errorf("struct scan: %w", err)
		}
		target = append(target, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return target, nil
}

// QueryScalarListNamed scans a single-column result set.
func QueryScalarListNamed[T any](
	ctx context.Context,
	conn dependency.DB,
	query string,
	params map[string]any,
) ([]T, error) {
	query, args, err := prepareNamed(conn, query, params)
	if err != nil {
		return nil, err
	}

	var target []T
	if err := conn.SelectContext(ctx, &target, query, args...); err != nil {
		return nil, fmt.Errorf("select context: %w", err)
	}
	return target, nil
}

func QueryNamedOne[T any](ctx context.Context, conn dependency.DB, query string, params map[string]any) (T, error) {
	var target T
	query, args, err := prepareNamed(conn, query, params)
	if err != nil {
		return target, err
	}

	row := conn.QueryRowxContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		return target, fmt.Errorf("query row: %w", err)
	}

	if err := row.StructScan(&target); err != nil {
		return target, fmt.Errorf("struct scan: %w", err)
	}
	return target, nil
}

// QueryScalarNamed scans a single value, e.g. a COUNT or SUM.
func QueryScalarNamed[T any](
	ctx context.Context,
	conn dependency.DB,
	query string,
	params map[string]any,
) (T, error) {
	var target T
	query, args, err := prepareNamed(conn, query, params)
	if err != nil {
		return target, err
	}

	if err := conn.QueryRowxContext(ctx, query, args...).Scan(&target); err != nil {
		return target, fmt.Errorf("query row scan: %w", err)
	}
	return target, nil
}

// nolint: interfacer
func ExecNamed(
	ctx context.Context,
	conn dependency.DB,
	query string,
	params map[string]any,
) error {
	query, args, err := prepareNamed(conn, query, params)
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ExecContext: %w", err)
	}

	return nil
}

// BulkInsert performs a bulk insert operation
func BulkInsert(ctx context.Context, conn dependency.DB, tableName string, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}

	// Get the columns from the first map, assume all maps have the same columns
	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		columns = append(columns, column)
	}

	valueStrings := make([]string, 0, len(rows))
	values := make([]any, 0, len(rows)*len(columns))
	for _, row := range rows {
		placeholders := make([]string, 0, len(columns))
		for _, column := range columns {
			placeholders = append(placeholders, "?")
			values = append(values, row[column])
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ", ")+")")
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(valueStrings, ", "),
	)

	_, err := conn.ExecContext(ctx, conn.Rebind(query), values...)
	if err != nil {
		return fmt.Errorf("BulkInsert failed: %w", err)
	}

	return nil
}
