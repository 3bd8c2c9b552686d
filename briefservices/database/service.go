package database

import (
	"context"
	"database/sql"
	"maps"
	"slices"

	"github.com/lunagic/brief/briefquery"
	"github.com/lunagic/brief/briefservices/database/internal/utils"
)

type Row = briefquery.Row

// Service runs statements against a database. It satisfies
// briefquery.Connection and is safe for concurrent use.
type Service struct {
	driver            Driver
	standardLibraryDB *sql.DB
	preRunFuncs       []func(ctx context.Context, statement string, args []any) error
	postRunFuncs      []func(ctx context.Context) error
	resultCache       *resultCache
}

func New(
	driver Driver,
	configFuncs ...ServiceConfigFunc,
) (*Service, error) {
	db, err := driver.Open()
	if err != nil {
		return nil, err
	}

	service := &Service{
		driver:            driver,
		standardLibraryDB: db,
		preRunFuncs:       []func(ctx context.Context, statement string, args []any) error{},
		postRunFuncs:      []func(ctx context.Context) error{},
	}

	for _, configFunc := range configFuncs {
		if err := configFunc(service); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func (service *Service) Driver() Driver {
	return service.driver
}

func (service *Service) Ping() error {
	return service.standardLibraryDB.Ping()
}

func (service *Service) Close() error {
	return service.standardLibraryDB.Close()
}

// QuoteLiteral lets the builders quote literals the way the driver expects.
func (service *Service) QuoteLiteral(value string) string {
	return service.driver.QuoteLiteral(value)
}

func (service *Service) ExecuteQuery(ctx context.Context, statement string, args ...any) ([]Row, error) {
	preparedQuery, preparedArgs, err := service.prepare(statement, args)
	if err != nil {
		return nil, err
	}

	if service.resultCache != nil {
		if rows, found := service.resultCache.get(ctx, preparedQuery, preparedArgs); found {
			return rows, nil
		}
	}

	if err := service.preRun(ctx, preparedQuery, preparedArgs); err != nil {
		return nil, err
	}

	rows, err := service.standardLibraryDB.QueryContext(ctx, preparedQuery, preparedArgs...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	target, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	if err := service.postRun(ctx); err != nil {
		return nil, err
	}

	if service.resultCache != nil {
		if err := service.resultCache.set(ctx, preparedQuery, preparedArgs, target); err != nil {
			return nil, err
		}
	}

	return target, nil
}

// ExecuteUpdate runs a statement that returns no rows and reports how many
// rows it affected.
func (service *Service) ExecuteUpdate(ctx context.Context, statement string, args ...any) (int64, error) {
	result, err := service.runExecute(ctx, statement, args)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// ExecuteInsert runs an INSERT and returns the id of the new row.
func (service *Service) ExecuteInsert(ctx context.Context, statement string, args ...any) (int64, error) {
	if !service.driver.usesLastInsertId() {
		preparedQuery, preparedArgs, err := service.prepare(statement+" RETURNING id", args)
		if err != nil {
			return 0, err
		}

		if err := service.preRun(ctx, preparedQuery, preparedArgs); err != nil {
			return 0, err
		}

		service.invalidate()

		lastInsertID := int64(0)
		if err := service.standardLibraryDB.QueryRowContext(ctx, preparedQuery, preparedArgs...).Scan(&lastInsertID); err != nil {
			return 0, err
		}

		if err := service.postRun(ctx); err != nil {
			return 0, err
		}

		return lastInsertID, nil
	}

	result, err := service.runExecute(ctx, statement, args)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// Insert writes values into table with bound arguments.
func (service *Service) Insert(ctx context.Context, table string, values map[string]any) (int64, error) {
	statement, args := briefquery.InsertSQL(table, values, briefquery.Compiler{
		Mode: briefquery.BindPlaceholder,
	})

	return service.ExecuteInsert(ctx, statement, args...)
}

// Delete removes the rows of table whose columns equal every value in
// conditions. An empty conditions map is refused.
func (service *Service) Delete(ctx context.Context, table string, conditions map[string]any) (int64, error) {
	builder := briefquery.NewDelete(service, table)
	for _, column := range slices.Sorted(maps.Keys(conditions)) {
		builder.Condition(column, conditions[column])
	}

	return builder.Execute(ctx)
}

func (service *Service) runExecute(
	ctx context.Context,
	statement string,
	args []any,
) (
	sql.Result,
	error,
) {
	preparedQuery, preparedArgs, err := service.prepare(statement, args)
	if err != nil {
		return nil, err
	}

	if err := service.preRun(ctx, preparedQuery, preparedArgs); err != nil {
		return nil, err
	}

	service.invalidate()

	result, err := service.standardLibraryDB.ExecContext(ctx, preparedQuery, preparedArgs...)
	if err != nil {
		return nil, err
	}

	if err := service.postRun(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

func (service *Service) prepare(statement string, args []any) (string, []any, error) {
	preparedQuery, preparedArgs, err := utils.Prepare(statement, args, service.driver.usesNumberedParameters())
	if err != nil {
		return "", nil, err
	}

	if preparedQuery == "" {
		return "", nil, ErrBlankQuery
	}

	return preparedQuery, preparedArgs, nil
}

func (service *Service) preRun(ctx context.Context, statement string, args []any) error {
	for _, preRunFunc := range service.preRunFuncs {
		if err := preRunFunc(ctx, statement, args); err != nil {
			return err
		}
	}

	return nil
}

func (service *Service) postRun(ctx context.Context) error {
	for _, postRunFunc := range service.postRunFuncs {
		if err := postRunFunc(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (service *Service) invalidate() {
	if service.resultCache != nil {
		service.resultCache.invalidate()
	}
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	target := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		scanFields := make([]any, len(columns))
		for i := range values {
			scanFields[i] = &values[i]
		}

		if err := rows.Scan(scanFields...); err != nil {
			return nil, err
		}

		row := Row{}
		for i, column := range columns {
			// Text protocols hand back strings as bytes
			if b, isBytes := values[i].([]byte); isBytes {
				row[column] = string(b)
				continue
			}

			row[column] = values[i]
		}

		target = append(target, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return target, nil
}
