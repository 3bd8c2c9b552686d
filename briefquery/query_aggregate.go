package briefquery

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
)

// AggregateSQL renders "select <expression> from ..." with the query's joins,
// where, group by and order by. The field list and pagination are not used.
func (query *Query) AggregateSQL(expression string) (string, error) {
	from, err := query.GetFrom()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"select %s from %s%s%s%s%s",
		expression,
		from,
		query.GetJoin(),
		query.GetWhere(),
		query.GetGroupBy(),
		query.GetOrderBy(),
	), nil
}

func (query *Query) Min(ctx context.Context, column string) (any, error) {
	return query.aggregate(ctx, fmt.Sprintf("min(%s)", column))
}

func (query *Query) Max(ctx context.Context, column string) (any, error) {
	return query.aggregate(ctx, fmt.Sprintf("max(%s)", column))
}

func (query *Query) Sum(ctx context.Context, column string) (any, error) {
	return query.aggregate(ctx, fmt.Sprintf("sum(%s)", column))
}

func (query *Query) Avg(ctx context.Context, column string) (any, error) {
	return query.aggregate(ctx, fmt.Sprintf("avg(%s)", column))
}

// Count counts every matching row.
func (query *Query) Count(ctx context.Context) (int64, error) {
	return query.CountOf(ctx, "*")
}

func (query *Query) CountOf(ctx context.Context, column string) (int64, error) {
	result, err := query.aggregate(ctx, fmt.Sprintf("count(%s)", column))
	if err != nil {
		return 0, err
	}

	return cast.ToInt64E(result)
}

// aggregate returns the first column of the first row. With a group by that
// is the first group's value.
func (query *Query) aggregate(ctx context.Context, expression string) (any, error) {
	statement, err := query.AggregateSQL(expression)
	if err != nil {
		return nil, err
	}

	rows, err := query.fetch(ctx, statement)
	if err != nil {
		return nil, err
	}

	if len(rows) < 1 {
		return nil, ErrNoRows
	}

	return firstValue(rows[0], expression), nil
}

func firstValue(row Row, expression string) any {
	if value, found := row[expression]; found {
		return value
	}

	for _, value := range row {
		return value
	}

	return nil
}
