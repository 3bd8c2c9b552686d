package briefquery

import (
	"context"
	"fmt"
)

// Delete builds a placeholder bound DELETE. It will not run without at
// least one condition.
type Delete struct {
	conn      Connection
	table     string
	condition Condition
}

func NewDelete(conn Connection, table string) *Delete {
	return &Delete{
		conn:  conn,
		table: table,
	}
}

func (builder *Delete) Condition(field string, value any, operator ...string) *Delete {
	builder.condition.And(conditionTerm(field, value, operator))
	return builder
}

func (builder *Delete) OrCondition(field string, value any, operator ...string) *Delete {
	builder.condition.Or(conditionTerm(field, value, operator))
	return builder
}

// Where appends arbitrary terms linked with AND.
func (builder *Delete) Where(terms ...WhereTerm) *Delete {
	builder.condition.And(terms...)
	return builder
}

func (builder *Delete) Compile() (string, []any, error) {
	if builder.table == "" {
		return "", nil, ErrMissingTable
	}

	if builder.condition.Len() < 1 {
		return "", nil, ErrUnconditionalDelete
	}

	where, args := builder.condition.Compile(Compiler{
		Mode:     BindPlaceholder,
		Keywords: KeywordsUpper,
	})

	return fmt.Sprintf("DELETE FROM %s WHERE %s", builder.table, where), args, nil
}

// Execute runs the delete and returns the number of rows removed.
func (builder *Delete) Execute(ctx context.Context) (int64, error) {
	statement, args, err := builder.Compile()
	if err != nil {
		return 0, err
	}

	if builder.conn == nil {
		return 0, ErrNoConnection
	}

	return builder.conn.ExecuteUpdate(ctx, statement, args...)
}
