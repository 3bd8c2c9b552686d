package briefquery

import "context"

type Row = map[string]any

// Connection is what the builders execute through. It is implemented by
// briefservices/database.Service.
type Connection interface {
	ExecuteQuery(ctx context.Context, query string, args ...any) ([]Row, error)
	ExecuteUpdate(ctx context.Context, query string, args ...any) (int64, error)
	ExecuteInsert(ctx context.Context, query string, args ...any) (int64, error)
	Insert(ctx context.Context, table string, values map[string]any) (int64, error)
	Delete(ctx context.Context, table string, conditions map[string]any) (int64, error)
}

// RawSQL is the last statement a builder rendered while SQL logging was enabled.
type RawSQL struct {
	SQL       string
	Arguments []any
}

func quoterFor(conn Connection) Quoter {
	if quoter, ok := conn.(Quoter); ok {
		return quoter
	}

	return StandardQuoter{}
}
