package briefquery

import (
	"context"
	"fmt"
	"strings"
)

// Query builds statements with every literal value inlined into the SQL
// text. Setters return the query so calls can be chained; nothing is
// rendered until a getter or terminal method is called.
type Query struct {
	conn      Connection
	from      string
	selects   []string
	joins     []JoinClause
	condition Condition
	groupBy   string
	orderBy   string
	page      pagination
	logSQL    bool
	lastRaw   RawSQL
}

// NewQuery creates an empty query. conn may be nil when the query is only
// rendered.
func NewQuery(conn Connection) *Query {
	return &Query{
		conn: conn,
	}
}

func (query *Query) From(table string) *Query {
	query.from = table
	return query
}

func (query *Query) GetFrom() (string, error) {
	if query.from == "" {
		return "", ErrMissingTable
	}

	return query.from, nil
}

func (query *Query) Select(fields ...string) *Query {
	query.selects = append([]string{}, fields...)
	return query
}

func (query *Query) AddSelect(fields ...string) *Query {
	query.selects = append(query.selects, fields...)
	return query
}

func (query *Query) GetSelect() string {
	if len(query.selects) == 0 {
		return "*"
	}

	return strings.Join(query.selects, ",")
}

func (query *Query) Where(terms ...WhereTerm) *Query {
	query.condition.Set(terms...)
	return query
}

func (query *Query) AndWhere(terms ...WhereTerm) *Query {
	query.condition.And(terms...)
	return query
}

func (query *Query) OrWhere(terms ...WhereTerm) *Query {
	query.condition.Or(terms...)
	return query
}

func (query *Query) GetWhere() string {
	where, _ := query.condition.Compile(query.compiler())
	if where == "" {
		return ""
	}

	return " where " + where
}

func (query *Query) Join(joinType JoinType, table string, on ...string) *Query {
	query.joins = append(query.joins, JoinClause{
		Type:      joinType,
		Table:     table,
		Condition: strings.Join(on, " and "),
	})

	return query
}

func (query *Query) InnerJoin(table string, on ...string) *Query {
	return query.Join(InnerJoin, table, on...)
}

func (query *Query) LeftJoin(table string, on ...string) *Query {
	return query.Join(LeftJoin, table, on...)
}

func (query *Query) RightJoin(table string, on ...string) *Query {
	return query.Join(RightJoin, table, on...)
}

func (query *Query) GetJoin() string {
	return renderJoins(query.joins)
}

func (query *Query) GroupBy(fields ...string) *Query {
	query.groupBy = strings.Join(fields, ",")
	return query
}

// AddGroupBy appends to the existing group by text. Fields already present
// are not removed.
func (query *Query) AddGroupBy(fields ...string) *Query {
	query.groupBy = concatFragment(query.groupBy, fields)
	return query
}

func (query *Query) GetGroupBy() string {
	if query.groupBy == "" {
		return ""
	}

	return " group by " + query.groupBy
}

// OrderBy replaces the ordering with terms such as "id desc".
func (query *Query) OrderBy(terms ...string) *Query {
	query.orderBy = strings.Join(terms, ",")
	return query
}

func (query *Query) AddOrderBy(terms ...string) *Query {
	query.orderBy = concatFragment(query.orderBy, terms)
	return query
}

func (query *Query) GetOrderBy() string {
	if query.orderBy == "" {
		return ""
	}

	return " order by " + query.orderBy
}

func (query *Query) Limit(n int) *Query {
	query.page.setLimit(n)
	return query
}

func (query *Query) Offset(n int) *Query {
	query.page.setOffset(n)
	return query
}

func (query *Query) GetLimit() (int, bool) {
	return query.page.limit, query.page.hasLimit
}

func (query *Query) GetOffset() int {
	return query.page.offset
}

func (query *Query) EnableSQLLog() *Query {
	query.logSQL = true
	return query
}

func (query *Query) LastRawSQL() RawSQL {
	return query.lastRaw
}

// SQL renders the full select statement.
func (query *Query) SQL() (string, error) {
	return query.render(query.page)
}

func (query *Query) render(page pagination) (string, error) {
	from, err := query.GetFrom()
	if err != nil {
		return "", err
	}

	statement := fmt.Sprintf(
		"select %s from %s%s%s%s%s",
		query.GetSelect(),
		from,
		query.GetJoin(),
		query.GetWhere(),
		query.GetGroupBy(),
		query.GetOrderBy(),
	)

	if page.needsLimit() {
		statement += fmt.Sprintf(" limit %d", page.effectiveLimit())
	}
	if page.offset > 0 {
		statement += fmt.Sprintf(" offset %d", page.offset)
	}

	return statement, nil
}

// One returns the first matching row, or ErrNoRows. The stored limit is left
// untouched.
func (query *Query) One(ctx context.Context) (Row, error) {
	page := query.page
	page.setLimit(1)

	statement, err := query.render(page)
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

	return rows[0], nil
}

func (query *Query) All(ctx context.Context) ([]Row, error) {
	statement, err := query.SQL()
	if err != nil {
		return nil, err
	}

	return query.fetch(ctx, statement)
}

// Insert runs an INSERT of values into the table and returns the new row's
// id. Columns are written in sorted order.
func (query *Query) Insert(ctx context.Context, values map[string]any) (int64, error) {
	from, err := query.GetFrom()
	if err != nil {
		return 0, err
	}

	if query.conn == nil {
		return 0, ErrNoConnection
	}

	statement, _ := InsertSQL(from, values, query.compiler())
	query.record(statement)

	return query.conn.ExecuteInsert(ctx, statement)
}

// Delete removes the rows matched by the where condition and returns how many
// went. A query without any where term is refused.
func (query *Query) Delete(ctx context.Context) (int64, error) {
	from, err := query.GetFrom()
	if err != nil {
		return 0, err
	}

	if query.condition.Len() < 1 {
		return 0, ErrUnconditionalDelete
	}

	if query.conn == nil {
		return 0, ErrNoConnection
	}

	statement := fmt.Sprintf("delete from %s%s", from, query.GetWhere())
	query.record(statement)

	return query.conn.ExecuteUpdate(ctx, statement)
}

func (query *Query) fetch(ctx context.Context, statement string) ([]Row, error) {
	if query.conn == nil {
		return nil, ErrNoConnection
	}

	query.record(statement)

	return query.conn.ExecuteQuery(ctx, statement)
}

func (query *Query) record(statement string) {
	if !query.logSQL {
		return
	}

	query.lastRaw = RawSQL{
		SQL:       statement,
		Arguments: []any{},
	}
}

func (query *Query) compiler() Compiler {
	return Compiler{
		Mode:     BindInline,
		Quoter:   quoterFor(query.conn),
		Keywords: KeywordsLower,
	}
}

func concatFragment(existing string, parts []string) string {
	addition := strings.Join(parts, ",")
	if existing == "" {
		return addition
	}
	if addition == "" {
		return existing
	}

	return existing + "," + addition
}
