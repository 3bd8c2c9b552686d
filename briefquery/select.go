package briefquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Select builds a SELECT against a fixed table with ? placeholders for every
// condition value. The values travel separately as arguments.
type Select struct {
	conn      Connection
	table     string
	fields    []string
	joins     []JoinClause
	condition Condition
	groupBy   *OrderedMap
	orderBy   *OrderedMap
	page      pagination
	queryArr  *OrderedMap
	logSQL    bool
	lastRaw   RawSQL
}

func NewSelect(conn Connection, table string) *Select {
	return &Select{
		conn:     conn,
		table:    table,
		fields:   []string{"*"},
		groupBy:  NewOrderedMap(),
		orderBy:  NewOrderedMap(),
		queryArr: NewOrderedMap(),
	}
}

func (builder *Select) Table() string {
	return builder.table
}

// Fields replaces the selected columns. Each argument may hold several
// comma separated columns.
func (builder *Select) Fields(fields ...string) *Select {
	builder.fields = splitFields(fields)
	if len(builder.fields) == 0 {
		builder.fields = []string{"*"}
	}

	return builder
}

func (builder *Select) AddFields(fields ...string) *Select {
	builder.fields = append(builder.fields, splitFields(fields)...)
	return builder
}

func (builder *Select) GetFields() []string {
	return append([]string{}, builder.fields...)
}

func (builder *Select) InnerJoin(table string, condition string, args ...any) *Select {
	return builder.join(InnerJoin, table, condition, args)
}

func (builder *Select) LeftJoin(table string, condition string, args ...any) *Select {
	return builder.join(LeftJoin, table, condition, args)
}

func (builder *Select) RightJoin(table string, condition string, args ...any) *Select {
	return builder.join(RightJoin, table, condition, args)
}

func (builder *Select) join(joinType JoinType, table string, condition string, args []any) *Select {
	builder.joins = append(builder.joins, JoinClause{
		Type:      joinType,
		Table:     table,
		Condition: condition,
		Arguments: append([]any{}, args...),
	})

	return builder
}

func (builder *Select) GetJoin() []JoinClause {
	return append([]JoinClause{}, builder.joins...)
}

// Condition adds "field <operator> ?" linked with AND. The operator
// defaults to "=".
func (builder *Select) Condition(field string, value any, operator ...string) *Select {
	builder.condition.And(conditionTerm(field, value, operator))
	return builder
}

// OrCondition is Condition linked with OR.
func (builder *Select) OrCondition(field string, value any, operator ...string) *Select {
	builder.condition.Or(conditionTerm(field, value, operator))
	return builder
}

func (builder *Select) GroupBy(field string) *Select {
	builder.groupBy.Set(field, field)
	return builder
}

func (builder *Select) AddGroupBy(fields ...string) *Select {
	for _, field := range splitFields(fields) {
		builder.groupBy.Set(field, field)
	}

	return builder
}

// SetGroupBy replaces the grouping.
func (builder *Select) SetGroupBy(fields ...string) *Select {
	builder.groupBy = NewOrderedMap()
	return builder.AddGroupBy(fields...)
}

func (builder *Select) GetGroupBy() *OrderedMap {
	return builder.groupBy
}

// OrderBy sets the direction of field, ASC unless given. A field that is
// already ordered keeps its position.
func (builder *Select) OrderBy(field string, direction ...string) *Select {
	dir := "ASC"
	if len(direction) > 0 && direction[0] != "" {
		dir = strings.ToUpper(direction[0])
	}

	builder.orderBy.Set(field, dir)

	return builder
}

// AddOrderBy merges ordering into the existing one.
func (builder *Select) AddOrderBy(ordering *OrderedMap) *Select {
	builder.orderBy.Merge(ordering)
	return builder
}

// SetOrderBy replaces the ordering.
func (builder *Select) SetOrderBy(ordering *OrderedMap) *Select {
	builder.orderBy = NewOrderedMap()
	builder.orderBy.Merge(ordering)
	return builder
}

func (builder *Select) GetOrderBy() *OrderedMap {
	return builder.orderBy
}

func (builder *Select) Limit(n int) *Select {
	builder.page.setLimit(n)
	return builder
}

// Offset skips n rows. A non-zero offset renders as "LIMIT offset,limit",
// which MySQL and SQLite accept but Postgres does not; use Query there.
func (builder *Select) Offset(n int) *Select {
	builder.page.setOffset(n)
	return builder
}

func (builder *Select) GetLimit() (int, bool) {
	return builder.page.limit, builder.page.hasLimit
}

func (builder *Select) GetOffset() int {
	return builder.page.offset
}

func (builder *Select) EnableSQLLog() *Select {
	builder.logSQL = true
	return builder
}

func (builder *Select) LastRawSQL() RawSQL {
	return builder.lastRaw
}

// QueryArr is the clause map built by the last Compile.
func (builder *Select) QueryArr() *OrderedMap {
	return builder.queryArr
}

// Compile renders the statement and its arguments.
func (builder *Select) Compile() (string, []any) {
	parts, args := builder.render(BindPlaceholder, renderSelect, builder.page)
	builder.queryArr = parts

	return joinParts(parts), args
}

// DebugSQL renders the statement with every argument inlined. It is meant
// for people, not for the database.
func (builder *Select) DebugSQL() string {
	parts, _ := builder.render(BindInline, renderSelect, builder.page)
	return joinParts(parts)
}

func (builder *Select) FindAll(ctx context.Context) ([]Row, error) {
	return builder.run(ctx, renderSelect, builder.page)
}

// FindOne returns the first row, or ErrNoRows. The limit only applies to this
// call.
func (builder *Select) FindOne(ctx context.Context) (Row, error) {
	page := builder.page
	page.setLimit(1)

	rows, err := builder.run(ctx, renderSelect, page)
	if err != nil {
		return nil, err
	}

	if len(rows) < 1 {
		return nil, ErrNoRows
	}

	return rows[0], nil
}

// FindCount counts the rows matched by the joins and conditions. Grouping,
// ordering and pagination are ignored.
func (builder *Select) FindCount(ctx context.Context) (int64, error) {
	rows, err := builder.run(ctx, renderCount, builder.page)
	if err != nil {
		return 0, err
	}

	if len(rows) < 1 {
		return 0, ErrNoRows
	}

	return cast.ToInt64E(firstValue(rows[0], "COUNT(*)"))
}

func (builder *Select) run(ctx context.Context, kind renderKind, page pagination) ([]Row, error) {
	if builder.conn == nil {
		return nil, ErrNoConnection
	}

	parts, args := builder.render(BindPlaceholder, kind, page)
	statement := joinParts(parts)

	if builder.logSQL {
		debugParts, _ := builder.render(BindInline, kind, page)
		builder.lastRaw = RawSQL{
			SQL:       joinParts(debugParts),
			Arguments: args,
		}
	}

	return builder.conn.ExecuteQuery(ctx, statement, args...)
}

type renderKind int

const (
	renderSelect renderKind = iota
	renderCount
)

// render builds the clause map in its fixed order. Only the literal handling
// differs between modes.
func (builder *Select) render(mode BindMode, kind renderKind, page pagination) (*OrderedMap, []any) {
	compiler := Compiler{
		Mode:     mode,
		Quoter:   quoterFor(builder.conn),
		Keywords: KeywordsUpper,
	}

	parts := NewOrderedMap()
	args := []any{}

	parts.Set("select", "SELECT")
	if kind == renderCount {
		parts.Set("field", "COUNT(*)")
	} else {
		parts.Set("field", strings.Join(builder.fields, ","))
	}
	parts.Set("from", "FROM")
	parts.Set("table", builder.table)

	if len(builder.joins) > 0 {
		joins := []string{}
		for _, join := range builder.joins {
			rendered := fmt.Sprintf("%s %s", join.Type, join.Table)
			if on := joinOn(join.Condition); on != "" {
				if mode == BindInline {
					on = Interpolate(compiler.Quoter, on, join.Arguments)
				}
				rendered += " " + on
			}
			joins = append(joins, rendered)

			if mode == BindPlaceholder {
				args = append(args, join.Arguments...)
			}
		}
		parts.Set("join", strings.Join(joins, " "))
	}

	if where, whereArgs := builder.condition.Compile(compiler); where != "" {
		parts.Set("where", "WHERE "+where)
		args = append(args, whereArgs...)
	}

	if kind == renderCount {
		return parts, args
	}

	if builder.groupBy.Len() > 0 {
		parts.Set("group", "GROUP BY "+strings.Join(builder.groupBy.Values(), ","))
	}

	if builder.orderBy.Len() > 0 {
		order := []string{}
		for _, field := range builder.orderBy.Keys() {
			direction, _ := builder.orderBy.Get(field)
			order = append(order, field+" "+direction)
		}
		parts.Set("order", "ORDER BY "+strings.Join(order, ","))
	}

	if page.needsLimit() {
		if page.offset == 0 {
			parts.Set("limit", fmt.Sprintf("LIMIT %d", page.effectiveLimit()))
		} else {
			parts.Set("limit", fmt.Sprintf("LIMIT %d,%d", page.offset, page.effectiveLimit()))
		}
	}

	return parts, args
}

func joinParts(parts *OrderedMap) string {
	values := []string{}
	for _, value := range parts.Values() {
		if value == "" {
			continue
		}
		values = append(values, value)
	}

	return strings.Join(values, " ")
}
