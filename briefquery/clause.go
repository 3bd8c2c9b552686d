package briefquery

import (
	"fmt"
	"math"
	"strings"
)

type JoinType string

const (
	InnerJoin JoinType = "INNER JOIN"
	LeftJoin  JoinType = "LEFT JOIN"
	RightJoin JoinType = "RIGHT JOIN"
)

type JoinClause struct {
	Type      JoinType
	Table     string
	Condition string
	Arguments []any
}

// unboundedLimit stands in for "no limit" when only an offset is given,
// since MySQL and SQLite both need a LIMIT before OFFSET.
const unboundedLimit = math.MaxInt64

type pagination struct {
	limit    int
	hasLimit bool
	offset   int
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}

	return n
}

func (p *pagination) setLimit(n int) {
	p.limit = clamp(n)
	p.hasLimit = true
}

func (p *pagination) setOffset(n int) {
	p.offset = clamp(n)
}

func (p pagination) effectiveLimit() int {
	if p.hasLimit {
		return p.limit
	}

	return unboundedLimit
}

func (p pagination) needsLimit() bool {
	return p.hasLimit || p.offset > 0
}

// splitFields accepts both "a,b" and separate arguments.
func splitFields(fields []string) []string {
	result := []string{}
	for _, field := range fields {
		for _, part := range strings.Split(field, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			result = append(result, part)
		}
	}

	return result
}

// renderJoins renders the join list for the inline builder, e.g.
// " inner join t1 on a=b left join t2".
func renderJoins(joins []JoinClause) string {
	out := strings.Builder{}
	for _, join := range joins {
		fmt.Fprintf(&out, " %s %s", strings.ToLower(string(join.Type)), join.Table)
		if join.Condition != "" {
			out.WriteString(" on " + join.Condition)
		}
	}

	return out.String()
}

// joinOn returns the ON part of a join for the parameterized builder. A
// condition that already starts with "on" or "using" is kept as is.
func joinOn(condition string) string {
	trimmed := strings.TrimSpace(condition)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "on ") || strings.HasPrefix(lower, "using") {
		return trimmed
	}

	return "ON " + trimmed
}
