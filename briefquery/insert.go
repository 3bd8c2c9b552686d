package briefquery

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// InsertSQL renders an INSERT of values into table. With BindInline the
// values are quoted literals and no arguments are returned.
func InsertSQL(table string, values map[string]any, compiler Compiler) (string, []any) {
	columns := slices.Sorted(maps.Keys(values))

	rendered := []string{}
	args := []any{}
	for _, column := range columns {
		value, valueArgs := compiler.value(values[column])
		rendered = append(rendered, value)
		args = append(args, valueArgs...)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ","),
		strings.Join(rendered, ","),
	), args
}
