package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lunagic/brief/briefquery"
	"github.com/spf13/cobra"
)

// QueryFlags describe a select built from the command line.
type QueryFlags struct {
	Table   string
	Fields  []string
	Where   []string
	OrWhere []string
	Group   []string
	Order   []string
	Limit   int
	Offset  int
}

func (flags *QueryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flags.Table, "table", "t", "", "table to select from")
	cmd.Flags().StringSliceVarP(&flags.Fields, "fields", "f", nil, "columns to select (default *)")
	cmd.Flags().StringArrayVarP(&flags.Where, "where", "w", nil, `condition such as "name=bob" or "age >= 5", joined with AND`)
	cmd.Flags().StringArrayVar(&flags.OrWhere, "or-where", nil, "condition joined with OR")
	cmd.Flags().StringSliceVarP(&flags.Group, "group", "g", nil, "columns to group by")
	cmd.Flags().StringArrayVarP(&flags.Order, "order", "o", nil, `ordering such as "id desc"`)
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", -1, "row limit (negative for none)")
	cmd.Flags().IntVar(&flags.Offset, "offset", 0, "rows to skip")
	_ = cmd.MarkFlagRequired("table")
}

// conditionPattern splits "field op value". Operators are tried longest
// first so that ">=" is not read as ">".
var conditionPattern = regexp.MustCompile(`(?i)^\s*([^\s=<>!]+)\s*(>=|<=|!=|<>|=|>|<|\snot like\s|\slike\s)\s*(.*?)\s*$`)

func parseCondition(text string) (field string, operator string, value string, err error) {
	matches := conditionPattern.FindStringSubmatch(text)
	if matches == nil {
		return "", "", "", fmt.Errorf("could not read condition %q", text)
	}

	return matches[1], strings.TrimSpace(matches[2]), matches[3], nil
}

func (flags *QueryFlags) build(conn briefquery.Connection) (*briefquery.Select, error) {
	builder := briefquery.NewSelect(conn, flags.Table)

	if len(flags.Fields) > 0 {
		builder.Fields(flags.Fields...)
	}

	for _, text := range flags.Where {
		field, operator, value, err := parseCondition(text)
		if err != nil {
			return nil, err
		}
		builder.Condition(field, value, operator)
	}

	for _, text := range flags.OrWhere {
		field, operator, value, err := parseCondition(text)
		if err != nil {
			return nil, err
		}
		builder.OrCondition(field, value, operator)
	}

	builder.AddGroupBy(flags.Group...)

	for _, order := range flags.Order {
		parts := strings.Fields(order)
		if len(parts) == 0 {
			continue
		}
		builder.OrderBy(parts[0], parts[1:]...)
	}

	if flags.Limit >= 0 {
		builder.Limit(flags.Limit)
	}
	builder.Offset(flags.Offset)

	return builder, nil
}
