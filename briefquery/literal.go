package briefquery

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// Quoter turns an arbitrary string into a quoted SQL string literal.
type Quoter interface {
	QuoteLiteral(value string) string
}

// StandardQuoter doubles embedded single quotes.
type StandardQuoter struct{}

func (StandardQuoter) QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// Literal renders a single value as a quoted literal. Values are always
// rendered as strings, whatever their Go type, except nil which is NULL.
func Literal(quoter Quoter, value any) string {
	if quoter == nil {
		quoter = StandardQuoter{}
	}

	switch v := value.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return quoter.QuoteLiteral(v.Format(dateTimeLayout))
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return quoter.QuoteLiteral(v.Format(dateTimeLayout))
	}

	s, err := cast.ToStringE(value)
	if err != nil {
		s = fmt.Sprintf("%v", value)
	}

	return quoter.QuoteLiteral(s)
}

// Interpolate replaces each ? placeholder outside of quoted regions with the
// matching argument rendered as a literal. Placeholders without a matching
// argument are left untouched.
func Interpolate(quoter Quoter, statement string, args []any) string {
	if len(args) == 0 {
		return statement
	}

	out := strings.Builder{}
	next := 0
	EachPlaceholder(statement, func(chunk string, placeholder bool) {
		if placeholder && next < len(args) {
			out.WriteString(Literal(quoter, args[next]))
			next++
			return
		}
		out.WriteString(chunk)
	})

	return out.String()
}

// SplitQuoted walks the statement and reports every '...', "..." or `...`
// region, quotes included, separately from the text between them. An
// unterminated region runs to the end of the statement.
func SplitQuoted(statement string, visit func(chunk string, quoted bool)) {
	var quote byte
	start := 0

	for i := 0; i < len(statement); i++ {
		c := statement[i]

		if quote != 0 {
			if c == quote {
				visit(statement[start:i+1], true)
				quote = 0
				start = i + 1
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			if start < i {
				visit(statement[start:i], false)
			}
			quote = c
			start = i
		}
	}

	if start < len(statement) {
		visit(statement[start:], quote != 0)
	}
}

// EachPlaceholder walks the statement and reports every ? that is not inside
// a quoted region. Everything else is reported as plain chunks.
func EachPlaceholder(statement string, visit func(chunk string, placeholder bool)) {
	SplitQuoted(statement, func(chunk string, quoted bool) {
		if quoted {
			visit(chunk, false)
			return
		}

		start := 0
		for i := 0; i < len(chunk); i++ {
			if chunk[i] != '?' {
				continue
			}
			if start < i {
				visit(chunk[start:i], false)
			}
			visit("?", true)
			start = i + 1
		}

		if start < len(chunk) {
			visit(chunk[start:], false)
		}
	})
}
