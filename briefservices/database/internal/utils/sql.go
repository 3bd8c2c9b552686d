package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/lunagic/brief/briefquery"
)

var spaceFinder = regexp.MustCompile(`(?m)\s^\s+`)

// Prepare tidies a statement for the driver. Slice arguments are expanded
// into one placeholder per element and, when numberedParams is set, every ?
// becomes $1, $2 and so on. Quoted literals are never touched.
func Prepare(statement string, args []any, numberedParams bool) (string, []any, error) {
	statement = collapseSpace(statement)

	if len(args) == 0 {
		return statement, args, nil
	}

	newArgs := []any{}
	counter := 0
	paramBuilder := func() string {
		counter++
		if !numberedParams {
			return "?"
		}

		return fmt.Sprintf("$%d", counter)
	}

	out := strings.Builder{}
	next := 0
	briefquery.EachPlaceholder(statement, func(chunk string, placeholder bool) {
		if !placeholder {
			out.WriteString(chunk)
			return
		}

		if next >= len(args) {
			next++
			out.WriteString(paramBuilder())
			return
		}

		arg := args[next]
		next++

		if isExpandable(arg) {
			valueOf := reflect.ValueOf(arg)
			localArgs := []string{}
			for i := range valueOf.Len() {
				localArgs = append(localArgs, paramBuilder())
				newArgs = append(newArgs, valueOf.Index(i).Interface())
			}

			out.WriteString(strings.Join(localArgs, ", "))
			return
		}

		newArgs = append(newArgs, arg)
		out.WriteString(paramBuilder())
	})

	if next != len(args) {
		return "", nil, fmt.Errorf("statement has %d placeholders but %d arguments were given", next, len(args))
	}

	return out.String(), newArgs, nil
}

// collapseSpace folds indented line breaks into a single space outside of
// quoted regions.
func collapseSpace(statement string) string {
	out := strings.Builder{}
	briefquery.SplitQuoted(statement, func(chunk string, quoted bool) {
		if quoted {
			out.WriteString(chunk)
			return
		}
		out.WriteString(spaceFinder.ReplaceAllString(chunk, " "))
	})

	return strings.TrimSpace(out.String())
}

func isExpandable(arg any) bool {
	if arg == nil {
		return false
	}

	if _, isBytes := arg.([]byte); isBytes {
		return false
	}

	kind := reflect.TypeOf(arg).Kind()

	return kind == reflect.Array || kind == reflect.Slice
}
