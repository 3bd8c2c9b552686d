package briefquery

import (
	"reflect"
	"strings"
)

type termKind int

const (
	termRaw termKind = iota
	termEquality
	termDescribed
)

const (
	LinkAnd = "AND"
	LinkOr  = "OR"
)

// WhereTerm is a single filter of a where clause together with the keyword
// that links it to the term before it.
type WhereTerm struct {
	kind     termKind
	text     string
	field    string
	operator string
	link     string
	values   []any
	rawValue any
	hasRaw   bool
}

// Raw is a verbatim fragment such as "id=1 and name=2".
func Raw(text string) WhereTerm {
	return WhereTerm{
		kind: termRaw,
		text: text,
		link: LinkAnd,
	}
}

// Equals compares field to value with "=".
func Equals(field string, value any) WhereTerm {
	return WhereTerm{
		kind:     termEquality,
		field:    field,
		operator: "=",
		link:     LinkAnd,
		values:   []any{value},
	}
}

// Compare compares field to literal values. The operator is used verbatim;
// several values render as a parenthesised list, which is what "in" and
// "not in" expect. With no values at all the term matches nothing, or
// everything for "not in". Pass nil explicitly to compare against NULL.
func Compare(field string, operator string, values ...any) WhereTerm {
	if operator == "" {
		operator = "="
	}

	return WhereTerm{
		kind:     termDescribed,
		field:    field,
		operator: operator,
		link:     LinkAnd,
		values:   values,
	}
}

// CompareRaw compares field to rawValue without quoting or escaping it.
// The caller owns whatever SQL ends up in rawValue.
func CompareRaw(field string, operator string, rawValue any) WhereTerm {
	if operator == "" {
		operator = "="
	}

	return WhereTerm{
		kind:     termDescribed,
		field:    field,
		operator: operator,
		link:     LinkAnd,
		rawValue: rawValue,
		hasRaw:   true,
	}
}

func (term WhereTerm) And() WhereTerm {
	term.link = LinkAnd
	return term
}

func (term WhereTerm) Or() WhereTerm {
	term.link = LinkOr
	return term
}

// On sets the link keyword from free text. Anything that is not OR links
// with AND.
func (term WhereTerm) On(keyword string) WhereTerm {
	term.link = normalizeLink(keyword)
	return term
}

func (term WhereTerm) Link() string {
	return term.link
}

func (term WhereTerm) Field() string {
	return term.field
}

func (term WhereTerm) Operator() string {
	return term.operator
}

func normalizeLink(keyword string) string {
	if strings.EqualFold(strings.TrimSpace(keyword), LinkOr) {
		return LinkOr
	}

	return LinkAnd
}

// Condition is an ordered sequence of where terms. The order terms are added
// in is the order they render in.
type Condition struct {
	terms []WhereTerm
}

// Set replaces every term.
func (condition *Condition) Set(terms ...WhereTerm) {
	condition.terms = append([]WhereTerm{}, terms...)
}

// And appends terms, linking the first of them with AND.
func (condition *Condition) And(terms ...WhereTerm) {
	condition.append(LinkAnd, terms)
}

// Or appends terms, linking the first of them with OR.
func (condition *Condition) Or(terms ...WhereTerm) {
	condition.append(LinkOr, terms)
}

func (condition *Condition) append(link string, terms []WhereTerm) {
	for i, term := range terms {
		if i == 0 {
			term.link = link
		}
		condition.terms = append(condition.terms, term)
	}
}

func (condition *Condition) Len() int {
	return len(condition.terms)
}

func (condition *Condition) Terms() []WhereTerm {
	return append([]WhereTerm{}, condition.terms...)
}

// Compile renders the terms without any leading "where" keyword.
func (condition *Condition) Compile(compiler Compiler) (string, []any) {
	return compiler.Compile(condition.terms)
}

// conditionTerm builds the term behind the Condition(field, value, op)
// setters. The operator is upper cased and any slice or array other than
// []byte becomes a value list.
func conditionTerm(field string, value any, operator []string) WhereTerm {
	op := "="
	if len(operator) > 0 && operator[0] != "" {
		op = strings.ToUpper(operator[0])
	}

	if values, isList := listValues(value); isList {
		return Compare(field, op, values...)
	}

	return Compare(field, op, value)
}

func listValues(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}

	if _, isBytes := value.([]byte); isBytes {
		return nil, false
	}

	valueOf := reflect.ValueOf(value)
	if valueOf.Kind() != reflect.Slice && valueOf.Kind() != reflect.Array {
		return nil, false
	}

	values := make([]any, 0, valueOf.Len())
	for i := range valueOf.Len() {
		values = append(values, valueOf.Index(i).Interface())
	}

	return values, true
}
