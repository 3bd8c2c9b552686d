package briefquery

import (
	"fmt"
	"strings"
)

// BindMode decides what happens to literal values while rendering.
type BindMode int

const (
	// BindInline quotes every literal and embeds it in the SQL text.
	BindInline BindMode = iota
	// BindPlaceholder writes a ? for every literal and returns the literal
	// as an argument, in rendering order.
	BindPlaceholder
)

type KeywordCase int

const (
	KeywordsLower KeywordCase = iota
	KeywordsUpper
)

// Compiler renders where terms. The same terms rendered with BindInline and
// BindPlaceholder only differ where literals are.
type Compiler struct {
	Mode     BindMode
	Quoter   Quoter
	Keywords KeywordCase
}

func (compiler Compiler) Compile(terms []WhereTerm) (string, []any) {
	parts := []string{}
	args := []any{}

	for i, term := range terms {
		if i > 0 {
			parts = append(parts, compiler.keyword(term.link))
		}

		part, termArgs := compiler.compileTerm(term)
		parts = append(parts, part)
		args = append(args, termArgs...)
	}

	return strings.Join(parts, " "), args
}

func (compiler Compiler) compileTerm(term WhereTerm) (string, []any) {
	if term.kind == termRaw {
		return term.text, nil
	}

	if term.hasRaw {
		return fmt.Sprintf("%s %s %v", term.field, term.operator, term.rawValue), nil
	}

	values := term.values
	if len(values) == 0 {
		return emptyList(term.operator), nil
	}

	if len(values) == 1 {
		value, args := compiler.value(values[0])
		return fmt.Sprintf("%s %s %s", term.field, term.operator, value), args
	}

	rendered := []string{}
	args := []any{}
	for _, v := range values {
		value, valueArgs := compiler.value(v)
		rendered = append(rendered, value)
		args = append(args, valueArgs...)
	}

	return fmt.Sprintf("%s %s (%s)", term.field, term.operator, strings.Join(rendered, ",")), args
}

// emptyList stands in for a comparison against an empty value list, which
// SQL has no syntax for.
func emptyList(operator string) string {
	if strings.EqualFold(strings.Join(strings.Fields(operator), " "), "not in") {
		return "1=1"
	}

	return "1=0"
}

func (compiler Compiler) value(v any) (string, []any) {
	if compiler.Mode == BindPlaceholder {
		return "?", []any{v}
	}

	return Literal(compiler.Quoter, v), nil
}

func (compiler Compiler) keyword(word string) string {
	if compiler.Keywords == KeywordsUpper {
		return strings.ToUpper(word)
	}

	return strings.ToLower(word)
}
