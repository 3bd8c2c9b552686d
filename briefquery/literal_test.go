package briefquery_test

import (
	"testing"
	"time"

	"github.com/lunagic/brief/briefquery"
	"gotest.tools/v3/assert"
)

type backslashQuoter struct{}

func (backslashQuoter) QuoteLiteral(value string) string {
	return "'" + value + "\\'"
}

func TestLiteral(t *testing.T) {
	created := time.Date(2017, 5, 18, 12, 56, 0, 0, time.UTC)

	for _, testCase := range []struct {
		value    any
		expected string
	}{
		{value: nil, expected: "NULL"},
		{value: 3, expected: "'3'"},
		{value: int64(-7), expected: "'-7'"},
		{value: 1.5, expected: "'1.5'"},
		{value: true, expected: "'true'"},
		{value: "it's", expected: "'it''s'"},
		{value: []byte("raw"), expected: "'raw'"},
		{value: created, expected: "'2017-05-18 12:56:00'"},
		{value: &created, expected: "'2017-05-18 12:56:00'"},
		{value: (*time.Time)(nil), expected: "NULL"},
	} {
		assert.Equal(t, briefquery.Literal(nil, testCase.value), testCase.expected)
	}

	assert.Equal(t, briefquery.Literal(backslashQuoter{}, "x"), "'x\\'")
}

func TestInterpolate(t *testing.T) {
	statement := "SELECT '?' AS a, \"?\" AS b, `?` AS c FROM t WHERE x = ? AND y IN (?,?)"

	assert.Equal(t,
		briefquery.Interpolate(nil, statement, []any{1, "o'k", nil}),
		"SELECT '?' AS a, \"?\" AS b, `?` AS c FROM t WHERE x = '1' AND y IN ('o''k',NULL)",
	)

	assert.Equal(t, briefquery.Interpolate(nil, "a = ? AND b = ?", []any{1}), "a = '1' AND b = ?")
	assert.Equal(t, briefquery.Interpolate(nil, "a = ?", nil), "a = ?")
}

func TestEachPlaceholder(t *testing.T) {
	chunks := []string{}
	placeholders := 0

	briefquery.EachPlaceholder("a = ? AND b = 'x?y' AND c = ?", func(chunk string, placeholder bool) {
		if placeholder {
			placeholders++
		}
		chunks = append(chunks, chunk)
	})

	assert.Equal(t, placeholders, 2)
	assert.DeepEqual(t, chunks, []string{"a = ", "?", " AND b = ", "'x?y'", " AND c = ", "?"})
}

func TestSplitQuoted(t *testing.T) {
	type chunk struct {
		Text   string
		Quoted bool
	}

	split := func(statement string) []chunk {
		chunks := []chunk{}
		briefquery.SplitQuoted(statement, func(text string, quoted bool) {
			chunks = append(chunks, chunk{Text: text, Quoted: quoted})
		})
		return chunks
	}

	assert.DeepEqual(t,
		split("SELECT `a b`, \"c\" FROM t WHERE x = 'it''s\n  here' AND y = 1"),
		[]chunk{
			{Text: "SELECT ", Quoted: false},
			{Text: "`a b`", Quoted: true},
			{Text: ", ", Quoted: false},
			{Text: "\"c\"", Quoted: true},
			{Text: " FROM t WHERE x = ", Quoted: false},
			{Text: "'it'", Quoted: true},
			{Text: "'s\n  here'", Quoted: true},
			{Text: " AND y = 1", Quoted: false},
		},
	)

	assert.DeepEqual(t, split("x = 'open"), []chunk{
		{Text: "x = ", Quoted: false},
		{Text: "'open", Quoted: true},
	})
}

func TestOrderedMap(t *testing.T) {
	m := briefquery.NewOrderedMap()
	m.Set("b", "1")
	m.Set("a", "2")
	m.Set("b", "3")

	assert.DeepEqual(t, m.Keys(), []string{"b", "a"})
	assert.DeepEqual(t, m.Values(), []string{"3", "2"})
	assert.Equal(t, m.Len(), 2)

	value, found := m.Get("b")
	assert.Assert(t, found)
	assert.Equal(t, value, "3")

	_, found = m.Get("c")
	assert.Assert(t, !found)

	other := briefquery.NewOrderedMap()
	other.Set("c", "4")
	other.Set("a", "5")
	m.Merge(other)
	assert.DeepEqual(t, m.Map(), map[string]string{"a": "5", "b": "3", "c": "4"})
	assert.DeepEqual(t, m.Keys(), []string{"b", "a", "c"})
}

func TestInsertSQL(t *testing.T) {
	values := map[string]any{"name": "x", "age": 3, "created": nil}

	statement, args := briefquery.InsertSQL("test", values, briefquery.Compiler{Mode: briefquery.BindPlaceholder})
	assert.Equal(t, statement, "INSERT INTO test (age,created,name) VALUES (?,?,?)")
	assert.DeepEqual(t, args, []any{3, nil, "x"})

	statement, args = briefquery.InsertSQL("test", values, briefquery.Compiler{Mode: briefquery.BindInline})
	assert.Equal(t, statement, "INSERT INTO test (age,created,name) VALUES ('3',NULL,'x')")
	assert.Equal(t, len(args), 0)
}
