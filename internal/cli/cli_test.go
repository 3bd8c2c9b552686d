package cli_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/lunagic/brief/brief"
	"github.com/lunagic/brief/internal/cli"
	"gopkg.in/yaml.v3"
	"gotest.tools/v3/assert"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	output := &bytes.Buffer{}
	cmd := cli.NewRootCommand()
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return output.String(), err
}

func TestRenderCommand(t *testing.T) {
	output, err := run(t,
		"render",
		"-t", "test",
		"-f", "id,name",
		"-w", "name=bob",
		"-w", "age >= 5",
		"--or-where", "name like al%",
		"-g", "name",
		"-o", "id desc",
		"-l", "10",
		"--offset", "5",
	)
	assert.NilError(t, err)

	result := struct {
		SQL       string `json:"sql"`
		Arguments []any  `json:"arguments"`
		Debug     string `json:"debug"`
	}{}
	assert.NilError(t, json.Unmarshal([]byte(output), &result))

	assert.Equal(t, result.SQL, "SELECT id,name FROM test WHERE name = ? AND age >= ? OR name LIKE ? GROUP BY name ORDER BY id DESC LIMIT 5,10")
	assert.DeepEqual(t, result.Arguments, []any{"bob", "5", "al%"})
	assert.Equal(t, result.Debug, "SELECT id,name FROM test WHERE name = 'bob' AND age >= '5' OR name LIKE 'al%' GROUP BY name ORDER BY id DESC LIMIT 5,10")
}

func TestRenderCommandErrors(t *testing.T) {
	{ // Missing table
		_, err := run(t, "render")
		assert.ErrorContains(t, err, `required flag(s) "table" not set`)
	}

	{ // Unreadable condition
		_, err := run(t, "render", "-t", "test", "-w", "name")
		assert.ErrorContains(t, err, `could not read condition "name"`)
	}

	{ // Unknown format
		_, err := run(t, "render", "-t", "test", "--format", "xml")
		assert.ErrorContains(t, err, `invalid format "xml"`)
	}
}

func TestRunCommands(t *testing.T) {
	t.Setenv("BRIEF_DRIVER_DATABASE", "sqlite")
	t.Setenv("BRIEF_SQLITE_PATH", filepath.Join(t.TempDir(), "cli.sqlite"))

	config, err := brief.LoadConfig("")
	assert.NilError(t, err)

	service, err := config.Database(t.Context(), nil)
	assert.NilError(t, err)
	t.Cleanup(func() {
		_ = service.Close()
	})

	_, err = service.ExecuteUpdate(t.Context(), "CREATE TABLE people (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)")
	assert.NilError(t, err)
	for _, name := range []string{"ada", "bob", "cy"} {
		_, err := service.Insert(t.Context(), "people", map[string]any{"name": name})
		assert.NilError(t, err)
	}

	{ // all
		output, err := run(t, "all", "-t", "people", "-f", "name", "-o", "id asc", "--format", "yaml")
		assert.NilError(t, err)

		rows := []map[string]string{}
		assert.NilError(t, yaml.Unmarshal([]byte(output), &rows))
		assert.DeepEqual(t, rows, []map[string]string{{"name": "ada"}, {"name": "bob"}, {"name": "cy"}})
	}

	{ // one
		output, err := run(t, "one", "-t", "people", "-w", "name=bob")
		assert.NilError(t, err)

		row := map[string]any{}
		assert.NilError(t, json.Unmarshal([]byte(output), &row))
		assert.Equal(t, row["name"], "bob")
	}

	{ // count
		output, err := run(t, "count", "-t", "people", "-w", "id > 1")
		assert.NilError(t, err)
		assert.Equal(t, output, "2\n")
	}

	{ // one without a match
		_, err := run(t, "one", "-t", "people", "-w", "name=nobody")
		assert.ErrorContains(t, err, "no rows found")
	}
}
