package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayneeseguin/arbor/internal/status"
	"github.com/wayneeseguin/arbor/pkg/appenders"
	"github.com/wayneeseguin/arbor/pkg/config"
	"github.com/wayneeseguin/arbor/pkg/types"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	auditPath := filepath.Join(dir, "audit.log")
	doc := fmt.Sprintf(`name: loadertest
appenders:
  - name: console
    kind: console
    target: stdout
    layout:
      pattern: "%%p %%m%%n"
  - name: audit
    kind: file
    path: %q
    buffered: true
    flush_interval: 50ms
    batch_count: 4
    layout:
      kind: json
  - name: capture
    kind: memory
root:
  level: warn
  refs:
    - appender: console
loggers:
  - name: app.db
    level: debug
    additive: false
    refs:
      - appender: capture
        level: info
        marker: SQL
`, auditPath)
	path := writeConfig(t, dir, "arbor.yaml", doc)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "loadertest", cfg.Name())
	assert.Equal(t, path, cfg.Source())
	assert.Equal(t, types.LevelWarn, cfg.Root().Level())

	console, err := cfg.Appender("console")
	require.NoError(t, err)
	assert.IsType(t, &appenders.Console{}, console)

	audit, err := cfg.Appender("audit")
	require.NoError(t, err)
	file, ok := audit.(*appenders.File)
	require.True(t, ok)
	assert.Equal(t, auditPath, file.Path())

	db, ok := cfg.Logger("app.db")
	require.True(t, ok)
	assert.Equal(t, types.LevelDebug, db.Level())
	assert.False(t, db.IsAdditive())

	refs := db.Refs()
	require.Len(t, refs, 1)
	assert.Equal(t, "capture", refs[0].Appender().Name())
	assert.Equal(t, types.LevelInfo, refs[0].Level())
	require.NotNil(t, refs[0].Filter())
	assert.True(t, refs[0].Accepts(newEvent("app.db", types.LevelInfo, "SQL", "select")))
	assert.False(t, refs[0].Accepts(newEvent("app.db", types.LevelInfo, "", "select")))
}

func TestLoadedConfigurationDelivers(t *testing.T) {
	dir := t.TempDir()
	doc := `name: delivery
appenders:
  - name: capture
    kind: memory
root:
  level: error
loggers:
  - name: app.db
    level: debug
    additive: false
    refs:
      - appender: capture
        marker: SQL
`
	path := writeConfig(t, dir, "arbor.yaml", doc)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Start())
	defer func() { require.NoError(t, cfg.Stop()) }()

	capture, err := cfg.Appender("capture")
	require.NoError(t, err)
	mem := capture.(*appenders.Memory)

	db := cfg.Resolve("app.db.conn")
	require.NoError(t, db.Log(newEvent("app.db.conn", types.LevelDebug, "SQL", "select 1")))
	require.NoError(t, db.Log(newEvent("app.db.conn", types.LevelDebug, "", "not tagged")))

	require.Equal(t, 1, mem.Len())
	assert.Equal(t, "select 1", mem.Events()[0].Message().Formatted())
}

func TestLoadJSON(t *testing.T) {
	doc := `{
  "name": "jsontest",
  "appenders": [{"name": "capture", "kind": "memory"}],
  "root": {"level": "info", "refs": [{"appender": "capture"}]}
}`
	cfg, err := config.LoadBytes([]byte(doc), "json")
	require.NoError(t, err)

	assert.Equal(t, "jsontest", cfg.Name())
	assert.Equal(t, types.LevelInfo, cfg.Root().Level())

	refs := cfg.Root().Refs()
	require.Len(t, refs, 1)
	assert.Equal(t, "capture", refs[0].Appender().Name())
	assert.Equal(t, types.LevelAll, refs[0].Level())
}

func TestLoadDefaultsWhenSparse(t *testing.T) {
	cfg, err := config.LoadBytes([]byte("appenders:\n  - name: capture\n    kind: memory\n"), "yaml")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultConfigurationName, cfg.Name())
	assert.Equal(t, types.LevelError, cfg.Root().Level(), "the root keeps its default level")
	assert.Empty(t, cfg.Root().Refs())
}

func TestLoggerWithoutLevelInherits(t *testing.T) {
	doc := `root:
  level: warn
loggers:
  - name: app
`
	cfg, err := config.LoadBytes([]byte(doc), "yaml")
	require.NoError(t, err)

	app, ok := cfg.Logger("app")
	require.True(t, ok)
	_, explicit := app.ExplicitLevel()
	assert.False(t, explicit)
	assert.Equal(t, types.LevelWarn, app.Level())
}

func TestStatusLevelApplied(t *testing.T) {
	t.Cleanup(status.Default.Reset)

	_, err := config.LoadBytes([]byte("status_level: warn\n"), "yaml")
	require.NoError(t, err)
	assert.Equal(t, types.LevelWarn, status.Default.Level())
}

func TestLoadBytesErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"appender missing name", "appenders:\n  - kind: memory\n"},
		{"appender missing kind", "appenders:\n  - name: capture\n"},
		{"unknown appender kind", "appenders:\n  - name: x\n    kind: carrierpigeon\n"},
		{"unknown layout kind", "appenders:\n  - name: x\n    kind: memory\n    layout:\n      kind: xml\n"},
		{"bad pattern", "appenders:\n  - name: x\n    kind: memory\n    layout:\n      pattern: \"%q\"\n"},
		{"logger missing name", "loggers:\n  - level: info\n"},
		{"unknown root level", "root:\n  level: loudest\n"},
		{"unknown ref level", "appenders:\n  - name: x\n    kind: memory\nroot:\n  refs:\n    - appender: x\n      level: loudest\n"},
		{"unknown status level", "status_level: chatty\n"},
		{"duplicate appender", "appenders:\n  - name: x\n    kind: memory\n  - name: x\n    kind: memory\n"},
		{"duplicate logger", "loggers:\n  - name: app\n  - name: app\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadBytes([]byte(tt.doc), "yaml")
			assert.Error(t, err)
		})
	}
}

func TestLoadRefToUnknownAppender(t *testing.T) {
	doc := "root:\n  refs:\n    - appender: ghost\n"
	_, err := config.LoadBytes([]byte(doc), "yaml")
	assert.ErrorIs(t, err, config.ErrAppenderNotFound)
}

func TestLoadBytesUnknownFormat(t *testing.T) {
	_, err := config.LoadBytes([]byte("{}"), "toml")
	assert.Error(t, err)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "arbor.conf", "name: x\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestProbeFindsNothing(t *testing.T) {
	cfg, found, err := config.Probe(t.TempDir())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, cfg)
}

func TestProbeLoadsFirstMatch(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "arbor.yaml", "name: fromyaml\n")
	writeConfig(t, dir, "arbor.yml", "name: fromyml\n")

	cfg, found, err := config.Probe(dir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "fromyaml", cfg.Name(), "arbor.yaml outranks arbor.yml")
}

func TestProbeReportsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "arbor.json", "{not json")

	_, found, err := config.Probe(dir)
	assert.True(t, found, "the file exists even though it cannot load")
	assert.Error(t, err)
}
