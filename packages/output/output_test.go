package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsu-automation/pwrun/packages/core/config"
	"github.com/vsu-automation/pwrun/packages/core/resolver"
	"github.com/vsu-automation/pwrun/packages/history"
	"gopkg.in/yaml.v3"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithWriter(&buf), WithNoColor(true))

	l.Infof("Setting %s default value : %s : %s", "WORKERS", "WORKERS", "1")
	l.Warnf("careful")
	l.Errorf("boom\n")

	assert.Equal(t, "INFO - Setting WORKERS default value : WORKERS : 1\nWARNING - careful\nERROR - boom\n", buf.String())
}

func TestLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithWriter(&buf), WithNoColor(true), WithQuiet(true))

	l.Infof("hidden")
	l.Banner("hidden")
	l.Warnf("shown")

	assert.Equal(t, "WARNING - shown\n", buf.String())
}

func TestLogger_Result(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithWriter(&buf), WithNoColor(true))

	l.Result(true, "Tests passed")
	l.Result(false, "Tests failed with status %d", 2)

	assert.Equal(t, "✓ Tests passed\n✗ Tests failed with status 2\n", buf.String())
}

func sampleSettings() *resolver.Settings {
	return &resolver.Settings{
		BrowsersPath:        "/work/ms-playwright",
		Browsers:            "firefox",
		Workers:             "3",
		Headed:              config.Disabled,
		Debug:               config.Disabled,
		Filter:              "smoke",
		TestRailIntegration: "false",
		EnvName:             "qa1",
		Sources: map[string]resolver.Source{
			config.KeyBrowsers: resolver.SourceCommandLine,
			config.KeyWorkers:  resolver.SourceCommandLine,
			config.KeyFilter:   resolver.SourceDefault,
		},
	}
}

func TestSettingsRows(t *testing.T) {
	rows := SettingsRows(sampleSettings())

	require.Len(t, rows, len(resolver.Keys())+1)
	assert.Equal(t, SettingRow{Key: config.KeyBrowsersPath, Value: "/work/ms-playwright"}, rows[0])
	assert.Equal(t, SettingRow{Key: config.KeyBrowsers, Value: "firefox", Source: "commandline"}, rows[1])
	assert.Equal(t, SettingRow{Key: config.KeyHeaded, Value: "--headed"}, rows[3])
	assert.Equal(t, SettingRow{Key: config.KeyEnv, Value: "qa1", Source: "file"}, rows[len(rows)-1])
}

func TestWriteSettings_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSettings(&buf, "json", SettingsRows(sampleSettings())))

	var rows []SettingRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, "WORKERS", rows[2].Key)
	assert.Equal(t, "3", rows[2].Value)
}

func TestWriteSettings_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSettings(&buf, "yaml", SettingsRows(sampleSettings())))

	var rows []SettingRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, "smoke", rows[5].Value)
	assert.Equal(t, "default", rows[5].Source)
}

func TestWriteSettings_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSettings(&buf, "table", SettingsRows(sampleSettings())))

	out := buf.String()
	assert.Contains(t, out, "BROWSERS")
	assert.Contains(t, out, "firefox")
	assert.Contains(t, out, "(empty)")
}

func TestWriteSettings_UnknownFormat(t *testing.T) {
	err := WriteSettings(&bytes.Buffer{}, "xml", nil)
	assert.Error(t, err)
}

func sampleHistory() []history.Entry {
	return []history.Entry{{
		ID:        "0b6b5a52-8a4e-4f7e-9d2c-0f1d7c6a9e11",
		StartedAt: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		Env:       "qa1",
		Filter:    "@Critical_Path",
		Browsers:  "chromium",
		Workers:   "2",
		RunID:     "555",
		ExitCode:  1,
		Duration:  95 * time.Second,
	}}
}

func TestWriteHistory_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, "table", sampleHistory()))

	out := buf.String()
	assert.Contains(t, out, "@Critical_Path")
	assert.Contains(t, out, "555")
	assert.Contains(t, out, "1m35s")
}

func TestWriteHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, "table", nil))
	assert.Equal(t, "No runs recorded yet\n", buf.String())
}

func TestWriteHistory_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, "json", sampleHistory()))

	var entries []history.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "qa1", entries[0].Env)
	assert.Equal(t, 1, entries[0].ExitCode)
}
