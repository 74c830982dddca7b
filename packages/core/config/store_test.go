package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadStore_MissingFile(t *testing.T) {
	s, err := LoadStore(filepath.Join(t.TempDir(), DefaultFilename))
	require.NoError(t, err)
	assert.False(t, s.Loaded())
	assert.Empty(t, s.Keys())
	assert.False(t, s.Has(KeyWorkers))
}

func TestLoadStore_ConfigSection(t *testing.T) {
	path := writeConfig(t, `[config]
BROWSERS = firefox
workers = 3
RUN_ID =
FILTER = grep # not a comment
`)

	s, err := LoadStore(path)
	require.NoError(t, err)
	assert.True(t, s.Loaded())
	assert.Equal(t, path, s.Path())

	assert.Equal(t, "firefox", s.Get(KeyBrowsers))
	assert.Equal(t, "3", s.Get("WORKERS"))
	assert.Equal(t, "3", s.Get("Workers"))
	assert.Equal(t, "grep # not a comment", s.Get(KeyFilter))

	assert.True(t, s.Has(KeyRunID))
	v, ok := s.Lookup(KeyRunID)
	assert.Equal(t, "", v)
	assert.False(t, ok)

	assert.Equal(t, []string{"BROWSERS", "WORKERS", "RUN_ID", "FILTER"}, s.Keys())
}

func TestLoadStore_SectionlessKeys(t *testing.T) {
	path := writeConfig(t, `WORKERS=2
BROWSERS=webkit

[config]
BROWSERS=firefox
`)

	s, err := LoadStore(path)
	require.NoError(t, err)
	assert.Equal(t, "2", s.Get(KeyWorkers))
	assert.Equal(t, "firefox", s.Get(KeyBrowsers))
}

func TestLoadStore_Suites(t *testing.T) {
	path := writeConfig(t, `[config]
FILTER=@Regression

[suites]
@Regression = 1200
@Critical_Path = 99
`)

	s, err := LoadStore(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"@Regression":    "1200",
		"@Critical_Path": "99",
	}, s.Suites())
}

func TestStore_Set(t *testing.T) {
	s := NewStore()
	s.Set("headed", "--headed")
	s.Set(KeyHeaded, "")

	assert.True(t, s.Has(KeyHeaded))
	assert.Equal(t, "", s.Get(KeyHeaded))
	assert.Equal(t, []string{KeyHeaded}, s.Keys())
}

func TestLoadStore_NeverWritesBack(t *testing.T) {
	content := "[config]\nWORKERS=4\n"
	path := writeConfig(t, content)

	s, err := LoadStore(path)
	require.NoError(t, err)
	s.Set(KeyWorkers, "9")
	s.Set(KeyFilter, "smoke")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)

	require.NoError(t, WriteTemplate(path, false))

	s, err := LoadStore(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBrowsers, s.Get(KeyBrowsers))
	assert.Equal(t, DefaultWorkers, s.Get(KeyWorkers))
	assert.Equal(t, DefaultFilter, s.Get(KeyFilter))
	assert.Equal(t, "87764", s.Suites()["@Critical_Path"])

	err = WriteTemplate(path, false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, WriteTemplate(path, true))
}
