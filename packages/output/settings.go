package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/vsu-automation/pwrun/packages/core/config"
	"github.com/vsu-automation/pwrun/packages/core/resolver"
	"gopkg.in/yaml.v3"
)

// SettingRow is one resolved setting as displayed by `pwrun config`
type SettingRow struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

// SettingsRows flattens resolved settings in resolution order, followed
// by the environment name when the store has one.
func SettingsRows(s *resolver.Settings) []SettingRow {
	rows := make([]SettingRow, 0, len(resolver.Keys())+1)
	for _, key := range resolver.Keys() {
		rows = append(rows, SettingRow{
			Key:    key,
			Value:  s.Value(key),
			Source: string(s.Source(key)),
		})
	}
	if s.EnvName != "" {
		rows = append(rows, SettingRow{Key: config.KeyEnv, Value: s.EnvName, Source: string(resolver.SourceFile)})
	}
	return rows
}

// WriteSettings renders rows in the given format: table, json or yaml
func WriteSettings(w io.Writer, format string, rows []SettingRow) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case "", "table":
		table := tablewriter.NewWriter(w)
		table.Header("Setting", "Value", "Source")
		for _, r := range rows {
			value := r.Value
			if value == "" {
				value = "(empty)"
			}
			if err := table.Append(r.Key, value, r.Source); err != nil {
				return err
			}
		}
		return table.Render()
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", format)
	}
}
