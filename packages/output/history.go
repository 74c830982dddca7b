package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/vsu-automation/pwrun/packages/history"
)

// WriteHistory renders recorded sessions as a table or json
func WriteHistory(w io.Writer, format string, entries []history.Entry) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "", "table":
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No runs recorded yet")
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header("Started", "Env", "Filter", "Browsers", "Workers", "Run ID", "Exit", "Duration")
		for _, e := range entries {
			err := table.Append(
				e.StartedAt.Local().Format("2006-01-02 15:04:05"),
				e.Env,
				e.Filter,
				e.Browsers,
				e.Workers,
				e.RunID,
				strconv.Itoa(e.ExitCode),
				e.Duration.Round(time.Second).String(),
			)
			if err != nil {
				return err
			}
		}
		return table.Render()
	default:
		return fmt.Errorf("unknown output format %q (use table or json)", format)
	}
}
