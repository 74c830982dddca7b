package testrail

import (
	"fmt"
	"strconv"
	"strings"
)

// SuiteTable maps a FILTER value to a TestRail suite id
type SuiteTable map[string]string

// DefaultSuites returns the built-in suite table
func DefaultSuites() SuiteTable {
	return SuiteTable{
		"@Critical_Path": "87764",
	}
}

// Merge returns a copy of t with other's entries added or replaced
func (t SuiteTable) Merge(other map[string]string) SuiteTable {
	out := make(SuiteTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// SuiteID returns the numeric suite id for filter
func (t SuiteTable) SuiteID(filter string) (int64, error) {
	raw, ok := t[filter]
	if !ok {
		return 0, configErrorf(fmt.Sprintf(
			"The provided %s filter isn't a valid suite name to create a TestRail Run or isn't added to the expected suite ids.", filter))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, configErrorf(fmt.Sprintf("suite id %q for filter %s is not a number", raw, filter))
	}
	return id, nil
}
