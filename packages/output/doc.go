// Package output provides pwrun's console logger and settings formatters.
//
// Supported output:
//   - Logger: levelled "INFO - message" lines, colored on terminals
//   - Table: resolved settings with their source (tablewriter)
//   - JSON and YAML: machine-readable resolved settings
//   - History: recorded sessions as a table or JSON
package output
