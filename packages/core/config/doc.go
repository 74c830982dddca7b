// Package config handles the run.config settings store for pwrun.
//
// It provides functionality for:
//   - Loading the INI style run.config file ([config] and [suites] sections)
//   - Case-insensitive, ordered access to setting values
//   - Default values for every recognized setting
//   - Three-valued flags (Tristate) parsed independently of their textual form
package config
