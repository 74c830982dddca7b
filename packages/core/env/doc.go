// Package env builds the environment handed to the processes pwrun starts.
//
// It provides functionality for:
//   - Loading secrets from a .env file without exporting them
//   - Ordered environment assignments owned by the launcher
//   - Overlaying those assignments on the inherited process environment
//
// The launcher never calls os.Setenv; child processes receive the
// assignments explicitly through exec.Cmd.Env.
package env
