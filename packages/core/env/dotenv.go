package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultDotEnvFile is read when no --env-file is given
const DefaultDotEnvFile = ".env"

// LoadDotEnv parses a .env file and returns key-value pairs.
// Supports: KEY=value, KEY="quoted value", KEY='single quoted', export KEY=value, # comments
// Note: This does NOT export to the OS environment. Use Environment.SetDefaults
// to hand the values to child processes.
func LoadDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read env file: %w", err)
	}
	return vars, nil
}

// LoadOptionalDotEnv behaves like LoadDotEnv but returns an empty map when
// the file does not exist.
func LoadOptionalDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	return LoadDotEnv(path)
}
