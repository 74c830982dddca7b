package testrail

import "errors"

// ErrRunCreation wraps every failure of the remote calls
var ErrRunCreation = errors.New("TestRail Run creation failed")

// ConfigError reports invalid local configuration, detected before any
// request is sent.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

func configErrorf(msg string) *ConfigError {
	return &ConfigError{Msg: msg}
}
