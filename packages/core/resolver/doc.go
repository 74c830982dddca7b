// Package resolver turns invocation parameters, the run.config store and
// built-in defaults into one resolved value per recognized setting.
//
// Precedence is uniform: a supplied parameter wins and is written into the
// store, otherwise a non-empty stored value is kept, otherwise the default
// is written. Headed and debug mode are resolved to a Tristate and stored
// as the flag token the test runner expects.
//
// Values the external runner reads from its environment are published to
// an env.Environment rather than the process environment.
package resolver
