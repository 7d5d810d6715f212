// Package session persists the CLI session (user id and token pair) in the
// local SQLite database so that a restarted CLI stays signed in.
package session
