// Package cli provides the interactive to-do command-line client.
//
// It wires configuration, the local session store, the API services and a
// REPL. On start it restores a saved session, probes the server and keeps a
// background connectivity watcher running.
//
// Commands:
//   - register, login, logout
//   - list: active tasks by deadline, then completed ones, numbered
//   - add, edit <n>, toggle <n>, delete <n>
//   - watch <n>: live countdown to a deadline, Enter stops it
//   - export: JSON snapshot in object storage with a download link
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
