// Package client talks to the to-do backend on behalf of the CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): account,
//     session and task operations plus Ping.
//  2. A gRPC implementation (see GRPCClient) that attaches the session
//     credentials via an interceptor, transparently refreshes an expired
//     access token once per call, and maps statuses back to the error kinds
//     of package common.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations,
//     NewRepositories) over SQLite with embedded goose migrations.
//
// # Error Handling
//
// Transport failures become ErrUnavailable. Everything the server rejects
// matches one of the kinds in package common with errors.Is, and the
// message is the server's.
package client
