// Package api defines the gRPC contract of the to-do service: request and
// response messages, the todo.v1.TodoService descriptor with its client and
// server bindings, the JSON codec the service is spoken over and the mapping
// between domain errors and gRPC statuses.
//
// Messages are plain Go structs encoded as JSON (snake_case field names).
// Deadlines travel as RFC 3339 strings in UTC; an empty string means "no
// deadline".
package api
