// Package common contains shared constants and sentinel errors used across
// the to-do server and its clients.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// UserIDHeaderName carries a bare user identifier when the server runs in
// presence identity mode.
const UserIDHeaderName = "x-user-id"

// ErrorDomain is the domain reported in typed error details.
const ErrorDomain = "todo"
