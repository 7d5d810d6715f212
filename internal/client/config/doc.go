// Package config loads runtime configuration for the to-do CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-l string   path of the local session database
//	-i int      online status check interval (seconds)
//	-k int      countdown refresh interval (milliseconds)
//
// # JSON schema
//
// Intervals use timex.Duration, so they are either strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "local_db_path": "gophtodo.db",
//	  "online_check_interval": "3s",
//	  "countdown_tick": "1s"
//	}
package config
