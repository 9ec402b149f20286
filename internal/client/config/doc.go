// Package config loads runtime configuration for the El Embauco CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: EMBAUCO_SERVER_URL, EMBAUCO_DB_PATH, EMBAUCO_REQUEST_TIMEOUT,
//     EMBAUCO_VALIDATE_PATH, EMBAUCO_LOG_LEVEL, EMBAUCO_EPHEMERAL. A .env file
//     in the working directory is loaded first and never overrides variables
//     already set.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   SQLite database path
//	-t int      request timeout (seconds)
//	-l string   log level
//	-e          ephemeral session
//
// # JSON schema
//
// Durations accept "15s"-style strings or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8001",
//	  "database_path": "embauco.db",
//	  "request_timeout": "15s",
//	  "validate_path": "/api/dashboard/stats",
//	  "log_level": "info"
//	}
package config
