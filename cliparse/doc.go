// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: server listen port (default: 4117)
  - BackendURL: answer backend base URL (required, trailing slash stripped)
  - DatabaseURL: history database (default: file:khobor.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - UpstreamTimeoutMS: non-streaming backend call timeout (default: 30000)
  - StreamDelayMS: synthesized frame pacing (default: 50, 0 disables)

# CLI Flags

	-p                Server port
	-b                Backend base URL
	-d                Database URL
	-t                Database type
	-upstream-timeout Upstream timeout in ms
	-stream-delay     Stream pacing in ms

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	BACKEND_URL         → -b
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	UPSTREAM_TIMEOUT_MS → -upstream-timeout
	STREAM_DELAY_MS     → -stream-delay

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if BACKEND_URL is missing or the database
type is not sqlite or postgres.
*/
package cliparse
