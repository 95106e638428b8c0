package migrations

import "embed"

// Files holds the forward-only SQL migrations compiled into the agent
// and server binaries.
//
//go:embed *.sql
var Files embed.FS
