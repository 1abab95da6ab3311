// Package version holds build metadata, overridden at link time with
// -ldflags "-X github.com/MrSnakeDoc/scout/internal/version.Version=...".
package version

import (
	"runtime"
	"time"
)

var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-08-29T10:00:00Z
	GoVersion = runtime.Version()
)
