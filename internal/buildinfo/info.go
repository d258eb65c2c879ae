// Package buildinfo holds version metadata stamped into the daybook binary:
//
//	go build -ldflags "-X github.com/cleared-dev/daybook/internal/buildinfo.Version=v0.3.0" ./cmd/daybook
package buildinfo

// Set via -ldflags -X at build time; the defaults mark a development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
