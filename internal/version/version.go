// Package version holds the application version, set at build time with
// -ldflags "-X github.com/ndewijer/folio/internal/version.Version=...".
package version

// Version is the application version.
var Version = "dev"
