// Package version exposes the build version reported by the CLI.
package version

// Version is the current release version. Overridden at build time via
// -ldflags "-X github.com/stashkeep/recordpipe/pkg/version.Version=...".
var Version = "0.1.0"
