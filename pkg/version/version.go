// Package version exposes the build version string.
package version

// Version is the service version, set at build time via -ldflags where possible.
var Version = "v0.1.0"
