// Package version exposes the build-time version string.
package version

// version is overridden at build time via -ldflags.
var version = "v0.0.0"

// Value returns the version string for this build.
func Value() string {
	return version
}
