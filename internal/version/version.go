// Package version carries build metadata for the lines binary.
//
// Set at build time via ldflags:
//
//	go build -ldflags "-X github.com/greerreNFL/nfelomarket-data/internal/version.Version=1.2.0 \
//	                   -X github.com/greerreNFL/nfelomarket-data/internal/version.Commit=$(git rev-parse --short HEAD)" \
//	    ./cmd/lines
package version

// Build-time variables.
var (
	Version = "dev"
	Commit  = "unknown"
)

// String returns "version (commit)".
func String() string {
	return Version + " (" + Commit + ")"
}

// UserAgent identifies outbound HTTP requests.
func UserAgent() string {
	return "nfelomarket-lines/" + Version
}
