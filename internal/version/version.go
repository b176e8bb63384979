// Package version carries build-time identification for the oggdecode
// binary, set via -ldflags the way the teacher's internal/version package
// is populated by its release tooling.
package version

// Version, Commit, and Date are overwritten at build time with
// -ldflags "-X github.com/fathomsound/oggdecode/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders a single-line human-readable version summary.
func String() string {
	return "oggdecode " + Version + " (" + Commit + ", " + Date + ")"
}

// Info is the JSON-friendly form of the same fields.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// GetInfo returns the current build identification as an Info value.
func GetInfo() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}
