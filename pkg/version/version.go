// Package version carries build metadata injected at link time:
//
//	-X 'github.com/MLinh204/Class-Helper-Admin/pkg/version.Version=v1.0.0'
//	-X 'github.com/MLinh204/Class-Helper-Admin/pkg/version.CommitHash=abc123'
//	-X 'github.com/MLinh204/Class-Helper-Admin/pkg/version.BuildDate=2024-01-01T00:00:00Z'
package version

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info is the build metadata printed by `classhelper version`.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}

// UserAgent identifies the CLI to the API.
func UserAgent() string {
	return "classhelper/" + Version
}
