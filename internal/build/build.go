// Package build holds version information set at link time.
package build

import (
	"runtime/debug"
	"time"
)

var (
	commit  = ""
	date    = ""
	version = "dev"
	repoURL = "https://github.com/ItsNotGoodName/x-frame"
)

func init() {
	date, _ := time.Parse(time.RFC3339, date)

	Current = Build{
		Commit:  commit,
		Version: version,
		Date:    date,
		RepoURL: repoURL,
	}
	if Current.Commit == "" {
		Current.readBuildInfo()
	}

	Current.CommitURL = repoURL + "/tree/" + Current.Commit
	Current.LicenseURL = repoURL + "/blob/master/LICENSE"
	Current.ReleaseURL = repoURL + "/releases/tag/" + Current.Version
	if Current.Commit == "" {
		Current.CommitURL = "#"
	}
	if Current.Version == "dev" {
		Current.ReleaseURL = "#"
	}
}

// readBuildInfo fills in what `go install` recorded when no ldflags were set.
func (b *Build) readBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		b.Version = v
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.Commit = setting.Value
		case "vcs.time":
			if b.Date.IsZero() {
				b.Date, _ = time.Parse(time.RFC3339, setting.Value)
			}
		}
	}
}

var Current Build

type Build struct {
	Commit     string    `json:"commit,omitempty"`
	Version    string    `json:"version,omitempty"`
	Date       time.Time `json:"date,omitempty"`
	RepoURL    string    `json:"repo_url,omitempty"`
	CommitURL  string    `json:"commit_url,omitempty"`
	LicenseURL string    `json:"license_url,omitempty"`
	ReleaseURL string    `json:"release_url,omitempty"`
}
