package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/kbukum/prepkit/version.Version=1.2.0"
var (
	Version   = "dev"
	GitCommit = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get returns build information, filling unset fields from the embedded
// module build info when available.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit}
	if build, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = build.GoVersion
		for _, setting := range build.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" && len(setting.Value) >= 7 {
					info.GitCommit = setting.Value[:7]
				}
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			}
		}
	}
	return info
}

// Short renders a compact version string such as "1.2.0-abc1234" or
// "dev-abc1234-dirty".
func Short() string {
	info := Get()
	out := info.Version
	if info.GitCommit != "" {
		out = fmt.Sprintf("%s-%s", out, info.GitCommit)
	}
	if info.Dirty {
		out += "-dirty"
	}
	return out
}
