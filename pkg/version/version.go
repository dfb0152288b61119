// Package version exposes the build commit every agent binary logs at
// startup, derived from build metadata rather than an AgentVersion the
// operator configures (that one comes from config.Config.Identity and is
// part of the constitutional contract; this one is purely diagnostic).
//
// Go 1.18+ automatically embeds VCS info (git commit, dirty flag, etc.)
// into the binary via runtime/debug.BuildInfo. No -ldflags required.
//
// Usage:
//
//	version.GitCommit  // "a3f8c2d1" or "dev"
//	version.Full()     // "agentcore/a3f8c2d1" or "agentcore/dev"
package version

import "runtime/debug"

// AppName is the module name used in build-diagnostic version strings.
const AppName = "agentcore"

// GitCommit is the short git commit hash (8 chars) from build info.
// Set to "dev" when build info is unavailable (e.g., `go test`, non-git builds).
var GitCommit = initGitCommit()

func initGitCommit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 8 {
				return s.Value[:8]
			}
			return s.Value
		}
	}
	return "dev"
}

// Full returns "agentcore/<commit>" for use in user-agent strings, logging,
// etc.
func Full() string {
	return AppName + "/" + GitCommit
}
