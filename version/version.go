package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/decl2ts/errors"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Tool is the name written into companion artifacts and version output
const Tool = "decl2ts"

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if !i.IsDev() {
		return fmt.Sprintf("%s %s (commit %s, built %s)", Tool, i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("%s dev (commit %s, built %s)", Tool, i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// IsDev reports whether this is an untagged development build
func (i Info) IsDev() bool {
	return i.Version == "" || i.Version == "dev"
}

// Semver parses the version as a semantic version
func (i Info) Semver() (*semver.Version, error) {
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid version %s", i.Version)
	}
	return v, nil
}

// Satisfies checks the version against a constraint such as ">= 0.2, < 1".
// Development builds satisfy every constraint; an empty constraint always holds.
func (i Info) Satisfies(constraint string) error {
	if constraint == "" || i.IsDev() {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", constraint)
	}
	v, err := i.Semver()
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return errors.WithHintf(
			errors.Newf("project requires %s %s, but running %s", Tool, constraint, i.Version),
			"install a %s release matching %s", Tool, constraint)
	}
	return nil
}
