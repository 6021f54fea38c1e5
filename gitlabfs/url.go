package gitlabfs

import (
	"regexp"
	"strings"
)

// Scheme is the URL scheme handled by this filesystem.
const Scheme = "gitlab"

// urlPattern matches gitlab://<project-path>[@<ref>][:<file-path>].
//
// The project path may not contain '@' or ':', and the ref may not contain
// ':', so the three parts are never ambiguous. The file path takes
// everything after the first ':' following the project path (and ref).
//
//nolint:gochecknoglobals
var urlPattern = regexp.MustCompile(`(?s)^` + Scheme + `://` +
	`(?P<project_path>[^@:]+)` +
	`(?:@(?P<ref>[^:]*))?` +
	`(?::(?P<file_path>.*))?$`)

// Location is a parsed gitlab:// URL.
type Location struct {
	// ProjectPath is the full path of the project, e.g. "group/sub/project"
	ProjectPath string
	// Ref is a branch, tag, or commit SHA. Empty means the project's default
	// branch.
	Ref string
	// FilePath is the path of a file or directory within the repository.
	// Empty means the repository root.
	FilePath string
}

// ParseURL parses a gitlab:// URL. The second return value is false if s
// does not match the URL grammar.
func ParseURL(s string) (Location, bool) {
	m := urlPattern.FindStringSubmatch(s)
	if m == nil {
		return Location{}, false
	}

	return Location{
		ProjectPath: m[urlPattern.SubexpIndex("project_path")],
		Ref:         m[urlPattern.SubexpIndex("ref")],
		FilePath:    m[urlPattern.SubexpIndex("file_path")],
	}, true
}

// String returns the URL for l. An empty ref or file path is omitted.
func (l Location) String() string {
	sb := strings.Builder{}
	sb.WriteString(Scheme + "://")
	sb.WriteString(l.ProjectPath)

	if l.Ref != "" {
		sb.WriteString("@" + l.Ref)
	}

	if l.FilePath != "" {
		sb.WriteString(":" + l.FilePath)
	}

	return sb.String()
}

// StripScheme returns the file path referenced by a gitlab:// URL, or "" if
// the URL references the repository root. Strings that aren't gitlab:// URLs
// are returned unchanged, as they are assumed to be plain paths.
func StripScheme(s string) string {
	loc, ok := ParseURL(s)
	if !ok {
		return s
	}

	return loc.FilePath
}

// ConfigFromURL returns the Config fields identified by a gitlab:// URL: the
// project path and, when present and non-empty, the ref. The file path is
// not part of the configuration (see StripScheme). A zero Config is returned
// when s is not a gitlab:// URL.
func ConfigFromURL(s string) Config {
	loc, ok := ParseURL(s)
	if !ok {
		return Config{}
	}

	return Config{ProjectPath: loc.ProjectPath, Ref: loc.Ref}
}
