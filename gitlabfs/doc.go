// Package gitlabfs provides a read-only view of a GitLab repository, at a
// fixed ref, as a standard filesystem.
//
// # Usage
//
// To use this filesystem, call New with a URL of the form:
//
//	gitlab://<project-path>[@<ref>][:<file-path>]
//
// For example:
//
//	gitlab://mygroup/subgroup/myproject@v1.2.0:docs/README.md
//
// The project path may not contain '@' or ':', and the ref may not contain
// ':'. When the ref is omitted (or empty), the project's default branch is
// resolved once, when the filesystem is created, and used from then on.
//
// The filesystem is rooted at the repository root, whatever the file path in
// the URL. PathFromURL and StripScheme return the file path, and
// ConfigFromURL returns the Config fields identified by the URL, so a generic
// "open by URL" entry point (such as fsspec.URLToFS) can build the filesystem
// and find the path within it.
//
// Listings (List, ReadDir) return only the direct children of a directory. A
// tree listing doesn't carry file sizes, so entries from List have a size of
// SizeUnknown. Info and Stat look up individual files, which is more costly
// but yields the size and content metadata. Directories exist only as long
// as they contain files, so Info on a directory is answered by listing it.
//
// Nothing is cached: every operation makes one or more requests to GitLab.
//
// # Authentication
//
// At most one token is used, chosen in this order:
//
//   - a private token (personal, project, or group access token)
//   - an OAuth2 token
//   - a CI/CD job token
//
// Each token is taken from Config, then from the environment, then from a
// dotenv file (".env" in the working directory, or Config.EnvFile). Without
// a token, only public projects can be read.
//
// # Environment Variables
//
// The following environment variables can be used to configure this
// filesystem. Each may instead be given as a path to a file containing the
// value, by appending "_FILE" to the name (e.g. GITLAB_PRIVATE_TOKEN_FILE).
//
//   - GITLAB_PRIVATE_TOKEN: a private token
//   - GITLAB_OAUTH_TOKEN: an OAuth2 token
//   - GITLAB_JOB_TOKEN, CI_JOB_TOKEN: a CI/CD job token. GITLAB_JOB_TOKEN is
//     preferred when both are set.
//   - GITLAB_URL: the GitLab instance URL (default https://gitlab.com)
//
// # Errors
//
// Missing files and directories, and unknown projects, are reported with
// errors wrapping fs.ErrNotExist. Authorization failures wrap
// fs.ErrPermission. Other errors from GitLab are returned as-is, and are
// never retried.
package gitlabfs
