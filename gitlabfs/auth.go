package gitlabfs

// Environment variables consulted for credentials and the instance URL.
const (
	EnvPrivateToken = "GITLAB_PRIVATE_TOKEN"
	EnvOAuthToken   = "GITLAB_OAUTH_TOKEN"
	EnvJobToken     = "GITLAB_JOB_TOKEN"
	EnvCIJobToken   = "CI_JOB_TOKEN"
	EnvURL          = "GITLAB_URL"

	// DefaultGitLabURL is the instance used when no other is configured.
	DefaultGitLabURL = "https://gitlab.com"
)

// envKeys lists every key read from the environment and the env file.
//
//nolint:gochecknoglobals
var envKeys = []string{EnvPrivateToken, EnvOAuthToken, EnvJobToken, EnvCIJobToken, EnvURL}

// TokenKind identifies how a token authenticates to GitLab.
type TokenKind int

const (
	// TokenNone - unauthenticated access, suitable for public projects only
	TokenNone TokenKind = iota
	// TokenPrivate - a personal, project, or group access token
	TokenPrivate
	// TokenOAuth - an OAuth2 bearer token
	TokenOAuth
	// TokenJob - a CI/CD job token
	TokenJob
)

func (k TokenKind) String() string {
	switch k {
	case TokenPrivate:
		return "private_token"
	case TokenOAuth:
		return "oauth_token"
	case TokenJob:
		return "job_token"
	default:
		return "none"
	}
}

// Credentials holds the candidate tokens from one configuration source.
// Empty fields are unset.
type Credentials struct {
	PrivateToken string
	OAuthToken   string
	JobToken     string
}

// Token is the single credential forwarded to the GitLab client.
type Token struct {
	Value string
	Kind  TokenKind
}

// ResolveToken selects the token to authenticate with. Each field is taken
// from the first source that sets it, in the order explicit, environ, file.
// The job token may come from GITLAB_JOB_TOKEN or CI_JOB_TOKEN, the former
// taking precedence.
//
// Of the resolved fields, the private token wins over the OAuth token, which
// wins over the job token. A zero Token is returned when none is set.
//
// ResolveToken only reads its arguments, so callers decide where environ and
// file come from (see internal/env).
func ResolveToken(explicit Credentials, environ, file map[string]string) Token {
	resolved := Credentials{
		PrivateToken: firstNonEmpty(explicit.PrivateToken, environ[EnvPrivateToken], file[EnvPrivateToken]),
		OAuthToken:   firstNonEmpty(explicit.OAuthToken, environ[EnvOAuthToken], file[EnvOAuthToken]),
		JobToken: firstNonEmpty(explicit.JobToken,
			environ[EnvJobToken], environ[EnvCIJobToken],
			file[EnvJobToken], file[EnvCIJobToken]),
	}

	switch {
	case resolved.PrivateToken != "":
		return Token{Kind: TokenPrivate, Value: resolved.PrivateToken}
	case resolved.OAuthToken != "":
		return Token{Kind: TokenOAuth, Value: resolved.OAuthToken}
	case resolved.JobToken != "":
		return Token{Kind: TokenJob, Value: resolved.JobToken}
	default:
		return Token{}
	}
}

// resolveBaseURL picks the GitLab instance URL with the same layering as
// ResolveToken, falling back to DefaultGitLabURL.
func resolveBaseURL(explicit string, environ, file map[string]string) string {
	return firstNonEmpty(explicit, environ[EnvURL], file[EnvURL], DefaultGitLabURL)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}
