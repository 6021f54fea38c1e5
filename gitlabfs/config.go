package gitlabfs

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/gchaperon/gitlab-fsspec/internal/env"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout is the HTTP request timeout used when Config.Timeout is
// unset.
const DefaultTimeout = 60 * time.Second

// Config holds the arguments for NewWithConfig. Only ProjectPath is
// required.
type Config struct {
	// Client overrides the GitLab API client. When set, BaseURL, the tokens,
	// EnvFile, Timeout, and HTTPClient are ignored.
	Client Client

	// HTTPClient overrides the HTTP client used by the GitLab API client.
	// Timeout is ignored when this is set.
	HTTPClient *http.Client

	// Logger receives debug records for each GitLab API call. Defaults to
	// the standard logrus logger.
	Logger logrus.FieldLogger

	// TracerProvider is used to create spans for each GitLab API call.
	// Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// ProjectPath is the full path of the project, e.g. "group/project".
	ProjectPath string

	// Ref is the branch, tag, or commit SHA to read from. Defaults to the
	// project's default branch, resolved once at construction.
	Ref string

	// BaseURL is the GitLab instance URL. Defaults to $GITLAB_URL, then
	// https://gitlab.com.
	BaseURL string

	// Tokens for authentication. At most one is used - see ResolveToken.
	PrivateToken string
	OAuthToken   string
	JobToken     string

	// EnvFile names a dotenv file to read credentials from, after the
	// process environment. Defaults to ".env" if present.
	EnvFile string

	// Timeout for each HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

func (c Config) credentials() Credentials {
	return Credentials{
		PrivateToken: c.PrivateToken,
		OAuthToken:   c.OAuthToken,
		JobToken:     c.JobToken,
	}
}

// newClient builds the GitLab API client from the configuration, the
// process environment (read through envfsys for _FILE variables), and the
// env file.
func (c Config) newClient(envfsys fs.FS) (Client, error) {
	if c.Client != nil {
		return c.Client, nil
	}

	environ := snapshotEnv(envfsys)

	file, err := env.ReadEnvFile(c.EnvFile)
	if err != nil {
		return nil, err
	}

	baseURL := resolveBaseURL(c.BaseURL, environ, file)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gitlab url %q: %w", baseURL, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid gitlab url %q: must be an absolute http or https URL", baseURL)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return newAPIClient(baseURL, ResolveToken(c.credentials(), environ, file), httpClient)
}

// snapshotEnv reads every key in envKeys from the process environment.
func snapshotEnv(fsys fs.FS) map[string]string {
	return env.Snapshot(fsys, envKeys...)
}
