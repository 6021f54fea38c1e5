package main

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	fsspec "github.com/gchaperon/gitlab-fsspec"
	"github.com/gchaperon/gitlab-fsspec/gitlabfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type opts struct {
	log *logrus.Logger

	// client replaces the GitLab API client when set
	client gitlabfs.Client

	gitlabURL    string
	privateToken string
	oauthToken   string
	jobToken     string
	envFile      string
	output       string
	timeout      time.Duration
	debug        bool
	tracing      bool

	shutdown func(context.Context) error
	span     trace.Span

	// filesystems already opened, keyed by project and ref
	opened map[string]fs.FS
}

func newRootCmd(o *opts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitlabfs",
		Short: "Read files from GitLab repositories by URL",
		Long: `Read files and directories from GitLab repositories, addressed with URLs
of the form gitlab://<project-path>[@<ref>][:<file-path>].

When no ref is given, the project's default branch is used.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.preRun,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.gitlabURL, "gitlab-url", "", "GitLab instance URL (or set GITLAB_URL)")
	flags.StringVar(&o.privateToken, "private-token", "", "Personal, project, or group access token")
	flags.StringVar(&o.oauthToken, "oauth-token", "", "OAuth2 access token")
	flags.StringVar(&o.jobToken, "job-token", "", "CI job token")
	flags.StringVar(&o.envFile, "env-file", "", "dotenv file to read credentials from (default .env, if present)")
	flags.DurationVar(&o.timeout, "timeout", gitlabfs.DefaultTimeout, "Timeout for each HTTP request")
	flags.StringVarP(&o.output, "output", "o", outputText, "Output format: text, yaml, or json")
	flags.BoolVarP(&o.debug, "debug", "d", false, "Log every GitLab API call")
	flags.BoolVar(&o.tracing, "tracing", false, "Export traces with OTLP")

	cmd.AddCommand(
		newLsCmd(o),
		newCatCmd(o),
		newStatCmd(o),
		newGlobCmd(o),
		newParseCmd(o),
	)

	return cmd
}

func (o *opts) preRun(cmd *cobra.Command, _ []string) error {
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}

	if o.debug {
		o.log.SetLevel(logrus.DebugLevel)
	}

	switch o.output {
	case outputText, outputYAML, outputJSON:
	default:
		return fmt.Errorf("invalid output format %q", o.output)
	}

	if !o.tracing {
		return nil
	}

	ctx := cmd.Context()

	shutdown, err := initTracing(context.WithoutCancel(ctx), o.log)
	if err != nil {
		return fmt.Errorf("init trace exporter: %w", err)
	}

	o.shutdown = shutdown

	ctx, o.span = otel.Tracer("gitlabfs").Start(ctx, cmd.Name())
	cmd.SetContext(ctx)

	return nil
}

// postRun ends the command's span and flushes the tracer provider, if
// tracing was started.
func (o *opts) postRun(ctx context.Context) error {
	if o.span != nil {
		o.span.End()
	}

	if o.shutdown == nil {
		return nil
	}

	return o.shutdown(context.WithoutCancel(ctx))
}

// config returns the filesystem configuration for a gitlab:// URL, with the
// command-line flags applied.
func (o *opts) config(u string) (gitlabfs.Config, error) {
	if _, ok := gitlabfs.ParseURL(u); !ok {
		return gitlabfs.Config{}, fmt.Errorf("invalid gitlab URL %q: want gitlab://<project-path>[@<ref>][:<file-path>]", u)
	}

	cfg := gitlabfs.ConfigFromURL(u)
	cfg.Client = o.client
	cfg.Logger = o.log
	cfg.BaseURL = o.gitlabURL
	cfg.PrivateToken = o.privateToken
	cfg.OAuthToken = o.oauthToken
	cfg.JobToken = o.jobToken
	cfg.EnvFile = o.envFile
	cfg.Timeout = o.timeout

	return cfg, nil
}

// openFS returns the filesystem for the repository named by u, and the path
// u names within it. Filesystems are reused for URLs with the same project
// and ref, so the project is resolved only once.
func (o *opts) openFS(ctx context.Context, u string) (fs.FS, string, error) {
	cfg, err := o.config(u)
	if err != nil {
		return nil, "", err
	}

	key := cfg.ProjectPath + "@" + cfg.Ref

	fsys, ok := o.opened[key]
	if !ok {
		fsys, err = gitlabfs.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, "", err
		}

		if o.opened == nil {
			o.opened = map[string]fs.FS{}
		}

		o.opened[key] = fsys
	}

	o.log.WithField("url", u).Debug("opened repository")

	return fsspec.WithContextFS(ctx, fsys), gitlabfs.StripScheme(u), nil
}
