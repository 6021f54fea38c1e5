/*
gitlabfs is a command-line client for GitLab repositories, addressed with
gitlab:// URLs:

	gitlab://<project-path>[@<ref>][:<file-path>]

# Usage

	gitlabfs [flags] <command> URL...

	commands:

	  ls URL [-l] [-R]
	    	List the entries under the directory named by URL.
	  cat URL... [--start N] [--end N]
	    	Write the content of each file (or glob match) to standard output.
	  stat URL
	    	Print information about the file or directory named by URL.
	  glob URL [-l] [--files]
	    	Print the paths matching the pattern in URL's file path.
	  parse URL...
	    	Print the parts of each URL, without contacting GitLab.

Credentials are taken from the flags, then from the environment
(GITLAB_PRIVATE_TOKEN, GITLAB_OAUTH_TOKEN, GITLAB_JOB_TOKEN or CI_JOB_TOKEN),
then from the env file.

# Examples

	$ gitlabfs ls -l gitlab://gitlab-org/gitlab-runner@v17.0.0:docs
	 drwxr-xr-x          docs/architecture
	 -rw-r--r--  12.3KiB docs/index.md

	$ gitlabfs cat --start 0 --end 16 gitlab://gitlab-org/gitlab-runner:README.md
	# GitLab Runner

	$ gitlabfs stat gitlab://gitlab-org/gitlab-runner:README.md
	README.md:
	    Type:         file
	    Size:         2.1KiB
	    Mode:         -rw-r--r--
	    Content-Type: text/markdown; charset=utf-8
	    Blob ID:      8f9c2e0e4fb0d6d3f1ad3d6c2f2d7d1e5b0a9c11
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &opts{log: log}, os.Args[1:]); err != nil {
		log.WithError(err).Error("exiting with error")
		stop()
		os.Exit(1)
	}
}

// run executes the command line in args. Tracing is shut down on return,
// whether or not the command failed.
func run(ctx context.Context, o *opts, args []string) error {
	defer func() {
		if err := o.postRun(ctx); err != nil {
			o.log.WithError(err).Warn("failed to shut down tracing")
		}
	}()

	cmd := newRootCmd(o)
	cmd.SetArgs(args)

	return cmd.ExecuteContext(ctx)
}
