package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	fsspec "github.com/gchaperon/gitlab-fsspec"
	"github.com/gchaperon/gitlab-fsspec/gitlabfs"
	"github.com/spf13/cobra"
)

func newLsCmd(o *opts) *cobra.Command {
	var long, recursive bool

	cmd := &cobra.Command{
		Use:   "ls URL",
		Short: "List the entries under a directory",
		Long: `List the entries under the directory named by URL, or the repository root
when URL has no file path. Names are relative to the repository root.

With --long, the size of each file is looked up, one request per file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.ls(cmd.Context(), cmd.OutOrStdout(), args[0], long, recursive)
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show the mode and size of each entry")
	cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "List entries at any depth")

	return cmd
}

func (o *opts) ls(ctx context.Context, w io.Writer, u string, long, recursive bool) error {
	fsys, p, err := o.openFS(ctx, u)
	if err != nil {
		return err
	}

	list := gitlabfs.List
	if recursive {
		list = gitlabfs.ListRecursive
	}

	entries, err := list(fsys, p)
	if err != nil {
		return err
	}

	if long {
		for i, e := range entries {
			if e.IsDir() {
				continue
			}

			info, err := gitlabfs.Info(fsys, e.Name)
			if err != nil {
				return err
			}

			entries[i] = info
		}
	}

	records := make([]entryRecord, len(entries))
	for i, e := range entries {
		records[i] = newEntryRecord(e)
	}

	return o.write(w, records, func(w io.Writer) error {
		return lsText(w, entries, long)
	})
}

func newCatCmd(o *opts) *cobra.Command {
	var start, end int64

	cmd := &cobra.Command{
		Use:   "cat URL...",
		Short: "Write the content of files to standard output",
		Long: `Write the content of each file named by URL to standard output. File paths
containing glob meta characters (*, ?, [, {) are expanded first.

--start and --end select the byte range [start, end) of every file. An
end of -1 reads to the end of the file. The --output flag is ignored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.cat(cmd.Context(), cmd.OutOrStdout(), args, start, end)
		},
	}

	cmd.Flags().Int64Var(&start, "start", 0, "Offset of the first byte to read")
	cmd.Flags().Int64Var(&end, "end", gitlabfs.ToEnd, "Offset after the last byte to read, or -1")

	return cmd
}

func (o *opts) cat(ctx context.Context, w io.Writer, urls []string, start, end int64) error {
	for _, u := range urls {
		fsys, p, err := o.openFS(ctx, u)
		if err != nil {
			return err
		}

		names := []string{p}

		if fsspec.HasMeta(p) {
			names, err = fsspec.Glob(fsys, strings.Trim(p, "/"), true)
			if err != nil {
				return err
			}

			o.log.WithField("pattern", p).WithField("matches", len(names)).Debug("expanded glob")
		}

		for _, name := range names {
			b, err := gitlabfs.ReadRange(fsys, name, start, end)
			if err != nil {
				return err
			}

			if _, err := w.Write(b); err != nil {
				return err
			}
		}
	}

	return nil
}

func newStatCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "stat URL",
		Short: "Print information about a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.stat(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (o *opts) stat(ctx context.Context, w io.Writer, u string) error {
	fsys, p, err := o.openFS(ctx, u)
	if err != nil {
		return err
	}

	e, err := gitlabfs.Info(fsys, p)
	if err != nil {
		return err
	}

	rec := newEntryRecord(e)
	if !e.IsDir() {
		rec.ContentType = contentType(e)
	}

	return o.write(w, rec, func(w io.Writer) error {
		return statText(w, rec)
	})
}

func newGlobCmd(o *opts) *cobra.Command {
	var filesOnly, long bool

	cmd := &cobra.Command{
		Use:   "glob URL",
		Short: "Print the paths matching a pattern",
		Long: `Print the paths matching the glob pattern in URL's file path. In addition
to the syntax of path.Match, "**" matches any number of directories and
"{a,b}" matches either alternative.

With --long, each match is described like ls --long does, at the cost of
one request per matching file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if long {
				return o.globLong(cmd.Context(), cmd.OutOrStdout(), args[0], filesOnly)
			}

			return o.glob(cmd.Context(), cmd.OutOrStdout(), args[0], filesOnly)
		},
	}

	cmd.Flags().BoolVar(&filesOnly, "files", false, "Match only files, not directories")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show the mode and size of each match")

	return cmd
}

func (o *opts) glob(ctx context.Context, w io.Writer, u string, filesOnly bool) error {
	fsys, p, err := o.openFS(ctx, u)
	if err != nil {
		return err
	}

	pattern := strings.Trim(p, "/")
	if pattern == "" {
		return errors.New("no pattern given")
	}

	matches, err := fsspec.Glob(fsys, pattern, filesOnly)
	if err != nil {
		return err
	}

	return o.write(w, matches, func(w io.Writer) error {
		for _, m := range matches {
			fmt.Fprintln(w, m)
		}

		return nil
	})
}

func (o *opts) globLong(ctx context.Context, w io.Writer, u string, filesOnly bool) error {
	fsys, p, err := o.openFS(ctx, u)
	if err != nil {
		return err
	}

	if strings.Trim(p, "/") == "" {
		return errors.New("no pattern given")
	}

	found, err := gitlabfs.GlobInfo(fsys, p, filesOnly)
	if err != nil {
		return err
	}

	entries := make([]gitlabfs.Entry, 0, len(found))
	for _, e := range found {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	records := make([]entryRecord, len(entries))
	for i, e := range entries {
		records[i] = newEntryRecord(e)
	}

	return o.write(w, records, func(w io.Writer) error {
		return lsText(w, entries, true)
	})
}

func newParseCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "parse URL...",
		Short: "Print the parts of gitlab:// URLs",
		Long: `Print the project path, ref, and file path of each URL. GitLab is not
contacted, so the default branch isn't resolved.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.parse(cmd.OutOrStdout(), args)
		},
	}
}

func (o *opts) parse(w io.Writer, urls []string) error {
	records := make([]locationRecord, 0, len(urls))

	for _, u := range urls {
		loc, ok := gitlabfs.ParseURL(u)
		if !ok {
			return fmt.Errorf("invalid gitlab URL %q", u)
		}

		records = append(records, locationRecord{
			URL:         u,
			ProjectPath: loc.ProjectPath,
			Ref:         loc.Ref,
			FilePath:    loc.FilePath,
		})
	}

	return o.write(w, records, func(w io.Writer) error {
		for _, r := range records {
			parseText(w, r)
		}

		return nil
	})
}
