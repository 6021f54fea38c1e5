package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"text/tabwriter"
	"time"

	fsspec "github.com/gchaperon/gitlab-fsspec"
	"github.com/gchaperon/gitlab-fsspec/gitlabfs"
	"github.com/gchaperon/gitlab-fsspec/internal"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputYAML = "yaml"
	outputJSON = "json"
)

type entryRecord struct {
	Name        string                 `json:"name" yaml:"name"`
	Type        string                 `json:"type" yaml:"type"`
	Size        *int64                 `json:"size,omitempty" yaml:"size,omitempty"`
	Mode        string                 `json:"mode" yaml:"mode"`
	ID          string                 `json:"id,omitempty" yaml:"id,omitempty"`
	ContentType string                 `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Metadata    *gitlabfs.FileMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func newEntryRecord(e gitlabfs.Entry) entryRecord {
	rec := entryRecord{
		Name:     e.Name,
		Type:     e.Type.String(),
		Mode:     e.Mode.String(),
		ID:       e.ID,
		Metadata: e.Metadata,
	}

	if e.Size != gitlabfs.SizeUnknown {
		size := e.Size
		rec.Size = &size
	}

	return rec
}

type locationRecord struct {
	URL         string `json:"url" yaml:"url"`
	ProjectPath string `json:"project_path" yaml:"project_path"`
	Ref         string `json:"ref,omitempty" yaml:"ref,omitempty"`
	FilePath    string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// write encodes v in the selected output format, or calls text for the text
// format.
func (o *opts) write(w io.Writer, v any, text func(io.Writer) error) error {
	switch o.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	default:
		return text(w)
	}
}

func lsText(w io.Writer, entries []gitlabfs.Entry, long bool) error {
	if !long {
		for _, e := range entries {
			fmt.Fprintln(w, e.Name)
		}

		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)

	for _, e := range entries {
		sz := ""
		if !e.IsDir() && e.Size != gitlabfs.SizeUnknown {
			sz = formatSize(e.Size)
		}

		fmt.Fprintf(tw, "%s\t%s\t %s\n", e.Mode, sz, e.Name)
	}

	return tw.Flush()
}

func statText(w io.Writer, rec entryRecord) error {
	name := rec.Name
	if name == "" {
		name = "."
	}

	var size int64
	if rec.Size != nil {
		size = *rec.Size
	}

	fmt.Fprintf(w, `%s:
	Type:         %s
	Size:         %s
	Mode:         %s
`, name, rec.Type, formatSize(size), rec.Mode)

	if rec.ContentType != "" {
		fmt.Fprintf(w, "\tContent-Type: %s\n", rec.ContentType)
	}

	if rec.ID != "" {
		fmt.Fprintf(w, "\tBlob ID:      %s\n", rec.ID)
	}

	return nil
}

func parseText(w io.Writer, r locationRecord) {
	ref := r.Ref
	if ref == "" {
		ref = "(default branch)"
	}

	filePath := r.FilePath
	if filePath == "" {
		filePath = "(root)"
	}

	fmt.Fprintf(w, `%s:
	Project: %s
	Ref:     %s
	Path:    %s
`, r.URL, r.ProjectPath, ref, filePath)
}

func contentType(e gitlabfs.Entry) string {
	size := e.Size
	if size < 0 {
		size = 0
	}

	return fsspec.ContentType(internal.FileInfo(path.Base(e.Name), size, e.Mode, time.Time{}, e))
}

func formatSize(size int64) string {
	switch {
	case size <= 1024:
		return fmt.Sprintf("%dB", size)
	case size <= 1024*1024:
		return fmt.Sprintf("%.1fKiB", float64(size)/1024)
	case size <= 1024*1024*1024:
		return fmt.Sprintf("%.1fMiB", float64(size)/1024/1024)
	default:
		return fmt.Sprintf("%.1fGiB", float64(size)/1024/1024/1024)
	}
}
