package gitlabfs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gchaperon/gitlab-fsspec/gitlabfs"

const (
	projectKey   = attribute.Key("gitlab.project")
	refKey       = attribute.Key("gitlab.ref")
	pathKey      = attribute.Key("fs.path")
	recursiveKey = attribute.Key("gitlab.tree.recursive")
	rowsKey      = attribute.Key("gitlab.tree.rows")
	sizeKey      = attribute.Key("file.size")
)

// instrumentedClient wraps a Client, recording a span and a debug log record
// for every call.
type instrumentedClient struct {
	next   Client
	tracer trace.Tracer
	log    logrus.FieldLogger
}

var _ Client = (*instrumentedClient)(nil)

func instrument(c Client, tp trace.TracerProvider, log logrus.FieldLogger) Client {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	return &instrumentedClient{next: c, tracer: tp.Tracer(tracerName), log: log}
}

type call struct {
	start time.Time
	span  trace.Span
	log   logrus.FieldLogger
}

func (c *instrumentedClient) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, *call) {
	ctx, span := c.tracer.Start(ctx, op, trace.WithAttributes(attrs...))

	fields := logrus.Fields{"op": op}
	for _, a := range attrs {
		fields[string(a.Key)] = a.Value.Emit()
	}

	return ctx, &call{start: time.Now(), span: span, log: c.log.WithFields(fields)}
}

func (k *call) end(err error, attrs ...attribute.KeyValue) {
	defer k.span.End()

	k.span.SetAttributes(attrs...)

	log := k.log.WithField("duration", time.Since(k.start))
	for _, a := range attrs {
		log = log.WithField(string(a.Key), a.Value.Emit())
	}

	if err != nil {
		k.span.RecordError(err)
		k.span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Debug("gitlab API call failed")

		return
	}

	log.Debug("gitlab API call")
}

func (c *instrumentedClient) GetProject(ctx context.Context, project string) (*Project, error) {
	ctx, k := c.begin(ctx, "gitlab.GetProject", projectKey.String(project))

	p, err := c.next.GetProject(ctx, project)
	k.end(err)

	return p, err
}

func (c *instrumentedClient) ListTree(ctx context.Context, project string, opts TreeOptions) ([]TreeNode, error) {
	ctx, k := c.begin(ctx, "gitlab.ListTree",
		projectKey.String(project),
		refKey.String(opts.Ref),
		pathKey.String(opts.Path),
		recursiveKey.Bool(opts.Recursive),
	)

	rows, err := c.next.ListTree(ctx, project, opts)
	k.end(err, rowsKey.Int(len(rows)))

	return rows, err
}

func (c *instrumentedClient) GetRawFile(ctx context.Context, project, path, ref string) ([]byte, error) {
	ctx, k := c.begin(ctx, "gitlab.GetRawFile",
		projectKey.String(project), refKey.String(ref), pathKey.String(path))

	b, err := c.next.GetRawFile(ctx, project, path, ref)
	k.end(err, sizeKey.Int(len(b)))

	return b, err
}

func (c *instrumentedClient) GetFileMetadata(ctx context.Context, project, path, ref string) (*FileMetadata, error) {
	ctx, k := c.begin(ctx, "gitlab.GetFileMetadata",
		projectKey.String(project), refKey.String(ref), pathKey.String(path))

	md, err := c.next.GetFileMetadata(ctx, project, path, ref)
	if err != nil {
		k.end(err)

		return nil, err
	}

	k.end(nil, sizeKey.Int64(md.Size))

	return md, nil
}
