package gitlabfs

import (
	"context"
	"io/fs"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func attrMap(kvs []attribute.KeyValue) map[string]any {
	m := map[string]any{}
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}

	return m
}

func TestInstrumentedClient(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	fsys, _ := setupFS(t, func(c *Config) {
		c.TracerProvider = tp
		c.Logger = logger
	})

	_, err := fsys.ReadFile("docs/sample.txt")
	require.NoError(t, err)

	_, err = fsys.Info("missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	spans := sr.Ended()
	require.Len(t, spans, 4)

	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name()
	}

	assert.Equal(t, []string{
		"gitlab.GetProject",
		"gitlab.GetRawFile",
		"gitlab.GetFileMetadata",
		"gitlab.ListTree",
	}, names)

	attrs := attrMap(spans[1].Attributes())
	assert.Equal(t, testProject, attrs["gitlab.project"])
	assert.Equal(t, "main", attrs["gitlab.ref"])
	assert.Equal(t, "docs/sample.txt", attrs["fs.path"])
	assert.Equal(t, int64(len("sample text\n")), attrs["file.size"])
	assert.Equal(t, codes.Unset, spans[1].Status().Code)

	assert.Equal(t, codes.Error, spans[2].Status().Code)
	assert.Equal(t, codes.Error, spans[3].Status().Code)

	entries := hook.AllEntries()
	require.Len(t, entries, 4)

	assert.Equal(t, logrus.DebugLevel, entries[1].Level)
	assert.Equal(t, "gitlab.GetRawFile", entries[1].Data["op"])
	assert.Equal(t, "docs/sample.txt", entries[1].Data["fs.path"])
	assert.Contains(t, entries[1].Data, "duration")

	assert.Equal(t, "gitlab.GetFileMetadata", entries[2].Data["op"])
	assert.Contains(t, entries[2].Data, logrus.ErrorKey)
}

func TestInstrument_Defaults(t *testing.T) {
	c := instrument(newFakeClient(t), nil, nil)

	ic, ok := c.(*instrumentedClient)
	require.True(t, ok)
	assert.NotNil(t, ic.tracer)
	assert.NotNil(t, ic.log)

	_, err := c.GetProject(context.Background(), testProject)
	assert.NoError(t, err)
}
