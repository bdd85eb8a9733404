package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*Logger, *bytes.Buffer) {
	color.NoColor = true
	buf := &bytes.Buffer{}
	return New(buf, zerolog.Disabled), buf
}

func TestLogger_RunOutputContract(t *testing.T) {
	l, buf := newTestLogger()

	l.CandidateCount(3)
	l.FileFixed("api/projects/[id]/route.ts")
	l.FileFixed("api/users/[userId]/route.ts")
	l.Summary(2, 0)

	out := buf.String()
	assert.Contains(t, out, "Found 3 candidate files")
	assert.Contains(t, out, "✓ Fixed: api/projects/[id]/route.ts")
	assert.Contains(t, out, "✓ Fixed: api/users/[userId]/route.ts")
	assert.Contains(t, out, "Total files fixed: 2")
	assert.NotContains(t, out, "skipped after errors")
}

func TestLogger_FileError(t *testing.T) {
	l, buf := newTestLogger()

	l.FileError("api/[id]/route.ts", assert.AnError)
	l.Summary(0, 1)

	out := buf.String()
	assert.Contains(t, out, "✗ Error processing api/[id]/route.ts")
	assert.Contains(t, out, "Files skipped after errors: 1")
}

func TestLogger_Errorf(t *testing.T) {
	l, buf := newTestLogger()

	l.Errorf("batch failed: %v", assert.AnError)

	assert.Contains(t, buf.String(), "batch failed: "+assert.AnError.Error())
}

func TestLogger_Context(t *testing.T) {
	l, _ := newTestLogger()
	ctx := NewContext(context.Background(), l)
	require.Equal(t, l, FromContext(ctx))

	assert.Panics(t, func() {
		FromContext(context.Background())
	})
}
