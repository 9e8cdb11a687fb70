package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitWriter(t *testing.T) {
	t.Cleanup(func() { InitWriter(false, &bytes.Buffer{}) })

	var buf bytes.Buffer
	InitWriter(false, &buf)
	Debug("hidden", "k", 1)
	Warn("hidden too")
	assert.False(t, Enabled())
	assert.Empty(t, buf.String())

	InitWriter(true, &buf)
	Debug("Visit token", "kind", "Accessor", "pos", 3)
	With("line", 7).Debug("Line dropped")
	assert.True(t, Enabled())

	out := buf.String()
	assert.Contains(t, out, `msg="Visit token"`)
	assert.Contains(t, out, "kind=Accessor")
	assert.Contains(t, out, "line=7")
}
