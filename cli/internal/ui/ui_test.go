package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, "bad %s", "input")
	PrintWarning(&buf, "careful")
	PrintSuccess(&buf, "wrote %d", 3)

	out := buf.String()
	assert.Contains(t, out, "bad input")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "wrote 3")
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, []string{"kind", "lexeme"}, [][]string{{"Accessor", "i[0]"}}))
	assert.Contains(t, buf.String(), "Accessor")
	assert.Contains(t, buf.String(), "i[0]")
}

func TestPrintMarkdownNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	md := "# plan\n\n`row[0]`\n"
	require.NoError(t, PrintMarkdown(&buf, md))
	assert.Equal(t, md, buf.String())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
	assert.False(t, IsTerminal(strings.NewReader("")))
}
