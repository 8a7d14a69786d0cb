package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAlignsColumns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := NewFormatter(FormatText, &buf)
	require.NoError(t, f.Table([][]string{
		{"approve_milestone", "write"},
		{"get_escrow", "read"},
	}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[0], "write"), strings.Index(lines[1], "read"),
		"second column starts at the same offset in every row")
}

func TestTableEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := NewFormatter(FormatText, &buf)
	require.NoError(t, f.Table(nil))
	assert.Empty(t, buf.String())
}
