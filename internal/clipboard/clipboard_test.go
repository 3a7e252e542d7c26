package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStripsEscapes(t *testing.T) {
	var got string
	orig := writeAll
	writeAll = func(s string) error { got = s; return nil }
	t.Cleanup(func() { writeAll = orig })

	require.NoError(t, Write("\x1b[1mgato\x1b[0m means cat"))
	assert.Equal(t, "gato means cat", got)
}
