package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEpisodeNumber(t *testing.T) {
	n, err := parseEpisodeNumber("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = parseEpisodeNumber("  3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = parseEpisodeNumber("twelve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twelve")

	_, err = parseEpisodeNumber("")
	require.Error(t, err)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", firstLine("one\ntwo"))
	assert.Equal(t, "plain", firstLine("plain"))
}
