package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	require.Equal(t, "", CleanText(""))
	require.Equal(t, "a b", CleanText("  a \t\n b "))
	require.Equal(t, "a b", CleanText("a  b"))
}

func TestNormalizeUrl(t *testing.T) {
	require.Equal(
		t,
		"https://example.com/pje/doc.seam?id=1",
		NormalizeUrl("https://example.com:443/pje/doc.seam?id=1"),
	)
	require.Equal(
		t,
		"https://example.com:8443/x",
		NormalizeUrl("https://example.com:8443/x"),
	)
	require.Equal(
		t,
		"http://example.com:443/x",
		NormalizeUrl("http://example.com:443/x"),
	)
	require.Equal(t, "", NormalizeUrl("   "))
}
