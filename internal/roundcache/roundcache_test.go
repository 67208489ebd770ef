package roundcache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cfamutation/driver/analysis"
	"github.com/cfamutation/driver/internal/roundcache"
)

func TestCache_StoreThenLookup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	c, err := roundcache.Open(dir)
	require.NoError(t, err)
	defer c.Close()

	_, found := c.Lookup("deadbeef")
	require.False(t, found)

	want := &analysis.AnalysisResult{
		Verdict: analysis.False,
		Target:  "line 14: assertion",
		Error:   &analysis.CapturedError{Class: "AssertionError"},
	}
	require.NoError(t, c.Store("deadbeef", want))

	got, found := c.Lookup("deadbeef")
	require.True(t, found)
	require.Equal(t, want.Verdict, got.Verdict)
	require.Equal(t, want.Target, got.Target)
	require.Equal(t, want.Error.Class, got.Error.Class)
}

func TestCache_LookupHitAfterReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	c, err := roundcache.Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.Store("k", &analysis.AnalysisResult{Verdict: analysis.True}))
	require.NoError(t, c.Close())

	c2, err := roundcache.Open(dir)
	require.NoError(t, err)
	defer c2.Close()
	got, found := c2.Lookup("k")
	require.True(t, found)
	require.Equal(t, analysis.True, got.Verdict)
}
