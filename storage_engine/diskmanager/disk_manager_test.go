package diskmanager

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bustubgo/config"
)

func TestManager_WriteThenReadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	m, err := New(path)
	require.NoError(t, err)
	defer m.ShutDown()

	want := make([]byte, config.PageSize)
	for i := range want {
		want[i] = byte(i)
	}

	require.NoError(t, m.WritePage(3, want))

	got := make([]byte, config.PageSize)
	require.NoError(t, m.ReadPage(3, got))
	assert.Equal(t, want, got)
}

func TestManager_ReadUnwrittenPageIsZeroFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	m, err := New(path)
	require.NoError(t, err)
	defer m.ShutDown()

	buf := make([]byte, config.PageSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	require.NoError(t, m.ReadPage(7, buf))

	for _, b := range buf {
		assert.Equal(t, byte(0), b)
	}
}

func TestManager_ShutDownIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	m, err := New(path)
	require.NoError(t, err)

	require.NoError(t, m.ShutDown())
	assert.NoError(t, m.ShutDown())
}
