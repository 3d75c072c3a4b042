package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	assert.Equal(t, Settings{}, s)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channelList: [unterminated"), 0o644))
	assert.Equal(t, Settings{}, Load(path))
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	want := Settings{ChannelList: "astra.conf", LastChannel: "ZDF HD", ShowStats: true}

	require.NoError(t, Save(path, want))
	assert.Equal(t, want, Load(path))

	_, err := os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channelList: hotbird.conf\n"), 0o644))
	assert.Equal(t, Settings{ChannelList: "hotbird.conf"}, Load(path))
}
