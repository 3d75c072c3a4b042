package stream

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tv-frame/pkg/avplayer"
	"tv-frame/pkg/avplayer/enginetest"
	"tv-frame/pkg/channels"
	"tv-frame/pkg/frame"
)

type countingSink struct {
	mu      sync.Mutex
	bound   *frame.Buffer
	renders int
}

func (s *countingSink) Bind(buf *frame.Buffer) {
	s.mu.Lock()
	s.bound = buf
	s.mu.Unlock()
}

func (s *countingSink) RequestRender() {
	s.mu.Lock()
	s.renders++
	s.mu.Unlock()
}

var zdf = channels.ParseLine("ZDF HD:11361750:HC23M5O35P0S1:S19.2E:22000:6110=27:6120=deu@3:6122:0:11110:1:1011:0")

func TestStartPlaysChannel(t *testing.T) {
	dir := t.TempDir()
	engine := enginetest.New(720, 576)
	sink := &countingSink{}

	s, err := Start(zdf, dir, engine, sink)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, avplayer.StatePlaying, s.Player().State())
	assert.Equal(t, "ZDF HD", s.Channel().Name)

	sources := engine.Sources()
	require.Len(t, sources, 1)
	session, err := channels.ReadSession(sources[0])
	require.NoError(t, err)
	assert.Equal(t, zdf, session)

	require.NotNil(t, sink.bound)
	assert.Equal(t, 720, sink.bound.Width())

	engine.EmitFrame([]byte{1, 2})
	assert.Equal(t, 1, sink.renders)
}

func TestCloseRemovesSessionFile(t *testing.T) {
	dir := t.TempDir()
	engine := enginetest.New(720, 576)

	s, err := Start(zdf, dir, engine, nil)
	require.NoError(t, err)
	path := engine.Sources()[0]

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, []string{"initialize", "prepare", "start", "stop", "close"}, engine.Calls())
}

func TestStartFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	engine := enginetest.New(720, 576)
	engine.PrepareCode = -3

	_, err := Start(zdf, dir, engine, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, avplayer.ErrEngineFailure)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 1, engine.Count("close"))
}

func TestStartEngineStartFailure(t *testing.T) {
	engine := enginetest.New(720, 576)
	engine.StartCode = -1

	_, err := Start(zdf, t.TempDir(), engine, nil)
	assert.ErrorIs(t, err, avplayer.ErrEngineFailure)
}

func TestStartUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := Start(zdf, filepath.Join(file, "sessions"), enginetest.New(720, 576), nil)
	assert.Error(t, err)
}

func TestEventsDelivered(t *testing.T) {
	engine := enginetest.New(720, 576)
	s, err := Start(zdf, t.TempDir(), engine, nil)
	require.NoError(t, err)
	defer s.Close()

	engine.Notify(avplayer.NotifyError, -5, 0)

	ev := <-s.Events()
	assert.Equal(t, Event{Code: avplayer.NotifyError, Ext1: -5}, ev)
	assert.True(t, ev.Ended())
	assert.Equal(t, "decode error -5", ev.String())
}

func TestPictureInfoDoesNotEndPlayback(t *testing.T) {
	ev := Event{Code: avplayer.NotifyInfo, Ext1: 720, Ext2: 576}
	assert.False(t, ev.Ended())
	assert.Equal(t, "picture 720x576", ev.String())
}

func TestEventsDropWhenFull(t *testing.T) {
	engine := enginetest.New(720, 576)
	s, err := Start(zdf, t.TempDir(), engine, nil)
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 20; i++ {
		engine.Notify(avplayer.NotifyInfo, i, 0)
	}
	assert.Len(t, s.Events(), cap(s.events))
}

func TestStopAndResume(t *testing.T) {
	engine := enginetest.New(720, 576)
	s, err := Start(zdf, t.TempDir(), engine, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Stop())
	assert.Equal(t, avplayer.StatePrepared, s.Player().State())
	require.NoError(t, s.Resume())
	assert.Equal(t, avplayer.StatePlaying, s.Player().State())
}
