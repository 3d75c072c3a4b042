package avplayer_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tv-frame/pkg/avplayer"
	"tv-frame/pkg/avplayer/enginetest"
	"tv-frame/pkg/frame"
)

type recordingSink struct {
	mu      sync.Mutex
	binds   []*frame.Buffer
	renders int
}

func (s *recordingSink) Bind(buf *frame.Buffer) {
	s.mu.Lock()
	s.binds = append(s.binds, buf)
	s.mu.Unlock()
}

func (s *recordingSink) RequestRender() {
	s.mu.Lock()
	s.renders++
	s.mu.Unlock()
}

func (s *recordingSink) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

func (s *recordingSink) Binds() []*frame.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*frame.Buffer(nil), s.binds...)
}

type hookEngine struct {
	*enginetest.Engine
	beforePrepare func()
}

func (h *hookEngine) Prepare(source string) int {
	if h.beforePrepare != nil {
		h.beforePrepare()
	}
	return h.Engine.Prepare(source)
}

func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("Das Erste:506000000:INVERSION_AUTO\n"), 0o600))
	return path
}

func newPlayer(t *testing.T, engine avplayer.Engine, sink avplayer.FrameSink) *avplayer.Player {
	t.Helper()
	p := avplayer.NewPlayer(engine, sink)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestNewPlayerInitializesEngine(t *testing.T) {
	engine := enginetest.New(640, 480)
	p := newPlayer(t, engine, nil)

	assert.Equal(t, avplayer.StateUninitialized, p.State())
	assert.Equal(t, []string{"initialize"}, engine.Calls())
	assert.Equal(t, p.Handle(), engine.Owner())
	assert.Nil(t, p.FrameBuffer())
}

func TestPrepareSourceNotFound(t *testing.T) {
	dir := t.TempDir()
	sources := []struct {
		message string
		path    string
	}{
		{"unset source", ""},
		{"missing file", filepath.Join(dir, "missing.conf")},
		{"missing directory", filepath.Join(dir, "nope", "channels.conf")},
		{"directory", dir},
	}

	for _, s := range sources {
		engine := enginetest.New(640, 480)
		p := newPlayer(t, engine, nil)

		require.NoError(t, p.SetSource(s.path), s.message)
		err := p.Prepare()
		assert.ErrorIs(t, err, avplayer.ErrSourceNotFound, s.message)
		assert.Equal(t, avplayer.StateUninitialized, p.State(), s.message)
		assert.Zero(t, engine.Count("prepare"), s.message)
		assert.Nil(t, p.FrameBuffer(), s.message)
	}
}

func TestPrepareAllocatesFrameBuffer(t *testing.T) {
	engine := enginetest.New(640, 480)
	sink := &recordingSink{}
	p := newPlayer(t, engine, sink)
	source := writeSource(t, "session.conf")

	require.NoError(t, p.SetSource(source))
	require.NoError(t, p.Prepare())

	assert.Equal(t, avplayer.StatePrepared, p.State())
	buf := p.FrameBuffer()
	require.NotNil(t, buf)
	assert.Equal(t, 640, buf.Width())
	assert.Equal(t, 480, buf.Height())
	assert.Equal(t, frame.RGB565, buf.Format())
	assert.Same(t, engine.Buffer(), buf)
	assert.Equal(t, []*frame.Buffer{buf}, sink.Binds())
	assert.Equal(t, []string{source}, engine.Sources())
}

func TestPrepareUsesConfiguredPixelFormat(t *testing.T) {
	engine := enginetest.New(320, 240)
	p := avplayer.NewPlayer(engine, nil, avplayer.WithPixelFormat(frame.RGBA8888))
	defer p.Close()

	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	require.NoError(t, p.Prepare())
	assert.Equal(t, frame.RGBA8888, p.FrameBuffer().Format())
	assert.Equal(t, 320*240*4, p.FrameBuffer().Len())
}

func TestPrepareEngineFailureAllowsRetry(t *testing.T) {
	engine := enginetest.New(720, 576)
	engine.PrepareCode = -3
	p := newPlayer(t, engine, nil)

	require.NoError(t, p.SetSource(writeSource(t, "broken.conf")))
	err := p.Prepare()

	var engineErr *avplayer.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, "prepare", engineErr.Op)
	assert.Equal(t, -3, engineErr.Code)
	assert.ErrorIs(t, err, avplayer.ErrEngineFailure)
	assert.EqualError(t, err, "prepare[-3]")
	assert.Equal(t, avplayer.StateUninitialized, p.State())
	assert.Nil(t, p.FrameBuffer())

	engine.PrepareCode = 0
	require.NoError(t, p.SetSource(writeSource(t, "working.conf")))
	require.NoError(t, p.Prepare())
	assert.Equal(t, avplayer.StatePrepared, p.State())
	assert.Equal(t, 720, p.FrameBuffer().Width())
}

func TestPrepareWithoutFrameBuffer(t *testing.T) {
	engine := enginetest.New(640, 480)
	engine.SkipPrepared = true
	p := newPlayer(t, engine, nil)

	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	assert.ErrorIs(t, p.Prepare(), avplayer.ErrNoFrameBuffer)
	assert.Equal(t, avplayer.StateUninitialized, p.State())
	assert.Nil(t, p.FrameBuffer())
}

func TestRePrepareCreatesNewBuffer(t *testing.T) {
	engine := enginetest.New(640, 480)
	sink := &recordingSink{}
	p := newPlayer(t, engine, sink)

	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	require.NoError(t, p.Prepare())
	first := p.FrameBuffer()

	engine.Width, engine.Height = 1920, 1080
	require.NoError(t, p.Prepare())
	second := p.FrameBuffer()

	assert.NotSame(t, first, second)
	assert.Equal(t, 1920, second.Width())
	assert.Equal(t, 640, first.Width())
	assert.Len(t, sink.Binds(), 2)
}

func TestSetSourceRejectedWhilePreparing(t *testing.T) {
	engine := &hookEngine{Engine: enginetest.New(640, 480)}
	p := newPlayer(t, engine, nil)
	source := writeSource(t, "a.conf")

	var stateDuring avplayer.State
	var errDuring error
	engine.beforePrepare = func() {
		stateDuring = p.State()
		errDuring = p.SetSource("/elsewhere")
	}

	require.NoError(t, p.SetSource(source))
	require.NoError(t, p.Prepare())

	assert.Equal(t, avplayer.StatePreparing, stateDuring)
	assert.ErrorIs(t, errDuring, avplayer.ErrInvalidState)
	assert.Equal(t, source, p.Source())
}

func TestStartBeforePrepare(t *testing.T) {
	engine := enginetest.New(640, 480)
	p := newPlayer(t, engine, nil)

	assert.ErrorIs(t, p.Start(), avplayer.ErrInvalidState)
	assert.Equal(t, avplayer.StateUninitialized, p.State())
	assert.Zero(t, engine.Count("start"))
}

func TestStartEngineFailure(t *testing.T) {
	engine := enginetest.New(640, 480)
	engine.StartCode = 7
	p := newPlayer(t, engine, nil)

	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	require.NoError(t, p.Prepare())

	err := p.Start()
	assert.ErrorIs(t, err, avplayer.ErrEngineFailure)
	assert.EqualError(t, err, "start[7]")
	assert.Equal(t, avplayer.StatePrepared, p.State())
}

func TestStartStopCycle(t *testing.T) {
	engine := enginetest.New(4, 2)
	p := newPlayer(t, engine, nil)

	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	require.NoError(t, p.Prepare())
	require.NoError(t, p.Start())
	assert.Equal(t, avplayer.StatePlaying, p.State())
	assert.ErrorIs(t, p.Start(), avplayer.ErrInvalidState)
	assert.ErrorIs(t, p.Prepare(), avplayer.ErrInvalidState)

	engine.EmitFrame([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
	buf := p.FrameBuffer()
	before := buf.Snapshot()

	require.NoError(t, p.Stop())
	assert.Equal(t, avplayer.StatePrepared, p.State())
	require.NoError(t, p.Stop())
	assert.Equal(t, avplayer.StatePrepared, p.State())

	assert.Same(t, buf, p.FrameBuffer())
	assert.Equal(t, before, p.FrameBuffer().Snapshot())
	assert.Equal(t, 1, engine.Count("stop"))

	require.NoError(t, p.Start())
	assert.Equal(t, avplayer.StatePlaying, p.State())
}

func TestStopRequiresPreparedOrPlaying(t *testing.T) {
	engine := enginetest.New(640, 480)
	p := newPlayer(t, engine, nil)

	assert.ErrorIs(t, p.Stop(), avplayer.ErrInvalidState)
	assert.Zero(t, engine.Count("stop"))
}

func TestStopEngineFailure(t *testing.T) {
	engine := enginetest.New(640, 480)
	engine.StopCode = -1
	p := newPlayer(t, engine, nil)

	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	require.NoError(t, p.Prepare())
	require.NoError(t, p.Start())

	assert.ErrorIs(t, p.Stop(), avplayer.ErrEngineFailure)
	assert.Equal(t, avplayer.StatePlaying, p.State())

	engine.StopCode = 0
}

func TestFrameDecodedRequestsRender(t *testing.T) {
	engine := enginetest.New(2, 2)
	sink := &recordingSink{}
	p := newPlayer(t, engine, sink)

	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	require.NoError(t, p.Prepare())
	require.NoError(t, p.Start())

	engine.EmitFrame([]byte{9, 9, 9, 9, 9, 9, 9, 9})
	engine.EmitFrame([]byte{8, 8, 8, 8, 8, 8, 8, 8})

	assert.Equal(t, 2, sink.Renders())
	assert.Equal(t, []byte{8, 8, 8, 8, 8, 8, 8, 8}, p.FrameBuffer().Snapshot())
}

func TestNotifyForwardedToObserver(t *testing.T) {
	engine := enginetest.New(640, 480)
	p := newPlayer(t, engine, nil)

	engine.Notify(avplayer.NotifyInfo, 1, 2)

	var got [][3]int
	p.SetOnNotify(func(code, ext1, ext2 int) {
		got = append(got, [3]int{code, ext1, ext2})
	})
	engine.Notify(avplayer.NotifyEndOfStream, 0, 0)
	engine.Notify(avplayer.NotifyError, -5, 3)

	assert.Equal(t, [][3]int{
		{avplayer.NotifyEndOfStream, 0, 0},
		{avplayer.NotifyError, -5, 3},
	}, got)
	assert.Equal(t, avplayer.StateUninitialized, p.State())
}

func TestBridgeHooksWithoutPrepare(t *testing.T) {
	engine := enginetest.New(640, 480)
	p := newPlayer(t, engine, nil)

	assert.Nil(t, avplayer.OnPrepared(p.Handle(), 640, 480))
	assert.Zero(t, avplayer.OnAudioSamples(p.Handle(), make([]int16, 1152)))
	assert.Nil(t, avplayer.OnPrepared(0, 640, 480))
	avplayer.OnFrameDecoded(0)
	avplayer.OnNotify(0, avplayer.NotifyError, 0, 0)
}

func TestCloseReleasesHandle(t *testing.T) {
	engine := enginetest.New(640, 480)
	sink := &recordingSink{}
	notified := 0
	p := avplayer.NewPlayer(engine, sink, avplayer.WithOnNotify(func(int, int, int) { notified++ }))
	handle := p.Handle()

	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	require.NoError(t, p.Prepare())
	require.NoError(t, p.Start())
	require.NoError(t, p.Close())

	assert.Equal(t, []string{"initialize", "prepare", "start", "stop", "close"}, engine.Calls())
	assert.Equal(t, avplayer.StateUnknown, p.State())
	assert.Nil(t, p.FrameBuffer())
	binds := sink.Binds()
	require.Len(t, binds, 2)
	assert.Nil(t, binds[1])

	assert.Nil(t, avplayer.OnPrepared(handle, 640, 480))
	avplayer.OnFrameDecoded(handle)
	avplayer.OnNotify(handle, avplayer.NotifyError, 0, 0)
	assert.Zero(t, sink.Renders())
	assert.Zero(t, notified)

	assert.ErrorIs(t, p.SetSource("x"), avplayer.ErrClosed)
	assert.ErrorIs(t, p.Prepare(), avplayer.ErrClosed)
	assert.ErrorIs(t, p.Start(), avplayer.ErrClosed)
	assert.ErrorIs(t, p.Stop(), avplayer.ErrClosed)
	assert.NoError(t, p.Close())
}

func TestClosedHandleNeverReachesNewPlayer(t *testing.T) {
	first := enginetest.New(640, 480)
	a := avplayer.NewPlayer(first, nil)
	stale := a.Handle()
	require.NoError(t, a.Close())

	for i := 0; i < 8; i++ {
		engine := enginetest.New(640, 480)
		sink := &recordingSink{}
		notified := 0
		b := newPlayer(t, engine, sink)
		b.SetOnNotify(func(int, int, int) { notified++ })
		require.NoError(t, b.SetSource(writeSource(t, "b.conf")))
		require.NoError(t, b.Prepare())

		assert.NotEqual(t, stale, b.Handle())
		assert.Nil(t, avplayer.OnPrepared(stale, 640, 480))
		avplayer.OnFrameDecoded(stale)
		avplayer.OnNotify(stale, avplayer.NotifyError, 0, 0)
		assert.Zero(t, sink.Renders())
		assert.Zero(t, notified)
		require.NoError(t, b.Close())
	}
}

func TestCloseWithFailingStopIgnoresLateCallbacks(t *testing.T) {
	engine := enginetest.New(640, 480)
	sink := &recordingSink{}
	notified := 0
	p := avplayer.NewPlayer(engine, sink, avplayer.WithOnNotify(func(int, int, int) { notified++ }))

	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	require.NoError(t, p.Prepare())
	require.NoError(t, p.Start())

	engine.StopCode = -7
	assert.ErrorIs(t, p.Close(), avplayer.ErrEngineFailure)

	next := newPlayer(t, enginetest.New(320, 240), nil)
	assert.NotEqual(t, p.Handle(), next.Handle())

	engine.EmitFrame([]byte{1})
	engine.Notify(avplayer.NotifyEndOfStream, 0, 0)
	assert.Zero(t, sink.Renders())
	assert.Zero(t, notified)
}

func TestFrameBufferHiddenWhilePreparing(t *testing.T) {
	engine := &hookEngine{Engine: enginetest.New(640, 480)}
	p := newPlayer(t, engine, nil)
	require.NoError(t, p.SetSource(writeSource(t, "a.conf")))
	require.NoError(t, p.Prepare())
	first := p.FrameBuffer()
	require.NotNil(t, first)

	var stateDuring avplayer.State
	var bufDuring *frame.Buffer
	engine.beforePrepare = func() {
		stateDuring = p.State()
		bufDuring = p.FrameBuffer()
	}
	engine.PrepareCode = -2
	assert.ErrorIs(t, p.Prepare(), avplayer.ErrEngineFailure)

	assert.Equal(t, avplayer.StatePreparing, stateDuring)
	assert.Nil(t, bufDuring)
	assert.Equal(t, avplayer.StatePrepared, p.State())
	assert.Same(t, first, p.FrameBuffer())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Unknown", avplayer.StateUnknown.String())
	assert.Equal(t, "Uninitialized", avplayer.StateUninitialized.String())
	assert.Equal(t, "Preparing", avplayer.StatePreparing.String())
	assert.Equal(t, "Prepared", avplayer.StatePrepared.String())
	assert.Equal(t, "Playing", avplayer.StatePlaying.String())
}
