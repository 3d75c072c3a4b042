package stream

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"tv-frame/pkg/avplayer"
	"tv-frame/pkg/channels"
)

// Event is a status notification raised by the decode engine.
type Event struct {
	Code, Ext1, Ext2 int
}

// Ended reports whether the event terminates playback.
func (e Event) Ended() bool {
	return e.Code == avplayer.NotifyEndOfStream || e.Code == avplayer.NotifyError
}

func (e Event) String() string {
	switch e.Code {
	case avplayer.NotifyEndOfStream:
		return "end of stream"
	case avplayer.NotifyError:
		return fmt.Sprintf("decode error %d", e.Ext1)
	case avplayer.NotifyInfo:
		return fmt.Sprintf("picture %dx%d", e.Ext1, e.Ext2)
	default:
		return fmt.Sprintf("notify %d (%d, %d)", e.Code, e.Ext1, e.Ext2)
	}
}

// Session plays one channel. It owns the Player and the session file the
// channel configuration is written to.
type Session struct {
	channel channels.Channel
	path    string
	player  *avplayer.Player
	events  chan Event

	closeOnce sync.Once
	closeErr  error
}

// Start writes ch to a session file in dir and plays it through engine,
// pushing frames into sink. Any failure tears everything down again.
func Start(ch channels.Channel, dir string, engine avplayer.Engine, sink avplayer.FrameSink, opts ...avplayer.Option) (*Session, error) {
	path, err := channels.WriteSession(dir, ch)
	if err != nil {
		return nil, err
	}

	s := &Session{
		channel: ch,
		path:    path,
		events:  make(chan Event, 8),
	}
	// The notify observer runs on the engine's goroutine and must not block
	// or call back into the Player.
	opts = append(opts, avplayer.WithOnNotify(s.notify))
	s.player = avplayer.NewPlayer(engine, sink, opts...)

	if err := s.start(); err != nil {
		s.Close()
		return nil, err
	}
	log.Printf("Start: watching %q | session=%s", ch.Name, path)
	return s, nil
}

func (s *Session) start() error {
	if err := s.player.SetSource(s.path); err != nil {
		return err
	}
	if err := s.player.Prepare(); err != nil {
		return fmt.Errorf("prepare %q: %w", s.channel.Name, err)
	}
	if err := s.player.Start(); err != nil {
		return fmt.Errorf("start %q: %w", s.channel.Name, err)
	}
	return nil
}

func (s *Session) notify(code, ext1, ext2 int) {
	ev := Event{Code: code, Ext1: ext1, Ext2: ext2}
	select {
	case s.events <- ev:
	default:
		log.Printf("notify: dropping %s, queue full", ev)
	}
}

// Channel returns the channel being played.
func (s *Session) Channel() channels.Channel {
	return s.channel
}

// Player returns the underlying Player.
func (s *Session) Player() *avplayer.Player {
	return s.player
}

// Events delivers engine notifications. It is never closed.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Stop halts decoding but keeps the session open for Resume.
func (s *Session) Stop() error {
	return s.player.Stop()
}

// Resume restarts decoding after Stop.
func (s *Session) Resume() error {
	return s.player.Start()
}

// Close stops playback, releases the Player and removes the session file.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.player != nil {
			if err := s.player.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
		s.closeErr = errors.Join(errs...)
		log.Printf("Close: session for %q ended", s.channel.Name)
	})
	return s.closeErr
}
