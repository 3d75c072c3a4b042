package avplayer

import (
	"sync"
	"sync/atomic"
)

// Handles come from a counter and are never reused, so a handle that
// outlives its Player can never resolve to a later one.
var (
	lastHandle atomic.Uint64
	registry   sync.Map // Handle -> *Player
)

// register stores p under a fresh handle. The engine only ever sees the
// returned key, never the Player itself.
func register(p *Player) Handle {
	h := Handle(lastHandle.Add(1))
	registry.Store(h, p)
	return h
}

// lookup resolves a handle. It returns nil for unknown or released handles.
func lookup(h Handle) *Player {
	if h == 0 {
		return nil
	}
	v, ok := registry.Load(h)
	if !ok {
		return nil
	}
	return v.(*Player)
}

// unregister drops the registry entry.
func unregister(h Handle) {
	registry.Delete(h)
}
