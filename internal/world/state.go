// Package world holds the mutable in-round game state: players, their
// cooldowns, and the arena geometry. Everything here is owned by the game
// loop goroutine.
package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tagarena/server/internal/item"
)

// State is the in-memory player registry.
type State struct {
	players map[uint64]*Player
	nextID  uint64
}

func NewState() *State {
	return &State{players: make(map[uint64]*Player, 16)}
}

// AddPlayer registers a new online player and returns it.
func (s *State) AddPlayer(name string) *Player {
	s.nextID++
	p := &Player{
		ID:     s.nextID,
		Name:   name,
		Online: true,
		Aim:    mgl64.Vec3{0, 0, 1},
	}
	s.players[p.ID] = p
	return p
}

// RemovePlayer drops a player from the registry.
func (s *State) RemovePlayer(id uint64) {
	delete(s.players, id)
}

// Get returns a player by ID, or nil.
func (s *State) Get(id uint64) *Player {
	return s.players[id]
}

// AllPlayers visits every registered player.
func (s *State) AllPlayers(fn func(*Player)) {
	for _, p := range s.players {
		fn(p)
	}
}

// Count returns the number of registered players.
func (s *State) Count() int {
	return len(s.players)
}

// Reachable implements ability.Presence: the controlling actor of an
// activity must still be online and in-world.
func (s *State) Reachable(actorID uint64) bool {
	p := s.players[actorID]
	return p != nil && p.Online
}

// HeldAndValid implements ability.Validity.
func (s *State) HeldAndValid(actorID uint64, id item.InstanceID) bool {
	p := s.players[actorID]
	return p != nil && p.IsHolding(id)
}

// FirstHit implements physics.EntityIndex: the first player body whose
// sphere intersects the swept segment, nearest contact first, excluding
// the launcher.
func (s *State) FirstHit(from, to mgl64.Vec3, radius float64, exclude uint64) (uint64, bool) {
	bestT := math.Inf(1)
	var bestID uint64
	hitRadius := radius + bodyRadius

	for id, p := range s.players {
		if id == exclude || !p.Online {
			continue
		}
		if t, ok := segmentSphere(from, to, p.Center(), hitRadius); ok && t < bestT {
			bestT = t
			bestID = id
		}
	}
	if bestID == 0 {
		return 0, false
	}
	return bestID, true
}

// PlayersWithin returns all online players whose center lies within radius
// of pos (explosion area queries).
func (s *State) PlayersWithin(pos mgl64.Vec3, radius float64) []*Player {
	var out []*Player
	for _, p := range s.players {
		if p.Online && p.Center().Sub(pos).Len() <= radius {
			out = append(out, p)
		}
	}
	return out
}

// NearestOpponent returns the closest online player on the other side, or
// nil when none exists.
func (s *State) NearestOpponent(of *Player) *Player {
	var nearest *Player
	best := math.Inf(1)
	for _, p := range s.players {
		if p.ID == of.ID || !p.Online || p.Role == of.Role {
			continue
		}
		if d := p.Pos.Sub(of.Pos).Len(); d < best {
			best = d
			nearest = p
		}
	}
	return nearest
}

// segmentSphere returns the smallest parameter t in [0, 1] at which the
// segment from+t*(to-from) touches the sphere, if it does.
func segmentSphere(from, to, center mgl64.Vec3, radius float64) (float64, bool) {
	d := to.Sub(from)
	f := from.Sub(center)

	a := d.Dot(d)
	if a == 0 {
		// Degenerate segment: point-in-sphere test.
		if f.Len() <= radius {
			return 0, true
		}
		return 0, false
	}
	b := 2 * f.Dot(d)
	c := f.Dot(f) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 >= 0 && t0 <= 1 {
		return t0, true
	}
	if t0 < 0 && t1 >= 0 {
		return 0, true // started inside the sphere
	}
	return 0, false
}
