package world

// CooldownStore tracks per-player, per-definition remaining cooldown ticks.
// Decremented once per game tick by the cooldown tick system; an entry at
// zero is removed, so map presence means "on cooldown".
type CooldownStore struct {
	remaining map[uint64]map[string]int
}

func NewCooldownStore() *CooldownStore {
	return &CooldownStore{remaining: make(map[uint64]map[string]int, 16)}
}

// IsOnCooldown implements item.CooldownService.
func (c *CooldownStore) IsOnCooldown(actorID uint64, defID string) bool {
	return c.remaining[actorID][defID] > 0
}

// SetCooldown implements item.CooldownService. Non-positive tick counts
// clear the entry.
func (c *CooldownStore) SetCooldown(actorID uint64, defID string, ticks int) {
	if ticks <= 0 {
		delete(c.remaining[actorID], defID)
		return
	}
	m := c.remaining[actorID]
	if m == nil {
		m = make(map[string]int, 4)
		c.remaining[actorID] = m
	}
	m[defID] = ticks
}

// Remaining returns the ticks left on a cooldown (0 = not on cooldown).
func (c *CooldownStore) Remaining(actorID uint64, defID string) int {
	return c.remaining[actorID][defID]
}

// Tick decrements every active cooldown by one, dropping expired entries.
func (c *CooldownStore) Tick() {
	for actorID, m := range c.remaining {
		for defID, ticks := range m {
			if ticks <= 1 {
				delete(m, defID)
			} else {
				m[defID] = ticks - 1
			}
		}
		if len(m) == 0 {
			delete(c.remaining, actorID)
		}
	}
}

// ClearActor drops all cooldowns of one player (leave / round reset).
func (c *CooldownStore) ClearActor(actorID uint64) {
	delete(c.remaining, actorID)
}
