package physics

// Handle identifies one launched projectile. It encodes a 32-bit slot index
// in the lower bits and a 32-bit generation in the upper bits; the
// generation increments when the slot is freed, so a handle kept past
// detonation is detectably stale rather than aliasing a newer launch.
type Handle uint64

func newHandle(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) index() uint32      { return uint32(h) }
func (h Handle) generation() uint32 { return uint32(h >> 32) }

// handlePool allocates handles with generational indices and a free list.
type handlePool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func (p *handlePool) alloc() Handle {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return newHandle(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return newHandle(idx, p.generations[idx])
}

func (p *handlePool) alive(h Handle) bool {
	idx := h.index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == h.generation()
}

func (p *handlePool) free(h Handle) {
	idx := h.index()
	if idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != h.generation() {
		return // already freed (stale handle)
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}
