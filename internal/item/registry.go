package item

import "fmt"

// Registry maps definition IDs to their ability items. Built once at boot;
// read-only afterward.
type Registry struct {
	items map[string]*AbilityItem
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*AbilityItem, 16)}
}

func (r *Registry) Register(a *AbilityItem) error {
	if _, dup := r.items[a.Def.ID]; dup {
		return fmt.Errorf("ability item %q already registered", a.Def.ID)
	}
	r.items[a.Def.ID] = a
	return nil
}

// Get returns the ability item for a definition ID, or nil.
func (r *Registry) Get(defID string) *AbilityItem {
	return r.items[defID]
}

// Use dispatches a use attempt for the given instance. Unknown definitions
// fail the use silently, matching the guard-rejection contract.
func (r *Registry) Use(inst *Instance, actorID uint64) bool {
	a := r.items[inst.DefID]
	if a == nil {
		return false
	}
	return a.Use(inst, actorID)
}

func (r *Registry) Count() int {
	return len(r.items)
}
