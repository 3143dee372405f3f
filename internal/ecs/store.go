package ecs

// componentStore holds every instance of one component type using a sparse
// set: a dense slice for cheap deterministic iteration and a sparse index
// from entity uid to dense position.
type componentStore struct {
	dense  []storeEntry
	sparse map[uint32]int
}

type storeEntry struct {
	uid  uint32
	comp Component
}

func newComponentStore() *componentStore {
	return &componentStore{sparse: make(map[uint32]int)}
}

func (s *componentStore) set(uid uint32, c Component) {
	if i, ok := s.sparse[uid]; ok {
		s.dense[i].comp = c
		return
	}
	s.sparse[uid] = len(s.dense)
	s.dense = append(s.dense, storeEntry{uid: uid, comp: c})
}

func (s *componentStore) get(uid uint32) (Component, bool) {
	i, ok := s.sparse[uid]
	if !ok {
		return nil, false
	}
	return s.dense[i].comp, true
}

func (s *componentStore) has(uid uint32) bool {
	_, ok := s.sparse[uid]
	return ok
}

// remove swaps the last dense entry into the removed slot. Iteration order
// after removals is still deterministic across runs.
func (s *componentStore) remove(uid uint32) bool {
	i, ok := s.sparse[uid]
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	if i != last {
		s.dense[i] = s.dense[last]
		s.sparse[s.dense[i].uid] = i
	}
	s.dense = s.dense[:last]
	delete(s.sparse, uid)
	return true
}

func (s *componentStore) len() int {
	return len(s.dense)
}

// componentManager owns one store per registered component type.
type componentManager struct {
	stores map[ComponentID]*componentStore
}

func newComponentManager() *componentManager {
	return &componentManager{stores: make(map[ComponentID]*componentStore)}
}

func (m *componentManager) store(id ComponentID) *componentStore {
	st, ok := m.stores[id]
	if !ok {
		st = newComponentStore()
		m.stores[id] = st
	}
	return st
}

func (m *componentManager) tryStore(id ComponentID) (*componentStore, bool) {
	st, ok := m.stores[id]
	return st, ok
}

// entitiesWith returns the uids of every entity possessing all listed
// component types, in the iteration order of the smallest store.
func (m *componentManager) entitiesWith(ids ...ComponentID) []uint32 {
	if len(ids) == 0 {
		return nil
	}

	driver, ok := m.tryStore(ids[0])
	if !ok {
		return nil
	}
	for _, id := range ids[1:] {
		st, ok := m.tryStore(id)
		if !ok {
			return nil
		}
		if st.len() < driver.len() {
			driver = st
		}
	}

	var out []uint32
	for _, entry := range driver.dense {
		match := true
		for _, id := range ids {
			if !m.store(id).has(entry.uid) {
				match = false
				break
			}
		}
		if match {
			out = append(out, entry.uid)
		}
	}
	return out
}
