package quest

// Snapshot is the persisted state of a journal.
type Snapshot struct {
	Quests []Quest
	LastID int // highest id ever issued; ids at or below it are never reused
}

// Store loads and saves a whole journal at once.
type Store interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// MemoryStore is an in-process Store for tests.
type MemoryStore struct {
	snap  Snapshot
	saves int

	// SaveErr, when set, is returned by every Save without storing anything.
	SaveErr error
}

// NewMemoryStore returns a store preloaded with quests.
func NewMemoryStore(quests ...Quest) *MemoryStore {
	return &MemoryStore{snap: Snapshot{Quests: cloneQuests(quests)}}
}

// Load returns a copy of the stored snapshot.
func (m *MemoryStore) Load() (Snapshot, error) {
	return Snapshot{Quests: cloneQuests(m.snap.Quests), LastID: m.snap.LastID}, nil
}

// Save replaces the stored snapshot.
func (m *MemoryStore) Save(s Snapshot) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snap = Snapshot{Quests: cloneQuests(s.Quests), LastID: s.LastID}
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	return m.saves
}

func cloneQuests(qs []Quest) []Quest {
	if qs == nil {
		return nil
	}
	out := make([]Quest, len(qs))
	copy(out, qs)
	return out
}
