package ecs

// StorageStats is a snapshot of the storage for diagnostics.
type StorageStats struct {
	EntityCount int
	Version     uint64
	Components  []ComponentStats
}

// ComponentStats describes one registered component type.
type ComponentStats struct {
	Name    string
	Present int
	Borrow  string
}

// CollectStats reports per-type occupancy and borrow state, in registration order.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		EntityCount: s.Len(),
		Version:     s.version,
		Components:  make([]ComponentStats, 0, len(s.registry.order)),
	}

	for _, t := range s.registry.order {
		entry := ComponentStats{Name: t.String(), Borrow: "free"}
		if col, ok := s.columns.Get(typeId(t)); ok {
			entry.Present = col.count()
			entry.Borrow = col.borrowState().String()
		}
		stats.Components = append(stats.Components, entry)
	}

	return stats
}
