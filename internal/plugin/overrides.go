package plugin

import (
	"fmt"
	"sort"

	"github.com/feedkit/feedkit/internal/style"
)

type overrideEntry struct {
	key      style.Key
	fragment style.Fragment
}

func (l *Loader) recordOverride(name string, key style.Key, fragment style.Fragment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rec, ok := l.records[name]; ok {
		rec.overrides++
		rec.applied = append(rec.applied, overrideEntry{key: key, fragment: fragment.Clone()})
	}
}

// ReplaceOverrides swaps the overrides owned by the loaded plugin name for
// intents. Every key the plugin set before or sets now is resolved again
// across all plugins in load order: the plugin loaded last that sets a key
// owns it, and a key no plugin sets any more is cleared. It returns the
// number of keys set and cleared.
func (l *Loader) ReplaceOverrides(name string, intents []OverrideIntent) (set, cleared int, err error) {
	l.mu.Lock()
	rec, ok := l.records[name]
	if !ok || rec.state != StateLoaded {
		l.mu.Unlock()
		return 0, 0, fmt.Errorf("plugin '%s': %w", name, ErrNotLoaded)
	}

	affected := make(map[style.Key]struct{}, len(rec.applied)+len(intents))
	for _, entry := range rec.applied {
		affected[entry.key] = struct{}{}
	}
	rec.applied = make([]overrideEntry, 0, len(intents))
	for _, intent := range intents {
		key := style.Key{Component: intent.Component, Slot: intent.Slot}
		rec.applied = append(rec.applied, overrideEntry{key: key, fragment: intent.Style.Clone()})
		affected[key] = struct{}{}
	}
	rec.overrides = len(rec.applied)

	winners := l.owners(affected)
	l.mu.Unlock()

	keys := make([]style.Key, 0, len(affected))
	for key := range affected {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	for _, key := range keys {
		if fragment, ok := winners[key]; ok {
			l.overrides.SetOverride(key.Component, key.Slot, fragment)
			set++
			continue
		}
		l.overrides.ClearOverride(key.Component, key.Slot)
		cleared++
	}

	l.log.WithFields(map[string]any{
		"plugin":  name,
		"set":     set,
		"cleared": cleared,
	}).Debug("plugin overrides replaced")
	return set, cleared, nil
}

// owners returns the winning fragment for each key. Records are replayed in
// load order so the last writer wins. Must be called with l.mu held.
func (l *Loader) owners(keys map[style.Key]struct{}) map[style.Key]style.Fragment {
	ranked := make([]*record, 0, len(l.records))
	for _, rec := range l.records {
		if len(rec.applied) > 0 {
			ranked = append(ranked, rec)
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].rank < ranked[j].rank })

	winners := make(map[style.Key]style.Fragment)
	for _, rec := range ranked {
		for _, entry := range rec.applied {
			if _, ok := keys[entry.key]; ok {
				winners[entry.key] = entry.fragment
			}
		}
	}
	return winners
}
