package engine

import (
	"strings"

	"github.com/driftsound/retag/core/store"
)

// RemoveNamed stages removal of the named tags on f. Each name is
// matched against the generic view uppercased first, then exactly;
// when neither hits, well-known field names (artist, album, title,
// comment, genre, year, track) fall back to a direct clear, which
// reaches fields some formats keep outside the generic view. It
// returns how many names led to a removal.
func RemoveNamed(f store.File, names []string) int {
	props := f.Properties()
	removed := 0
	changed := false
	for _, name := range names {
		upper := strings.ToUpper(name)
		if _, ok := props[upper]; ok {
			delete(props, upper)
			removed++
			changed = true
			continue
		}
		if _, ok := props[name]; ok {
			delete(props, name)
			removed++
			changed = true
			continue
		}
		if f.ClearKnownField(name) {
			removed++
		}
	}
	if changed {
		f.SetProperties(props)
	}
	return removed
}

// RemoveAll strips every text tag from f. Embedded artwork survives;
// dropping it takes the explicit cover removal.
func RemoveAll(f store.File) {
	f.RemoveAllTags()
}
