package entities

import (
	"fmt"
	"strings"
)

// Itinerary is the ordered, de-duplicated list of sites a traveler plans to
// visit. Insertion order is meaningful: it defines visit order.
type Itinerary struct {
	Sites []Site `json:"sites"`
}

// Add appends site to the itinerary. Adding an id that is already present
// is a no-op; the return value reports whether the itinerary changed.
func (it *Itinerary) Add(site Site) bool {
	if it.Contains(site.ID) {
		return false
	}
	it.Sites = append(it.Sites, site)
	return true
}

// Remove drops the entry with the given id. Removing an absent id is a
// no-op; the return value reports whether the itinerary changed.
func (it *Itinerary) Remove(id string) bool {
	for i, s := range it.Sites {
		if s.ID == id {
			it.Sites = append(it.Sites[:i], it.Sites[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the itinerary unconditionally
func (it *Itinerary) Clear() {
	it.Sites = nil
}

// Contains reports whether a site with the given id is present
func (it *Itinerary) Contains(id string) bool {
	for _, s := range it.Sites {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of sites
func (it *Itinerary) Len() int {
	return len(it.Sites)
}

// ShareText renders the itinerary as the shareable plain-text summary the
// client hands to the platform share sheet.
func (it *Itinerary) ShareText() string {
	var b strings.Builder
	b.WriteString("Мой еврейский маршрут в Mishkan:\n\n")
	for i, s := range it.Sites {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, s.Name, s.Category.DisplayName())
	}
	b.WriteString("\nСоздано в приложении Mishkan.")
	return b.String()
}
