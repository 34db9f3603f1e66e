package entities

// Category classifies a point of interest. The set is closed; anything a
// collaborator returns outside of it is coerced to CategoryHeritage.
type Category string

const (
	CategoryKosherFood Category = "kosher_food"
	CategorySynagogue  Category = "synagogue"
	CategoryGrave      Category = "grave_of_the_righteous"
	CategoryHeritage   Category = "heritage"
	CategoryGuideTip   Category = "guide_tip"
)

// categoryNames maps categories to the display names the client renders.
// The labels match the ones the mobile app ships with.
var categoryNames = map[Category]string{
	CategoryKosherFood: "Кошерная еда",
	CategorySynagogue:  "Синагоги",
	CategoryGrave:      "Могилы праведников",
	CategoryHeritage:   "Еврейское наследие",
	CategoryGuideTip:   "Совет гида",
}

// AllCategories lists every valid category
func AllCategories() []Category {
	return []Category{
		CategoryKosherFood,
		CategorySynagogue,
		CategoryGrave,
		CategoryHeritage,
		CategoryGuideTip,
	}
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human-readable label for the category
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryHeritage]
}

// ParseCategory resolves a category from either its code or its display
// name. Unknown values fall back to CategoryHeritage.
func ParseCategory(s string) Category {
	if Category(s).IsValid() {
		return Category(s)
	}
	for code, name := range categoryNames {
		if name == s {
			return code
		}
	}
	return CategoryHeritage
}

// Site represents a discovered point of interest. Sites are immutable after
// creation; the discovery boundary fills every optional field with a
// placeholder so nothing downstream has to null-check.
type Site struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Rating      float64  `json:"rating"`
	ImageURL    string   `json:"image_url,omitempty"`
	MapURI      string   `json:"uri,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Hours       string   `json:"hours,omitempty"`
	Cuisine     string   `json:"cuisine,omitempty"`
}

// HasCoordinates reports whether the site can be plotted on a map
func (s *Site) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
