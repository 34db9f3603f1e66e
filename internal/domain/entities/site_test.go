package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  entities.Category
	}{
		{"kosher_food", entities.CategoryKosherFood},
		{"synagogue", entities.CategorySynagogue},
		{"Кошерная еда", entities.CategoryKosherFood},
		{"Могилы праведников", entities.CategoryGrave},
		{"Совет гида", entities.CategoryGuideTip},
		{"что-то ещё", entities.CategoryHeritage},
		{"", entities.CategoryHeritage},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, entities.ParseCategory(tt.input), "input %q", tt.input)
	}
}

func TestCategory_DisplayName(t *testing.T) {
	assert.Equal(t, "Синагоги", entities.CategorySynagogue.DisplayName())
	assert.Equal(t, "Еврейское наследие", entities.Category("bogus").DisplayName())
}

func TestSite_HasCoordinates(t *testing.T) {
	lat, lon := 55.75, 37.61

	s := entities.Site{ID: "s-1"}
	assert.False(t, s.HasCoordinates())

	s.Latitude = &lat
	assert.False(t, s.HasCoordinates())

	s.Longitude = &lon
	assert.True(t, s.HasCoordinates())
}
