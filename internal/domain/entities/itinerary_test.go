package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

func site(id, name string, category entities.Category) entities.Site {
	return entities.Site{ID: id, Name: name, Category: category}
}

func TestItinerary_Add_IsIdempotentByID(t *testing.T) {
	var it entities.Itinerary

	assert.True(t, it.Add(site("s-1", "Синагога", entities.CategorySynagogue)))
	assert.False(t, it.Add(site("s-1", "Другое имя", entities.CategoryHeritage)))
	assert.Equal(t, 1, it.Len())
	assert.Equal(t, "Синагога", it.Sites[0].Name)
}

func TestItinerary_Remove(t *testing.T) {
	var it entities.Itinerary
	it.Add(site("s-1", "А", entities.CategorySynagogue))
	it.Add(site("s-2", "Б", entities.CategoryKosherFood))

	assert.True(t, it.Remove("s-1"))
	assert.False(t, it.Remove("s-1"))
	assert.Equal(t, 1, it.Len())
	assert.Equal(t, "s-2", it.Sites[0].ID)
}

func TestItinerary_InsertionOrderSurvivesRoundTrip(t *testing.T) {
	var it entities.Itinerary
	it.Add(site("s-3", "В", entities.CategoryGrave))
	it.Add(site("s-1", "А", entities.CategorySynagogue))
	it.Add(site("s-2", "Б", entities.CategoryKosherFood))

	data, err := json.Marshal(it)
	assert.NoError(t, err)

	var reloaded entities.Itinerary
	assert.NoError(t, json.Unmarshal(data, &reloaded))

	ids := make([]string, 0, reloaded.Len())
	for _, s := range reloaded.Sites {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s-3", "s-1", "s-2"}, ids)
}

func TestItinerary_Clear(t *testing.T) {
	var it entities.Itinerary
	it.Add(site("s-1", "А", entities.CategorySynagogue))

	it.Clear()

	assert.Equal(t, 0, it.Len())
	assert.False(t, it.Contains("s-1"))
}

func TestItinerary_ShareText(t *testing.T) {
	var it entities.Itinerary
	it.Add(site("s-1", "Центральная Синагога", entities.CategorySynagogue))
	it.Add(site("s-2", "Кошерный Ресторан", entities.CategoryKosherFood))

	text := it.ShareText()

	assert.Equal(t,
		"Мой еврейский маршрут в Mishkan:\n\n"+
			"1. Центральная Синагога (Синагоги)\n"+
			"2. Кошерный Ресторан (Кошерная еда)\n"+
			"\nСоздано в приложении Mishkan.",
		text)
}
