package entities

// FeaturedSites are the static seed records the explore view shows before
// the first search. They mirror the records the client shipped with.
func FeaturedSites() []Site {
	return []Site{
		{
			ID:          "feat-1",
			Name:        "Центральная Синагога",
			Category:    CategorySynagogue,
			Description: "Величественное здание с богатой историей и активной общиной. Здесь проводятся ежедневные молитвы и уроки Торы.",
			Address:     "Большая Бронная ул., 6",
			Rating:      4.9,
			ImageURL:    "https://images.unsplash.com/photo-1543790101-70068a739564?auto=format&fit=crop&w=600&q=80",
			Hours:       "08:00 - 21:00",
		},
		{
			ID:          "feat-2",
			Name:        "Кошерный Ресторан \"Мишкан\"",
			Category:    CategoryKosherFood,
			Description: "Лучшее место для изысканного ужина. Строгий кашрут, авторская кухня и уютная атмосфера.",
			Address:     "ул. Образцова, 19",
			Rating:      4.8,
			Cuisine:     "Еврейская, Мясная",
			ImageURL:    "https://images.unsplash.com/photo-1559339352-11d035aa65de?auto=format&fit=crop&w=600&q=80",
			Hours:       "11:00 - 23:00",
		},
	}
}
