package openai

import (
	"fmt"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

const siteSearchSystemPrompt = `Вы — поисковый ассистент приложения Mishkan для еврейских путешественников. Найдите реальные места по запросу пользователя. Верните ТОЛЬКО JSON массив объектов.
Поля: name, category (одна из: "Кошерная еда", "Синагоги", "Могилы праведников", "Еврейское наследие", "Совет гида"), description (кратко), address, rating (число), latitude, longitude, phone, hours, cuisine, uri (ссылка на карту, если известна).
Не добавляйте текста вне JSON массива.`

func buildSiteSearchUserPrompt(query string, loc *entities.Location, prefs entities.AppSettings) string {
	prompt := fmt.Sprintf("Найди %s. Учитывай: %s кашрут.", query, prefs.KashrutLevel)
	if loc != nil {
		prompt += fmt.Sprintf(" Рядом с координатами %.4f, %.4f.", loc.Latitude, loc.Longitude)
	}
	return prompt
}

func buildAssistantPersona(prefs entities.AppSettings) string {
	return fmt.Sprintf(
		"Вы — Мишкан AI, еврейский гид-ассистент. Кашрут: %s. Нусах: %s. Краткость - приоритет. Отвечайте мудро и лаконично.",
		prefs.KashrutLevel, prefs.Nusach,
	)
}
