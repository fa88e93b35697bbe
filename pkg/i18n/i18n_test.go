package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	assert.Equal(t, language.Russian, Match(""))
	assert.Equal(t, language.Russian, Match("ru-RU,ru;q=0.9"))
	assert.Equal(t, language.English, Match("en-US,en;q=0.9,ru;q=0.5"))
	assert.Equal(t, language.Russian, Match("ja-JP"))
	assert.Equal(t, language.Russian, Match(";;garbage"))
}

func TestParse(t *testing.T) {
	assert.Equal(t, language.English, Parse("en"))
	assert.Equal(t, language.Russian, Parse("ru"))
	assert.Equal(t, language.Russian, Parse("not a tag"))
}

func TestText(t *testing.T) {
	assert.Equal(t, "Маршрут не найден", Text(language.Russian, RouteNotFound))
	assert.Equal(t, "Route not found", Text(language.English, RouteNotFound))
	assert.Equal(t, "Too many failed sign-in attempts, try again in 15 min", Text(language.English, LoginBlocked, 15))
	assert.Equal(t, "Слишком много неудачных попыток входа, попробуйте через 15 мин.", Text(language.Russian, LoginBlocked, 15))
}
