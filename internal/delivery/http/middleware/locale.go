package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/i18n"
)

// Locale resolves the response language from ?lang or Accept-Language.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tag language.Tag
		if lang := c.Query("lang"); lang != "" {
			tag = i18n.Parse(lang)
		} else {
			tag = i18n.Match(c.GetHeader("Accept-Language"))
		}
		c.Set(string(domain.KeyLocale), tag)
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

// localeOf falls back to the default language when Locale did not run.
func localeOf(c *gin.Context) language.Tag {
	if v, ok := c.Get(string(domain.KeyLocale)); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return i18n.Supported[0]
}

// Text renders an i18n message in the request's language.
func Text(c *gin.Context, key string, args ...interface{}) string {
	return i18n.Text(localeOf(c), key, args...)
}
