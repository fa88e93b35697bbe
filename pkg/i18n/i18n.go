// Package i18n holds the user-facing notices shown by the API and the client,
// in Russian (default) and English.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	InternalError   = "internal_error"
	RouteNotFound   = "route_not_found"
	NotFound        = "not_found"
	Unauthorized    = "unauthorized"
	SessionExpired  = "session_expired"
	Forbidden       = "forbidden"
	TooManyRequests = "too_many_requests"
	ServerError     = "server_error"
	NetworkError    = "network_error"
	ValidationError = "validation_error"
	ConflictError   = "conflict_error"
	LoginBlocked    = "login_blocked"
)

// Supported lists the available languages; the first one is the default.
var Supported = []language.Tag{language.Russian, language.English}

var (
	matcher = language.NewMatcher(Supported)
	cat     = catalog.NewBuilder(catalog.Fallback(language.Russian))
)

var entries = map[string][2]string{
	InternalError:   {"Внутренняя ошибка сервера", "Internal server error"},
	RouteNotFound:   {"Маршрут не найден", "Route not found"},
	NotFound:        {"Запрашиваемый ресурс не найден", "The requested resource was not found"},
	Unauthorized:    {"Требуется авторизация", "Authentication required"},
	SessionExpired:  {"Сессия истекла, войдите снова", "Your session has expired, please sign in again"},
	Forbidden:       {"Доступ запрещён", "Access denied"},
	TooManyRequests: {"Слишком много запросов, попробуйте позже", "Too many requests, please try again later"},
	ServerError:     {"Ошибка сервера, попробуйте позже", "Server error, please try again later"},
	NetworkError:    {"Нет соединения с сервером", "Cannot reach the server"},
	ValidationError: {"Проверьте введённые данные", "Please check the submitted data"},
	ConflictError:   {"Такая запись уже существует", "This record already exists"},
	LoginBlocked:    {"Слишком много неудачных попыток входа, попробуйте через %d мин.", "Too many failed sign-in attempts, try again in %d min"},
}

func init() {
	for key, texts := range entries {
		_ = cat.SetString(language.Russian, key, texts[0])
		_ = cat.SetString(language.English, key, texts[1])
	}
}

// Match picks the best supported language for an Accept-Language header value.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// Parse resolves a language name ("ru", "en-US") to a supported tag.
func Parse(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return Supported[0]
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// Text renders the message for key in lang.
func Text(lang language.Tag, key string, args ...interface{}) string {
	return message.NewPrinter(lang, message.Catalog(cat)).Sprintf(key, args...)
}
