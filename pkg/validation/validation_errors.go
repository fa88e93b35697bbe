package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to Russian labels shown to users
var FieldLabels = map[string]string{
	// Auth
	"Name":     "Имя",
	"Email":    "Email",
	"Password": "Пароль",

	// Profile
	"Avatar":   "Аватар",
	"Position": "Должность",
	"Skills":   "Навыки",
	"Salary":   "Зарплата",
	"Remote":   "Удалённая работа",
	"Location": "Город",

	// Resume
	"Content": "Текст резюме",

	// Applications
	"VacancyID":   "Вакансия",
	"ResumeID":    "Резюме",
	"CoverLetter": "Сопроводительное письмо",
	"Status":      "Статус",

	// AI
	"Text":  "Текст вакансии",
	"Limit": "Лимит",
}

var statusLabels = map[string]string{
	"pending":   "на рассмотрении",
	"interview": "собеседование",
	"response":  "ответ",
	"rejected":  "отказ",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.StructField())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: обязательное поле", label)

	case "min":
		switch e.Kind().String() {
		case "string":
			return fmt.Sprintf("%s: минимум %s символов", label, param)
		case "slice":
			return fmt.Sprintf("%s: минимум %s элементов", label, param)
		}
		return fmt.Sprintf("%s: не меньше %s", label, param)

	case "max":
		switch e.Kind().String() {
		case "string":
			return fmt.Sprintf("%s: максимум %s символов", label, param)
		case "slice":
			return fmt.Sprintf("%s: максимум %s элементов", label, param)
		}
		return fmt.Sprintf("%s: не больше %s", label, param)

	case "gt":
		return fmt.Sprintf("%s: должно быть больше %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s: допустимые значения: %s", label, formatOneOfOptions(param))

	case "email":
		return fmt.Sprintf("%s: некорректный формат email", label)

	case "url":
		return fmt.Sprintf("%s: некорректный URL", label)

	case "valid_name":
		return fmt.Sprintf("%s: допускаются только буквы, пробелы и знаки . ' -", label)

	case "valid_skill":
		return fmt.Sprintf("%s: недопустимые символы в названии навыка", label)

	case "no_emoji":
		return fmt.Sprintf("%s: не должно содержать эмодзи и спецсимволы", label)

	case "application_status":
		return fmt.Sprintf("%s: допустимые значения: %s", label, formatOneOfOptions("pending interview response rejected"))

	default:
		return fmt.Sprintf("%s: некорректное значение (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

func formatOneOfOptions(param string) string {
	options := strings.Fields(param)
	for i, opt := range options {
		if label, ok := statusLabels[opt]; ok {
			options[i] = fmt.Sprintf("%s (%s)", opt, label)
		}
	}
	return strings.Join(options, ", ")
}
