package validation

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Letters, spaces and the punctuation people put in names: . ' - 
	nameRegex = regexp.MustCompile(`^[\p{L} .'-]+$`)

	// Skill tokens: letters, digits and the symbols used in tech names (C++, C#, Node.js, CI/CD)
	skillRegex = regexp.MustCompile(`^[\p{L}0-9 .+#/_-]+$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_skill", ValidSkill)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("application_status", ApplicationStatus)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

func ValidSkill(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return skillRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// ApplicationStatus accepts the four application states.
func ApplicationStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "interview", "response", "rejected":
		return true
	}
	return false
}
