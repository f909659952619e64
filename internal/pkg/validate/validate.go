package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// panelIDPattern matches a single dashboard panel id.
var panelIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// "layout" accepts a comma-separated list of panel ids.
	if err := val.RegisterValidation("layout", func(fl validator.FieldLevel) bool {
		return validLayout(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return val
}

func validLayout(s string) bool {
	for _, part := range strings.Split(s, ",") {
		if !panelIDPattern.MatchString(strings.TrimSpace(part)) {
			return false
		}
	}
	return true
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s any) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
