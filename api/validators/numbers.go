package validators

import (
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

// ParseInt reads a required integer field within [min, max].
func ParseInt(raw, field string, min, max int) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed)).WithDetails(map[string]any{"field": field})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed)).WithDetails(map[string]any{"field": field, "min": min, "max": max})
	}
	return value, nil
}

// ParseOptionalInt is ParseInt where a blank value yields nil.
func ParseOptionalInt(raw, field string, min, max int) (*int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := ParseInt(raw, field, min, max)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
