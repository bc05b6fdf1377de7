package registry

import (
	"fmt"
	"net/url"
	"strings"

	"customize-api/internal/domain"
)

// Sanitizers validate and normalize proposed setting values. A rejection
// returns the validity code reported back under setting_validities.

func SanitizeAny(value any) (any, string, string) {
	return value, "", ""
}

func SanitizeText(value any) (any, string, string) {
	s, ok := value.(string)
	if !ok {
		return nil, domain.ValidityIllegal, "expected a string value"
	}
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "<>") {
		return nil, domain.ValidityIllegal, "markup is not allowed"
	}
	return s, "", ""
}

func SanitizeBool(value any) (any, string, string) {
	switch v := value.(type) {
	case bool:
		return v, "", ""
	case float64:
		return v != 0, "", ""
	default:
		return nil, domain.ValidityIllegal, "expected a boolean value"
	}
}

func SanitizeInt(value any) (any, string, string) {
	// encoding/json decodes all numbers as float64. The value is kept as
	// float64 so re-submitting a stored document compares equal.
	f, ok := value.(float64)
	if !ok || f != float64(int64(f)) {
		return nil, domain.ValidityIllegal, "expected an integer value"
	}
	return f, "", ""
}

func SanitizeURL(value any) (any, string, string) {
	s, ok := value.(string)
	if !ok {
		return nil, domain.ValidityIllegal, "expected a URL string"
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, domain.ValidityIllegal, "expected an http or https URL"
	}
	return u.String(), "", ""
}

// SanitizeEnum restricts a setting to a fixed choice list.
func SanitizeEnum(choices ...string) domain.SanitizeFunc {
	return func(value any) (any, string, string) {
		s, ok := value.(string)
		if !ok {
			return nil, domain.ValidityIllegal, "expected a string value"
		}
		for _, c := range choices {
			if s == c {
				return s, "", ""
			}
		}
		return nil, domain.ValidityIllegal, fmt.Sprintf("%q is not one of the allowed choices", s)
	}
}

// SanitizeObject requires a JSON object, used for structured entries such as
// nav menu items and widget instances.
func SanitizeObject(value any) (any, string, string) {
	if _, ok := value.(map[string]any); !ok {
		return nil, domain.ValidityIllegal, "expected an object value"
	}
	return value, "", ""
}
