package domain

import "encoding/json"

const (
	ValidityUnrecognized = "unrecognized"
	ValidityForbidden    = "forbidden"
	ValidityIllegal      = "illegal"
	ValidityValueNull    = "value_null"
)

// SettingValidity is the per-setting outcome of a validation pass. It is
// transient: reported to the client, never persisted.
type SettingValidity struct {
	Valid   bool
	Code    string
	Message string
}

func ValidSetting() SettingValidity {
	return SettingValidity{Valid: true}
}

func InvalidSetting(code, message string) SettingValidity {
	return SettingValidity{Code: code, Message: message}
}

// MarshalJSON writes `true` for a valid setting and an object keyed by the
// failure code otherwise, so clients can test e.g.
// setting_validities["x"].forbidden without string comparisons.
func (v SettingValidity) MarshalJSON() ([]byte, error) {
	if v.Valid {
		return []byte("true"), nil
	}
	out := map[string]any{v.Code: true}
	if v.Message != "" {
		out["message"] = v.Message
	}
	return json.Marshal(out)
}

type SettingValidities map[string]SettingValidity

// AllValid reports whether no setting failed validation.
func (vs SettingValidities) AllValid() bool {
	for _, v := range vs {
		if !v.Valid {
			return false
		}
	}
	return true
}
