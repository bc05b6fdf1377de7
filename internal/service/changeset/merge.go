package changeset

import (
	"encoding/json"
	"reflect"
	"sort"

	"customize-api/internal/domain"
)

func hasSettingsPayload(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// validateAndMerge runs the validation engine over a proposed settings
// payload and merges the surviving entries into the stored document.
//
// Creates are all-or-nothing: any invalid setting aborts the whole request.
// Updates accept partially, skipping settings that failed capability or
// sanitization checks, except unresolved ids which always abort. The
// per-setting outcomes are reported in the returned validities either way.
func (s *service) validateAndMerge(existing domain.SettingsDoc, raw json.RawMessage, user *domain.User, creating bool) (domain.SettingsDoc, domain.SettingValidities, error) {
	var proposed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &proposed); err != nil || proposed == nil {
		return nil, nil, domain.ErrInvalidChangesetData("Invalid changeset data")
	}

	merged := domain.SettingsDoc{}
	for id, params := range existing {
		merged[id] = params
	}

	validities := domain.SettingValidities{}
	unrecognized := false
	var abort *domain.Error

	ids := make([]string, 0, len(proposed))
	for id := range proposed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		def, ok := s.reg.ResolveSetting(id)
		if !ok {
			validities[id] = domain.InvalidSetting(domain.ValidityUnrecognized, "Setting does not exist or is unrecognized")
			unrecognized = true
			continue
		}

		if !s.caps.Can(user, def.Capability, id) {
			validities[id] = domain.InvalidSetting(domain.ValidityForbidden, "Not allowed to modify this setting")
			if creating && abort == nil {
				abort = domain.ErrForbidden("Not allowed to edit some of the settings")
			}
			continue
		}

		entry := proposed[id]

		// A JSON null (or the literal string "null") removes the entry.
		if isNullTombstone(entry) {
			delete(merged, id)
			validities[id] = domain.ValidSetting()
			continue
		}

		var params map[string]any
		if err := json.Unmarshal(entry, &params); err != nil || params == nil {
			validities[id] = domain.InvalidSetting(domain.ValidityIllegal, "Setting params must be an object")
			if creating && abort == nil {
				abort = domain.ErrInvalidChangesetData("Setting params must be an object")
			}
			continue
		}

		// A null value is never storable: removal goes through the
		// entry-level tombstone, so this is always a validation failure.
		value, hasValue := params["value"]
		if hasValue && value == nil {
			validities[id] = domain.InvalidSetting(domain.ValidityValueNull, "Invalid setting value")
			if creating && abort == nil {
				abort = domain.ErrInvalidChangesetData("Invalid setting value")
			}
			continue
		}

		if hasValue {
			sanitized, code, msg := def.Sanitize(value)
			if code != "" {
				validities[id] = domain.InvalidSetting(code, msg)
				if creating && abort == nil {
					abort = domain.ErrInvalidChangesetData(msg)
				}
				continue
			}
			params["value"] = sanitized
		}

		mergedParams := map[string]any{}
		for k, v := range existing[id] {
			mergedParams[k] = v
		}
		for k, v := range params {
			mergedParams[k] = v
		}

		// Identical content skips the write and keeps the original
		// author stamp on the entry.
		if prev, hadExisting := existing[id]; hadExisting && reflect.DeepEqual(map[string]any(prev), mergedParams) {
			validities[id] = domain.ValidSetting()
			continue
		}

		mergedParams["type"] = def.Type
		mergedParams["user_id"] = user.ID.String()
		merged[id] = mergedParams
		validities[id] = domain.ValidSetting()
	}

	if unrecognized {
		return nil, nil, domain.ErrInvalidChangesetData("Invalid setting")
	}
	if abort != nil {
		return nil, nil, abort
	}

	return merged, validities, nil
}

func isNullTombstone(entry json.RawMessage) bool {
	if string(entry) == "null" {
		return true
	}
	var s string
	if err := json.Unmarshal(entry, &s); err == nil && s == "null" {
		return true
	}
	return false
}
