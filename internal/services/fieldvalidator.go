package services

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/NatiqIskandarli/papercut-backend/internal/platform/apierr"
	"github.com/NatiqIskandarli/papercut-backend/internal/types"
)

// ValidateFields validates a submitted field map against a cabinet's schema
// and returns the validated {fieldId, type, value} triples keyed by field id.
// Validation is fail-fast: the first violation aborts with an invalid_input
// error naming the offending field. Submitted keys not present in the schema
// are silently dropped; schema fields that were not submitted (and are not
// mandatory) are omitted from the result rather than stored as null.
func ValidateFields(submitted map[string]any, schema []types.CustomFieldDef) (map[string]types.RecordFieldValue, error) {
	out := make(map[string]types.RecordFieldValue, len(schema))
	for _, def := range schema {
		raw, submittedOK := submitted[def.ID]
		value := unwrapFieldValue(raw)

		present := submittedOK && fieldValuePresent(def.Type, value)
		if def.IsMandatory && !present {
			return nil, apierr.InvalidInput("mandatory field %q is missing", def.Name)
		}
		if !present {
			continue
		}

		validate, known := fieldValidators[def.Type]
		if !known {
			// Unknown type: pass through unmodified.
			out[def.ID] = types.RecordFieldValue{FieldID: def.ID, Type: def.Type, Value: value}
			continue
		}
		validated, err := validate(def, value)
		if err != nil {
			return nil, err
		}
		out[def.ID] = types.RecordFieldValue{FieldID: def.ID, Type: def.Type, Value: validated}
	}
	return out, nil
}

// unwrapFieldValue strips a {value: ...} wrapper if the client sent one.
func unwrapFieldValue(raw any) any {
	if m, ok := raw.(map[string]any); ok {
		if inner, has := m["value"]; has {
			return inner
		}
	}
	return raw
}

// fieldValuePresent decides whether a submitted value counts as present.
// Attachments are present when a non-empty object was sent; everything else
// is present unless nil or empty string.
func fieldValuePresent(fieldType types.FieldType, value any) bool {
	if fieldType == types.FieldAttachment {
		m, ok := value.(map[string]any)
		return ok && len(m) > 0
	}
	if value == nil {
		return false
	}
	if s, ok := value.(string); ok && s == "" {
		return false
	}
	return true
}

type fieldValidatorFunc func(def types.CustomFieldDef, value any) (any, error)

// fieldValidators is the exhaustive dispatch table over the closed field-type
// vocabulary. Types absent from this table pass through unmodified.
var fieldValidators = map[types.FieldType]fieldValidatorFunc{
	types.FieldTextWithSymbols: validateTextWithSymbols,
	types.FieldTextOnly:        validateTextOnly,
	types.FieldNumberOnly:      validateNumberOnly,
	types.FieldCurrency:        validateCurrency,
	types.FieldDate:            validateDateValue,
	types.FieldTime:            validateDateValue,
	types.FieldDateTime:        validateDateValue,
	types.FieldYesNo:           validateYesNo,
	types.FieldTags:            validateTags,
	types.FieldAttachment:      validateAttachment,
}

func validateTextWithSymbols(def types.CustomFieldDef, value any) (any, error) {
	s, err := stringifyFieldValue(def, value)
	if err != nil {
		return nil, err
	}
	if err := checkCharacterLimit(def, s); err != nil {
		return nil, err
	}
	return s, nil
}

func validateTextOnly(def types.CustomFieldDef, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, apierr.InvalidInput("field %q must be text", def.Name)
	}
	if err := checkCharacterLimit(def, s); err != nil {
		return nil, err
	}
	return s, nil
}

func validateNumberOnly(def types.CustomFieldDef, value any) (any, error) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) {
			return nil, apierr.InvalidInput("field %q must be a valid number", def.Name)
		}
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) {
			return nil, apierr.InvalidInput("field %q must be a valid number", def.Name)
		}
		return f, nil
	}
	return nil, apierr.InvalidInput("field %q must be a valid number", def.Name)
}

func validateCurrency(def types.CustomFieldDef, value any) (any, error) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) {
			return nil, apierr.InvalidInput("field %q must be a valid currency amount", def.Name)
		}
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) {
			return nil, apierr.InvalidInput("field %q must be a valid currency amount", def.Name)
		}
		return f, nil
	}
	return nil, apierr.InvalidInput("field %q must be a valid currency amount", def.Name)
}

// dateLayouts are the string shapes accepted verbatim for Date/Time/Time and
// Date fields. A string matching any layout is stored exactly as submitted.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02.01.2006",
	"15:04:05",
	"15:04",
}

// fallbackDateLayouts are looser shapes that are accepted but rewritten to
// RFC 3339 rather than stored verbatim.
var fallbackDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
	"2006/01/02",
	time.RFC1123,
	time.RFC822,
}

func validateDateValue(def types.CustomFieldDef, value any) (any, error) {
	switch v := value.(type) {
	case string:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, v); err == nil {
				return v, nil
			}
		}
		for _, layout := range fallbackDateLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed.UTC().Format(time.RFC3339), nil
			}
		}
		return nil, apierr.InvalidInput("field %q must be a valid date/time", def.Name)
	case float64:
		// Epoch milliseconds from clients that send raw timestamps.
		if math.IsNaN(v) {
			return nil, apierr.InvalidInput("field %q must be a valid date/time", def.Name)
		}
		return time.UnixMilli(int64(v)).UTC().Format(time.RFC3339), nil
	}
	return nil, apierr.InvalidInput("field %q must be a valid date/time", def.Name)
}

func validateYesNo(def types.CustomFieldDef, value any) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, apierr.InvalidInput("field %q must be a boolean", def.Name)
	}
	return b, nil
}

func validateTags(def types.CustomFieldDef, value any) (any, error) {
	switch value.(type) {
	case []any, []string:
		return value, nil
	}
	return nil, apierr.InvalidInput("field %q must be a list", def.Name)
}

func validateAttachment(def types.CustomFieldDef, value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, apierr.InvalidInput("field %q is missing file info", def.Name)
	}
	fileName, _ := m["fileName"].(string)
	filePath, _ := m["filePath"].(string)
	if fileName == "" || filePath == "" {
		return nil, apierr.InvalidInput("field %q is missing file info", def.Name)
	}
	return m, nil
}

func stringifyFieldValue(def types.CustomFieldDef, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		if math.IsNaN(v) {
			return "", apierr.InvalidInput("field %q must be text", def.Name)
		}
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case bool:
		return fmt.Sprintf("%t", v), nil
	}
	return "", apierr.InvalidInput("field %q must be text", def.Name)
}

func checkCharacterLimit(def types.CustomFieldDef, s string) error {
	if def.CharacterLimit != nil && *def.CharacterLimit > 0 && len([]rune(s)) > *def.CharacterLimit {
		return apierr.InvalidInput("field %q exceeds the %d character limit", def.Name, *def.CharacterLimit)
	}
	return nil
}
