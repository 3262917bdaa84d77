package types

import "encoding/json"

// FieldType is the closed vocabulary of cabinet custom-field types.
// Values match the names the frontend persists inside cabinet schemas,
// so they are stable wire strings, not display labels.
type FieldType string

const (
	FieldTextWithSymbols FieldType = "Text/Number with Special Symbols"
	FieldTextOnly        FieldType = "Text Only"
	FieldNumberOnly      FieldType = "Number Only"
	FieldCurrency        FieldType = "Currency"
	FieldDate            FieldType = "Date"
	FieldTime            FieldType = "Time"
	FieldDateTime        FieldType = "Time and Date"
	FieldYesNo           FieldType = "Yes/No"
	FieldTags            FieldType = "Tags/Labels"
	FieldAttachment      FieldType = "Attachment"
)

// CustomFieldDef is one entry of a cabinet's field schema. Field identity is
// the ID, not the name; names may repeat or change after records exist.
type CustomFieldDef struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           FieldType `json:"type"`
	IsMandatory    bool      `json:"isMandatory"`
	CharacterLimit *int      `json:"characterLimit,omitempty"`
}

// RecordFieldValue is the validated {fieldId, type, value} triple stored on a
// record for every schema field that passed validation.
type RecordFieldValue struct {
	FieldID string    `json:"fieldId"`
	Type    FieldType `json:"type"`
	Value   any       `json:"value"`
}

// CabinetApprover is one entry of a cabinet's approver list.
type CabinetApprover struct {
	UserID string `json:"userId"`
}

func MarshalJSONB(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}
