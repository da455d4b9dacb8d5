package ai

// Schema type names, mirroring JSON Schema.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema declares the expected shape of structured model output. It is passed
// to the backend as a hard response constraint and reused on the decode side
// to validate what actually came back.
type Schema struct {
	Type        string
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	Enum        []string
}

// JSONSchema renders the descriptor as a JSON Schema document suitable for
// client-side validation of decoded model output.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}

	doc := map[string]any{"type": s.Type}

	if s.Description != "" {
		doc["description"] = s.Description
	}

	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		doc["properties"] = props
	}

	if len(s.Required) > 0 {
		doc["required"] = s.Required
	}

	if s.Items != nil {
		doc["items"] = s.Items.JSONSchema()
	}

	if len(s.Enum) > 0 {
		enum := make([]any, 0, len(s.Enum))
		for _, v := range s.Enum {
			enum = append(enum, v)
		}
		doc["enum"] = enum
	}

	return doc
}
