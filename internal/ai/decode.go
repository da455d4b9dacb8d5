package ai

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

// DecodeStructured validates raw model output against the declared schema
// and coerces it into out. Weak typing tolerates minor representation
// drift; shape violations are hard decode failures. what names the workflow
// in user-facing messages.
func DecodeStructured(raw string, schema *Schema, out any, what string) error {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return NewDecodeError(fmt.Sprintf("The %s response was empty. Please try again.", what), nil)
	}

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return NewDecodeError(fmt.Sprintf("The %s response was not valid JSON.", what), err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema.JSONSchema()),
		gojsonschema.NewGoLoader(payload),
	)
	if err != nil {
		return NewDecodeError(fmt.Sprintf("The %s response could not be validated.", what), err)
	}

	if !result.Valid() {
		detail := ""
		if errs := result.Errors(); len(errs) > 0 {
			detail = ": " + errs[0].String()
		}
		return NewDecodeError(fmt.Sprintf("The %s response did not match the expected shape%s.", what, detail), nil)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return NewDecodeError(fmt.Sprintf("The %s response could not be decoded.", what), err)
	}

	if err := decoder.Decode(payload); err != nil {
		return NewDecodeError(fmt.Sprintf("The %s response could not be decoded.", what), err)
	}

	return nil
}
