package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"kycdocs/constants"
)

// BuildDraftSchema returns a JSON-Schema (draft 2020-12 subset) for a kind's
// draft as a generic map: every declared field optional, string or null (the
// model is told to emit null for absent fields; numeric slips like a bare
// height are tolerated and coerced later). Unknown keys are allowed here and
// stripped during decoding, so a chatty model degrades instead of failing.
func BuildDraftSchema(kind constants.DocKind) map[string]any {
	props := map[string]any{}
	for _, f := range PromptFields(kind) {
		props[f] = map[string]any{"type": []string{"string", "number", "boolean", "null"}}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
