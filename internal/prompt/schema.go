package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Response schemas are reflected once at init; the contract types are static.
var (
	translationSchema = mustSchema(Translation{})
	explanationSchema = mustSchema(Explanation{})
)

// Schema returns the JSON schema for Translation responses, for providers
// that accept a structured-output format.
func Schema() json.RawMessage {
	return translationSchema
}

// ExplanationSchema returns the JSON schema for Explanation responses.
func ExplanationSchema() json.RawMessage {
	return explanationSchema
}

func mustSchema(v any) json.RawMessage {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	data, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		panic(fmt.Sprintf("prompt: reflecting response schema: %v", err))
	}
	return data
}
