package llm

import (
	"context"

	"kycdocs/constants"
)

// FieldDrafter is the interface the pipeline depends on: one outbound call to
// a language-model service per invocation, returning the raw response content.
// Parsing and coercion happen in DecodeDraft; the drafter never interprets.
type FieldDrafter interface {
	Draft(ctx context.Context, kind constants.DocKind, sourceText string) ([]byte, error)
}
