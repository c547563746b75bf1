package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"kycdocs/constants"
	"kycdocs/internal/common"
)

var (
	reFenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	reFenceClose = regexp.MustCompile("\\s*```$")
)

// StripFences removes leading/trailing markdown code-fence markers that some
// models wrap around their JSON despite instructions.
func StripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	s = reFenceOpen.ReplaceAllString(s, "")
	s = reFenceClose.ReplaceAllString(s, "")
	return []byte(s)
}

// DecodeDraft parses a raw model response into the kind's typed record.
// Fencing is tolerated; anything that is not a JSON object is a
// ModelResponseError; the caller decides the fallback, not this function.
// Values are coerced to trimmed strings (numbers and booleans formatted,
// nulls and empties dropped so the record field stays nil) and keys outside
// the declared set are discarded by the typed decode.
func DecodeDraft(kind constants.DocKind, raw []byte, out any) error {
	content := StripFences(raw)

	if err := ValidateJSONAgainstSchema(BuildDraftSchema(kind), content); err != nil {
		return fmt.Errorf("%w: %v", common.ErrModelResponse, err)
	}

	var m map[string]any
	if err := json.Unmarshal(content, &m); err != nil {
		return fmt.Errorf("%w: %v", common.ErrModelResponse, err)
	}

	cleaned := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				cleaned[k] = s
			}
		case float64:
			cleaned[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			cleaned[k] = strconv.FormatBool(t)
		}
	}

	b, err := json.Marshal(cleaned)
	if err != nil {
		return fmt.Errorf("encode cleaned draft: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrModelResponse, err)
	}
	return nil
}
