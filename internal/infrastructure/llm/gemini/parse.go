package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
)

// resultSchema pins the overall response shape without requiring every field:
// the model occasionally omits sections, and absence is a valid empty finding.
const resultSchema = `{
  "type": "object",
  "properties": {
    "iso_analysis": {
      "type": "array",
      "items": {"type": "object"}
    },
    "found_documents": {
      "type": "array",
      "items": {"type": "object"}
    },
    "wras_analysis": {"type": "object"}
  }
}`

var compiledResultSchema = mustCompileSchema(resultSchema)

func mustCompileSchema(raw string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("batch_result.json", bytes.NewReader([]byte(raw))); err != nil {
		panic(fmt.Sprintf("add batch result schema: %v", err))
	}
	schema, err := compiler.Compile("batch_result.json")
	if err != nil {
		panic(fmt.Sprintf("compile batch result schema: %v", err))
	}
	return schema
}

// parseBatchResult decodes the model's JSON answer. The service has been
// observed to wrap the object in a single-element array; that shape is
// salvaged by taking the first element.
func parseBatchResult(raw string) (domain.AnalysisBatchResult, error) {
	payload := strings.TrimSpace(raw)

	if strings.HasPrefix(payload, "[") {
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(payload), &elements); err != nil {
			return domain.AnalysisBatchResult{}, domain.WrapError(domain.ErrClassification, "parse response array", err)
		}
		if len(elements) == 0 {
			return domain.AnalysisBatchResult{}, domain.WrapError(domain.ErrClassification, "parse response array", fmt.Errorf("empty array response"))
		}
		payload = string(elements[0])
	}

	var generic any
	if err := json.Unmarshal([]byte(payload), &generic); err != nil {
		return domain.AnalysisBatchResult{}, domain.WrapError(domain.ErrClassification, "parse response", err)
	}
	if err := compiledResultSchema.Validate(generic); err != nil {
		return domain.AnalysisBatchResult{}, domain.WrapError(domain.ErrClassification, "validate response shape", err)
	}

	var result domain.AnalysisBatchResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return domain.AnalysisBatchResult{}, domain.WrapError(domain.ErrClassification, "decode response", err)
	}
	return result, nil
}
