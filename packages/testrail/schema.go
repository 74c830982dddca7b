package testrail

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// get_cases answers with a bare array on older servers and with a
// paginated {"cases": [...]} object on newer ones.
const casesSchema = `{
  "anyOf": [
    {"type": "array", "items": {"$ref": "#/definitions/case"}},
    {
      "type": "object",
      "required": ["cases"],
      "properties": {"cases": {"type": "array", "items": {"$ref": "#/definitions/case"}}}
    }
  ],
  "definitions": {
    "case": {"type": "object", "required": ["id"], "properties": {"id": {"type": "integer"}}}
  }
}`

const runSchema = `{
  "type": "object",
  "required": ["id"],
  "properties": {"id": {"type": "integer"}}
}`

var (
	casesSchemaLoader = gojsonschema.NewStringLoader(casesSchema)
	runSchemaLoader   = gojsonschema.NewStringLoader(runSchema)
)

// validate checks body against schema and reports every violation at once
func validate(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON response: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("unexpected response: %s", strings.Join(errs, "; "))
}
