package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema validates the converted (snake_case) document before
// decoding. Unknown keys are allowed; only declared fields are type
// checked.
const configSchema = `{
	"type": "object",
	"properties": {
		"data_dir": {"type": "string"},
		"workspace_path": {"type": "string"},
		"logging": {
			"type": "object",
			"properties": {
				"level": {"type": "string"},
				"file": {"type": "string"},
				"redaction": {"type": "boolean"}
			}
		},
		"history": {
			"type": "object",
			"properties": {
				"enabled": {"type": "boolean"},
				"db_path": {"type": "string"}
			}
		},
		"metrics": {
			"type": "object",
			"properties": {
				"enabled": {"type": "boolean"},
				"addr": {"type": "string"}
			}
		},
		"scheduler": {
			"type": "object",
			"properties": {
				"enabled": {"type": "boolean"},
				"jobs_path": {"type": "string"}
			}
		},
		"tools": {
			"type": "object",
			"properties": {
				"restrict_to_workspace": {"type": "boolean"},
				"exec": {
					"type": "object",
					"properties": {
						"timeout_seconds": {"type": "integer", "minimum": 1}
					}
				},
				"mcp_servers": {
					"type": "object",
					"additionalProperties": {
						"type": "object",
						"properties": {
							"command": {"type": "string"},
							"args": {"type": "array", "items": {"type": "string"}},
							"url": {"type": "string"},
							"env": {
								"type": "object",
								"additionalProperties": {"type": "string"}
							},
							"extra_headers": {
								"type": "object",
								"additionalProperties": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

// validateDocument checks the converted document against configSchema.
func validateDocument(doc map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
	}
	return nil
}
