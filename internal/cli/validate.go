package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	"github.com/bokehbridge/bokehbridge/internal/output"
)

var validateNoColor bool

// chartDefinitionSchema describes the json_item envelope the Python wrapper
// produces: the document with its roots, plus the target identifiers.
const chartDefinitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["doc"],
  "properties": {
    "target_id": { "type": ["string", "null"] },
    "root_id": { "type": ["string", "null"] },
    "doc": {
      "type": "object",
      "required": ["roots"],
      "properties": {
        "version": { "type": "string" },
        "title": { "type": "string" },
        "roots": {
          "type": "array",
          "minItems": 1,
          "items": { "type": "object" }
        }
      }
    }
  }
}`

var validateCmd = &cobra.Command{
	Use:   "validate [chart definition file...]",
	Short: "Validate chart definition files against the envelope schema",
	Long: `Validate checks that each file is well-formed JSON and matches the
json_item envelope the bridge expects: a document object carrying at
least one root. The bridge itself treats malformed definitions as a
caller contract violation, so validate is the way to check a definition
before shipping it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateNoColor, "no-color", false, "Disable colored output")
}

// validateDefinition checks one serialized definition against the envelope
// schema, returning the validation failure if any.
func validateDefinition(serialized string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("chart-definition.json", strings.NewReader(chartDefinitionSchema)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile("chart-definition.json")
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(serialized), &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return schema.Validate(doc)
}

func runValidate(cmd *cobra.Command, args []string) error {
	scheme := output.SchemeFor(validateNoColor)
	failures := 0

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		if err := validateDefinition(string(data)); err != nil {
			failures++
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n",
				output.ErrorIcon(validateNoColor), scheme.Highlight.Sprint(path), err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
			output.SuccessIcon(validateNoColor), scheme.Highlight.Sprint(path))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d definitions failed validation", failures, len(args))
	}
	return nil
}
