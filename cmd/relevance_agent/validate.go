package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-relevance/internal/schemas"
	rootschemas "github.com/jonathan/resume-relevance/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a JSON schema",
	Long: `Validates a JSON document against a schema file, or against one of the built-in schemas
("relevance_dataset" or "feature_row") when --schema names one.`,
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema file path or built-in schema name (required)")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

// builtinSchemas maps names accepted by --schema to embedded schemas.
var builtinSchemas = map[string]string{
	"relevance_dataset": rootschemas.RelevanceDataset,
	"feature_row":       rootschemas.FeatureRow,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if schema, ok := builtinSchemas[validateSchema]; ok {
		data, readErr := os.ReadFile(validateJSON)
		if readErr != nil {
			return fmt.Errorf("failed to read JSON file: %w", readErr)
		}
		err = schemas.ValidateBytes(validateJSON, schema, data)
	} else {
		err = schemas.ValidateJSON(validateSchema, validateJSON)
	}

	if err == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Validation failed:")
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  - %s: %s\n", fe.Field, fe.Message)
		}
	}
	return err
}
