package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"katydid-course-admin/pkg/validator"
)

var (
	validateTab  string
	validateFile string
)

func init() {
	validateCmd.Flags().StringVarP(&validateTab, "tab", "t", "", "tab to validate ("+tabNames()+")")
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "-", "form data JSON file, - for stdin")
	_ = validateCmd.MarkFlagRequired("tab")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one tab of a course form",
	Long: `Validate reads a flat form data JSON object and prints the validation
result of the given tab. The exit code is 3 when the form is invalid.

Example:
  course-admin validate --tab pricing --file form.json`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := readForm(cmd, validateFile)
	if err != nil {
		return err
	}

	result, err := validator.Default().ValidateTab(validator.Tab(validateTab), data)
	if err != nil {
		return err
	}
	if err := writeJSON(cmd, result); err != nil {
		return err
	}
	if !result.IsValid {
		return fmt.Errorf("%w: %d error(s) in tab %s", errInvalidForm, len(result.Errors), validateTab)
	}
	return nil
}

func tabNames() string {
	tabs := validator.Tabs()
	names := make([]string, len(tabs))
	for i, tab := range tabs {
		names[i] = string(tab)
	}
	return strings.Join(names, ", ")
}
