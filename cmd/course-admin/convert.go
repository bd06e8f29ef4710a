package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"katydid-course-admin/pkg/form"
)

var convertFile string

func init() {
	convertCmd.Flags().StringVarP(&convertFile, "file", "f", "-", "form data JSON file, - for stdin")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Coerce form values and split them by backend resource",
	Long: `Convert applies the API type coercion to a flat form data JSON object and
prints the course, settings and pricing payloads that a save would send.
Fields that belong to no resource are dropped.`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	data, err := readForm(cmd, convertFile)
	if err != nil {
		return err
	}

	converted := form.ConvertToAPITypes(data)
	for _, key := range data.Keys() {
		if kind := form.Classify(key, data[key]); kind != form.KindPassthrough {
			log.Debug("field coerced",
				zap.String("field", key),
				zap.Stringer("kind", kind),
				zap.Any("from", data[key]),
				zap.Any("to", converted[key]))
		}
	}
	return writeJSON(cmd, form.SeparateFields(converted).Compact())
}
