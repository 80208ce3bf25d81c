package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pca/handler"
)

var exportCmd = &cobra.Command{
	Use:   "export ASSESSMENT_ID SERVER API_KEY",
	Short: "Export all data of an assessment into JSON artifacts",
	Long: `Pull the targets, campaign timelines and summary statistics of an
assessment off a GoPhish server and write them as local JSON and text
artifacts. Target emails never appear in the artifacts, only their
hashed identifiers.`,
	Args: cobra.ExactArgs(3),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	assessmentID, server, apiKey := args[0], args[1], args[2]

	a, err := newApp(ctx, server, apiKey)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	res := new(handler.ExportAssessmentResponse)
	if err := a.exportHandler.ExportAssessment(ctx, &handler.ExportAssessmentRequest{
		AssessmentID: assessmentID,
	}, res); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Msgf("data written to %s", res.DataPath)
	return nil
}
