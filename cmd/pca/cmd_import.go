package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pca/handler"
)

var reschedule bool

var importCmd = &cobra.Command{
	Use:   "import ASSESSMENT_FILE SERVER API_KEY",
	Short: "Import an assessment JSON file into GoPhish",
	Long: `Load the pages, groups and campaigns of an assessment JSON file onto a
GoPhish server. Resources already on the server under the same names are
replaced, never merged. With --reschedule only the campaigns are rebuilt,
for re-importing a file whose schedule changed.`,
	Args: cobra.ExactArgs(3),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&reschedule, "reschedule", "r", false,
		"only rebuild campaigns, keeping the pages and groups already on the server")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	assessmentFile, server, apiKey := args[0], args[1], args[2]

	a, err := newApp(ctx, server, apiKey)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	assessment, err := a.assessmentRepo.LoadAssessment(ctx, assessmentFile)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("load assessment file failed, path: %s, err: %v", assessmentFile, err)
		return err
	}
	log.Ctx(ctx).Info().Msgf("importing assessment, id: %s", assessment.GetID())

	res := new(handler.ImportAssessmentResponse)
	if err := a.importHandler.ImportAssessment(ctx, &handler.ImportAssessmentRequest{
		Assessment: assessment,
		Reschedule: reschedule,
	}, res); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Msgf("assessment %s loaded, campaigns: %d", assessment.GetID(), res.CampaignsBuilt)
	return nil
}
