package main

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pca/handler"
)

var testTargetsFile string

var errNoTargetsFile = errors.New("--targets is required")

var testCmd = &cobra.Command{
	Use:   "test ASSESSMENT_ID SERVER API_KEY",
	Short: "Mirror an assessment's campaigns as immediately sending test copies",
	Long: `Create a Test-<assessment id> group from a JSON target list and a
Test-<name> copy of every campaign in the assessment, with no schedule so
the copies send immediately. Lets the full send path be verified before
launch.`,
	Args: cobra.ExactArgs(3),
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringVar(&testTargetsFile, "targets", "", "path to a JSON file with the test targets")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	assessmentID, server, apiKey := args[0], args[1], args[2]

	if testTargetsFile == "" {
		return errNoTargetsFile
	}

	a, err := newApp(ctx, server, apiKey)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	targets, err := a.assessmentRepo.LoadTargets(ctx, testTargetsFile)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("load targets file failed, path: %s, err: %v", testTargetsFile, err)
		return err
	}

	res := new(handler.CreateTestCampaignsResponse)
	if err := a.testHandler.CreateTestCampaigns(ctx, &handler.CreateTestCampaignsRequest{
		AssessmentID: assessmentID,
		Targets:      targets,
	}, res); err != nil {
		return err
	}

	if res.CampaignsCreated > 0 {
		log.Ctx(ctx).Info().Msgf("%d test campaigns created, group: %s", res.CampaignsCreated, res.GroupName)
	}
	return nil
}
