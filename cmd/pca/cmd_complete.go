package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pca/handler"
)

var (
	completeCampaignID   uint64
	completeCampaignName string
	completeAssessmentID string
	summaryOnly          bool
)

var errNoCampaignGiven = errors.New("one of --id, --campaign or --assessment is required")

var completeCmd = &cobra.Command{
	Use:   "complete SERVER API_KEY",
	Short: "Complete a campaign and print its summary",
	Long: `Mark a GoPhish campaign as complete and print its summary statistics.
The campaign is picked by --id or by its full --campaign name. With
--assessment instead, the assessment's campaigns are listed so one can be
picked. --summary-only skips the complete call and only prints the
summary.`,
	Args: cobra.ExactArgs(2),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().Uint64Var(&completeCampaignID, "id", 0, "campaign id, as listed by --assessment")
	completeCmd.Flags().StringVarP(&completeCampaignName, "campaign", "c", "", "full campaign name")
	completeCmd.Flags().StringVar(&completeAssessmentID, "assessment", "", "assessment id, lists its campaigns")
	completeCmd.Flags().BoolVarP(&summaryOnly, "summary-only", "s", false, "only print the campaign summary")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	server, apiKey := args[0], args[1]

	a, err := newApp(ctx, server, apiKey)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if completeCampaignID == 0 && completeCampaignName == "" {
		if completeAssessmentID == "" {
			return errNoCampaignGiven
		}

		listRes := new(handler.ListAssessmentCampaignsResponse)
		if err := a.completeHandler.ListAssessmentCampaigns(ctx, &handler.ListAssessmentCampaignsRequest{
			AssessmentID: completeAssessmentID,
		}, listRes); err != nil {
			return err
		}

		fmt.Println("Campaigns:")
		fmt.Println("\tID: Name")
		for _, campaign := range listRes.Campaigns {
			fmt.Printf("\t %d: %s\n", campaign.ID, campaign.Name)
		}
		fmt.Println("\nRerun with --id ID or --campaign NAME to complete one.")
		return nil
	}

	res := new(handler.CompleteCampaignResponse)
	if err := a.completeHandler.CompleteCampaign(ctx, &handler.CompleteCampaignRequest{
		CampaignID:   completeCampaignID,
		CampaignName: completeCampaignName,
		SummaryOnly:  summaryOnly,
	}, res); err != nil {
		return err
	}

	if res.Message != "" {
		fmt.Printf("\n%s\n", res.Message)
	}

	summary := res.Summary
	fmt.Println("Campaign Summary:")
	fmt.Printf("\tName: %s\n", summary.Name)
	fmt.Printf("\tStatus: %s\n", summary.Status)
	fmt.Printf("\tLaunch Date: %s\n", summary.LaunchDate)
	fmt.Printf("\tCompleted Date: %s\n", summary.CompletedDate)
	fmt.Printf("\tTotal Users: %d\n", summary.Stats.Total)
	fmt.Printf("\tTotal Sent: %d\n", summary.Stats.Sent)
	fmt.Printf("\tTotal Clicks: %d\n", summary.Stats.Clicked)

	return nil
}
