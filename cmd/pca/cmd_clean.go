package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pca/handler"
)

var (
	cleanAssessment bool
	cleanCampaigns  bool
	cleanGroups     bool
	cleanPages      bool
	cleanSmtp       bool
	cleanTemplates  bool
	cleanYes        bool
)

var (
	errNoCleanScope       = errors.New("one of --assessment, --campaigns, --groups, --pages, --smtp or --templates is required")
	errMultipleCleanScope = errors.New("only one removal scope may be given")
	errCleanAborted       = errors.New("removal aborted")
)

var cleanCmd = &cobra.Command{
	Use:   "clean ASSESSMENT_ID SERVER API_KEY",
	Short: "Remove an assessment or elements of an assessment from GoPhish",
	Long: `Remove everything on a GoPhish server whose name carries the assessment
id prefix, or only one resource kind of it. Removal is destructive and
asks for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(3),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanAssessment, "assessment", "a", false, "remove all data of the assessment")
	cleanCmd.Flags().BoolVarP(&cleanCampaigns, "campaigns", "c", false, "remove the assessment's campaigns")
	cleanCmd.Flags().BoolVarP(&cleanGroups, "groups", "g", false, "remove the assessment's users and groups")
	cleanCmd.Flags().BoolVarP(&cleanPages, "pages", "p", false, "remove the assessment's landing pages")
	cleanCmd.Flags().BoolVarP(&cleanSmtp, "smtp", "s", false, "remove the assessment's sender profiles")
	cleanCmd.Flags().BoolVarP(&cleanTemplates, "templates", "t", false, "remove the assessment's email templates")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func cleanScope() (handler.CleanScope, error) {
	scopes := map[handler.CleanScope]bool{
		handler.ScopeAssessment: cleanAssessment,
		handler.ScopeCampaigns:  cleanCampaigns,
		handler.ScopeGroups:     cleanGroups,
		handler.ScopePages:      cleanPages,
		handler.ScopeSmtp:       cleanSmtp,
		handler.ScopeTemplates:  cleanTemplates,
	}

	var selected handler.CleanScope
	for scope, on := range scopes {
		if !on {
			continue
		}
		if selected != "" {
			return "", errMultipleCleanScope
		}
		selected = scope
	}
	if selected == "" {
		return "", errNoCleanScope
	}
	return selected, nil
}

func confirmClean(scope handler.CleanScope, assessmentID string) bool {
	if scope == handler.ScopeAssessment {
		fmt.Printf("NOTE: THIS WILL REMOVE ALL DATA ASSOCIATED WITH ASSESSMENT %s\n", assessmentID)
	} else {
		fmt.Printf("NOTE: THIS WILL REMOVE ALL %s DATA ASSOCIATED WITH ASSESSMENT %s\n",
			strings.ToUpper(string(scope)), assessmentID)
	}
	fmt.Print("Type the assessment id to confirm: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == assessmentID
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	assessmentID, server, apiKey := args[0], args[1], args[2]

	scope, err := cleanScope()
	if err != nil {
		return err
	}

	if !cleanYes && !confirmClean(scope, assessmentID) {
		return errCleanAborted
	}

	a, err := newApp(ctx, server, apiKey)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	res := new(handler.RemoveAssessmentDataResponse)
	if err := a.cleanHandler.RemoveAssessmentData(ctx, &handler.RemoveAssessmentDataRequest{
		AssessmentID: assessmentID,
		Scope:        scope,
	}, res); err != nil {
		return err
	}

	for kind, removed := range res.Removed {
		log.Ctx(ctx).Info().Msgf("removed %d %s, assessment: %s", removed, kind, assessmentID)
	}
	return nil
}
