package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pca/dep"
	"pca/entity"
	"pca/pkg/errutil"

	"github.com/rs/zerolog/log"
)

var ErrNoTestTargets = errors.New("no test targets supplied")

type TestHandler interface {
	CreateTestCampaigns(ctx context.Context, req *CreateTestCampaignsRequest, res *CreateTestCampaignsResponse) error
}

type testHandler struct {
	client dep.GophishClient
}

func NewTestHandler(client dep.GophishClient) TestHandler {
	return &testHandler{client: client}
}

type CreateTestCampaignsRequest struct {
	AssessmentID string
	Targets      []*entity.Target
}

type CreateTestCampaignsResponse struct {
	GroupName        string
	CampaignsCreated int
}

// CreateTestCampaigns mirrors every campaign of an assessment as an
// immediately sending Test-<name> copy aimed at a Test-<id> group, so the
// send path can be verified before launch.
func (h *testHandler) CreateTestCampaigns(ctx context.Context, req *CreateTestCampaignsRequest, res *CreateTestCampaignsResponse) error {
	if req.AssessmentID == "" {
		return errutil.ValidationError(ErrEmptyAssessmentID)
	}
	if len(req.Targets) == 0 {
		return errutil.ValidationError(ErrNoTestTargets)
	}

	log.Ctx(ctx).Info().Msg("gathering campaigns")
	campaigns, err := h.assessmentCampaigns(ctx, req.AssessmentID)
	if err != nil {
		return err
	}
	if len(campaigns) == 0 {
		log.Ctx(ctx).Warn().Msgf("no campaigns found, assessment: %s", req.AssessmentID)
		return nil
	}

	groupName, err := h.addTestGroup(ctx, req)
	if err != nil {
		return err
	}
	res.GroupName = groupName

	for _, campaign := range campaigns {
		testCampaign := &dep.Campaign{
			Name:   fmt.Sprintf("Test-%s", campaign.Name),
			Groups: []*dep.Group{{Name: groupName}},
			URL:    campaign.URL,
			// no launch date, sends immediately
		}
		if campaign.Page != nil {
			testCampaign.Page = &dep.Page{Name: campaign.Page.Name}
		}
		if campaign.Template != nil {
			testCampaign.Template = &dep.Template{Name: campaign.Template.Name}
		}
		if campaign.Smtp != nil {
			testCampaign.Smtp = &dep.Smtp{Name: campaign.Smtp.Name}
		}

		created, err := h.client.CreateCampaign(ctx, testCampaign)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("create test campaign failed, name: %s, err: %v", testCampaign.Name, err)
			return err
		}

		res.CampaignsCreated++
		log.Ctx(ctx).Debug().Msgf("test campaign added, name: %s", created.Name)
	}

	log.Ctx(ctx).Info().Msg("all test campaigns added")
	return nil
}

func (h *testHandler) assessmentCampaigns(ctx context.Context, assessmentID string) ([]*dep.Campaign, error) {
	all, err := h.client.ListCampaigns(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("list campaigns failed, err: %v", err)
		return nil, err
	}

	campaigns := make([]*dep.Campaign, 0, len(all))
	for _, campaign := range all {
		if strings.HasPrefix(campaign.Name, assessmentID) {
			campaigns = append(campaigns, campaign)
		}
	}
	log.Ctx(ctx).Debug().Msgf("num campaigns: %d", len(campaigns))

	return campaigns, nil
}

func (h *testHandler) addTestGroup(ctx context.Context, req *CreateTestCampaignsRequest) (string, error) {
	log.Ctx(ctx).Info().Msg("adding test group")

	newGroup := &dep.Group{
		Name:    fmt.Sprintf("Test-%s", req.AssessmentID),
		Targets: make([]*dep.User, 0, len(req.Targets)),
	}
	for _, target := range req.Targets {
		newGroup.Targets = append(newGroup.Targets, &dep.User{
			FirstName: target.GetFirstName(),
			LastName:  target.GetLastName(),
			Email:     target.GetEmail(),
			Position:  target.GetPosition(),
		})
	}

	created, err := h.client.CreateGroup(ctx, newGroup)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("create test group failed, name: %s, err: %v", newGroup.Name, err)
		return "", err
	}

	return created.Name, nil
}
