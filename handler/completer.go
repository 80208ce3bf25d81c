package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pca/dep"
	"pca/pkg/errutil"

	"github.com/rs/zerolog/log"
)

var (
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrNoCampaignSelector = errors.New("campaign name or id required")
	ErrNoCampaignsInScope = errors.New("no campaigns found for assessment")
)

type CompleteHandler interface {
	ListAssessmentCampaigns(ctx context.Context, req *ListAssessmentCampaignsRequest, res *ListAssessmentCampaignsResponse) error
	CompleteCampaign(ctx context.Context, req *CompleteCampaignRequest, res *CompleteCampaignResponse) error
}

type completeHandler struct {
	client dep.GophishClient
}

func NewCompleteHandler(client dep.GophishClient) CompleteHandler {
	return &completeHandler{client: client}
}

type ListAssessmentCampaignsRequest struct {
	AssessmentID string
}

type ListAssessmentCampaignsResponse struct {
	Campaigns []*dep.Resource
}

// ListAssessmentCampaigns returns the id and name of every campaign with
// the assessment prefix, so a caller can pick one to complete.
func (h *completeHandler) ListAssessmentCampaigns(ctx context.Context, req *ListAssessmentCampaignsRequest, res *ListAssessmentCampaignsResponse) error {
	campaigns, err := h.client.ListResources(ctx, dep.KindCampaign)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("list campaigns failed, err: %v", err)
		return err
	}

	matches := make([]*dep.Resource, 0, len(campaigns))
	for _, campaign := range campaigns {
		if strings.HasPrefix(campaign.Name, req.AssessmentID) {
			matches = append(matches, campaign)
		}
	}
	if len(matches) == 0 {
		return errutil.NotFoundError(fmt.Errorf("%w: %s", ErrNoCampaignsInScope, req.AssessmentID))
	}

	res.Campaigns = matches
	return nil
}

type CompleteCampaignRequest struct {
	// CampaignID wins when both are set; CampaignName is resolved by
	// exact match against the server's campaign list.
	CampaignID   uint64
	CampaignName string

	// SummaryOnly skips the complete call and only fetches the summary.
	SummaryOnly bool
}

type CompleteCampaignResponse struct {
	Message string
	Summary *dep.CampaignSummary
}

func (h *completeHandler) CompleteCampaign(ctx context.Context, req *CompleteCampaignRequest, res *CompleteCampaignResponse) error {
	campaignID := req.CampaignID
	if campaignID == 0 {
		if req.CampaignName == "" {
			return errutil.ValidationError(ErrNoCampaignSelector)
		}
		id, err := h.resolveCampaignID(ctx, req.CampaignName)
		if err != nil {
			return err
		}
		campaignID = id
	}

	if !req.SummaryOnly {
		message, err := h.client.CompleteCampaign(ctx, campaignID)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("complete campaign failed, id: %d, err: %v", campaignID, err)
			return err
		}
		res.Message = message
		log.Ctx(ctx).Info().Msgf("campaign completed, id: %d", campaignID)
	}

	summary, err := h.client.GetCampaignSummary(ctx, campaignID)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("get campaign summary failed, id: %d, err: %v", campaignID, err)
		return err
	}
	res.Summary = summary

	return nil
}

func (h *completeHandler) resolveCampaignID(ctx context.Context, name string) (uint64, error) {
	campaigns, err := h.client.ListResources(ctx, dep.KindCampaign)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("list campaigns failed, err: %v", err)
		return 0, err
	}

	for _, campaign := range campaigns {
		if campaign.Name == name {
			return campaign.ID, nil
		}
	}

	return 0, errutil.NotFoundError(fmt.Errorf("%w: %s", ErrCampaignNotFound, name))
}
