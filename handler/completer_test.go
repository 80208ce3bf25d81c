package handler

import (
	"context"
	"testing"

	"pca/dep"
	"pca/pkg/errutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAssessmentCampaigns(t *testing.T) {
	client := &fakeGophishClient{
		listResources: func(_ context.Context, kind dep.ResourceKind) ([]*dep.Resource, error) {
			require.Equal(t, dep.KindCampaign, kind)
			return []*dep.Resource{
				{ID: 1, Name: "RVXXX1-C1_level-1"},
				{ID: 2, Name: "RVXXX2-C1_level-1"},
				{ID: 3, Name: "RVXXX1-C2_level-2"},
			}, nil
		},
	}
	h := NewCompleteHandler(client)

	res := new(ListAssessmentCampaignsResponse)
	err := h.ListAssessmentCampaigns(context.Background(), &ListAssessmentCampaignsRequest{AssessmentID: "RVXXX1"}, res)
	require.NoError(t, err)

	require.Len(t, res.Campaigns, 2)
	assert.Equal(t, uint64(1), res.Campaigns[0].ID)
	assert.Equal(t, uint64(3), res.Campaigns[1].ID)
}

func TestListAssessmentCampaignsNoneFound(t *testing.T) {
	client := &fakeGophishClient{
		listResources: func(_ context.Context, _ dep.ResourceKind) ([]*dep.Resource, error) {
			return nil, nil
		},
	}
	h := NewCompleteHandler(client)

	err := h.ListAssessmentCampaigns(context.Background(), &ListAssessmentCampaignsRequest{AssessmentID: "RVXXX1"}, new(ListAssessmentCampaignsResponse))
	require.Error(t, err)
	assert.True(t, errutil.IsNotFound(err))
}

func TestCompleteCampaignByName(t *testing.T) {
	var completedID uint64
	client := &fakeGophishClient{
		listResources: func(_ context.Context, _ dep.ResourceKind) ([]*dep.Resource, error) {
			return []*dep.Resource{
				{ID: 1, Name: "RVXXX1-C1_level-1"},
				{ID: 2, Name: "RVXXX1-C2_level-2"},
			}, nil
		},
		completeCampaign: func(_ context.Context, id uint64) (string, error) {
			completedID = id
			return "Campaign completed successfully!", nil
		},
		getCampaignSummary: func(_ context.Context, id uint64) (*dep.CampaignSummary, error) {
			return &dep.CampaignSummary{
				ID:     id,
				Name:   "RVXXX1-C2_level-2",
				Status: "Completed",
				Stats:  dep.CampaignStats{Total: 10, Sent: 10, Clicked: 4},
			}, nil
		},
	}
	h := NewCompleteHandler(client)

	res := new(CompleteCampaignResponse)
	err := h.CompleteCampaign(context.Background(), &CompleteCampaignRequest{CampaignName: "RVXXX1-C2_level-2"}, res)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), completedID)
	assert.Equal(t, "Campaign completed successfully!", res.Message)
	require.NotNil(t, res.Summary)
	assert.Equal(t, int64(4), res.Summary.Stats.Clicked)
}

func TestCompleteCampaignByIDSkipsLookup(t *testing.T) {
	var completedID uint64
	client := &fakeGophishClient{
		listResources: func(_ context.Context, _ dep.ResourceKind) ([]*dep.Resource, error) {
			t.Fatal("an explicit id needs no name lookup")
			return nil, nil
		},
		completeCampaign: func(_ context.Context, id uint64) (string, error) {
			completedID = id
			return "Campaign completed successfully!", nil
		},
		getCampaignSummary: func(_ context.Context, id uint64) (*dep.CampaignSummary, error) {
			return &dep.CampaignSummary{ID: id, Status: "Completed"}, nil
		},
	}
	h := NewCompleteHandler(client)

	res := new(CompleteCampaignResponse)
	err := h.CompleteCampaign(context.Background(), &CompleteCampaignRequest{
		CampaignID:   9,
		CampaignName: "RVXXX1-C1_level-1",
	}, res)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), completedID)
}

func TestCompleteCampaignSummaryOnly(t *testing.T) {
	client := &fakeGophishClient{
		completeCampaign: func(_ context.Context, _ uint64) (string, error) {
			t.Fatal("complete should not be called in summary-only mode")
			return "", nil
		},
		getCampaignSummary: func(_ context.Context, id uint64) (*dep.CampaignSummary, error) {
			return &dep.CampaignSummary{ID: id, Status: "In progress"}, nil
		},
	}
	h := NewCompleteHandler(client)

	res := new(CompleteCampaignResponse)
	err := h.CompleteCampaign(context.Background(), &CompleteCampaignRequest{CampaignID: 7, SummaryOnly: true}, res)
	require.NoError(t, err)

	assert.Empty(t, res.Message)
	assert.Equal(t, "In progress", res.Summary.Status)
}

func TestCompleteCampaignUnknownName(t *testing.T) {
	client := &fakeGophishClient{
		listResources: func(_ context.Context, _ dep.ResourceKind) ([]*dep.Resource, error) {
			return []*dep.Resource{{ID: 1, Name: "RVXXX1-C1_level-1"}}, nil
		},
	}
	h := NewCompleteHandler(client)

	err := h.CompleteCampaign(context.Background(), &CompleteCampaignRequest{CampaignName: "RVXXX9-C9_level-9"}, new(CompleteCampaignResponse))
	require.Error(t, err)
	assert.True(t, errutil.IsNotFound(err))
}

func TestCompleteCampaignNoSelector(t *testing.T) {
	h := NewCompleteHandler(&fakeGophishClient{})

	err := h.CompleteCampaign(context.Background(), &CompleteCampaignRequest{}, new(CompleteCampaignResponse))
	require.Error(t, err)
	assert.Equal(t, errutil.KindValidation, errutil.KindOf(err))
}
