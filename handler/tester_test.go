package handler

import (
	"context"
	"testing"

	"pca/dep"
	"pca/entity"
	"pca/pkg/errutil"
	"pca/pkg/goutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTargets() []*entity.Target {
	return []*entity.Target{
		{
			FirstName: goutil.String("Test"),
			LastName:  goutil.String("User"),
			Email:     goutil.String("test.user@example.com"),
			Position:  goutil.String("Assessor"),
		},
	}
}

func TestCreateTestCampaigns(t *testing.T) {
	var (
		createdGroup     *dep.Group
		createdCampaigns []*dep.Campaign
	)
	client := &fakeGophishClient{
		listCampaigns: func(_ context.Context) ([]*dep.Campaign, error) {
			return []*dep.Campaign{
				{
					ID:       1,
					Name:     "RVXXX1-C1_level-1",
					URL:      "https://click.example.com",
					Page:     &dep.Page{Name: "RVXXX1-AutoForward"},
					Template: &dep.Template{Name: "RVXXX1-T1-Invoice"},
					Smtp:     &dep.Smtp{Name: "RVXXX1-SP-1"},
				},
				{
					ID:   2,
					Name: "RVXXX2-C1_level-1",
				},
			}, nil
		},
		createGroup: func(_ context.Context, group *dep.Group) (*dep.Group, error) {
			createdGroup = group
			return &dep.Group{ID: 5, Name: group.Name}, nil
		},
		createCampaign: func(_ context.Context, campaign *dep.Campaign) (*dep.Campaign, error) {
			createdCampaigns = append(createdCampaigns, campaign)
			return &dep.Campaign{ID: 6, Name: campaign.Name}, nil
		},
	}
	h := NewTestHandler(client)

	res := new(CreateTestCampaignsResponse)
	err := h.CreateTestCampaigns(context.Background(), &CreateTestCampaignsRequest{
		AssessmentID: "RVXXX1",
		Targets:      testTargets(),
	}, res)
	require.NoError(t, err)

	require.NotNil(t, createdGroup)
	assert.Equal(t, "Test-RVXXX1", createdGroup.Name)
	require.Len(t, createdGroup.Targets, 1)
	assert.Equal(t, "test.user@example.com", createdGroup.Targets[0].Email)

	// the other assessment's campaign is not mirrored
	require.Len(t, createdCampaigns, 1)
	campaign := createdCampaigns[0]
	assert.Equal(t, "Test-RVXXX1-C1_level-1", campaign.Name)
	assert.Equal(t, "https://click.example.com", campaign.URL)
	assert.Equal(t, "RVXXX1-AutoForward", campaign.Page.Name)
	assert.Equal(t, "RVXXX1-T1-Invoice", campaign.Template.Name)
	assert.Equal(t, "RVXXX1-SP-1", campaign.Smtp.Name)
	require.Len(t, campaign.Groups, 1)
	assert.Equal(t, "Test-RVXXX1", campaign.Groups[0].Name)
	assert.Empty(t, campaign.LaunchDate)

	assert.Equal(t, "Test-RVXXX1", res.GroupName)
	assert.Equal(t, 1, res.CampaignsCreated)
}

func TestCreateTestCampaignsNoCampaignsIsNoop(t *testing.T) {
	client := &fakeGophishClient{
		listCampaigns: func(_ context.Context) ([]*dep.Campaign, error) {
			return nil, nil
		},
		createGroup: func(_ context.Context, _ *dep.Group) (*dep.Group, error) {
			t.Fatal("group should not be created when no campaigns match")
			return nil, nil
		},
	}
	h := NewTestHandler(client)

	res := new(CreateTestCampaignsResponse)
	err := h.CreateTestCampaigns(context.Background(), &CreateTestCampaignsRequest{
		AssessmentID: "RVXXX1",
		Targets:      testTargets(),
	}, res)
	require.NoError(t, err)
	assert.Zero(t, res.CampaignsCreated)
	assert.Empty(t, res.GroupName)
}

func TestCreateTestCampaignsNoTargets(t *testing.T) {
	h := NewTestHandler(&fakeGophishClient{})

	err := h.CreateTestCampaigns(context.Background(), &CreateTestCampaignsRequest{AssessmentID: "RVXXX1"}, new(CreateTestCampaignsResponse))
	require.Error(t, err)
	assert.Equal(t, errutil.KindValidation, errutil.KindOf(err))
}
