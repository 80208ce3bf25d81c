package handler

import (
	"context"
	"errors"
	"testing"

	"pca/dep"
	"pca/pkg/errutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanerTestClient(deleted *[]string) *fakeGophishClient {
	inventory := map[dep.ResourceKind][]*dep.Resource{
		dep.KindCampaign: {
			{ID: 1, Name: "RVXXX1-C1_level-1"},
			{ID: 2, Name: "RVXXX2-C1_level-1"},
		},
		dep.KindSmtp: {
			{ID: 3, Name: "RVXXX1-SP-1"},
		},
		dep.KindGroup: {
			{ID: 4, Name: "RVXXX1-G1"},
			{ID: 5, Name: "RVXXX1-G2"},
		},
		dep.KindTemplate: {
			{ID: 6, Name: "RVXXX1-T1-Invoice"},
		},
		dep.KindPage: {
			{ID: 7, Name: "RVXXX1-AutoForward"},
			{ID: 8, Name: "RVXXX2-AutoForward"},
		},
	}

	return &fakeGophishClient{
		listResources: func(_ context.Context, kind dep.ResourceKind) ([]*dep.Resource, error) {
			return inventory[kind], nil
		},
		deleteResource: func(_ context.Context, kind dep.ResourceKind, id uint64) error {
			for _, r := range inventory[kind] {
				if r.ID == id {
					*deleted = append(*deleted, string(kind)+":"+r.Name)
					return nil
				}
			}
			return errutil.NotFoundError(errors.New("no such resource"))
		},
	}
}

func TestRemoveAssessmentDataFullScope(t *testing.T) {
	var deleted []string
	h := NewCleanHandler(cleanerTestClient(&deleted))

	res := new(RemoveAssessmentDataResponse)
	err := h.RemoveAssessmentData(context.Background(), &RemoveAssessmentDataRequest{
		AssessmentID: "RVXXX1",
		Scope:        ScopeAssessment,
	}, res)
	require.NoError(t, err)

	// campaigns go first, then profiles, groups, templates, pages
	assert.Equal(t, []string{
		"campaigns:RVXXX1-C1_level-1",
		"smtp:RVXXX1-SP-1",
		"groups:RVXXX1-G1",
		"groups:RVXXX1-G2",
		"templates:RVXXX1-T1-Invoice",
		"pages:RVXXX1-AutoForward",
	}, deleted)

	assert.Equal(t, 1, res.Removed[dep.KindCampaign])
	assert.Equal(t, 2, res.Removed[dep.KindGroup])
	assert.Equal(t, 1, res.Removed[dep.KindPage])
}

func TestRemoveAssessmentDataSingleKind(t *testing.T) {
	var deleted []string
	h := NewCleanHandler(cleanerTestClient(&deleted))

	res := new(RemoveAssessmentDataResponse)
	err := h.RemoveAssessmentData(context.Background(), &RemoveAssessmentDataRequest{
		AssessmentID: "RVXXX1",
		Scope:        ScopeGroups,
	}, res)
	require.NoError(t, err)

	assert.Equal(t, []string{"groups:RVXXX1-G1", "groups:RVXXX1-G2"}, deleted)
	assert.Equal(t, map[dep.ResourceKind]int{dep.KindGroup: 2}, res.Removed)
}

func TestRemoveAssessmentDataUnknownScope(t *testing.T) {
	h := NewCleanHandler(&fakeGophishClient{})

	err := h.RemoveAssessmentData(context.Background(), &RemoveAssessmentDataRequest{
		AssessmentID: "RVXXX1",
		Scope:        CleanScope("everything"),
	}, new(RemoveAssessmentDataResponse))
	require.Error(t, err)
	assert.Equal(t, errutil.KindValidation, errutil.KindOf(err))
}

func TestRemoveAssessmentDataDeleteFailurePropagates(t *testing.T) {
	boom := errors.New("delete rejected")
	client := &fakeGophishClient{
		listResources: func(_ context.Context, _ dep.ResourceKind) ([]*dep.Resource, error) {
			return []*dep.Resource{{ID: 1, Name: "RVXXX1-C1_level-1"}}, nil
		},
		deleteResource: func(_ context.Context, _ dep.ResourceKind, _ uint64) error {
			return boom
		},
	}
	h := NewCleanHandler(client)

	err := h.RemoveAssessmentData(context.Background(), &RemoveAssessmentDataRequest{
		AssessmentID: "RVXXX1",
		Scope:        ScopeCampaigns,
	}, new(RemoveAssessmentDataResponse))
	assert.ErrorIs(t, err, boom)
}
