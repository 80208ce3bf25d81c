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

type CleanScope string

const (
	ScopeAssessment CleanScope = "assessment"
	ScopeCampaigns  CleanScope = "campaigns"
	ScopeSmtp       CleanScope = "smtp"
	ScopeGroups     CleanScope = "groups"
	ScopeTemplates  CleanScope = "templates"
	ScopePages      CleanScope = "pages"
)

// assessmentCleanOrder removes campaigns first so nothing still
// references the profiles, groups, templates and pages behind them.
var assessmentCleanOrder = []dep.ResourceKind{
	dep.KindCampaign,
	dep.KindSmtp,
	dep.KindGroup,
	dep.KindTemplate,
	dep.KindPage,
}

var scopeKinds = map[CleanScope]dep.ResourceKind{
	ScopeCampaigns: dep.KindCampaign,
	ScopeSmtp:      dep.KindSmtp,
	ScopeGroups:    dep.KindGroup,
	ScopeTemplates: dep.KindTemplate,
	ScopePages:     dep.KindPage,
}

var ErrUnknownCleanScope = errors.New("unknown clean scope")

type CleanHandler interface {
	RemoveAssessmentData(ctx context.Context, req *RemoveAssessmentDataRequest, res *RemoveAssessmentDataResponse) error
}

type cleanHandler struct {
	client dep.GophishClient
}

func NewCleanHandler(client dep.GophishClient) CleanHandler {
	return &cleanHandler{client: client}
}

type RemoveAssessmentDataRequest struct {
	AssessmentID string
	Scope        CleanScope
}

type RemoveAssessmentDataResponse struct {
	Removed map[dep.ResourceKind]int
}

func (h *cleanHandler) RemoveAssessmentData(ctx context.Context, req *RemoveAssessmentDataRequest, res *RemoveAssessmentDataResponse) error {
	if req.AssessmentID == "" {
		return errutil.ValidationError(ErrEmptyAssessmentID)
	}

	var kinds []dep.ResourceKind
	switch req.Scope {
	case ScopeAssessment, "":
		kinds = assessmentCleanOrder
	default:
		kind, ok := scopeKinds[req.Scope]
		if !ok {
			return errutil.ValidationError(fmt.Errorf("%w: %s", ErrUnknownCleanScope, req.Scope))
		}
		kinds = []dep.ResourceKind{kind}
	}

	res.Removed = make(map[dep.ResourceKind]int)
	for _, kind := range kinds {
		removed, err := h.removeKind(ctx, kind, req.AssessmentID)
		if err != nil {
			return err
		}
		res.Removed[kind] = removed
	}

	return nil
}

func (h *cleanHandler) removeKind(ctx context.Context, kind dep.ResourceKind, prefix string) (int, error) {
	resources, err := h.client.ListResources(ctx, kind)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("list %s failed, err: %v", kind, err)
		return 0, err
	}

	var removed int
	for _, resource := range resources {
		if !strings.HasPrefix(resource.Name, prefix) {
			continue
		}
		log.Ctx(ctx).Info().Msgf("removing %s, name: %s, id: %d", kind, resource.Name, resource.ID)
		if err := h.client.DeleteResource(ctx, kind, resource.ID); err != nil {
			log.Ctx(ctx).Error().Msgf("delete %s failed, id: %d, err: %v", kind, resource.ID, err)
			return removed, err
		}
		removed++
	}

	log.Ctx(ctx).Info().Msgf("%d %s removed, prefix: %s", removed, kind, prefix)
	return removed, nil
}
