package handler

import (
	"context"
	"errors"

	"pca/config"
	"pca/dep"
	"pca/entity"
	"pca/pkg/errutil"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const defaultMaxUpsertAttempts = 3

var (
	ErrNilAssessment = errors.New("nil assessment")
)

type ImportHandler interface {
	ImportAssessment(ctx context.Context, req *ImportAssessmentRequest, res *ImportAssessmentResponse) error
}

type importHandler struct {
	client            dep.GophishClient
	maxUpsertAttempts uint64
}

func NewImportHandler(client dep.GophishClient, cfg config.Gophish) ImportHandler {
	maxAttempts := cfg.MaxUpsertAttempts
	if maxAttempts == 0 {
		maxAttempts = defaultMaxUpsertAttempts
	}
	return &importHandler{
		client:            client,
		maxUpsertAttempts: maxAttempts,
	}
}

type ImportAssessmentRequest struct {
	Assessment *entity.Assessment

	// Reschedule re-imports a document whose campaign dates changed.
	// Pages and groups are already on the server and are left alone;
	// only campaigns are rebuilt.
	Reschedule bool
}

type ImportAssessmentResponse struct {
	PageIDs        map[string]uint64
	GroupIDs       map[string]uint64
	CampaignsBuilt int
}

func (h *importHandler) ImportAssessment(ctx context.Context, req *ImportAssessmentRequest, res *ImportAssessmentResponse) error {
	if req.Assessment == nil {
		return errutil.ValidationError(ErrNilAssessment)
	}

	res.PageIDs = make(map[string]uint64)
	res.GroupIDs = make(map[string]uint64)

	if req.Reschedule {
		log.Ctx(ctx).Info().Msg("reschedule import, pages and groups left untouched")
	} else {
		if err := h.loadPages(ctx, req.Assessment, res); err != nil {
			return err
		}
		if err := h.loadGroups(ctx, req.Assessment, res); err != nil {
			return err
		}
	}

	return h.buildCampaigns(ctx, req.Assessment, res)
}

func (h *importHandler) loadPages(ctx context.Context, assessment *entity.Assessment, res *ImportAssessmentResponse) error {
	for _, page := range assessment.AllPages() {
		newPage := &dep.Page{
			Name:               page.GetName(),
			Html:               page.GetHtml(),
			CaptureCredentials: page.GetCaptureCredentials(),
			CapturePasswords:   page.GetCapturePasswords(),
			RedirectURL:        page.GetRedirectURL(),
		}

		log.Ctx(ctx).Debug().Msgf("page name: %s, redirect url: %s, capture credentials: %t, capture passwords: %t",
			newPage.Name, newPage.RedirectURL, newPage.CaptureCredentials, newPage.CapturePasswords)

		pageID, err := h.upsertResource(ctx, dep.KindPage, newPage.Name, func(ctx context.Context) (uint64, error) {
			created, err := h.client.CreatePage(ctx, newPage)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		})
		if err != nil {
			log.Ctx(ctx).Error().Msgf("load page failed, name: %s, err: %v", newPage.Name, err)
			return err
		}

		res.PageIDs[newPage.Name] = pageID
		log.Ctx(ctx).Info().Msgf("landing page loaded, name: %s, id: %d", newPage.Name, pageID)
	}

	return nil
}

func (h *importHandler) loadGroups(ctx context.Context, assessment *entity.Assessment, res *ImportAssessmentResponse) error {
	for _, group := range assessment.Groups {
		log.Ctx(ctx).Info().Msgf("loading group, name: %s", group.GetName())

		newGroup := &dep.Group{
			Name:    group.GetName(),
			Targets: make([]*dep.User, 0, len(group.Targets)),
		}
		for _, target := range group.Targets {
			newGroup.Targets = append(newGroup.Targets, &dep.User{
				FirstName: target.GetFirstName(),
				LastName:  target.GetLastName(),
				Email:     target.GetEmail(),
				Position:  target.GetPosition(),
			})
		}

		groupID, err := h.upsertResource(ctx, dep.KindGroup, newGroup.Name, func(ctx context.Context) (uint64, error) {
			created, err := h.client.CreateGroup(ctx, newGroup)
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		})
		if err != nil {
			log.Ctx(ctx).Error().Msgf("load group failed, name: %s, err: %v", newGroup.Name, err)
			return err
		}

		res.GroupIDs[newGroup.Name] = groupID
		log.Ctx(ctx).Info().Msgf("group ready, name: %s, id: %d", newGroup.Name, groupID)
	}

	return nil
}

func (h *importHandler) buildCampaigns(ctx context.Context, assessment *entity.Assessment, res *ImportAssessmentResponse) error {
	log.Ctx(ctx).Info().Msg("building campaigns")

	for _, campaign := range assessment.Campaigns {
		log.Ctx(ctx).Info().Msgf("building campaign, name: %s", campaign.GetName())

		newTemplate, err := h.upsertTemplate(ctx, campaign.Template)
		if err != nil {
			return err
		}

		newSmtp, err := h.upsertSmtp(ctx, campaign.Smtp)
		if err != nil {
			return err
		}

		// Campaigns have no conflict-on-create API; same-name leftovers
		// are removed up front.
		if err := h.deleteCampaignsByName(ctx, campaign.GetName()); err != nil {
			return err
		}

		newCampaign := &dep.Campaign{
			Name:          campaign.GetName(),
			Groups:        []*dep.Group{{Name: campaign.GetGroupName()}},
			Page:          &dep.Page{Name: campaign.GetPageName()},
			Template:      newTemplate,
			Smtp:          newSmtp,
			URL:           campaign.GetURL(),
			LaunchDate:    campaign.GetLaunchDate(),
			CompletedDate: campaign.GetCompleteDate(),
		}
		if _, err := h.client.CreateCampaign(ctx, newCampaign); err != nil {
			log.Ctx(ctx).Error().Msgf("create campaign failed, name: %s, err: %v", newCampaign.Name, err)
			return err
		}

		res.CampaignsBuilt++
		log.Ctx(ctx).Info().Msgf("campaign loaded, name: %s", newCampaign.Name)
	}

	return nil
}

func (h *importHandler) upsertTemplate(ctx context.Context, template *entity.Template) (*dep.Template, error) {
	newTemplate := &dep.Template{
		Name:    template.GetName(),
		Subject: template.GetSubject(),
		Html:    template.GetHtml(),
		Text:    template.GetText(),
	}

	var created *dep.Template
	_, err := h.upsertResource(ctx, dep.KindTemplate, newTemplate.Name, func(ctx context.Context) (uint64, error) {
		c, err := h.client.CreateTemplate(ctx, newTemplate)
		if err != nil {
			return 0, err
		}
		created = c
		return c.ID, nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Msgf("load template failed, name: %s, err: %v", newTemplate.Name, err)
		return nil, err
	}

	return created, nil
}

func (h *importHandler) upsertSmtp(ctx context.Context, smtp *entity.Smtp) (*dep.Smtp, error) {
	newSmtp := &dep.Smtp{
		Name:          smtp.GetName(),
		Host:          smtp.GetHost(),
		FromAddress:   smtp.GetFromAddress(),
		InterfaceType: "SMTP",
		// the server's own certificate is self-signed
		IgnoreCertErrors: true,
	}
	if smtp.Username != nil && smtp.Password != nil {
		newSmtp.Username = *smtp.Username
		newSmtp.Password = *smtp.Password
	}

	var created *dep.Smtp
	_, err := h.upsertResource(ctx, dep.KindSmtp, newSmtp.Name, func(ctx context.Context) (uint64, error) {
		c, err := h.client.CreateSmtp(ctx, newSmtp)
		if err != nil {
			return 0, err
		}
		created = c
		return c.ID, nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Msgf("load smtp profile failed, name: %s, err: %v", newSmtp.Name, err)
		return nil, err
	}

	return created, nil
}

func (h *importHandler) deleteCampaignsByName(ctx context.Context, name string) error {
	campaigns, err := h.client.ListResources(ctx, dep.KindCampaign)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("list campaigns failed, err: %v", err)
		return err
	}

	for _, old := range campaigns {
		if old.Name != name {
			continue
		}
		log.Ctx(ctx).Warn().Msgf("previous campaign being deleted, name: %s, id: %d", old.Name, old.ID)
		if err := h.client.DeleteResource(ctx, dep.KindCampaign, old.ID); err != nil {
			log.Ctx(ctx).Error().Msgf("delete campaign failed, id: %d, err: %v", old.ID, err)
			return err
		}
	}

	return nil
}

// upsertResource makes exactly one remote resource exist under the given
// name with the supplied definition. A create that fails with a name
// conflict triggers deletion of every same-named remote object, then a
// retried create; the loop is bounded, so a server that keeps reporting
// the name as taken surfaces the conflict instead of spinning. Any other
// failure aborts immediately. Old and new definitions are never merged.
func (h *importHandler) upsertResource(ctx context.Context, kind dep.ResourceKind, name string, create func(context.Context) (uint64, error)) (uint64, error) {
	var id uint64

	op := func() error {
		createdID, err := create(ctx)
		if err == nil {
			id = createdID
			return nil
		}
		if !errutil.IsConflict(err) {
			return backoff.Permanent(err)
		}

		log.Ctx(ctx).Warn().Msgf("%s name already in use, replacing previously loaded resource, name: %s", kind, name)

		resources, listErr := h.client.ListResources(ctx, kind)
		if listErr != nil {
			log.Ctx(ctx).Error().Msgf("list %s failed, err: %v", kind, listErr)
			return backoff.Permanent(listErr)
		}
		log.Ctx(ctx).Debug().Msgf("checking %d %s for previously loaded resource", len(resources), kind)

		for _, old := range resources {
			if old.Name != name {
				continue
			}
			log.Ctx(ctx).Debug().Msgf("deleting %s, id: %d", kind, old.ID)
			if delErr := h.client.DeleteResource(ctx, kind, old.ID); delErr != nil {
				log.Ctx(ctx).Error().Msgf("delete %s failed, id: %d, err: %v", kind, old.ID, delErr)
				return backoff.Permanent(delErr)
			}
		}

		// retry the create with the conflict as the pending error
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, h.maxUpsertAttempts-1), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return 0, err
	}

	return id, nil
}
