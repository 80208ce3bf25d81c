package handler

import (
	"context"
	"errors"

	"pca/dep"
)

var errNotWired = errors.New("fake: endpoint not wired")

// fakeGophishClient satisfies dep.GophishClient with per-endpoint
// function fields so each test wires only what it exercises.
type fakeGophishClient struct {
	ping               func(ctx context.Context) error
	listResources      func(ctx context.Context, kind dep.ResourceKind) ([]*dep.Resource, error)
	deleteResource     func(ctx context.Context, kind dep.ResourceKind, id uint64) error
	createPage         func(ctx context.Context, page *dep.Page) (*dep.Page, error)
	createGroup        func(ctx context.Context, group *dep.Group) (*dep.Group, error)
	createTemplate     func(ctx context.Context, template *dep.Template) (*dep.Template, error)
	createSmtp         func(ctx context.Context, smtp *dep.Smtp) (*dep.Smtp, error)
	createCampaign     func(ctx context.Context, campaign *dep.Campaign) (*dep.Campaign, error)
	getGroup           func(ctx context.Context, id uint64) (*dep.Group, error)
	listCampaigns      func(ctx context.Context) ([]*dep.Campaign, error)
	getCampaign        func(ctx context.Context, id uint64) (*dep.Campaign, error)
	getCampaignSummary func(ctx context.Context, id uint64) (*dep.CampaignSummary, error)
	completeCampaign   func(ctx context.Context, id uint64) (string, error)
}

func (f *fakeGophishClient) Ping(ctx context.Context) error {
	if f.ping == nil {
		return nil
	}
	return f.ping(ctx)
}

func (f *fakeGophishClient) ListResources(ctx context.Context, kind dep.ResourceKind) ([]*dep.Resource, error) {
	if f.listResources == nil {
		return nil, errNotWired
	}
	return f.listResources(ctx, kind)
}

func (f *fakeGophishClient) DeleteResource(ctx context.Context, kind dep.ResourceKind, id uint64) error {
	if f.deleteResource == nil {
		return errNotWired
	}
	return f.deleteResource(ctx, kind, id)
}

func (f *fakeGophishClient) CreatePage(ctx context.Context, page *dep.Page) (*dep.Page, error) {
	if f.createPage == nil {
		return nil, errNotWired
	}
	return f.createPage(ctx, page)
}

func (f *fakeGophishClient) CreateGroup(ctx context.Context, group *dep.Group) (*dep.Group, error) {
	if f.createGroup == nil {
		return nil, errNotWired
	}
	return f.createGroup(ctx, group)
}

func (f *fakeGophishClient) CreateTemplate(ctx context.Context, template *dep.Template) (*dep.Template, error) {
	if f.createTemplate == nil {
		return nil, errNotWired
	}
	return f.createTemplate(ctx, template)
}

func (f *fakeGophishClient) CreateSmtp(ctx context.Context, smtp *dep.Smtp) (*dep.Smtp, error) {
	if f.createSmtp == nil {
		return nil, errNotWired
	}
	return f.createSmtp(ctx, smtp)
}

func (f *fakeGophishClient) CreateCampaign(ctx context.Context, campaign *dep.Campaign) (*dep.Campaign, error) {
	if f.createCampaign == nil {
		return nil, errNotWired
	}
	return f.createCampaign(ctx, campaign)
}

func (f *fakeGophishClient) GetGroup(ctx context.Context, id uint64) (*dep.Group, error) {
	if f.getGroup == nil {
		return nil, errNotWired
	}
	return f.getGroup(ctx, id)
}

func (f *fakeGophishClient) ListCampaigns(ctx context.Context) ([]*dep.Campaign, error) {
	if f.listCampaigns == nil {
		return nil, errNotWired
	}
	return f.listCampaigns(ctx)
}

func (f *fakeGophishClient) GetCampaign(ctx context.Context, id uint64) (*dep.Campaign, error) {
	if f.getCampaign == nil {
		return nil, errNotWired
	}
	return f.getCampaign(ctx, id)
}

func (f *fakeGophishClient) GetCampaignSummary(ctx context.Context, id uint64) (*dep.CampaignSummary, error) {
	if f.getCampaignSummary == nil {
		return nil, errNotWired
	}
	return f.getCampaignSummary(ctx, id)
}

func (f *fakeGophishClient) CompleteCampaign(ctx context.Context, id uint64) (string, error) {
	if f.completeCampaign == nil {
		return "", errNotWired
	}
	return f.completeCampaign(ctx, id)
}

func (f *fakeGophishClient) Close(_ context.Context) error {
	return nil
}
