package dep

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pca/config"
	"pca/pkg/errutil"

	"github.com/patrickmn/go-cache"
)

type ResourceKind string

const (
	KindPage     ResourceKind = "pages"
	KindGroup    ResourceKind = "groups"
	KindTemplate ResourceKind = "templates"
	KindSmtp     ResourceKind = "smtp"
	KindCampaign ResourceKind = "campaigns"
)

// Timeline message tags reported by the GoPhish server.
const (
	MessageClickedLink  = "Clicked Link"
	MessageEmailSent    = "Email Sent"
	MessageSendingError = "Error Sending Email"
)

// conflictMessage is the fragment common to all "X name already in use"
// create failures. GoPhish has no structured error code for this case;
// the text is matched here and nowhere else.
const conflictMessage = "name already in use"

var (
	ErrEmptyServerURL = errors.New("empty server url")
)

// Resource is the id/name pair common to every remote resource kind.
type Resource struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        uint64 `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Position  string `json:"position,omitempty"`
}

type Group struct {
	ID      uint64  `json:"id,omitempty"`
	Name    string  `json:"name"`
	Targets []*User `json:"targets"`
}

type Page struct {
	ID                 uint64 `json:"id,omitempty"`
	Name               string `json:"name"`
	Html               string `json:"html"`
	CaptureCredentials bool   `json:"capture_credentials"`
	CapturePasswords   bool   `json:"capture_passwords"`
	RedirectURL        string `json:"redirect_url,omitempty"`
}

type Template struct {
	ID      uint64 `json:"id,omitempty"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
	Text    string `json:"text"`
}

type Smtp struct {
	ID               uint64 `json:"id,omitempty"`
	Name             string `json:"name"`
	InterfaceType    string `json:"interface_type"`
	Host             string `json:"host"`
	FromAddress      string `json:"from_address"`
	Username         string `json:"username,omitempty"`
	Password         string `json:"password,omitempty"`
	IgnoreCertErrors bool   `json:"ignore_cert_errors"`
}

type Campaign struct {
	ID            uint64           `json:"id,omitempty"`
	Name          string           `json:"name"`
	CreatedDate   string           `json:"created_date,omitempty"`
	LaunchDate    string           `json:"launch_date,omitempty"`
	CompletedDate string           `json:"completed_date,omitempty"`
	Template      *Template        `json:"template,omitempty"`
	Page          *Page            `json:"page,omitempty"`
	Smtp          *Smtp            `json:"smtp,omitempty"`
	URL           string           `json:"url,omitempty"`
	Status        string           `json:"status,omitempty"`
	Groups        []*Group         `json:"groups,omitempty"`
	Timeline      []*TimelineEvent `json:"timeline,omitempty"`
}

type TimelineEvent struct {
	Email   string       `json:"email"`
	Time    string       `json:"time"`
	Message string       `json:"message"`
	Details EventDetails `json:"details"`
}

type EventDetails struct {
	Browser *BrowserDetails `json:"browser,omitempty"`
}

// UnmarshalJSON accepts both an embedded object and the JSON-encoded
// string form the GoPhish server actually sends for event details.
func (d *EventDetails) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		b = []byte(s)
	}

	type alias EventDetails
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*d = EventDetails(a)
	return nil
}

type BrowserDetails struct {
	Address   string `json:"address"`
	UserAgent string `json:"user-agent"`
}

type CampaignSummary struct {
	ID            uint64        `json:"id"`
	Name          string        `json:"name"`
	Status        string        `json:"status"`
	LaunchDate    string        `json:"launch_date"`
	CompletedDate string        `json:"completed_date"`
	Stats         CampaignStats `json:"stats"`
}

type CampaignStats struct {
	Total         int64 `json:"total"`
	Sent          int64 `json:"sent"`
	Opened        int64 `json:"opened"`
	Clicked       int64 `json:"clicked"`
	SubmittedData int64 `json:"submitted_data"`
	EmailReported int64 `json:"email_reported"`
	Error         int64 `json:"error"`
}

type GophishClient interface {
	Ping(ctx context.Context) error

	ListResources(ctx context.Context, kind ResourceKind) ([]*Resource, error)
	DeleteResource(ctx context.Context, kind ResourceKind, id uint64) error

	CreatePage(ctx context.Context, page *Page) (*Page, error)
	CreateGroup(ctx context.Context, group *Group) (*Group, error)
	CreateTemplate(ctx context.Context, template *Template) (*Template, error)
	CreateSmtp(ctx context.Context, smtp *Smtp) (*Smtp, error)
	CreateCampaign(ctx context.Context, campaign *Campaign) (*Campaign, error)

	GetGroup(ctx context.Context, id uint64) (*Group, error)
	ListCampaigns(ctx context.Context) ([]*Campaign, error)
	GetCampaign(ctx context.Context, id uint64) (*Campaign, error)
	GetCampaignSummary(ctx context.Context, id uint64) (*CampaignSummary, error)
	CompleteCampaign(ctx context.Context, id uint64) (string, error)

	Close(ctx context.Context) error
}

type gophishClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
}

// NewGophishClient builds a client for one GoPhish server. Certificate
// validation is disabled: the server ships with a self-signed certificate.
func NewGophishClient(_ context.Context, cfg config.Gophish) (GophishClient, error) {
	baseURL := strings.TrimRight(cfg.URL, "/")
	if baseURL == "" {
		return nil, ErrEmptyServerURL
	}

	return &gophishClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		cache: cache.New(
			time.Duration(cfg.CacheTTLSeconds)*time.Second,
			time.Duration(cfg.CacheCleanupSeconds)*time.Second,
		),
	}, nil
}

type apiResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (c *gophishClient) doRequest(ctx context.Context, method, path string, body, dst interface{}) error {
	var reqBody io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(js)
	}

	reqURL := fmt.Sprintf("%s/api/%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return err
	}

	// GoPhish authenticates by api_key query parameter.
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errutil.ConnectivityError(err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return c.parseAPIError(res.StatusCode, b)
	}

	if dst != nil {
		if err := json.Unmarshal(b, dst); err != nil {
			return err
		}
	}

	return nil
}

func (c *gophishClient) parseAPIError(statusCode int, body []byte) error {
	apiRes := new(apiResponse)
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, apiRes); err == nil && apiRes.Message != "" {
		msg = apiRes.Message
	}

	err := fmt.Errorf("gophish api error (status %d): %s", statusCode, msg)

	switch {
	case strings.Contains(msg, conflictMessage):
		return errutil.ConflictError(err)
	case statusCode == http.StatusNotFound:
		return errutil.NotFoundError(err)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return errutil.ConnectivityError(err)
	}
	return err
}

func (c *gophishClient) Ping(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "campaigns/", nil, nil)
}

func (c *gophishClient) ListResources(ctx context.Context, kind ResourceKind) ([]*Resource, error) {
	var resources []*Resource
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s/", kind), nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *gophishClient) DeleteResource(ctx context.Context, kind ResourceKind, id uint64) error {
	c.cache.Flush()
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", kind, id), nil, nil)
}

func (c *gophishClient) CreatePage(ctx context.Context, page *Page) (*Page, error) {
	created := new(Page)
	if err := c.doRequest(ctx, http.MethodPost, "pages/", page, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *gophishClient) CreateGroup(ctx context.Context, group *Group) (*Group, error) {
	created := new(Group)
	if err := c.doRequest(ctx, http.MethodPost, "groups/", group, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *gophishClient) CreateTemplate(ctx context.Context, template *Template) (*Template, error) {
	created := new(Template)
	if err := c.doRequest(ctx, http.MethodPost, "templates/", template, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *gophishClient) CreateSmtp(ctx context.Context, smtp *Smtp) (*Smtp, error) {
	created := new(Smtp)
	if err := c.doRequest(ctx, http.MethodPost, "smtp/", smtp, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *gophishClient) CreateCampaign(ctx context.Context, campaign *Campaign) (*Campaign, error) {
	c.cache.Flush()
	created := new(Campaign)
	if err := c.doRequest(ctx, http.MethodPost, "campaigns/", campaign, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *gophishClient) GetGroup(ctx context.Context, id uint64) (*Group, error) {
	group := new(Group)
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("groups/%d", id), nil, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (c *gophishClient) ListCampaigns(ctx context.Context) ([]*Campaign, error) {
	var campaigns []*Campaign
	if err := c.doRequest(ctx, http.MethodGet, "campaigns/", nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetCampaign returns a campaign's detail, timeline included. Export walks
// the same campaign several times (results, user reports, summary), so
// responses are held in a short-TTL cache that any mutation flushes.
func (c *gophishClient) GetCampaign(ctx context.Context, id uint64) (*Campaign, error) {
	key := fmt.Sprintf("campaign:%d", id)
	if v, ok := c.cache.Get(key); ok {
		return v.(*Campaign), nil
	}

	campaign := new(Campaign)
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("campaigns/%d", id), nil, campaign); err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, campaign)
	return campaign, nil
}

func (c *gophishClient) GetCampaignSummary(ctx context.Context, id uint64) (*CampaignSummary, error) {
	key := fmt.Sprintf("summary:%d", id)
	if v, ok := c.cache.Get(key); ok {
		return v.(*CampaignSummary), nil
	}

	summary := new(CampaignSummary)
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("campaigns/%d/summary", id), nil, summary); err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, summary)
	return summary, nil
}

func (c *gophishClient) CompleteCampaign(ctx context.Context, id uint64) (string, error) {
	c.cache.Flush()

	apiRes := new(apiResponse)
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("campaigns/%d/complete", id), nil, apiRes); err != nil {
		return "", err
	}
	if !apiRes.Success {
		return "", fmt.Errorf("complete campaign %d: %s", id, apiRes.Message)
	}
	return apiRes.Message, nil
}

func (c *gophishClient) Close(_ context.Context) error {
	c.cache.Flush()
	return nil
}
