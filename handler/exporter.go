package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pca/dep"
	"pca/entity"
	"pca/pkg/anon"
	"pca/pkg/errutil"
	"pca/pkg/useragent"
	"pca/repo"

	"github.com/rs/zerolog/log"
)

const secondPrecisionLayout = "2006-01-02T15:04:05"

var (
	ErrEmptyAssessmentID  = errors.New("empty assessment id")
	ErrAssessmentNotFound = errors.New("assessment does not exist on server")
)

type ExportHandler interface {
	ExportAssessment(ctx context.Context, req *ExportAssessmentRequest, res *ExportAssessmentResponse) error
}

type exportHandler struct {
	client         dep.GophishClient
	assessmentRepo repo.AssessmentRepo
}

func NewExportHandler(client dep.GophishClient, assessmentRepo repo.AssessmentRepo) ExportHandler {
	return &exportHandler{
		client:         client,
		assessmentRepo: assessmentRepo,
	}
}

type ExportAssessmentRequest struct {
	AssessmentID string
}

type ExportAssessmentResponse struct {
	DataPath        string
	UserReportPaths []string
	SummaryTextPath string
	SummaryJSONPath string
	SummaryText     string
}

func (h *exportHandler) ExportAssessment(ctx context.Context, req *ExportAssessmentRequest, res *ExportAssessmentResponse) error {
	if req.AssessmentID == "" {
		return errutil.ValidationError(ErrEmptyAssessmentID)
	}

	campaignIDs, err := h.assessmentCampaignIDs(ctx, req.AssessmentID)
	if err != nil {
		return err
	}
	if len(campaignIDs) == 0 {
		log.Ctx(ctx).Error().Msgf("assessment does not exist on server, id: %s", req.AssessmentID)
		return errutil.NotFoundError(ErrAssessmentNotFound)
	}

	targets, err := h.exportTargets(ctx, req.AssessmentID)
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Msgf("%d email targets found, assessment: %s", len(targets), req.AssessmentID)

	campaigns := make([]*entity.CampaignResult, 0, len(campaignIDs))
	for _, campaignID := range campaignIDs {
		result, err := h.campaignResult(ctx, campaignID)
		if err != nil {
			return err
		}
		campaigns = append(campaigns, result)
	}
	log.Ctx(ctx).Info().Msgf("%d campaigns found, assessment: %s", len(campaigns), req.AssessmentID)

	dataPath, err := h.assessmentRepo.WriteAssessmentData(ctx, req.AssessmentID, &entity.AssessmentData{
		Targets:   targets,
		Campaigns: campaigns,
	})
	if err != nil {
		return err
	}
	res.DataPath = dataPath
	log.Ctx(ctx).Info().Msgf("assessment data written, path: %s", dataPath)

	if err := h.exportUserReports(ctx, req.AssessmentID, campaignIDs, res); err != nil {
		return err
	}

	return h.writeCampaignSummary(ctx, req.AssessmentID, campaignIDs, res)
}

// assessmentCampaignIDs returns the ids of every campaign whose name
// carries the assessment id prefix, in server order.
func (h *exportHandler) assessmentCampaignIDs(ctx context.Context, assessmentID string) ([]uint64, error) {
	campaigns, err := h.client.ListResources(ctx, dep.KindCampaign)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("list campaigns failed, err: %v", err)
		return nil, err
	}

	ids := make([]uint64, 0, len(campaigns))
	for _, campaign := range campaigns {
		if strings.HasPrefix(campaign.Name, assessmentID) {
			ids = append(ids, campaign.ID)
		}
	}
	return ids, nil
}

func (h *exportHandler) exportTargets(ctx context.Context, assessmentID string) ([]*entity.TargetRecord, error) {
	groups, err := h.client.ListResources(ctx, dep.KindGroup)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("list groups failed, err: %v", err)
		return nil, err
	}

	targets := make([]*entity.TargetRecord, 0)
	for _, group := range groups {
		if !strings.HasPrefix(group.Name, assessmentID) {
			continue
		}

		detail, err := h.client.GetGroup(ctx, group.ID)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("get group failed, id: %d, err: %v", group.ID, err)
			return nil, err
		}

		for _, user := range detail.Targets {
			record := &entity.TargetRecord{
				ID:                    anon.HashEmail(user.Email),
				CustomerDefinedLabels: make(map[string][]string),
			}
			if user.Position != "" {
				record.CustomerDefinedLabels[assessmentID] = []string{user.Position}
			}
			targets = append(targets, record)
		}
	}

	return targets, nil
}

func (h *exportHandler) campaignResult(ctx context.Context, campaignID uint64) (*entity.CampaignResult, error) {
	detail, err := h.client.GetCampaign(ctx, campaignID)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("get campaign failed, id: %d, err: %v", campaignID, err)
		return nil, err
	}

	status, err := sendStatusEvents(detail.Timeline)
	if err != nil {
		log.Ctx(ctx).Error().Msgf("normalize send statuses failed, campaign: %s, err: %v", detail.Name, err)
		return nil, err
	}

	result := &entity.CampaignResult{
		ID:        detail.Name,
		StartTime: detail.LaunchDate,
		EndTime:   detail.CompletedDate,
		URL:       detail.URL,
		Clicks:    clickEvents(detail.Timeline),
		Status:    status,
	}
	if detail.Template != nil {
		result.Subject = detail.Template.Subject
		result.Template = templateShortName(ctx, detail.Template.Name)
	}

	return result, nil
}

// templateShortName extracts the descriptive token of a template name of
// the form <assessment>-T<n>-<short name>.
func templateShortName(ctx context.Context, name string) string {
	parts := strings.Split(name, "-")
	if len(parts) < 3 {
		log.Ctx(ctx).Warn().Msgf("template name has no short name token, using full name: %s", name)
		return name
	}
	return parts[2]
}

func clickEvents(timeline []*dep.TimelineEvent) []*entity.ClickEvent {
	clicks := make([]*entity.ClickEvent, 0)
	for _, event := range timeline {
		if event.Message != dep.MessageClickedLink {
			continue
		}

		click := &entity.ClickEvent{
			User: anon.HashEmail(event.Email),
			Time: event.Time,
		}
		if browser := event.Details.Browser; browser != nil {
			click.SourceIP = browser.Address
			application := &entity.Application{ExternalIP: browser.Address}
			application.Name, application.Version = useragent.Platform(browser.UserAgent)
			click.Application = application
		}
		clicks = append(clicks, click)
	}
	return clicks
}

func sendStatusEvents(timeline []*dep.TimelineEvent) ([]*entity.SendStatusEvent, error) {
	status := make([]*entity.SendStatusEvent, 0)
	for _, event := range timeline {
		switch event.Message {
		case dep.MessageEmailSent:
			status = append(status, &entity.SendStatusEvent{
				User:   anon.HashEmail(event.Email),
				Time:   event.Time,
				Status: entity.SendStatusSuccess,
			})
		case dep.MessageSendingError:
			// failed sends carry second precision only
			t, err := truncateToSecond(event.Time)
			if err != nil {
				return nil, errutil.ValidationError(fmt.Errorf("malformed send error time %q: %v", event.Time, err))
			}
			status = append(status, &entity.SendStatusEvent{
				User:   anon.HashEmail(event.Email),
				Time:   t,
				Status: entity.SendStatusFailed,
			})
		}
	}
	return status, nil
}

func truncateToSecond(raw string) (string, error) {
	trimmed, _, _ := strings.Cut(raw, ".")
	t, err := time.Parse(secondPrecisionLayout, trimmed)
	if err != nil {
		return "", err
	}
	return t.Format(secondPrecisionLayout), nil
}

func (h *exportHandler) exportUserReports(ctx context.Context, assessmentID string, campaignIDs []uint64, res *ExportAssessmentResponse) error {
	for _, campaignID := range campaignIDs {
		detail, err := h.client.GetCampaign(ctx, campaignID)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("get campaign failed, id: %d, err: %v", campaignID, err)
			return err
		}

		firstReport, err := firstReportTime(clickEvents(detail.Timeline))
		if err != nil {
			log.Ctx(ctx).Error().Msgf("first report time failed, campaign: %s, err: %v", detail.Name, err)
			return errutil.ValidationError(err)
		}

		summary, err := h.client.GetCampaignSummary(ctx, campaignID)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("get campaign summary failed, id: %d, err: %v", campaignID, err)
			return err
		}

		doc := &entity.UserReportDoc{
			Customer:        "",
			Assessment:      assessmentID,
			Campaign:        strconv.FormatUint(campaignID, 10),
			FirstReport:     firstReport,
			TotalNumReports: summary.Stats.Clicked,
		}

		log.Ctx(ctx).Info().Msgf("writing user report, campaign: %d, assessment: %s", campaignID, assessmentID)
		path, err := h.assessmentRepo.WriteUserReport(ctx, assessmentID, campaignID, doc)
		if err != nil {
			return err
		}
		res.UserReportPaths = append(res.UserReportPaths, path)
	}

	return nil
}

// firstReportTime returns the earliest click time truncated to second
// precision, or the no-clicks sentinel when the campaign has no clicks.
func firstReportTime(clicks []*entity.ClickEvent) (string, error) {
	var first *time.Time
	for _, click := range clicks {
		trimmed, _, _ := strings.Cut(click.Time, ".")
		t, err := time.Parse(secondPrecisionLayout, trimmed)
		if err != nil {
			return "", err
		}
		if first == nil || t.Before(*first) {
			tt := t
			first = &tt
		}
	}
	if first == nil {
		return entity.NoClicksReported, nil
	}
	return first.Format(secondPrecisionLayout), nil
}

func uniqueTargetClicksCount(clicks []*entity.ClickEvent) int {
	users := make(map[string]struct{}, len(clicks))
	for _, click := range clicks {
		users[click.User] = struct{}{}
	}
	return len(users)
}

func (h *exportHandler) writeCampaignSummary(ctx context.Context, assessmentID string, campaignIDs []uint64, res *ExportAssessmentResponse) error {
	campaignData, err := h.assessmentRepo.LoadSummaryTemplate(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Campaigns for Assessment: %s", assessmentID)

	for _, campaignID := range campaignIDs {
		detail, err := h.client.GetCampaign(ctx, campaignID)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("get campaign failed, id: %d, err: %v", campaignID, err)
			return err
		}

		level, ok := entity.ParseLevel(detail.Name)
		if !ok {
			log.Ctx(ctx).Warn().Msgf("campaign name has no level suffix, skipping in summary, name: %s", detail.Name)
			continue
		}
		log.Ctx(ctx).Info().Msg(level)

		clicks := clickEvents(detail.Timeline)

		summary, err := h.client.GetCampaignSummary(ctx, campaignID)
		if err != nil {
			log.Ctx(ctx).Error().Msgf("get campaign summary failed, id: %d, err: %v", campaignID, err)
			return err
		}

		totalClicks := summary.Stats.Clicked
		uniqueClicks := uniqueTargetClicksCount(clicks)
		percentClicks := 0.0
		if totalClicks > 0 {
			percentClicks = float64(uniqueClicks) / float64(totalClicks)
		}

		entry, ok := campaignData[level]
		if !ok {
			entry = new(entity.CampaignSummary)
			campaignData[level] = entry
		}
		if detail.Template != nil {
			entry.Subject = detail.Template.Subject
		}
		if detail.Smtp != nil {
			entry.Sender = detail.Smtp.FromAddress
		}
		entry.StartDate = detail.LaunchDate
		entry.EndDate = detail.CompletedDate
		entry.Redirect = detail.URL
		entry.Clicks = totalClicks
		entry.UniqueClicks = uniqueClicks
		entry.PercentClicks = percentClicks

		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", 50))
		fmt.Fprintf(&b, "\nCampaign: %s", detail.Name)
		fmt.Fprintf(&b, "\nSubject: %s", entry.Subject)
		fmt.Fprintf(&b, "\nSender: %s", entry.Sender)
		fmt.Fprintf(&b, "\nStart Date: %s", entry.StartDate)
		fmt.Fprintf(&b, "\nEnd Date: %s", entry.EndDate)
		fmt.Fprintf(&b, "\nRedirect: %s", entry.Redirect)
		fmt.Fprintf(&b, "\nClicks: %d", entry.Clicks)
		fmt.Fprintf(&b, "\nUnique Clicks: %d", entry.UniqueClicks)
		fmt.Fprintf(&b, "\nPercentage Clicks: %f", entry.PercentClicks)
	}

	res.SummaryText = b.String()

	textPath, err := h.assessmentRepo.WriteSummaryText(ctx, assessmentID, time.Now(), res.SummaryText)
	if err != nil {
		return err
	}
	res.SummaryTextPath = textPath
	log.Ctx(ctx).Info().Msgf("campaign summary report written, path: %s", textPath)

	jsonPath, err := h.assessmentRepo.WriteCampaignSummary(ctx, assessmentID, campaignData)
	if err != nil {
		return err
	}
	res.SummaryJSONPath = jsonPath
	log.Ctx(ctx).Info().Msgf("summary json written, path: %s", jsonPath)

	return nil
}
