package entity

const (
	SendStatusSuccess = "SUCCESS"
	SendStatusFailed  = "Failed"

	// NoClicksReported is written to a user report when a campaign has
	// no click events.
	NoClicksReported = "No clicks reported"
)

// AssessmentData is the exported result document (data_<assessment_id>.json).
type AssessmentData struct {
	Targets   []*TargetRecord   `json:"targets"`
	Campaigns []*CampaignResult `json:"campaigns"`
}

// TargetRecord is an exported target. Only the anonymized identifier ever
// appears here, never the email itself.
type TargetRecord struct {
	ID                    string              `json:"id"`
	CustomerDefinedLabels map[string][]string `json:"customer_defined_labels"`
}

type ClickEvent struct {
	User        string       `json:"user"`
	SourceIP    string       `json:"source_ip"`
	Time        string       `json:"time"`
	Application *Application `json:"application"`
}

type Application struct {
	ExternalIP string `json:"external_ip"`
	Name       string `json:"name,omitempty"`
	Version    string `json:"version,omitempty"`
}

type SendStatusEvent struct {
	User   string `json:"user"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

type CampaignResult struct {
	ID        string             `json:"id"`
	StartTime string             `json:"start_time"`
	EndTime   string             `json:"end_time"`
	URL       string             `json:"url"`
	Subject   string             `json:"subject"`
	Template  string             `json:"template"`
	Clicks    []*ClickEvent      `json:"clicks"`
	Status    []*SendStatusEvent `json:"status"`
}

// CampaignSummary is one level's entry in <assessment_id>_campaign_data.json.
type CampaignSummary struct {
	Subject       string  `json:"subject"`
	Sender        string  `json:"sender"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Redirect      string  `json:"redirect"`
	Clicks        int64   `json:"clicks"`
	UniqueClicks  int     `json:"unique_clicks"`
	PercentClicks float64 `json:"percent_clicks"`
}

// UserReportDoc is the per-campaign first-report artifact.
type UserReportDoc struct {
	Customer        string `json:"customer"`
	Assessment      string `json:"assessment"`
	Campaign        string `json:"campaign"`
	FirstReport     string `json:"first_report"`
	TotalNumReports int64  `json:"total_num_reports"`
}
