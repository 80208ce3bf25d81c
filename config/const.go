package config

const (
	LogLevelDebug    = "debug"
	LogLevelInfo     = "info"
	LogLevelWarning  = "warning"
	LogLevelError    = "error"
	LogLevelCritical = "critical"
)

// Export artifact name formats, keyed by assessment (and campaign) id.
const (
	AssessmentDataFileFormat  = "data_%s.json"
	CampaignSummaryFileFormat = "%s_campaign_data.json"
	SummaryTextFileFormat     = "%s_summary_%s.txt"
	UserReportFileFormat      = "%s_%d_user_report_doc.json"

	SummaryTimestampFormat = "2006-01-02T15:04:05"
)
