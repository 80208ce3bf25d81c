package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pca/config"
	"pca/entity"

	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyAssessmentDoc = errors.New("assessment document has no id")
)

// SummaryLevels are the keys of the level-keyed campaign summary document.
var SummaryLevels = []string{
	"level-1", "level-2", "level-3", "level-4", "level-5", "level-6",
}

// AssessmentRepo reads assessment documents and writes export artifacts.
// The local filesystem is the storage medium; all formats are fixed by the
// portable document contract.
type AssessmentRepo interface {
	LoadAssessment(ctx context.Context, path string) (*entity.Assessment, error)
	LoadTargets(ctx context.Context, path string) ([]*entity.Target, error)
	LoadSummaryTemplate(ctx context.Context) (map[string]*entity.CampaignSummary, error)

	WriteAssessmentData(ctx context.Context, assessmentID string, data *entity.AssessmentData) (string, error)
	WriteUserReport(ctx context.Context, assessmentID string, campaignID uint64, doc *entity.UserReportDoc) (string, error)
	WriteCampaignSummary(ctx context.Context, assessmentID string, summary map[string]*entity.CampaignSummary) (string, error)
	WriteSummaryText(ctx context.Context, assessmentID string, now time.Time, text string) (string, error)
}

type assessmentRepo struct {
	dir                 string
	summaryTemplatePath string
}

func NewAssessmentRepo(_ context.Context, cfg config.Artifacts) AssessmentRepo {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return &assessmentRepo{
		dir:                 dir,
		summaryTemplatePath: cfg.SummaryTemplatePath,
	}
}

func (r *assessmentRepo) LoadAssessment(ctx context.Context, path string) (*entity.Assessment, error) {
	assessment := new(entity.Assessment)
	if err := r.readJSON(ctx, path, assessment); err != nil {
		return nil, err
	}
	if assessment.GetID() == "" {
		return nil, ErrEmptyAssessmentDoc
	}
	return assessment, nil
}

func (r *assessmentRepo) LoadTargets(ctx context.Context, path string) ([]*entity.Target, error) {
	var targets []*entity.Target
	if err := r.readJSON(ctx, path, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// LoadSummaryTemplate returns the level-keyed summary skeleton. A template
// file in the working set wins; otherwise a built-in skeleton with all six
// levels is used. Levels missing from the file are backfilled so the
// aggregator can always write into its level slot.
func (r *assessmentRepo) LoadSummaryTemplate(ctx context.Context) (map[string]*entity.CampaignSummary, error) {
	summary := make(map[string]*entity.CampaignSummary)

	if r.summaryTemplatePath != "" {
		if _, err := os.Stat(r.summaryTemplatePath); err == nil {
			if err := r.readJSON(ctx, r.summaryTemplatePath, &summary); err != nil {
				return nil, err
			}
		}
	}

	for _, level := range SummaryLevels {
		if _, ok := summary[level]; !ok {
			summary[level] = new(entity.CampaignSummary)
		}
	}

	return summary, nil
}

func (r *assessmentRepo) WriteAssessmentData(ctx context.Context, assessmentID string, data *entity.AssessmentData) (string, error) {
	name := fmt.Sprintf(config.AssessmentDataFileFormat, assessmentID)
	return r.writeJSON(ctx, name, data)
}

func (r *assessmentRepo) WriteUserReport(ctx context.Context, assessmentID string, campaignID uint64, doc *entity.UserReportDoc) (string, error) {
	name := fmt.Sprintf(config.UserReportFileFormat, assessmentID, campaignID)
	return r.writeJSON(ctx, name, doc)
}

func (r *assessmentRepo) WriteCampaignSummary(ctx context.Context, assessmentID string, summary map[string]*entity.CampaignSummary) (string, error) {
	name := fmt.Sprintf(config.CampaignSummaryFileFormat, assessmentID)
	return r.writeJSON(ctx, name, summary)
}

func (r *assessmentRepo) WriteSummaryText(ctx context.Context, assessmentID string, now time.Time, text string) (string, error) {
	name := fmt.Sprintf(config.SummaryTextFileFormat, assessmentID, now.Format(config.SummaryTimestampFormat))
	path := filepath.Join(r.dir, name)

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

func (r *assessmentRepo) readJSON(ctx context.Context, path string, dst interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			log.Ctx(ctx).Error().Msgf("close file failed, file path: %s", path)
		}
	}(f)

	d := json.NewDecoder(f)
	if err := d.Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

func (r *assessmentRepo) writeJSON(ctx context.Context, name string, v interface{}) (string, error) {
	path := filepath.Join(r.dir, name)

	js, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, js, 0o644); err != nil {
		return "", err
	}

	log.Ctx(ctx).Debug().Msgf("artifact written, path: %s", path)
	return path, nil
}
