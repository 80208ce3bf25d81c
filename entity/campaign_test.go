package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		matched bool
	}{
		{"RVXXX1-C1_level-1", "level-1", true},
		{"RVXXX1-C6_level-6", "level-6", true},
		{"RVXXX1-extra_tag_level-3", "level-3", true},
		{"RVXXX1-C1_level-7", "", false},
		{"RVXXX1-C1_level-1-extra", "", false},
		{"RVXXX1-C1_Level-1", "", false},
		{"RVXXX1-C1", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		level, ok := ParseLevel(tt.name)
		assert.Equal(t, tt.matched, ok, tt.name)
		assert.Equal(t, tt.level, level, tt.name)
	}
}

func TestCampaignLevel(t *testing.T) {
	name := "RVXXX1-C2_level-2"
	c := &Campaign{Name: &name}

	level, ok := c.Level()
	assert.True(t, ok)
	assert.Equal(t, "level-2", level)

	var nilCampaign *Campaign
	_, ok = nilCampaign.Level()
	assert.False(t, ok)
}

func TestNilSafeAccessors(t *testing.T) {
	var (
		campaign *Campaign
		template *Template
		smtp     *Smtp
	)
	assert.Empty(t, campaign.GetName())
	assert.Empty(t, campaign.GetLaunchDate())
	assert.Empty(t, template.GetSubject())
	assert.Empty(t, smtp.GetFromAddress())
}
