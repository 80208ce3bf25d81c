package entity

import "regexp"

// Campaign names carry their difficulty level as a trailing suffix,
// e.g. "RVXXX1-C1_level-3".
var levelSuffixRegex = regexp.MustCompile(`_(level-[1-6])$`)

// ParseLevel extracts the level suffix from a campaign name. The second
// return value is false when the name is not suffixed with a level.
func ParseLevel(campaignName string) (string, bool) {
	m := levelSuffixRegex.FindStringSubmatch(campaignName)
	if m == nil {
		return "", false
	}
	return m[1], true
}

type Template struct {
	Name    *string `json:"name,omitempty"`
	Subject *string `json:"subject,omitempty"`
	Html    *string `json:"html,omitempty"`
	Text    *string `json:"text,omitempty"`
}

func (t *Template) GetName() string {
	if t != nil && t.Name != nil {
		return *t.Name
	}
	return ""
}

func (t *Template) GetSubject() string {
	if t != nil && t.Subject != nil {
		return *t.Subject
	}
	return ""
}

func (t *Template) GetHtml() string {
	if t != nil && t.Html != nil {
		return *t.Html
	}
	return ""
}

func (t *Template) GetText() string {
	if t != nil && t.Text != nil {
		return *t.Text
	}
	return ""
}

type Smtp struct {
	Name        *string `json:"name,omitempty"`
	Host        *string `json:"host,omitempty"`
	FromAddress *string `json:"from_address,omitempty"`
	Username    *string `json:"username,omitempty"`
	Password    *string `json:"password,omitempty"`
}

func (s *Smtp) GetName() string {
	if s != nil && s.Name != nil {
		return *s.Name
	}
	return ""
}

func (s *Smtp) GetHost() string {
	if s != nil && s.Host != nil {
		return *s.Host
	}
	return ""
}

func (s *Smtp) GetFromAddress() string {
	if s != nil && s.FromAddress != nil {
		return *s.FromAddress
	}
	return ""
}

type Campaign struct {
	Name         *string   `json:"name,omitempty"`
	Template     *Template `json:"template,omitempty"`
	Smtp         *Smtp     `json:"smtp,omitempty"`
	GroupName    *string   `json:"group_name,omitempty"`
	PageName     *string   `json:"page_name,omitempty"`
	URL          *string   `json:"url,omitempty"`
	LaunchDate   *string   `json:"launch_date,omitempty"`
	CompleteDate *string   `json:"complete_date,omitempty"`
}

func (c *Campaign) GetName() string {
	if c != nil && c.Name != nil {
		return *c.Name
	}
	return ""
}

func (c *Campaign) GetGroupName() string {
	if c != nil && c.GroupName != nil {
		return *c.GroupName
	}
	return ""
}

func (c *Campaign) GetPageName() string {
	if c != nil && c.PageName != nil {
		return *c.PageName
	}
	return ""
}

func (c *Campaign) GetURL() string {
	if c != nil && c.URL != nil {
		return *c.URL
	}
	return ""
}

func (c *Campaign) GetLaunchDate() string {
	if c != nil && c.LaunchDate != nil {
		return *c.LaunchDate
	}
	return ""
}

func (c *Campaign) GetCompleteDate() string {
	if c != nil && c.CompleteDate != nil {
		return *c.CompleteDate
	}
	return ""
}

// Level returns the campaign's difficulty level parsed from its name.
func (c *Campaign) Level() (string, bool) {
	return ParseLevel(c.GetName())
}
