package entity

type Assessment struct {
	ID            *string     `json:"id,omitempty"`
	Timezone      *string     `json:"timezone,omitempty"`
	Domain        *string     `json:"domain,omitempty"`
	TargetDomains []string    `json:"target_domains,omitempty"`
	StartDate     *string     `json:"start_date,omitempty"`
	EndDate       *string     `json:"end_date,omitempty"`
	Groups        []*Group    `json:"groups,omitempty"`
	Page          *Page       `json:"page,omitempty"`
	Pages         []*Page     `json:"pages,omitempty"`
	Campaigns     []*Campaign `json:"campaigns,omitempty"`
}

func (a *Assessment) GetID() string {
	if a != nil && a.ID != nil {
		return *a.ID
	}
	return ""
}

func (a *Assessment) GetTimezone() string {
	if a != nil && a.Timezone != nil {
		return *a.Timezone
	}
	return ""
}

// AllPages merges the single-page and multi-page document forms. Older
// documents carry a "pages" array, newer ones a single "page" object.
func (a *Assessment) AllPages() []*Page {
	if a == nil {
		return nil
	}
	pages := make([]*Page, 0, len(a.Pages)+1)
	pages = append(pages, a.Pages...)
	if a.Page != nil {
		pages = append(pages, a.Page)
	}
	return pages
}

type Group struct {
	Name    *string   `json:"name,omitempty"`
	Targets []*Target `json:"targets,omitempty"`
}

func (g *Group) GetName() string {
	if g != nil && g.Name != nil {
		return *g.Name
	}
	return ""
}

type Target struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Position  *string `json:"position,omitempty"`
}

func (t *Target) GetFirstName() string {
	if t != nil && t.FirstName != nil {
		return *t.FirstName
	}
	return ""
}

func (t *Target) GetLastName() string {
	if t != nil && t.LastName != nil {
		return *t.LastName
	}
	return ""
}

func (t *Target) GetEmail() string {
	if t != nil && t.Email != nil {
		return *t.Email
	}
	return ""
}

func (t *Target) GetPosition() string {
	if t != nil && t.Position != nil {
		return *t.Position
	}
	return ""
}

type Page struct {
	Name               *string `json:"name,omitempty"`
	CaptureCredentials *bool   `json:"capture_credentials,omitempty"`
	CapturePasswords   *bool   `json:"capture_passwords,omitempty"`
	Html               *string `json:"html,omitempty"`
	RedirectURL        *string `json:"redirect_url,omitempty"`
}

func (p *Page) GetName() string {
	if p != nil && p.Name != nil {
		return *p.Name
	}
	return ""
}

func (p *Page) GetCaptureCredentials() bool {
	if p != nil && p.CaptureCredentials != nil {
		return *p.CaptureCredentials
	}
	return false
}

func (p *Page) GetCapturePasswords() bool {
	if p != nil && p.CapturePasswords != nil {
		return *p.CapturePasswords
	}
	return false
}

func (p *Page) GetHtml() string {
	if p != nil && p.Html != nil {
		return *p.Html
	}
	return ""
}

func (p *Page) GetRedirectURL() string {
	if p != nil && p.RedirectURL != nil {
		return *p.RedirectURL
	}
	return ""
}
