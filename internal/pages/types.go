package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/brightlane/school-cms/internal/blocks"
	"github.com/brightlane/school-cms/internal/domain"
)

// Meta carries the SEO fields rendered into the page head.
type Meta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
	Robots      Robots `json:"robots"`
	OGImage     string `json:"ogImage,omitempty"`
}

// Robots controls crawler directives.
type Robots struct {
	Index  bool `json:"index"`
	Follow bool `json:"follow"`
}

// DefaultMeta returns the meta defaults applied to new pages.
func DefaultMeta() Meta {
	return Meta{Robots: Robots{Index: true, Follow: true}}
}

// Colors overrides the site palette for one page.
type Colors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Background string `json:"background,omitempty"`
}

// Fonts overrides the site typography for one page.
type Fonts struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Settings carries per-page layout and theme configuration.
type Settings struct {
	Layout          string `json:"layout"`
	Theme           string `json:"theme"`
	Colors          Colors `json:"colors"`
	Fonts           Fonts  `json:"fonts"`
	ShowHeader      bool   `json:"showHeader"`
	ShowFooter      bool   `json:"showFooter"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

// DefaultSettings returns the settings applied to new pages.
func DefaultSettings() Settings {
	return Settings{
		Layout:     "default",
		Theme:      "default",
		ShowHeader: true,
		ShowFooter: true,
	}
}

// Permissions grants edit/publish rights on one page beyond the role matrix.
type Permissions struct {
	Roles []string    `json:"roles,omitempty"`
	Users []uuid.UUID `json:"users,omitempty"`
}

func (p Permissions) clone() Permissions {
	out := Permissions{}
	if p.Roles != nil {
		out.Roles = append([]string(nil), p.Roles...)
	}
	if p.Users != nil {
		out.Users = append([]uuid.UUID(nil), p.Users...)
	}
	return out
}

// Page is a publishable unit of the site.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID     uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	Title  string        `bun:"title,notnull" json:"title"`
	Slug   string        `bun:"slug,notnull,unique" json:"slug"`
	Status domain.Status `bun:"status,notnull,default:'draft'" json:"status"`

	// Navigation hints consumed by the menu builder outside the core.
	ParentID  *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	MenuGroup string     `bun:"menu_group,default:'main'" json:"menu_group,omitempty"`
	MenuTitle string     `bun:"menu_title" json:"menu_title,omitempty"`
	MenuOrder int        `bun:"menu_order,default:0" json:"menu_order"`
	Template  string     `bun:"template,default:'default'" json:"template,omitempty"`

	Meta     Meta     `bun:"meta,type:jsonb" json:"meta"`
	Settings Settings `bun:"settings,type:jsonb" json:"settings"`

	ContentBlocks []blocks.Block `bun:"content_blocks,type:jsonb" json:"content_blocks"`

	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	ScheduledAt *time.Time `bun:"scheduled_at,nullzero" json:"scheduled_at,omitempty"`

	Permissions Permissions `bun:"permissions,type:jsonb" json:"permissions"`

	CreatedBy uuid.UUID `bun:"created_by,type:uuid" json:"created_by"`
	UpdatedBy uuid.UUID `bun:"updated_by,type:uuid" json:"updated_by"`
	Version   int       `bun:"version,notnull,default:1" json:"version"`

	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// PermittedUsers implements the permission resource contract.
func (p *Page) PermittedUsers() []uuid.UUID { return p.Permissions.Users }

// PermittedRoles implements the permission resource contract.
func (p *Page) PermittedRoles() []string { return p.Permissions.Roles }

// CreatorID implements the permission resource contract.
func (p *Page) CreatorID() uuid.UUID { return p.CreatedBy }

// Clone deep-copies the page, including its block list and permission sets.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	cloned := *p
	cloned.ContentBlocks = blocks.CloneSlice(p.ContentBlocks)
	cloned.Permissions = p.Permissions.clone()
	if p.ParentID != nil {
		parent := *p.ParentID
		cloned.ParentID = &parent
	}
	cloned.PublishedAt = cloneTime(p.PublishedAt)
	cloned.ScheduledAt = cloneTime(p.ScheduledAt)
	return &cloned
}

// VisiblePublicly reports whether a public slug lookup may return this page.
// Scheduled pages become visible once their publish time has passed.
func (p *Page) VisiblePublicly(now time.Time) bool {
	switch p.Status {
	case domain.StatusPublished:
		return true
	case domain.StatusScheduled:
		return p.ScheduledAt != nil && !p.ScheduledAt.After(now)
	default:
		return false
	}
}

// Revision is an immutable snapshot of a page's editable fields, captured
// before each mutation. The stored version is the one being superseded.
type Revision struct {
	bun.BaseModel `bun:"table:page_revisions,alias:rev"`

	ID            uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	PageID        uuid.UUID      `bun:"page_id,notnull,type:uuid" json:"page_id"`
	Version       int            `bun:"version,notnull" json:"version"`
	Title         string         `bun:"title,notnull" json:"title"`
	Slug          string         `bun:"slug,notnull" json:"slug"`
	Status        domain.Status  `bun:"status" json:"status"`
	ContentBlocks []blocks.Block `bun:"content_blocks,type:jsonb" json:"content_blocks"`
	Settings      Settings       `bun:"settings,type:jsonb" json:"settings"`
	Meta          Meta           `bun:"meta,type:jsonb" json:"meta"`
	CreatedBy     uuid.UUID      `bun:"created_by,type:uuid" json:"created_by"`
	ChangeNote    string         `bun:"change_note" json:"change_note,omitempty"`
	CreatedAt     time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Clone deep-copies the revision.
func (r *Revision) Clone() *Revision {
	if r == nil {
		return nil
	}
	cloned := *r
	cloned.ContentBlocks = blocks.CloneSlice(r.ContentBlocks)
	return &cloned
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
