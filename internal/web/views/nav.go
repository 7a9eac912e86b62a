package views

import (
	"net/url"
	"strings"

	"github.com/dmitrijs2005/medcasegen/internal/common"
)

// ViewState is the per-request presentation state of the dashboard. It
// travels in the query string and is carried over on every dashboard link.
type ViewState struct {
	Collapsed bool
	Lang      string
	Size      string
}

const (
	LangFR = "fr"
	LangEN = "en"

	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

func DefaultViewState() ViewState {
	return ViewState{Lang: LangFR, Size: SizeMedium}
}

// ParseViewState reads sidebar, lang and size. Unknown values fall back to
// the defaults.
func ParseViewState(q url.Values) ViewState {
	v := DefaultViewState()
	v.Collapsed = q.Get("sidebar") == "collapsed"

	switch l := q.Get("lang"); l {
	case LangFR, LangEN:
		v.Lang = l
	}
	switch s := q.Get("size"); s {
	case SizeSmall, SizeMedium, SizeLarge:
		v.Size = s
	}
	return v
}

// Query encodes the non-default parts of v.
func (v ViewState) Query() url.Values {
	q := url.Values{}
	if v.Collapsed {
		q.Set("sidebar", "collapsed")
	}
	if v.Lang != "" && v.Lang != LangFR {
		q.Set("lang", v.Lang)
	}
	if v.Size != "" && v.Size != SizeMedium {
		q.Set("size", v.Size)
	}
	return q
}

// Link returns path with v attached.
func (v ViewState) Link(path string) string {
	q := v.Query().Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

func (v ViewState) ToggleSidebar() ViewState {
	v.Collapsed = !v.Collapsed
	return v
}

func (v ViewState) WithLang(lang string) ViewState {
	v.Lang = lang
	return v
}

func (v ViewState) WithSize(size string) ViewState {
	v.Size = size
	return v
}

// T picks the French or English text depending on the selected language.
func (v ViewState) T(fr, en string) string {
	if v.Lang == LangEN {
		return en
	}
	return fr
}

type NavItem struct {
	Label       string
	Href        string
	Description string
	Active      bool
}

type NavSection struct {
	Title string
	Items []NavItem
}

var navigation = []NavSection{
	{
		Title: "Principal",
		Items: []NavItem{
			{Label: "Tableau de bord", Href: common.DashboardPath, Description: "Vue d'ensemble"},
			{Label: "Mon entreprise", Href: "/dashboard/company", Description: "Gérer mon entreprise"},
			{Label: "Mes besoins", Href: "/dashboard/needs", Description: "Besoins et demandes"},
			{Label: "Domaines", Href: "/dashboard/domaines", Description: "Secteurs d'activité"},
		},
	},
	{
		Title: "Partenariats",
		Items: []NavItem{
			{Label: "Opportunités", Href: "/dashboard/opportunities", Description: "Opportunités business"},
			{Label: "Mes partenaires", Href: "/dashboard/partners", Description: "Réseau de partenaires"},
			{Label: "Messages", Href: "/dashboard/messages", Description: "Messagerie"},
		},
	},
	{
		Title: "Gestion",
		Items: []NavItem{
			{Label: "Documents", Href: "/dashboard/documents", Description: "Documents partagés"},
			{Label: "Offres & Services", Href: "/dashboard/offers", Description: "Catalogue d'offres"},
			{Label: "Statistiques", Href: "/dashboard/stats", Description: "Analytiques"},
			{Label: "Paramètres", Href: "/dashboard/settings", Description: "Préférences"},
		},
	},
}

// IsActive reports whether the item at href is highlighted for path. The
// dashboard root only matches itself; other items match by prefix.
func IsActive(href, path string) bool {
	if href == common.DashboardPath {
		return path == href
	}
	return strings.HasPrefix(path, href)
}

// Navigation returns a fresh copy of the sidebar with Active set for path.
func Navigation(path string) []NavSection {
	out := make([]NavSection, len(navigation))
	for i, s := range navigation {
		items := make([]NavItem, len(s.Items))
		for j, it := range s.Items {
			it.Active = IsActive(it.Href, path)
			items[j] = it
		}
		out[i] = NavSection{Title: s.Title, Items: items}
	}
	return out
}

// DashboardHome is the sidebar item of the dashboard root.
func DashboardHome() NavItem {
	return navigation[0].Items[0]
}

// LookupSection finds the sidebar item for /dashboard/{name}.
func LookupSection(name string) (NavItem, bool) {
	href := common.DashboardPath + "/" + name
	for _, s := range navigation {
		for _, it := range s.Items {
			if it.Href == href {
				return it, true
			}
		}
	}
	return NavItem{}, false
}
