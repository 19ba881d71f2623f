package service

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"parkspotter-admin/internal/entities"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/resource"
	"parkspotter-admin/internal/session"
)

const searchLimit = 5

type NavItem struct {
	Title    string    `json:"title"`
	Route    string    `json:"route,omitempty"`
	Keywords []string  `json:"-"`
	Roles    []string  `json:"-"`
	Children []NavItem `json:"children,omitempty"`
}

var navigation = []NavItem{
	{Title: "Dashboards", Children: []NavItem{
		{Title: "Overview", Route: "/admin/overview", Keywords: []string{"home", "dashboard", "stats"}},
		{Title: "Analytics", Route: "/admin/analytics", Keywords: []string{"charts", "reports", "earnings"}},
	}},
	{Title: "Management", Children: []NavItem{
		{Title: "Parkowners", Route: "/admin/parkowners", Keywords: []string{"owners", "parks", "revenue"}},
		{Title: "Users", Route: "/admin/users", Keywords: []string{"customers", "accounts"}},
		{Title: "Zones", Route: "/admin/zones", Keywords: []string{"areas", "capacity"}},
	}},
	{Title: "Subscriptions", Children: []NavItem{
		{Title: "View Subscriptions", Route: "/admin/subscriptions", Keywords: []string{"expiry", "status"}},
		{Title: "Manage Plans", Route: "/admin/plans", Keywords: []string{"packages", "pricing"}},
	}},
	{Title: "Bookings", Route: "/admin/bookings", Keywords: []string{"tickets", "vehicles", "plates"}},
	{Title: "Parking Zones", Route: "/admin/parking-zones", Keywords: []string{"map", "markers", "divisions"}},
	{Title: "Admin Management", Route: "/admin/management/roles", Keywords: []string{"roles", "permissions", "settings"}, Roles: []string{session.RoleAdmin}},
}

func allowed(it NavItem, role string) bool {
	return len(it.Roles) == 0 || slices.Contains(it.Roles, role)
}

// Navigation returns the menu visible to role. Groups left without children are dropped.
func Navigation(role string) []NavItem {
	var out []NavItem
	for _, it := range navigation {
		if !allowed(it, role) {
			continue
		}
		if len(it.Children) > 0 {
			var kids []NavItem
			for _, c := range it.Children {
				if allowed(c, role) {
					kids = append(kids, c)
				}
			}
			if len(kids) == 0 {
				continue
			}
			it.Children = kids
		}
		out = append(out, it)
	}
	return out
}

type ShellView struct {
	UserID        string            `json:"user_id"`
	Role          string            `json:"role"`
	Navigation    []NavItem         `json:"navigation"`
	Notifications NotificationsView `json:"notifications"`
}

type SearchHit struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Route string `json:"route"`
}

type SearchView struct {
	PageStatus
	Query string      `json:"query"`
	Jump  string      `json:"jump,omitempty"`
	Hits  []SearchHit `json:"hits"`
}

func (s *DashboardService) Shell(ctx context.Context, sess session.Session) ShellView {
	return ShellView{
		UserID:        sess.UserID,
		Role:          sess.Role,
		Navigation:    Navigation(sess.Role),
		Notifications: s.Notifications(ctx, sess),
	}
}

func pages(items []NavItem) []NavItem {
	var out []NavItem
	for _, it := range items {
		if it.Route != "" {
			out = append(out, it)
		}
		out = append(out, pages(it.Children)...)
	}
	return out
}

func listRoute(route, q string) string {
	return route + "?q=" + url.QueryEscape(q)
}

// Search matches q against page titles and keywords, then against park owners and users.
// Jump is set when exactly one page matched, so the navbar can go straight there.
func (s *DashboardService) Search(ctx context.Context, sess session.Session, q string) SearchView {
	q = strings.TrimSpace(q)
	view := SearchView{Query: q, Hits: []SearchHit{}}
	if q == "" {
		return view
	}

	pageHits := listing.Filter(pages(Navigation(sess.Role)), q, func(it NavItem) []string {
		return append([]string{it.Title}, it.Keywords...)
	})
	for _, p := range pageHits {
		view.Hits = append(view.Hits, SearchHit{Kind: "page", Title: p.Title, Route: p.Route})
	}
	if len(pageHits) == 1 {
		view.Jump = pageHits[0].Route
	}

	var (
		owners resource.Snapshot[[]entities.ParkOwner]
		users  resource.Snapshot[[]entities.User]
	)
	report := resource.Settle(ctx,
		resource.Into(s.Res.ParkOwners, sess.ID, sess.Token, &owners),
		resource.Into(s.Res.Users, sess.ID, sess.Token, &users),
	)
	view.PageStatus = statusOf(report)

	ownerHits := listing.Filter(owners.Value, q, func(o entities.ParkOwner) []string {
		return []string{o.Name(), o.Username, o.Email}
	})
	for _, o := range ownerHits[:min(len(ownerHits), searchLimit)] {
		view.Hits = append(view.Hits, SearchHit{Kind: "parkowner", Title: o.Name(), Route: listRoute("/admin/parkowners", o.Username)})
	}
	userHits := listing.Filter(users.Value, q, func(u entities.User) []string {
		return []string{u.Username, u.Email}
	})
	for _, u := range userHits[:min(len(userHits), searchLimit)] {
		view.Hits = append(view.Hits, SearchHit{Kind: "user", Title: u.Username, Route: listRoute("/admin/users", u.Username)})
	}
	return view
}
