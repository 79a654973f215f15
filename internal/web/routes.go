package web

import (
	"slices"
	"strings"
)

// Page names the client component rendered for a route.
type Page string

const (
	PageHome        Page = "Home"
	PageFeed        Page = "Feed"
	PageGuideDetail Page = "GuideDetail"
	PageEditor      Page = "Editor"
	PageLogin       Page = "Login"
	PageRegister    Page = "Register"
	PageMe          Page = "Me"
	PageAdminUsers  Page = "AdminUsers"
)

// Route maps a page path to its component. A path segment starting with ':'
// matches any single non-empty segment.
type Route struct {
	Path string
	Page Page
}

var routes = []Route{
	{"/", PageHome},
	{"/feed", PageFeed},
	{"/guides/:id", PageGuideDetail},
	{"/editor", PageEditor},
	{"/login", PageLogin},
	{"/register", PageRegister},
	{"/me", PageMe},
	{"/admin/users", PageAdminUsers},
}

func Routes() []Route {
	return slices.Clone(routes)
}

// Pattern converts the route path to a net/http ServeMux pattern.
func (r Route) Pattern() string {
	if r.Path == "/" {
		return "/{$}"
	}
	segs := strings.Split(r.Path, "/")
	for i, seg := range segs {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			segs[i] = "{" + name + "}"
		}
	}
	return strings.Join(segs, "/")
}

func (r Route) matches(path string) bool {
	want := strings.Split(r.Path, "/")
	got := strings.Split(path, "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, ":") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}

// ResolvePage returns the page component for a request path.
func ResolvePage(path string) (Page, bool) {
	for _, r := range routes {
		if r.matches(path) {
			return r.Page, true
		}
	}
	return "", false
}
