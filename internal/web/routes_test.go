package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePage(t *testing.T) {
	tests := []struct {
		path string
		want Page
		ok   bool
	}{
		{"/", PageHome, true},
		{"/feed", PageFeed, true},
		{"/guides/42", PageGuideDetail, true},
		{"/guides/abc", PageGuideDetail, true},
		{"/editor", PageEditor, true},
		{"/login", PageLogin, true},
		{"/register", PageRegister, true},
		{"/me", PageMe, true},
		{"/admin/users", PageAdminUsers, true},
		{"/guides/", "", false},
		{"/guides/1/comments", "", false},
		{"/feed/", "", false},
		{"/admin", "", false},
		{"/unknown", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ResolvePage(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoutePattern(t *testing.T) {
	assert.Equal(t, "/{$}", Route{Path: "/"}.Pattern())
	assert.Equal(t, "/guides/{id}", Route{Path: "/guides/:id"}.Pattern())
	assert.Equal(t, "/admin/users", Route{Path: "/admin/users"}.Pattern())
}

func TestRoutesIsACopy(t *testing.T) {
	list := Routes()
	assert.Len(t, list, 8)
	list[0].Page = PageMe
	page, _ := ResolvePage("/")
	assert.Equal(t, PageHome, page)
}
