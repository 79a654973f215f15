package web

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/shell.html
var templatesFS embed.FS

var shell = template.Must(template.ParseFS(templatesFS, "templates/shell.html"))

var pageTitles = map[Page]string{
	PageHome:        "Home",
	PageFeed:        "Feed",
	PageGuideDetail: "Guide",
	PageEditor:      "Editor",
	PageLogin:       "Log in",
	PageRegister:    "Sign up",
	PageMe:          "My page",
	PageAdminUsers:  "Users",
}

// handlePage answers page routes with the HTML shell the client mounts the
// named component into.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, ok := ResolvePage(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]any{"Page": page, "Path": r.URL.Path, "Title": pageTitles[page]}
	if err := shell.ExecuteTemplate(w, "shell", data); err != nil {
		s.logger.Error("render page error", "page", page, "error", err)
	}
}
