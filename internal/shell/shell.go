package shell

import (
	"strings"
)

const (
	// LandingPath public landing page
	LandingPath = "/"
	// AuthPath login / signup page
	AuthPath = "/auth"
	// HomePath where authenticated users land
	HomePath = "/dashboard"
)

// Page a navigable route
type Page struct {
	Pattern string // may contain :param segments
	Name    string
	Public  bool
}

// Pages every routable page, public ones first
var Pages = []Page{
	{Pattern: LandingPath, Name: "landing", Public: true},
	{Pattern: AuthPath, Name: "auth", Public: true},
	{Pattern: "/dashboard", Name: "dashboard"},
	{Pattern: "/aptitude", Name: "aptitude"},
	{Pattern: "/interview", Name: "interview"},
	{Pattern: "/video-interview", Name: "video-interview"},
	{Pattern: "/voice-interview", Name: "voice-interview"},
	{Pattern: "/resume", Name: "resume"},
	{Pattern: "/courses", Name: "courses"},
	{Pattern: "/courses/:courseId", Name: "course-viewer"},
	{Pattern: "/study-center", Name: "study-center"},
	{Pattern: "/roadmaps", Name: "roadmaps"},
	{Pattern: "/practice/coding", Name: "practice-coding"},
	{Pattern: "/practice/sql", Name: "practice-sql"},
	{Pattern: "/practice/debugging", Name: "practice-debugging"},
	{Pattern: "/practice/flashcards", Name: "practice-flashcards"},
	{Pattern: "/learn/aptitude", Name: "aptitude-tutorial"},
	{Pattern: "/settings", Name: "settings"},
}

// Decision outcome of resolving a path for a session
type Decision struct {
	Page     *Page             `json:"page,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// Allowed whether the page renders as requested
func (d *Decision) Allowed() bool {
	return d.Redirect == ""
}

// Resolve decide what path renders for an (un)authenticated session.
//
// Anonymous sessions only reach public pages, everything else goes to the landing page.
// Authenticated sessions reach protected pages, the landing page and unknown paths
// (the auth page included) go to the dashboard.
func Resolve(path string, authenticated bool) *Decision {
	path = normalize(path)
	if !authenticated {
		for i := range Pages {
			p := &Pages[i]
			if p.Public && p.Pattern == path {
				return &Decision{Page: p}
			}
		}
		return &Decision{Redirect: LandingPath}
	}

	for i := range Pages {
		p := &Pages[i]
		if p.Public {
			continue
		}
		if params, ok := match(p.Pattern, path); ok {
			return &Decision{Page: p, Params: params}
		}
	}
	return &Decision{Redirect: HomePath}
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func match(pattern, path string) (map[string]string, bool) {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			if xs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = xs[i]
			continue
		}
		if seg != xs[i] {
			return nil, false
		}
	}
	return params, true
}
