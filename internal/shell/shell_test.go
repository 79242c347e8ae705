package shell

import "testing"

func TestResolveAnonymous(t *testing.T) {
	cases := []struct {
		path     string
		redirect string
	}{
		{"/", ""},
		{"/auth", ""},
		{"/auth/", ""},
		{"/dashboard", "/"},
		{"/courses/12", "/"},
		{"/nope", "/"},
	}
	for _, tc := range cases {
		d := Resolve(tc.path, false)
		if d.Redirect != tc.redirect {
			t.Errorf("%s: redirect %q, want %q", tc.path, d.Redirect, tc.redirect)
		}
	}
}

func TestResolveAuthenticated(t *testing.T) {
	cases := []struct {
		path     string
		page     string
		redirect string
	}{
		{"/", "", "/dashboard"},
		{"/auth", "", "/dashboard"},
		{"/dashboard", "dashboard", ""},
		{"/practice/debugging", "practice-debugging", ""},
		{"/learn/aptitude?topic=x", "aptitude-tutorial", ""},
		{"/learn/system-design", "", "/dashboard"},
		{"/courses/", "courses", ""},
		{"/courses/3/extra", "", "/dashboard"},
	}
	for _, tc := range cases {
		d := Resolve(tc.path, true)
		if d.Redirect != tc.redirect {
			t.Errorf("%s: redirect %q, want %q", tc.path, d.Redirect, tc.redirect)
			continue
		}
		if tc.page != "" && d.Page.Name != tc.page {
			t.Errorf("%s: page %q, want %q", tc.path, d.Page.Name, tc.page)
		}
	}
}

func TestResolveParams(t *testing.T) {
	d := Resolve("/courses/42", true)
	if !d.Allowed() || d.Page.Name != "course-viewer" || d.Params["courseId"] != "42" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestSidebarTargetsResolve(t *testing.T) {
	for _, item := range Sidebar {
		if d := Resolve(item.Path, true); !d.Allowed() {
			t.Errorf("sidebar item %s does not resolve", item.Path)
		}
	}
}
