package roadmap

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinCatalog(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Developer", "Designer", "Analyst", "Digital Marketing", "Management", "Security", "Content"}
	names := c.Names()
	if len(names) != len(want) {
		t.Fatalf("got categories %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got categories %v", names)
		}
	}
	for _, cat := range c.Categories {
		for _, r := range cat.Roadmaps {
			if len(r.Steps) != 5 {
				t.Errorf("%s/%s has %d steps", cat.Name, r.Title, len(r.Steps))
			}
		}
	}

	r, err := c.Roadmap("Security", "SOC Analyst")
	if err != nil {
		t.Fatal(err)
	}
	if r.Steps[0] != "SIEM Tools" {
		t.Fatalf("unexpected roadmap %+v", r)
	}
	if _, err := c.Category("Astronomy"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatal("unknown category accepted")
	}
	if _, err := c.Roadmap("Content", "Astronaut"); !errors.Is(err, ErrUnknownRoadmap) {
		t.Fatal("unknown roadmap accepted")
	}
}

func TestLoadOverride(t *testing.T) {
	dir, err := ioutil.TempDir("", "roadmap")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "roadmaps.yaml")
	src := "categories:\n  - name: Ops\n    roadmaps:\n      - title: SRE\n        description: Keep it running\n        steps: [Linux, Observability]\n"
	if err := ioutil.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Names()[0] != "Ops" || c.Categories[0].Roadmaps[0].Steps[1] != "Observability" {
		t.Fatalf("unexpected catalog %+v", c.Categories[0])
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	cases := map[string]string{
		"empty":         "categories: []\n",
		"unknown field": "categories:\n  - name: A\n    colour: red\n",
		"duplicate":     "categories:\n  - name: A\n  - name: A\n",
		"no steps":      "categories:\n  - name: A\n    roadmaps:\n      - title: X\n",
	}
	for name, src := range cases {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
