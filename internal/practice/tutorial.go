package practice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pot-code/interview-prep/internal/infrastructure/markdown"
	"go.elastic.co/apm"
)

// TopicGroup tutorial topics of one aptitude category
type TopicGroup struct {
	Category string   `json:"category"`
	Topics   []string `json:"topics"`
}

// TutorialTopics aptitude tutorial library
var TutorialTopics = []*TopicGroup{
	{Category: "Logical", Topics: []string{"Number Series", "Blood Relations", "Syllogism", "Seating Arrangement", "Coding-Decoding"}},
	{Category: "Quantitative", Topics: []string{"Percentages", "Time & Work", "Profit & Loss", "Speed & Distance", "Algebra"}},
	{Category: "Verbal", Topics: []string{"Synonyms & Antonyms", "Reading Comprehension", "Sentence Correction", "Idioms & Phrases"}},
}

// Concept key concept of a tutorial
type Concept struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UnmarshalJSON accept name/title and description/definition
func (c *Concept) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name        string `json:"name"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Definition  string `json:"definition"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.Name = firstOf(raw.Name, raw.Title)
	c.Description = firstOf(raw.Description, raw.Definition)
	return nil
}

// Example solved example
type Example struct {
	Question    string `json:"question"`
	Explanation string `json:"explanation"`
	Answer      string `json:"answer"`
}

// TutorialView normalized tutorial with rendered HTML
type TutorialView struct {
	Category    string     `json:"category"`
	Topic       string     `json:"topic"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	KeyConcepts []*Concept `json:"key_concepts"`
	Formulas    []string   `json:"formulas"`
	Examples    []*Example `json:"examples"`
	Tips        []string   `json:"tips"`
	HTML        string     `json:"html"`
}

// TutorialUseCase aptitude tutorials
type TutorialUseCase interface {
	Tutorial(ctx context.Context, category, topic string) (*TutorialView, error)
}

// TutorialUseCaseImpl TutorialUseCase implementation
type TutorialUseCaseImpl struct {
	api API
	md  markdown.Renderer
}

var _ TutorialUseCase = &TutorialUseCaseImpl{}

// NewTutorialUseCase create a TutorialUseCase
func NewTutorialUseCase(api API, md markdown.Renderer) *TutorialUseCaseImpl {
	return &TutorialUseCaseImpl{api: api, md: md}
}

// Tutorial fetch and render the tutorial of a library topic
func (tu *TutorialUseCaseImpl) Tutorial(ctx context.Context, category, topic string) (*TutorialView, error) {
	span, ctx := apm.StartSpan(ctx, "TutorialUseCase.Tutorial", "service")
	defer span.End()

	if !hasTopic(category, topic) {
		return nil, ErrUnknownTopic
	}
	t, err := tu.api.AptitudeTutorial(ctx, category, topic)
	if err != nil {
		return nil, err
	}

	view := &TutorialView{Category: category, Topic: topic, Title: t.Title, Overview: t.Overview}
	if err := decodeSection(t.KeyConcepts, &view.KeyConcepts); err != nil {
		return nil, fmt.Errorf("decode key concepts: %w", err)
	}
	if err := decodeSection(t.Formulas, &view.Formulas); err != nil {
		return nil, fmt.Errorf("decode formulas: %w", err)
	}
	if err := decodeSection(t.Examples, &view.Examples); err != nil {
		return nil, fmt.Errorf("decode examples: %w", err)
	}
	if err := decodeSection(t.Tips, &view.Tips); err != nil {
		return nil, fmt.Errorf("decode tips: %w", err)
	}
	html, err := tu.md.Render(view.markdown())
	if err != nil {
		return nil, err
	}
	view.HTML = html
	return view, nil
}

func (tv *TutorialView) markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Overview\n\n%s\n\n## Key Concepts\n\n", tv.Overview)
	for _, c := range tv.KeyConcepts {
		fmt.Fprintf(&sb, "- **%s:** %s\n", c.Name, c.Description)
	}
	if len(tv.Formulas) > 0 {
		sb.WriteString("\n## Essential Formulas\n\n")
		for _, f := range tv.Formulas {
			fmt.Fprintf(&sb, "- `%s`\n", f)
		}
	}
	sb.WriteString("\n## Solved Examples\n\n")
	for i, ex := range tv.Examples {
		fmt.Fprintf(&sb, "**Example %d:** %s\n\n**Solution:**\n\n%s\n\nCorrect Answer: %s\n\n", i+1, ex.Question, ex.Explanation, ex.Answer)
	}
	sb.WriteString("## Tips & Shortcuts\n\n")
	for _, tip := range tv.Tips {
		fmt.Fprintf(&sb, "- %s\n", tip)
	}
	return sb.String()
}

func decodeSection(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func hasTopic(category, topic string) bool {
	for _, g := range TutorialTopics {
		if g.Category != category {
			continue
		}
		for _, t := range g.Topics {
			if t == topic {
				return true
			}
		}
	}
	return false
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
