package practice

import (
	"context"
	"sync"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"go.elastic.co/apm"
)

// Card flashcard derived from a generated problem
type Card struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Points   []string `json:"points"`
}

func cardOf(p *apiclient.CodingProblem) *Card {
	points := p.Constraints
	if points == nil {
		points = []string{}
	}
	return &Card{Question: p.Title, Answer: p.Description, Points: points}
}

// DeckView observable deck state
type DeckView struct {
	Stage    Stage  `json:"stage"`
	Setup    *Setup `json:"setup,omitempty"`
	Current  int    `json:"current"`
	Total    int    `json:"total"`
	Card     *Card  `json:"card,omitempty"`
	Flipped  bool   `json:"flipped"`
	Mastered int    `json:"mastered"`
}

// Deck flashcard session
type Deck struct {
	api API
	v   validate.Validator

	mu       sync.Mutex
	stage    Stage
	setup    *Setup
	cards    []*Card
	current  int
	flipped  bool
	mastered int
}

// NewDeck create an empty deck
func NewDeck(api API, v validate.Validator) *Deck {
	return &Deck{api: api, v: v, stage: StageSelect}
}

// Start fetch cards for the setup
func (d *Deck) Start(ctx context.Context, setup Setup) (*DeckView, error) {
	span, ctx := apm.StartSpan(ctx, "Deck.Start", "service")
	defer span.End()

	c := Catalogs[KindFlashcards]
	if err := setup.Validate(d.v, c); err != nil {
		return nil, err
	}
	res, err := d.api.CodingProblems(ctx, setup.request(c))
	if err != nil {
		return nil, err
	}
	if len(res.Problems) == 0 {
		return nil, ErrNoProblems
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cards = make([]*Card, len(res.Problems))
	for i, p := range res.Problems {
		d.cards[i] = cardOf(p)
	}
	d.setup = &setup
	d.current = 0
	d.flipped = false
	d.mastered = 0
	d.stage = StageSolving
	return d.view(), nil
}

// Flip turn the current card over
func (d *Deck) Flip() (*DeckView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stage != StageSolving {
		return nil, ErrWrongStage
	}
	d.flipped = !d.flipped
	return d.view(), nil
}

// Next move on, counting the current card when mastered. The last card ends the deck.
func (d *Deck) Next(mastered bool) (*DeckView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stage != StageSolving {
		return nil, ErrWrongStage
	}
	if mastered {
		d.mastered++
	}
	d.flipped = false
	if d.current < len(d.cards)-1 {
		d.current++
	} else {
		d.stage = StageResults
	}
	return d.view(), nil
}

// Reset back to select
func (d *Deck) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stage = StageSelect
	d.setup = nil
	d.cards = nil
	d.current = 0
	d.flipped = false
	d.mastered = 0
}

// View snapshot of the deck
func (d *Deck) View() *DeckView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view()
}

func (d *Deck) view() *DeckView {
	view := &DeckView{
		Stage:    d.stage,
		Current:  d.current,
		Total:    len(d.cards),
		Flipped:  d.flipped,
		Mastered: d.mastered,
	}
	if d.setup != nil {
		s := *d.setup
		view.Setup = &s
	}
	if d.stage == StageSolving {
		view.Card = d.cards[d.current]
	}
	return view
}
