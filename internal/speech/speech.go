// Package speech exposes speech recognition and synthesis as capabilities. The browser owns the
// real engines; Bridge drives them over a websocket.
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pot-code/interview-prep/internal/capability"
)

// Lang recognition language
const Lang = "en-US"

var ErrUnknownPersonality = errors.New("unknown interviewer personality")

// Voice preferred synthesizer voice
type Voice string

const (
	VoiceFemale Voice = "female"
	VoiceMale   Voice = "male"
)

// Personality interviewer persona
type Personality struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Pitch       float64 `json:"pitch"`
	Rate        float64 `json:"rate"`
	Voice       Voice   `json:"voice"`
}

// Personalities interviewer personas on offer
var Personalities = []*Personality{
	{Key: "Friendly", Name: "Emily", Description: "Encouraging & supportive", Pitch: 1.1, Rate: 1.0, Voice: VoiceFemale},
	{Key: "Professional", Name: "Marcus", Description: "Strict & thorough", Pitch: 0.9, Rate: 0.95, Voice: VoiceMale},
	{Key: "Executive", Name: "Sarah", Description: "Strategic & high-level", Pitch: 1.0, Rate: 1.05, Voice: VoiceFemale},
}

// DefaultPersonality preselected persona
const DefaultPersonality = "Friendly"

// LookupPersonality find a persona by key, empty key means DefaultPersonality
func LookupPersonality(key string) (*Personality, error) {
	if key == "" {
		key = DefaultPersonality
	}
	for _, p := range Personalities {
		if strings.EqualFold(p.Key, key) {
			return p, nil
		}
	}
	return nil, ErrUnknownPersonality
}

// Utterance one piece of text spoken with the persona's voice settings
func (p *Personality) Utterance(text string) *Utterance {
	return &Utterance{Text: text, Pitch: p.Pitch, Rate: p.Rate, Voice: p.Voice}
}

// Intro opening line of an interview
func (p *Personality) Intro(role string, count int) string {
	return fmt.Sprintf("Hello! I'm %s, your AI interviewer today for the %s position. We'll go through %d questions. Let's start with the first one.",
		p.Name, role, count)
}

// Transitions said between questions, one picked at random
var Transitions = []string{
	"Got it. Thanks for that answer. Next question:",
	"I see. Let's move on to the next one:",
	"Great. Moving forward:",
	"Understood. How about this next one:",
}

// Closing said once results are in
const Closing = "We've completed the interview. Excellent work! I've calculated your results. You can review them now."

// Utterance text to speak
type Utterance struct {
	Text  string  `json:"text"`
	Pitch float64 `json:"pitch"`
	Rate  float64 `json:"rate"`
	Voice Voice   `json:"voice"`
}

// Segment a recognition result
type Segment struct {
	Text  string
	Final bool
}

// Listener receives recognition events
type Listener interface {
	OnResult(seg Segment)
	// OnEnd recognition stopped, err is set when it stopped on failure
	OnEnd(err error)
}

// Recognizer continuous recognition with interim results
type Recognizer interface {
	Recognition() capability.Status
	Start(ctx context.Context, l Listener) error
	Stop(ctx context.Context) error
}

// Synthesizer speaks one utterance at a time
type Synthesizer interface {
	Synthesis() capability.Status
	// Speak blocks until the utterance finished playing
	Speak(ctx context.Context, u *Utterance) error
}

// Offline no recognizer and no synthesizer, used while no client is connected
type Offline struct{}

var (
	_ Recognizer  = Offline{}
	_ Synthesizer = Offline{}
)

func (Offline) Recognition() capability.Status { return capability.Unavailable }

func (Offline) Synthesis() capability.Status { return capability.Unavailable }

func (Offline) Start(ctx context.Context, l Listener) error { return capability.ErrUnavailable }

func (Offline) Stop(ctx context.Context) error { return nil }

func (Offline) Speak(ctx context.Context, u *Utterance) error { return capability.ErrUnavailable }
