// Package voice runs a spoken mock interview: the interviewer reads prompts aloud and answers are
// dictated through speech recognition. Without recognition answers are typed, without synthesis
// prompts are shown as text.
package voice

import (
	"errors"

	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/speech"
)

var (
	ErrSpeaking       = errors.New("the interviewer is still speaking")
	ErrNoRecognition  = errors.New("speech recognition unavailable, type the answer instead")
	ErrDictationOnly  = errors.New("answers are dictated while speech recognition is available")
	ErrNothingToSpeak = errors.New("no question to repeat")
)

// Setup voice interview configuration
type Setup struct {
	interview.Setup
	Personality string `json:"personality"`
}

// View observable voice interview state
type View struct {
	*interview.View
	Personality  *speech.Personality `json:"personality"`
	Speaking     bool                `json:"speaking"`
	Listening    bool                `json:"listening"`
	Transcript   string              `json:"transcript"`
	Recognition  capability.Status   `json:"recognition"`
	Synthesis    capability.Status   `json:"synthesis"`
	TypedAnswers bool                `json:"typed_answers"`
	Prompts      []string            `json:"prompts"`
	CanSubmit    bool                `json:"can_submit"`
}
