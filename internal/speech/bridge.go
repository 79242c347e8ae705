package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"github.com/pot-code/interview-prep/internal/infrastructure/ws"
	"go.uber.org/zap"
)

// server → client message types
const (
	MsgSpeak         = "speak"
	MsgListen        = "listen"
	MsgStopListening = "stop_listening"
	MsgState         = "state"
	MsgError         = "error"
)

// client → server message types
const (
	MsgSpeechEnd      = "speech_end"
	MsgResult         = "result"
	MsgRecognitionEnd = "recognition_end"
	MsgCapabilities   = "capabilities"
)

// client commands, forwarded on Commands
const (
	CmdStart     = "start"
	CmdToggleMic = "toggle_mic"
	CmdSubmit    = "submit"
	CmdRepeat    = "repeat"
	CmdAnswer    = "answer"
	CmdReset     = "reset"
)

var ErrBridgeClosed = errors.New("speech bridge closed")

// Conn json message connection, satisfied by *websocket.Conn
type Conn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
}

// Outbound server → client message
type Outbound struct {
	Type       string      `json:"type"`
	ID         int64       `json:"id,omitempty"`
	Utterance  *Utterance  `json:"utterance,omitempty"`
	Lang       string      `json:"lang,omitempty"`
	Continuous bool        `json:"continuous,omitempty"`
	Interim    bool        `json:"interim,omitempty"`
	State      interface{} `json:"state,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Inbound client → server message
type Inbound struct {
	Type        string            `json:"type"`
	ID          int64             `json:"id,omitempty"`
	Text        string            `json:"text,omitempty"`
	Final       bool              `json:"final,omitempty"`
	Error       string            `json:"error,omitempty"`
	Recognition capability.Status `json:"recognition"`
	Synthesis   capability.Status `json:"synthesis"`
	Role        string            `json:"role,omitempty"`
	Difficulty  string            `json:"difficulty,omitempty"`
	Count       int               `json:"count,omitempty"`
	Personality string            `json:"personality,omitempty"`
}

// Command user action sent by the client
type Command = Inbound

// Bridge Recognizer and Synthesizer backed by the browser on the other end of conn.
// Run must be running for Speak to return and for recognition results to arrive.
type Bridge struct {
	conn     Conn
	commands chan *Command
	done     chan struct{}

	wmu sync.Mutex // serializes writes

	mu          sync.Mutex
	recognition capability.Status
	synthesis   capability.Status
	listener    Listener
	seq         int64
	pending     map[int64]chan struct{}
}

var (
	_ Recognizer  = &Bridge{}
	_ Synthesizer = &Bridge{}
)

// NewBridge create a bridge, both capabilities are unavailable until the client reports them
func NewBridge(conn Conn) *Bridge {
	return &Bridge{
		conn:     conn,
		commands: make(chan *Command, 8),
		done:     make(chan struct{}),
		pending:  make(map[int64]chan struct{}),
	}
}

// Commands user commands read from the client, closed when Run returns
func (b *Bridge) Commands() <-chan *Command {
	return b.commands
}

// Run read client messages until the connection fails or ctx is done
func (b *Bridge) Run(ctx context.Context) error {
	defer close(b.commands)
	defer close(b.done)

	logger := logging.ExtractLoggerFromContext(ctx)
	for {
		msg := new(Inbound)
		if err := b.conn.ReadJSON(msg); err != nil {
			return err
		}
		switch msg.Type {
		case MsgSpeechEnd:
			b.speechEnd(msg.ID)
		case MsgResult:
			if l := b.currentListener(); l != nil {
				l.OnResult(Segment{Text: msg.Text, Final: msg.Final})
			}
		case MsgRecognitionEnd:
			err := recognitionError(msg.Error)
			if errors.Is(err, capability.ErrDenied) {
				b.mu.Lock()
				b.recognition = capability.Denied
				b.mu.Unlock()
			}
			if l := b.currentListener(); l != nil {
				l.OnEnd(err)
			}
		case MsgCapabilities:
			b.mu.Lock()
			b.recognition, b.synthesis = msg.Recognition, msg.Synthesis
			b.mu.Unlock()
			logger.Debug("speech capabilities reported",
				zap.String("speech.recognition", msg.Recognition.String()),
				zap.String("speech.synthesis", msg.Synthesis.String()))
		case CmdStart, CmdToggleMic, CmdSubmit, CmdRepeat, CmdAnswer, CmdReset:
			select {
			case b.commands <- msg:
			case <-ctx.Done():
				return ctx.Err()
			}
		default:
			logger.Debug("unknown speech message", zap.String("speech.type", msg.Type))
		}
	}
}

func recognitionError(code string) error {
	switch code {
	case "":
		return nil
	case "not-allowed", "service-not-allowed":
		return capability.ErrDenied
	case "audio-capture":
		return capability.ErrUnavailable
	default:
		return fmt.Errorf("speech recognition error: %s", code)
	}
}

func (b *Bridge) currentListener() Listener {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listener
}

func (b *Bridge) speechEnd(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.pending[id]; ok {
		close(ch)
		delete(b.pending, id)
	}
}

// Send write one message to the client
func (b *Bridge) Send(msg *Outbound) error {
	b.wmu.Lock()
	defer b.wmu.Unlock()
	if err := b.conn.SetWriteDeadline(time.Now().Add(ws.WriteWait())); err != nil {
		return err
	}
	return b.conn.WriteJSON(msg)
}

// Recognition implement Recognizer
func (b *Bridge) Recognition() capability.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recognition
}

// Synthesis implement Synthesizer
func (b *Bridge) Synthesis() capability.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.synthesis
}

// Start implement Recognizer
func (b *Bridge) Start(ctx context.Context, l Listener) error {
	if err := b.Recognition().Err(); err != nil {
		return err
	}
	b.mu.Lock()
	b.listener = l
	b.mu.Unlock()
	return b.Send(&Outbound{Type: MsgListen, Lang: Lang, Continuous: true, Interim: true})
}

// Stop implement Recognizer
func (b *Bridge) Stop(ctx context.Context) error {
	return b.Send(&Outbound{Type: MsgStopListening})
}

// Speak implement Synthesizer
func (b *Bridge) Speak(ctx context.Context, u *Utterance) error {
	if err := b.Synthesis().Err(); err != nil {
		return err
	}

	b.mu.Lock()
	b.seq++
	id := b.seq
	ch := make(chan struct{})
	b.pending[id] = ch
	b.mu.Unlock()

	if err := b.Send(&Outbound{Type: MsgSpeak, ID: id, Utterance: u}); err != nil {
		b.forget(id)
		return err
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		b.forget(id)
		return ctx.Err()
	case <-b.done:
		return ErrBridgeClosed
	}
}

func (b *Bridge) forget(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, id)
}
