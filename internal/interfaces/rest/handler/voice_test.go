package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/infrastructure/ws"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/speech"
)

type voiceMessage struct {
	Type  string          `json:"type"`
	ID    int64           `json:"id"`
	Error string          `json:"error"`
	State json.RawMessage `json:"state"`
}

func dialVoice(t *testing.T, vh *VoiceHandler, sid string) *websocket.Conn {
	t.Helper()
	app := echo.New()
	app.GET("/ws", ws.WithHeartbeat(vh.HandleSocket), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(withSession(c.Request(), sid))
			return next(c)
		}
	})
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skip messages until one of type want arrives, failing on any type in forbidden
func readUntil(t *testing.T, conn *websocket.Conn, want string, forbidden ...string) *voiceMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		msg := new(voiceMessage)
		if err := conn.ReadJSON(msg); err != nil {
			t.Fatalf("waiting for %q: %v", want, err)
		}
		for _, f := range forbidden {
			if msg.Type == f {
				t.Fatalf("unexpected %q while waiting for %q", f, want)
			}
		}
		if msg.Type == want {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msg *speech.Inbound) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}
}

func TestVoiceSocketMicWaitsForSpeech(t *testing.T) {
	registry := newTestRegistry(&fakeWorkspaceAPI{}, 0)
	conn := dialVoice(t, NewVoiceHandler(registry), "sid-1")

	readUntil(t, conn, speech.MsgState)
	send(t, conn, &speech.Inbound{Type: speech.MsgCapabilities, Recognition: capability.Available, Synthesis: capability.Available})
	send(t, conn, &speech.Inbound{
		Type:       speech.CmdStart,
		Role:       interview.VoiceRoles[0],
		Difficulty: interview.Difficulties[0],
		Count:      interview.CountsFor(interview.ModeVoice)[0],
	})
	intro := readUntil(t, conn, speech.MsgSpeak)

	send(t, conn, &speech.Inbound{Type: speech.CmdToggleMic})
	refused := readUntil(t, conn, speech.MsgError, speech.MsgListen)
	if refused.Error == "" {
		t.Error("refusal carries no reason")
	}

	send(t, conn, &speech.Inbound{Type: speech.MsgSpeechEnd, ID: intro.ID})
	question := readUntil(t, conn, speech.MsgSpeak, speech.MsgListen)
	send(t, conn, &speech.Inbound{Type: speech.MsgSpeechEnd, ID: question.ID})
	for {
		msg := readUntil(t, conn, speech.MsgState, speech.MsgListen)
		var view struct {
			Speaking bool `json:"speaking"`
		}
		if err := json.Unmarshal(msg.State, &view); err != nil {
			t.Fatal(err)
		}
		if !view.Speaking {
			break
		}
	}

	send(t, conn, &speech.Inbound{Type: speech.CmdToggleMic})
	readUntil(t, conn, speech.MsgListen, speech.MsgError)
}

func TestVoiceSocketRejectsBadSetup(t *testing.T) {
	registry := newTestRegistry(&fakeWorkspaceAPI{}, 0)
	conn := dialVoice(t, NewVoiceHandler(registry), "sid-1")

	send(t, conn, &speech.Inbound{Type: speech.CmdStart, Role: "Astronaut", Difficulty: "Easy", Count: 3})
	readUntil(t, conn, speech.MsgError, speech.MsgSpeak)
	if stage := registry.Get("sid-1").Voice().View().Stage; stage != interview.StageSelect {
		t.Fatalf("stage = %s after a rejected setup", stage)
	}
}

func TestVoiceSocketNeedsSession(t *testing.T) {
	app := echo.New()
	vh := NewVoiceHandler(newTestRegistry(&fakeWorkspaceAPI{}, 0))
	app.GET("/ws", ws.WithHeartbeat(vh.HandleSocket))
	srv := httptest.NewServer(app)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("socket without a browser session must be closed")
	}
}
