package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/session"
	"github.com/pot-code/interview-prep/internal/speech"
	"github.com/pot-code/interview-prep/internal/voice"
	"github.com/pot-code/interview-prep/internal/workspace"
	"go.uber.org/zap"
)

// VoiceHandler voice mock interview, driven over a websocket by the browser's speech engines
type VoiceHandler struct {
	registry *workspace.Registry
}

// NewVoiceHandler create a VoiceHandler
func NewVoiceHandler(registry *workspace.Registry) *VoiceHandler {
	return &VoiceHandler{registry: registry}
}

func (vh *VoiceHandler) session(c echo.Context) (*voice.Session, error) {
	w, err := workspaceOf(c, vh.registry)
	if err != nil {
		return nil, err
	}
	return w.Voice(), nil
}

func (vh *VoiceHandler) HandleCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"roles":         interview.RolesFor(interview.ModeVoice),
		"difficulties":  interview.Difficulties,
		"counts":        interview.CountsFor(interview.ModeVoice),
		"personalities": speech.Personalities,
		"default":       speech.DefaultPersonality,
	})
}

func (vh *VoiceHandler) HandleView(c echo.Context) error {
	vs, err := vh.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vs.View())
}

func (vh *VoiceHandler) HandleComplete(c echo.Context) error {
	vs, err := vh.session(c)
	if err != nil {
		return err
	}
	if _, err := vs.Complete(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vs.View())
}

func (vh *VoiceHandler) HandleCertificate(c echo.Context) error {
	vs, err := vh.session(c)
	if err != nil {
		return err
	}
	cert, err := vs.Certificate(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}

func (vh *VoiceHandler) HandleFeedback(c echo.Context) error {
	vs, err := vh.session(c)
	if err != nil {
		return err
	}
	feedback, err := vs.Feedback(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedback)
}

// HandleSocket bind the browser's recognizer and synthesizer to the session and run its commands.
// Only one socket drives a session at a time, a newer one takes over.
func (vh *VoiceHandler) HandleSocket(ctx context.Context, conn *websocket.Conn) error {
	sid, ok := session.IDFromContext(ctx)
	if !ok {
		return session.ErrNoSession
	}
	vs := vh.registry.Get(sid).Voice()
	bridge := speech.NewBridge(conn)
	logger := logging.ExtractLoggerFromContext(ctx)

	errc := make(chan error, 1)
	go func() {
		errc <- bridge.Run(ctx)
	}()

	id := vs.Attach(ctx, bridge, bridge, func(v *voice.View) {
		if err := bridge.Send(&speech.Outbound{Type: speech.MsgState, State: v}); err != nil {
			logger.Debug("failed to push voice state", zap.Error(err))
		}
	})
	defer vs.Detach(ctx, id)

	for cmd := range bridge.Commands() {
		if err := dispatchVoice(ctx, vs, cmd); err != nil {
			logger.Debug("voice command rejected", zap.String("voice.command", cmd.Type), zap.Error(err))
			bridge.Send(&speech.Outbound{Type: speech.MsgError, Error: err.Error()})
		}
	}
	return <-errc
}

func dispatchVoice(ctx context.Context, vs *voice.Session, cmd *speech.Command) error {
	switch cmd.Type {
	case speech.CmdStart:
		_, err := vs.Start(ctx, voice.Setup{
			Setup: interview.Setup{
				Role:       cmd.Role,
				Difficulty: cmd.Difficulty,
				Count:      cmd.Count,
			},
			Personality: cmd.Personality,
		})
		return err
	case speech.CmdToggleMic:
		return vs.ToggleMic(ctx)
	case speech.CmdSubmit:
		_, err := vs.Submit(ctx)
		return err
	case speech.CmdRepeat:
		return vs.Repeat(ctx)
	case speech.CmdAnswer:
		return vs.Answer(cmd.Text)
	case speech.CmdReset:
		vs.Reset(ctx)
	}
	return nil
}
