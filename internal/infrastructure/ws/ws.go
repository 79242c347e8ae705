package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: 3 * time.Second,
}

var (
	writeWait    = 10 * time.Second
	pongWait     = 30 * time.Second
	pingInterval = pongWait * 9 / 10
)

// Handler serves one upgraded connection, the connection is closed when it returns
type Handler func(ctx context.Context, conn *websocket.Conn) error

// WithHeartbeat wrap handler function with heartbeat probe.
//
// The handler runs on the request goroutine so the request context stays valid for its whole lifetime.
func WithHeartbeat(handler Handler) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// upgrader already replied
			return nil
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request().Context())
		defer cancel()

		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		go heartbeatRoutine(ctx, conn)

		if err := handler(ctx, conn); err != nil && !isClosure(err) {
			logging.ExtractLoggerFromContext(ctx).Warn("websocket handler exited", zap.Error(err))
		}
		return nil
	}
}

func heartbeatRoutine(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func isClosure(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}

// WriteWait deadline applied to a single outgoing frame
func WriteWait() time.Duration {
	return writeWait
}
