package http

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/eduflow/eduflow-backend/internal/domain"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/auth"
)

// progressFeed stream progress snapshots over a heartbeat-wrapped websocket.
// The client sends a course id as a text frame and receives the current
// snapshot back, so a learn page can poll without re-establishing requests.
func progressFeed(eu domain.EnrollmentUseCase, ju *auth.JWTUtil) func(echo.Context, *websocket.Conn) error {
	return func(c echo.Context, conn *websocket.Conn) error {
		sess := session(ju, c)
		if sess == nil {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"),
				time.Now().Add(time.Second))
			return websocket.ErrCloseSent
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		result, err := eu.Progress(c.Request().Context(), sess, string(payload))
		if err != nil {
			return conn.WriteJSON(map[string]string{"error": err.Error()})
		}
		return conn.WriteJSON(result)
	}
}
