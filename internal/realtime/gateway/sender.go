package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsSender serializes writes to a single gorilla connection. gorilla/websocket
// supports one concurrent writer, so every data write goes through the mutex.
type wsSender struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func newWSSender(ws *websocket.Conn) *wsSender {
	return &wsSender{ws: ws}
}

// Send writes a JSON payload under the context deadline.
func (s *wsSender) Send(ctx context.Context, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(5 * time.Second)
	}
	if err := s.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return s.ws.WriteJSON(payload)
}

// Close sends a close frame and tears the transport down.
func (s *wsSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	_ = s.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return s.ws.Close()
}
