package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	ws "github.com/coder/websocket"
)

// Greeter builds the message queued for a connection right after it registers.
type Greeter func() Message

// HandleWebSocket upgrades the request and runs it as a hub client. When
// greet is non-nil its message is built after the client registers.
func HandleWebSocket(hub *Hub, originPatterns []string, greet Greeter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The server's read/write timeouts would otherwise close the feed.
		rc := http.NewResponseController(w)
		_ = rc.SetReadDeadline(time.Time{})
		_ = rc.SetWriteDeadline(time.Time{})

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("accept websocket", "error", err)
			return
		}

		var greeting func() []byte
		if greet != nil {
			greeting = func() []byte {
				data, err := json.Marshal(greet())
				if err != nil {
					logger.Error("marshal greeting", "error", err)
					return nil
				}
				return data
			}
		}

		NewClient(hub, conn).Run(r.Context(), greeting)
	}
}
