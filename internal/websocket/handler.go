package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/tidyhouse/internal/auth"
)

// HandleWebSocket upgrades the request and streams the requesting owner's
// change notifications until the connection closes.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := auth.OwnerID(r.Context())
		if ownerID == "" {
			http.Error(w, "missing owner", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // household LAN, any origin
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		logger.Debug("websocket connected", "owner", ownerID)
		NewClient(hub, conn, ownerID).Run(r.Context())
		logger.Debug("websocket disconnected", "owner", ownerID)
	}
}
