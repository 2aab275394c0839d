package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/oriolripoll/typeracer-backend/internal/hub"
	"github.com/oriolripoll/typeracer-backend/internal/room"
)

// ListRooms serves the same snapshot as the listRooms socket event, for
// lobby browsers that have not opened a connection yet.
func ListRooms(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := h.RoomSummaries(r.Context())
		if rooms == nil {
			rooms = []room.Summary{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(struct {
			Rooms []room.Summary `json:"rooms"`
		}{Rooms: rooms}); err != nil {
			logger.Error("could not write room list", zap.Error(err))
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
