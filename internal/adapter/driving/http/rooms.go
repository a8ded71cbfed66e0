package http

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Wyydra/huddle/internal/core/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("running"))
}

type membersResponse struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

// RoomMembers lists the members of a room in arrival order.
func (h *Handler) RoomMembers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "room")
	// chi routes on RawPath when it is set, leaving the parameter encoded.
	if r.URL.RawPath != "" {
		var err error
		if name, err = url.PathUnescape(name); err != nil {
			http.Error(w, "invalid room name", http.StatusBadRequest)
			return
		}
	}
	room := domain.RoomName(name)

	members := h.Signaling.Members(r.Context(), room)
	resp := membersResponse{
		Room:    room.String(),
		Members: make([]string, 0, len(members)),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, m.String())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Str("room", room.String()).Msg("Failed to encode members")
	}
}
