package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotstats/internal/repositories"
	"github.com/desertthunder/spotstats/internal/shared"
	"github.com/go-chi/chi/v5"
)

// MirrorHandler serves the precomputed statistics held in the mirror store.
type MirrorHandler struct {
	repo   *repositories.MirrorRepository
	logger *log.Logger
}

func NewMirrorHandler(repo *repositories.MirrorRepository, logger *log.Logger) *MirrorHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MirrorHandler{repo: repo, logger: shared.WithLogger(logger, "handler", "mirror")}
}

// Routes implements [Handler].
func (h *MirrorHandler) Routes(r chi.Router) {
	r.Route("/api/mirror", func(r chi.Router) {
		r.Get("/user", h.user)
		r.Get("/artists", h.artists)
		r.Get("/tracks", h.tracks)
		r.Get("/genres", h.genres)
	})
}

func (h *MirrorHandler) user(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.UserInfo(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *MirrorHandler) artists(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.repo.TopArtists(r.Context(), limit))
}

func (h *MirrorHandler) tracks(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.repo.TopTracks(r.Context(), limit))
}

func (h *MirrorHandler) genres(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.repo.FavoriteGenres(r.Context(), limit))
}
