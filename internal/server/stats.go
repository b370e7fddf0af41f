package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotstats/internal/shared"
	"github.com/desertthunder/spotstats/internal/tasks"
	"github.com/go-chi/chi/v5"
)

// StatsHandler serves live catalog reads and statistics.
type StatsHandler struct {
	engine *tasks.StatsEngine
	logger *log.Logger
}

// NewStatsHandler creates a [StatsHandler] over engine.
func NewStatsHandler(engine *tasks.StatsEngine, logger *log.Logger) *StatsHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &StatsHandler{engine: engine, logger: shared.WithLogger(logger, "handler", "stats")}
}

// Routes implements [Handler].
func (h *StatsHandler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.stats)
		r.Get("/stats/stream", h.stream)
		r.Get("/profile", h.profile)
		r.Get("/playlists", h.playlists)
		r.Get("/top-tracks", h.topTracks)
	})
}

func (h *StatsHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Compute(r.Context(), nil)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.engine.Profile(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *StatsHandler) playlists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.engine.Playlists(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (h *StatsHandler) topTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.engine.TopTracks(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

type progressEvent struct {
	Phase   string `json:"phase"`
	Step    int    `json:"step"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// stream computes statistics and reports progress updates as server-sent events.
// Progress is best-effort: updates the engine dropped on a full buffer are not replayed.
// The final event is "stats" carrying the result, or "error".
func (h *StatsHandler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, h.logger, fmt.Errorf("%w: streaming unsupported", shared.ErrServiceUnavailable))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	type result struct {
		data any
		err  error
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan result, 1)
	go func() {
		stats, err := h.engine.Compute(r.Context(), progress)
		done <- result{data: stats, err: err}
	}()

	send := func(event string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			h.logger.Error("failed to encode event", "event", event, "err", err)
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}

	sendProgress := func(update tasks.ProgressUpdate) {
		send("progress", progressEvent{
			Phase:   update.Phase.String(),
			Step:    update.Step,
			Total:   update.Total,
			Message: update.Message,
		})
	}

	for {
		select {
		case update := <-progress:
			sendProgress(update)
		case res := <-done:
			for len(progress) > 0 {
				sendProgress(<-progress)
			}
			if res.err != nil {
				send("error", errorBody{Error: res.err.Error(), Status: shared.StatusCode(res.err)})
				return
			}
			send("stats", res.data)
			return
		}
	}
}
