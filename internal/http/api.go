package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// apiHandler is a JSON endpoint. A returned error maps to a 502 with the
// error message; everything else is the handler's own response.
type apiHandler func(w http.ResponseWriter, r *http.Request) error

// instrument wraps a handler with the provider call metrics. The outcome
// label is "live" or "placeholder" depending on the login state when the
// request arrived, or "error" when the handler failed.
func (s *Server) instrument(facade, op string, fn apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		loggedIn := s.backend.LoggedIn()

		err := fn(w, r)
		s.metrics.ProcessingTime.WithLabelValues(facade, op).Observe(time.Since(start).Seconds())

		outcome := "placeholder"
		switch {
		case err != nil:
			outcome = "error"
		case loggedIn:
			outcome = "live"
		}
		s.metrics.ProviderCalls.WithLabelValues(facade, op, outcome).Inc()

		if err != nil {
			s.logger.Error("Provider call failed",
				zap.String("facade", facade),
				zap.String("op", op),
				zap.Error(err))
			writeError(w, http.StatusBadGateway, err)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func requireParam(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fmt.Errorf("missing query parameter %q", name)
	}
	return v, nil
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) error {
	uri, err := requireParam(r, "uri")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil
	}

	refs, err := s.library.Browse(r.Context(), uri)
	if err != nil {
		return err
	}
	return writeJSON(w, refs)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) error {
	uris := r.URL.Query()["uri"]
	if len(uris) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing query parameter %q", "uri"))
		return nil
	}

	tracks, err := s.library.Lookup(r.Context(), uris)
	if err != nil {
		return err
	}
	return writeJSON(w, tracks)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) error {
	query, err := requireParam(r, "q")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil
	}

	result, err := s.library.Search(r.Context(), query)
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) error {
	uris := r.URL.Query()["uri"]
	if len(uris) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing query parameter %q", "uri"))
		return nil
	}

	images, err := s.library.GetImages(r.Context(), uris)
	if err != nil {
		return err
	}
	return writeJSON(w, images)
}

func (s *Server) handleDistinct(w http.ResponseWriter, r *http.Request) error {
	field, err := requireParam(r, "field")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil
	}

	values, err := s.library.GetDistinct(r.Context(), field)
	if err != nil {
		return err
	}
	return writeJSON(w, values)
}

func (s *Server) handlePlaylists(w http.ResponseWriter, r *http.Request) error {
	refs, err := s.playlists.AsList(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, refs)
}

func (s *Server) handlePlaylistLookup(w http.ResponseWriter, r *http.Request) error {
	uri, err := requireParam(r, "uri")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil
	}

	playlist, err := s.playlists.Lookup(r.Context(), uri)
	if err != nil {
		return err
	}
	if playlist == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("playlist %s not found", uri))
		return nil
	}
	return writeJSON(w, playlist)
}

func (s *Server) handlePlaylistRefresh(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("refresh requires POST"))
		return nil
	}

	uri, err := requireParam(r, "uri")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil
	}

	playlists, err := s.playlists.Refresh(r.Context(), uri)
	if err != nil {
		return err
	}
	return writeJSON(w, playlists)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) error {
	uri, err := requireParam(r, "uri")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil
	}

	streamURI, err := s.playback.TranslateURI(r.Context(), uri)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]string{"uri": uri, "stream": streamURI})
}
