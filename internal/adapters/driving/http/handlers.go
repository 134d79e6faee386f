package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/curio-labs/searchlab-core/internal/core/domain"
)

const maxUploadSize = 10 << 20 // 10 MiB

// Health and version

// handleHealth returns liveness status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady verifies the state store is reachable
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "state store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion returns the build version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Search handlers

type searchRequest struct {
	Query string `json:"query"`
}

// handleSearchText runs one method against a text query
// @Router /api/search/{method} [post]
func (s *Server) handleSearchText(w http.ResponseWriter, r *http.Request) {
	method := domain.Method(r.PathValue("method"))
	if !method.Valid() {
		writeError(w, http.StatusNotFound, "unknown search method")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.searchBackend.SearchText(r.Context(), method, req.Query)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSearchAudio transcribes the upload and runs one method on it
// @Router /api/search/{method}/audio [post]
func (s *Server) handleSearchAudio(w http.ResponseWriter, r *http.Request) {
	method := domain.Method(r.PathValue("method"))
	if !method.Valid() {
		writeError(w, http.StatusNotFound, "unknown search method")
		return
	}

	data, filename, ok := readUpload(w, r, "audio")
	if !ok {
		return
	}

	resp, err := s.searchBackend.SearchAudio(r.Context(), method, data, filename)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSearchImage analyzes the upload and runs one method on it
// @Router /api/search/{method}/image [post]
func (s *Server) handleSearchImage(w http.ResponseWriter, r *http.Request) {
	method := domain.Method(r.PathValue("method"))
	if !method.Valid() {
		writeError(w, http.StatusNotFound, "unknown search method")
		return
	}

	data, filename, ok := readUpload(w, r, "image")
	if !ok {
		return
	}

	resp, err := s.searchBackend.SearchImage(r.Context(), method, data, filename)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSearchAll runs every method concurrently and returns the
// combined table. A failing method comes back as an empty result set,
// the same way the client-side aggregator treats it.
// @Router /api/search/all [post]
func (s *Server) handleSearchAll(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyQuery.Error())
		return
	}

	start := time.Now()
	combined := make(map[string]any, len(domain.Methods())+1)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, method := range domain.Methods() {
		wg.Add(1)
		go func(m domain.Method) {
			defer wg.Done()
			resp, err := s.searchBackend.SearchText(r.Context(), m, req.Query)
			if err != nil {
				resp = &domain.MethodResponse{Method: m, Results: []domain.SearchItem{}}
			}
			mu.Lock()
			combined[string(m)] = resp
			mu.Unlock()
		}(method)
	}
	wg.Wait()

	combined["total_latency_ms"] = float64(time.Since(start)) / float64(time.Millisecond)
	writeJSON(w, http.StatusOK, combined)
}

// Chat handlers

type chatTextRequest struct {
	Content string `json:"content"`
}

type chatSnippetRequest struct {
	Content  string `json:"content"`
	Language string `json:"language"`
}

// handleChatState returns the conversation snapshot
// @Router /api/chat/state [get]
func (s *Server) handleChatState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.chatBackend.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleChatText accepts a plain text message
// @Router /api/chat/text [post]
func (s *Server) handleChatText(w http.ResponseWriter, r *http.Request) {
	var req chatTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	exchange, err := s.chatBackend.SendText(r.Context(), req.Content)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, exchange)
}

// handleChatAudio accepts a recorded audio message
// @Router /api/chat/audio [post]
func (s *Server) handleChatAudio(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := readUpload(w, r, "audio")
	if !ok {
		return
	}

	exchange, err := s.chatBackend.SendAudio(r.Context(), data, filename)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, exchange)
}

// handleChatImage accepts an image message
// @Router /api/chat/image [post]
func (s *Server) handleChatImage(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := readUpload(w, r, "image")
	if !ok {
		return
	}

	exchange, err := s.chatBackend.SendImage(r.Context(), data, filename)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, exchange)
}

// handleChatSnippet accepts a code snippet message
// @Router /api/chat/snippet [post]
func (s *Server) handleChatSnippet(w http.ResponseWriter, r *http.Request) {
	var req chatSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	exchange, err := s.chatBackend.SendSnippet(r.Context(), req.Content, req.Language)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, exchange)
}

// handleChatClear resets the conversation. The response carries the
// zeroed aggregate so clients can settle their sidebar from it.
// @Router /api/chat/clear [post]
func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	if err := s.chatBackend.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "cleared",
		"state":  domain.AccumulatedState{},
		"panels": []domain.Panel{},
	})
}

// Helper functions

// readUpload extracts one multipart file. On failure it writes the
// error response and reports false.
func readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, field+" file is required")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read "+field+" file")
		return nil, "", false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, field+" file is empty")
		return nil, "", false
	}
	return data, header.Filename, true
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrEmptyPayload),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownMethod),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
