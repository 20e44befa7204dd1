package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hearthline/rekindle/internal/processor"
)

const maxUploadBytes = 32 << 20

// uploadTranscript handles POST /api/v1/transcripts: a multipart form
// with a .txt or .zip chat export plus user identity fields.
func (s *Server) uploadTranscript(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse form: %v", err))
		return
	}

	userID := r.FormValue("user_id")
	displayName := r.FormValue("display_name")
	if userID == "" || displayName == "" {
		writeError(w, http.StatusBadRequest, "user_id and display_name are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read file: %v", err))
		return
	}

	text, err := extractTranscript(header.Filename, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summaries, err := s.processor.ProcessTranscript(r.Context(), userID, displayName, text)
	if err != nil {
		s.logger.Error("transcript processing failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "transcript processing failed")
		return
	}
	if summaries == nil {
		summaries = []processor.ConversationSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": summaries,
		"count":         len(summaries),
	})
}

// extractTranscript returns export text from an upload: plain .txt
// bytes, or the first .txt entry inside a .zip (WhatsApp exports ship
// as a zip containing _chat.txt).
func extractTranscript(filename string, data []byte) (string, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return string(data), nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read zip: %v", err)
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open zip entry %s: %v", f.Name, err)
		}
		defer rc.Close()
		text, err := io.ReadAll(io.LimitReader(rc, maxUploadBytes))
		if err != nil {
			return "", fmt.Errorf("read zip entry %s: %v", f.Name, err)
		}
		return string(text), nil
	}
	return "", fmt.Errorf("zip contains no .txt transcript")
}

// listConversations handles GET /api/v1/conversations?user_id=.
func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	rows, err := s.store.GetConversations(r.Context(), userID)
	if err != nil {
		s.logger.Error("list conversations failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	out := make([]map[string]any, 0, len(rows))
	for i := range rows {
		out = append(out, conversationView(&rows[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": out,
		"count":         len(out),
	})
}

// getConversation handles GET /api/v1/conversations/{id}.
func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	row, err := s.store.GetConversation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, conversationView(row))
}

// updateConversation handles PATCH /api/v1/conversations/{id}: change
// category and/or tone.
func (s *Server) updateConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	var req struct {
		Category string `json:"category"`
		Tone     string `json:"tone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.Category == "" && req.Tone == "" {
		writeError(w, http.StatusBadRequest, "category or tone is required")
		return
	}
	if req.Category != "" && !validCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "category must be family, friends, or work")
		return
	}
	if req.Tone != "" && !validTone(req.Tone) {
		writeError(w, http.StatusBadRequest, "tone must be formal, friendly, or playful")
		return
	}

	if err := s.store.UpdateCategoryTone(r.Context(), id, req.Category, req.Tone); err != nil {
		s.logger.Error("update conversation failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}

	row, err := s.store.GetConversation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, conversationView(row))
}

// generatePrompts handles POST /api/v1/conversations/{id}/prompts.
func (s *Server) generatePrompts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	count := 3
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 10 {
			writeError(w, http.StatusBadRequest, "count must be 1-10")
			return
		}
		count = n
	}

	prompts, err := s.processor.GeneratePrompts(r.Context(), id, count)
	if err != nil {
		s.logger.Error("prompt generation failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "prompt generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prompts": prompts,
		"count":   len(prompts),
	})
}

// listPrompts handles GET /api/v1/conversations/{id}/prompts.
func (s *Server) listPrompts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	prompts, err := s.store.GetPrompts(r.Context(), id)
	if err != nil {
		s.logger.Error("list prompts failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"prompts": prompts,
		"count":   len(prompts),
	})
}

// markPromptUsed handles POST /api/v1/prompts/{id}/used.
func (s *Server) markPromptUsed(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid prompt id")
		return
	}

	if err := s.store.MarkPromptUsed(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "prompt not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// syncBridge handles POST /api/v1/imessage/sync.
func (s *Server) syncBridge(w http.ResponseWriter, r *http.Request) {
	var req processor.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	switch req.Mode {
	case "", "all", "recent", "selected":
	default:
		writeError(w, http.StatusBadRequest, "mode must be all, recent, or selected")
		return
	}

	summaries, err := s.processor.SyncChats(r.Context(), req)
	if err != nil {
		s.logger.Error("bridge sync failed", "user_id", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "bridge sync failed")
		return
	}
	if summaries == nil {
		summaries = []processor.ConversationSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": summaries,
		"count":         len(summaries),
	})
}

func validCategory(c string) bool {
	switch c {
	case "family", "friends", "work":
		return true
	}
	return false
}

func validTone(t string) bool {
	switch t {
	case "formal", "friendly", "playful":
		return true
	}
	return false
}
