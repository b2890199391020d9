package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/httputil"
	"github.com/itsuki/garden/pkg/tools"
)

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, tools.All())
}

type flashcardsState struct {
	Status     string       `json:"status"`
	Processing bool         `json:"processing"`
	Cards      []tools.Card `json:"cards"`
}

func (s *Server) flashcardsState() flashcardsState {
	return flashcardsState{
		Status:     s.flashcards.Status(),
		Processing: s.flashcards.Processing(),
		Cards:      s.flashcards.Cards(),
	}
}

func (s *Server) handleFlashcards(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.flashcardsState())
}

// handleFlashcardsGenerate parses the word form value into a new card.
func (s *Server) handleFlashcardsGenerate(w http.ResponseWriter, r *http.Request) {
	card, err := s.flashcards.Generate(r.Context(), r.FormValue("word"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, card)
}

func (s *Server) handleFlashcardsCSV(w http.ResponseWriter, r *http.Request) {
	data, err := s.flashcards.CSV()
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="flashcards.csv"`)
	_, _ = w.Write(data)
}

type readingState struct {
	Lines      []tools.Line                `json:"lines"`
	History    map[string][]tools.Feedback `json:"history"`
	Logs       []tools.LogEntry            `json:"logs"`
	Recording  string                      `json:"recording,omitempty"`
	Evaluating string                      `json:"evaluating,omitempty"`
}

func (s *Server) readingState() readingState {
	st := readingState{
		Lines:   s.coach.Lines(),
		History: make(map[string][]tools.Feedback),
		Logs:    s.coach.Logs(),
	}
	for _, l := range st.Lines {
		if h := s.coach.History(l.ID); len(h) > 0 {
			st.History[l.ID] = h
		}
	}
	st.Recording, st.Evaluating = s.coach.State()
	return st
}

func (s *Server) handleReading(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.readingState())
}

func (s *Server) handleReadingScript(w http.ResponseWriter, r *http.Request) {
	if _, err := s.coach.ProcessScript(r.Context()); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.readingState())
}

func (s *Server) handleReadingRecord(w http.ResponseWriter, r *http.Request) {
	line := chi.URLParam(r, "line")
	if line == "" {
		httputil.WriteError(w, r, errors.New(errors.ErrCodeInvalidInput, "line id required"))
		return
	}
	fb, err := s.coach.Record(r.Context(), line)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, fb)
}
