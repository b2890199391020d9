package server

import (
	"net/http"

	"github.com/itsuki/garden/pkg/config"
	"github.com/itsuki/garden/pkg/session"
)

const sessionCookie = "garden_session"

// session returns the visitor's session, starting a new one when the cookie
// is missing, unknown or expired. A valid lang query parameter switches the
// session's language.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var sess *session.Session
	if c, err := r.Cookie(sessionCookie); err == nil {
		got, err := s.sessions.Get(r.Context(), c.Value)
		if err != nil {
			s.logger.Warn("session read failed", "error", err)
		}
		sess = got
	}
	if sess == nil {
		sess = session.New(session.DefaultTTL)
		s.logger.Debug("new session", "id", sess.ID)
	}
	if lang := r.URL.Query().Get("lang"); config.ValidLang(lang) {
		sess.Lang = lang
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(session.DefaultTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (s *Server) saveSession(r *http.Request, sess *session.Session) {
	sess.Touch(session.DefaultTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.logger.Warn("session write failed", "id", sess.ID, "error", err)
	}
}
