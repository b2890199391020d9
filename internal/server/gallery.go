package server

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itsuki/garden/pkg/content"
	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/gallery"
	"github.com/itsuki/garden/pkg/httputil"
	"github.com/itsuki/garden/pkg/observability"
	"github.com/itsuki/garden/pkg/pipeline"
	"github.com/itsuki/garden/pkg/session"
)

const galleryBase = "/gallery"

// records returns the gallery images: the configured manifest when set,
// otherwise the photos collection titled in lang. Invalid photo files are
// logged and left out.
func (s *Server) records(ctx context.Context, lang string) ([]gallery.ImageRecord, error) {
	var records []gallery.ImageRecord
	if m := s.cfg.Server.Manifest; m != "" {
		var err error
		if records, err = gallery.ReadManifest(m); err != nil {
			return nil, err
		}
	} else {
		entries, err := content.LoadCollection(ctx, s.cfg.Server.Content, content.Photos)
		if err != nil {
			if entries == nil {
				return nil, err
			}
			s.logger.Warn("skipping invalid photos", "error", err)
		}
		content.SortByDate(entries)
		records = content.PhotoRecords(entries, lang)
	}
	if records == nil {
		records = []gallery.ImageRecord{}
	}
	return records, nil
}

func (s *Server) pipelineOptions(records []gallery.ImageRecord, format string, focus int) pipeline.Options {
	g := s.cfg.Gallery
	return pipeline.Options{
		Records:       records,
		Viewport:      g.Viewport,
		Breakpoints:   g.Breakpoints,
		Gutter:        g.Gutter,
		FallbackRatio: g.FallbackRatio,
		Formats:       []string{format},
		Focus:         focus + 1,
		ActionBase:    galleryBase,
		Logger:        s.logger,
	}
}

// navigator restores the session's lightbox over records and reports every
// subsequent transition to the tool hooks.
func navigator(ctx context.Context, sess *session.Session, records []gallery.ImageRecord) *gallery.Navigator {
	return sess.Navigator(gallery.Images(records), func(t gallery.Transition) {
		observability.Tools().OnNavigate(ctx, t.Event.String(), t.From, t.To)
	})
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := s.session(w, r)

	records, err := s.records(ctx, sess.Lang)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	nav := navigator(ctx, sess, records)
	if q := r.URL.Query().Get("focus"); q != "" {
		i, err := strconv.Atoi(q)
		if err != nil || !nav.Activate(i) {
			httputil.WriteError(w, r, errors.New(errors.ErrCodeInvalidInput, "focus %q out of range (gallery has %d images)", q, len(records)))
			return
		}
	}
	sess.Save(nav)
	s.saveSession(r, sess)

	result, err := s.runner.Execute(ctx, s.pipelineOptions(records, pipeline.FormatHTML, nav.Focused()))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var body bytes.Buffer
	s.writeGalleryHeader(&body, sess.Lang, len(records))
	body.Write(result.Artifacts[pipeline.FormatHTML])
	s.writePage(w, s.site.T("photos", sess.Lang), sess.Lang, body.Bytes())
}

// handleGalleryAction applies one lightbox event and redirects back to the
// gallery (post/redirect/get).
func (s *Server) handleGalleryAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := s.session(w, r)

	records, err := s.records(ctx, sess.Lang)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	nav := navigator(ctx, sess, records)

	switch action := chi.URLParam(r, "action"); action {
	case "next":
		nav.Next()
	case "prev", "previous":
		nav.Previous()
	case "dismiss", "close":
		nav.Dismiss()
	case "activate":
		i, err := strconv.Atoi(r.FormValue("i"))
		if err != nil || !nav.Activate(i) {
			httputil.WriteError(w, r, errors.New(errors.ErrCodeInvalidInput, "activate: index %q out of range", r.FormValue("i")))
			return
		}
	default:
		httputil.WriteError(w, r, errors.New(errors.ErrCodeNotFound, "unknown gallery action %q", action))
		return
	}

	sess.Save(nav)
	s.saveSession(r, sess)
	http.Redirect(w, r, galleryBase, http.StatusSeeOther)
}

// handleGalleryArtifact serves the SVG or JSON rendering with the session's
// focus.
func (s *Server) handleGalleryArtifact(format string) http.HandlerFunc {
	contentType := map[string]string{
		pipeline.FormatSVG:  "image/svg+xml",
		pipeline.FormatJSON: "application/json; charset=utf-8",
	}[format]

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := s.session(w, r)

		records, err := s.records(ctx, sess.Lang)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		focus := navigator(ctx, sess, records).Focused()

		result, err := s.runner.Execute(ctx, s.pipelineOptions(records, format, focus))
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(result.Artifacts[format])
	}
}
