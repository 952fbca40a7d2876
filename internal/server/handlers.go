package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"archcanvas/pkg/diagram"
	"archcanvas/pkg/errors"
	"archcanvas/pkg/export"
	"archcanvas/pkg/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePutDiagram ingests a new description, replacing the current diagram
// wholesale. Descriptions without positions are laid out automatically
// before they reach the surface.
func (s *Server) handlePutDiagram(w http.ResponseWriter, r *http.Request) {
	var d diagram.Description
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, err)
		return
	}

	if err := d.Validate(); err != nil {
		writeError(w, err)
		return
	}

	laid, err := s.layouts.Resolve(r.Context(), d, render.AutoLayout)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "layout diagram"))
		return
	}

	if err := s.surface.SetDescription(r.Context(), laid); err != nil {
		writeError(w, err)
		return
	}
	s.setCurrent(&laid)
	if err := s.store.Save(r.Context(), laid); err != nil {
		s.logger.Warn("persist diagram", "err", err)
	}
	s.events.Publish(Event{Type: EventDiagramReplaced, Payload: map[string]int{
		"nodes": len(laid.Nodes),
		"edges": len(laid.Edges),
	}})

	writeJSON(w, http.StatusOK, laid)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d := s.getCurrent()
	if d == nil {
		writeError(w, errors.New(errors.ErrCodeNoDiagram, "no diagram loaded"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleClearDiagram(w http.ResponseWriter, r *http.Request) {
	s.surface.Clear()
	s.setCurrent(nil)
	if err := s.store.Clear(r.Context()); err != nil {
		s.logger.Warn("clear persisted diagram", "err", err)
	}
	s.events.Publish(Event{Type: EventDiagramReplaced, Payload: map[string]int{"nodes": 0, "edges": 0}})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSVG(w http.ResponseWriter, r *http.Request) {
	svg := render.RenderSVG(s.surface.Snapshot())
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *Server) handleHoverEnter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tip, err := s.surface.HoverEnter(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

func (s *Server) handleHoverLeave(w http.ResponseWriter, r *http.Request) {
	s.surface.HoverLeave(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	if err := s.surface.Activate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRequestDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.surface.RequestDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	// Intent only. The diagram owner confirms by sending a new description.
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var pos diagram.Position
	if err := decodeJSON(r, &pos); err != nil {
		writeError(w, err)
		return
	}
	if err := s.surface.DragTo(chi.URLParam(r, "id"), pos); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetViewport(w http.ResponseWriter, r *http.Request) {
	var v render.Viewport
	if err := decodeJSON(r, &v); err != nil {
		writeError(w, err)
		return
	}
	s.surface.SetViewport(v)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Start(s.cfg.Docgen.Token)
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.End()
	w.WriteHeader(http.StatusNoContent)
}

type exportRequest struct {
	Format string `json:"format"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := s.sessions.Current()
	if sess == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidSession, "no active session: start a conversation before exporting"))
		return
	}

	result, err := s.exporter.Export(r.Context(), export.Request{
		SessionID: sess.ID,
		Format:    format,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.events.Publish(Event{Type: EventExportComplete, Payload: result})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) setCurrent(d *diagram.Description) {
	s.currentMu.Lock()
	s.currentDiagram = d
	s.currentMu.Unlock()
}

func (s *Server) getCurrent() *diagram.Description {
	s.currentMu.RLock()
	defer s.currentMu.RUnlock()
	return s.currentDiagram
}
