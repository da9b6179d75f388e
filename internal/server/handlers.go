package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/memento-gifts/memento/domain"
	"github.com/memento-gifts/memento/pretty"
	"github.com/memento-gifts/memento/render"
)

// ManagerState is the body of GET /api/admin/experiences.
type ManagerState struct {
	Experiences []*domain.Experience `json:"experiences"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "alive"})
}

// handleReadiness pings the store when it supports it.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	pinger, ok := s.catalog.Store.(Pinger)
	if !ok {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := pinger.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "degraded",
			Details: map[string]any{"store": err.Error()},
		})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ready",
		Details: map[string]any{"store": "ok"},
	})
}

func (s *Server) renderPage(w http.ResponseWriter, page *render.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, page); err != nil {
		s.logger.Error("rendering page", "title", page.Title, "error", err)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, render.BuildHome(r.Context(), s.catalog, render.DefaultFooter(s.now())))
}

func (s *Server) handleCategoryPage(w http.ResponseWriter, r *http.Request) {
	page, ok := render.BuildCategory(r.Context(), s.catalog, r.PathValue("id"), render.DefaultFooter(s.now()))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.renderPage(w, page)
}

func (s *Server) handleExperiencePage(w http.ResponseWriter, r *http.Request) {
	page, ok := render.BuildExperience(r.Context(), s.catalog, r.PathValue("id"), render.DefaultFooter(s.now()))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.renderPage(w, page)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := render.SitemapXML(s.baseURL, s.catalog.AllExperiences(r.Context()), s.catalog.Categories)
	if err != nil {
		s.logger.Error("writing sitemap", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build sitemap")
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(sitemap)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Categories)
}

func (s *Server) handleNicheCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.NicheCategories)
}

func (s *Server) handleExperiences(w http.ResponseWriter, r *http.Request) {
	if categoryID := r.URL.Query().Get("category"); categoryID != "" {
		writeJSON(w, http.StatusOK, s.catalog.ExperiencesByCategory(r.Context(), categoryID))
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.AllExperiences(r.Context()))
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.TrendingExperiences(r.Context()))
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.FeaturedExperiences(r.Context()))
}

func (s *Server) handleExperience(w http.ResponseWriter, r *http.Request) {
	experience := s.catalog.ExperienceByID(r.Context(), r.PathValue("id"))
	if experience == nil {
		writeError(w, http.StatusNotFound, "experience not found")
		return
	}
	writeJSON(w, http.StatusOK, experience)
}

func (s *Server) handleManagerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ManagerState{
		Experiences: s.manager.Experiences(),
		Loading:     s.manager.Loading(),
		Error:       s.manager.Error(),
	})
}

// audit logs an admin mutation together with the subject of the token that made it.
func (s *Server) audit(r *http.Request, action string, args ...any) {
	subject := ""
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		subject = claims.Subject
	}
	s.logger.Info("admin action", append([]any{"action", action, "subject", subject}, args...)...)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	s.audit(r, "load")
	s.manager.Load(r.Context())
	s.handleManagerState(w, r)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var experience domain.Experience
	if err := json.NewDecoder(r.Body).Decode(&experience); err != nil {
		writeError(w, http.StatusBadRequest, "invalid experience: "+err.Error())
		return
	}

	added, err := s.manager.Add(r.Context(), &experience)
	if err != nil {
		s.writeManagerError(w, err)
		return
	}
	s.audit(r, "add", "id", added.ID)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch domain.ExperiencePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid patch: "+err.Error())
		return
	}

	if err := s.manager.Update(r.Context(), r.PathValue("id"), &patch); err != nil {
		s.writeManagerError(w, err)
		return
	}
	s.audit(r, "update", "id", r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeManagerError(w, err)
		return
	}
	s.audit(r, "delete", "id", r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	result, err := s.manager.Reset(r.Context())
	if err != nil {
		s.writeManagerError(w, err)
		return
	}
	s.audit(r, "reset")
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(w, r, maxImportBytes)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "import payload is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "reading import payload: "+err.Error())
		return
	}
	// mimetype only sniffs objects and arrays; scalar JSON still reaches the manager's format check.
	if !pretty.IsJSON(payload) && !json.Valid(payload) {
		writeError(w, http.StatusUnsupportedMediaType, "import payload must be JSON")
		return
	}

	result := s.manager.Import(r.Context(), payload)
	s.audit(r, "import", "success", result.Success)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	exported, err := s.manager.Export(r.Context())
	if err != nil {
		s.writeManagerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="experiences.json"`)
	w.Write(exported)
}

// writeManagerError maps validation failures to 400 and store failures to 502.
func (s *Server) writeManagerError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidExperience) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}
