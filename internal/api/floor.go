package api

import (
	"net/http"
	"strings"

	"hostes/internal/models"
)

func (s *HTTPServer) handleHalls(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		halls, err := s.floor.ListHalls(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if halls == nil {
			halls = []models.Hall{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"halls": halls})
	case http.MethodPost:
		var hall models.Hall
		if err := decodeJSON(r, &hall); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := s.floor.CreateHall(r.Context(), &hall)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleHallByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/v1/halls/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "hall id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		hall, err := s.floor.GetHall(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, hall)
	case http.MethodPut:
		var hall models.Hall
		if err := decodeJSON(r, &hall); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		hall.ID = id
		updated, err := s.floor.UpdateHall(r.Context(), &hall)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.floor.DeleteHall(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleTables(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tables, err := s.floor.ListTables(r.Context(), strings.TrimSpace(r.URL.Query().Get("hallId")))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if tables == nil {
			tables = []models.Table{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
	case http.MethodPost:
		var table models.Table
		if err := decodeJSON(r, &table); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := s.floor.CreateTable(r.Context(), &table)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleTableByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r.URL.Path, "/api/v1/tables/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "table id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		table, err := s.floor.GetTable(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, table)
	case http.MethodPut:
		var table models.Table
		if err := decodeJSON(r, &table); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		table.ID = id
		updated, err := s.floor.UpdateTable(r.Context(), &table)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.floor.DeleteTable(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func pathID(path, prefix string) string {
	id := strings.TrimSpace(strings.TrimPrefix(path, prefix))
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
