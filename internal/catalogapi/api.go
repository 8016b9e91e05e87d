// Package catalogapi serves the formula catalog over HTTP and JSON for local
// development and tests.
package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"formulary/internal/fetch"
	applog "formulary/internal/log"
	"formulary/models"
)

// API exposes the catalog stored in a gorm database.
type API struct {
	db *gorm.DB
}

// New returns an API backed by db.
func New(db *gorm.DB) *API {
	return &API{db: db}
}

// Routes registers the catalog endpoints on a new mux.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/formulas", a.listFormulas)
	mux.HandleFunc("GET /api/formulas/{id}", a.showFormula)
	mux.HandleFunc("GET /api/applications", a.listApplications)
	mux.HandleFunc("GET /api/applications/{id}", a.showApplication)
	mux.HandleFunc("POST /api/applications/{id}/link-formulas", a.linkFormulas)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

func (a *API) listFormulas(w http.ResponseWriter, r *http.Request) {
	formulas := make([]models.Formula, 0)
	if err := a.db.WithContext(r.Context()).Order("id asc").Find(&formulas).Error; err != nil {
		applog.Error(r.Context(), "failed to list formulas", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load formulas")
		return
	}
	writeJSON(w, http.StatusOK, formulas)
}

func (a *API) showFormula(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var formula models.Formula
	if err := a.db.WithContext(r.Context()).First(&formula, id).Error; err != nil {
		a.writeLookupError(w, r, "formula", err)
		return
	}
	writeJSON(w, http.StatusOK, formula)
}

func (a *API) listApplications(w http.ResponseWriter, r *http.Request) {
	applications := make([]models.Application, 0)
	if err := a.db.WithContext(r.Context()).Order("id asc").Find(&applications).Error; err != nil {
		applog.Error(r.Context(), "failed to list applications", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load applications")
		return
	}
	writeJSON(w, http.StatusOK, applications)
}

func (a *API) showApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var application models.Application
	if err := a.db.WithContext(r.Context()).First(&application, id).Error; err != nil {
		a.writeLookupError(w, r, "application", err)
		return
	}
	writeJSON(w, http.StatusOK, application)
}

type linkPayload struct {
	FormulaIDs *[]int `json:"formula_ids"`
}

// errUnknownEntity marks a link request naming a row that does not exist.
var errUnknownEntity = errors.New("unknown entity")

func (a *API) linkFormulas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload linkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid link payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.FormulaIDs == nil {
		writeJSONError(w, http.StatusBadRequest, "formula_ids is required")
		return
	}
	ids := fetch.UniqueIDs(*payload.FormulaIDs)
	for _, formulaID := range ids {
		if formulaID <= 0 {
			writeJSONError(w, http.StatusBadRequest, "formula ids must be positive")
			return
		}
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return link(ctx, tx, id, ids)
	})
	switch {
	case errors.Is(err, errUnknownEntity):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case err != nil:
		applog.Error(ctx, "failed to link formulas", "applicationID", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to link formulas")
	default:
		applog.Info(ctx, "formulas linked", "applicationID", id, "formulas", len(ids))
		w.WriteHeader(http.StatusNoContent)
	}
}

// link appends formulaIDs to the application's formulas. Pairs that are
// already linked are left as they are.
func link(ctx context.Context, tx *gorm.DB, applicationID uint, formulaIDs []int) error {
	var application models.Application
	if err := tx.First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("application %d: %w", applicationID, errUnknownEntity)
		}
		return err
	}
	if len(formulaIDs) == 0 {
		return nil
	}

	var formulas []models.Formula
	if err := tx.Where("id IN ?", formulaIDs).Find(&formulas).Error; err != nil {
		return err
	}
	if len(formulas) != len(formulaIDs) {
		found := make(map[uint]struct{}, len(formulas))
		for _, formula := range formulas {
			found[formula.ID] = struct{}{}
		}
		for _, formulaID := range formulaIDs {
			if _, ok := found[uint(formulaID)]; !ok {
				return fmt.Errorf("formula %d: %w", formulaID, errUnknownEntity)
			}
		}
	}

	applog.Debug(ctx, "linking formulas", "applicationID", applicationID, "formulas", len(formulas))
	return tx.Model(&application).Association("Formulas").Append(&formulas)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	value, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || value == 0 {
		applog.Debug(r.Context(), "invalid identifier", "identifier", r.PathValue("id"))
		writeJSONError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return uint(value), true
}

func (a *API) writeLookupError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeJSONError(w, http.StatusNotFound, kind+" not found")
		return
	}
	applog.Error(r.Context(), "failed to load "+kind, "error", err)
	writeJSONError(w, http.StatusInternalServerError, "unable to load "+kind)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
