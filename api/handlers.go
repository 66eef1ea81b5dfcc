/*
handlers.go - HTTP API handlers for the scheduling & projection engine

PURPOSE:
  Exposes the engine via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic in schedule/ and forecast/.

ENDPOINTS:
  Shifts:
    GET    /api/schedulables/{id}/shifts              List shifts
    PUT    /api/schedulables/{id}/shifts/{date}       Upsert shift
    DELETE /api/schedulables/{id}/shifts/{date}       Remove shift
    GET    /api/schedulables/{id}/rollup              Hours rollup

  Projections:
    GET    /api/schedulables/{id}/projections/{year}/{month}
    PUT    /api/schedulables/{id}/projections/{year}/{month}
    POST   /api/schedulables/{id}/projections/{year}/{month}/submit
    GET    /api/projections/{year}/{month}            List for month

  Reference & evaluation:
    GET    /api/employees, /api/units, /api/divisions
    GET    /api/employees/{id}/underperformance
    GET    /api/lock                                   Edit window state

  Scenarios:
    GET    /api/scenarios
    POST   /api/scenarios/load

ACTOR ROLE:
  The role arrives in the X-Actor-Role header and is SUPPLIED, not
  verified: the hosting application authenticates; this engine only
  applies the lock rule to whatever role it is told. The actor id
  arrives in X-Actor-Id.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: validation errors, invalid shift ranges
  - 403: locked period
  - 404: record not found
  - 409: version conflict
  - 500: internal errors

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
  - scenarios.go: demo scenario loaders
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chantela-crypto/MGMT-sub003/engine"
	"github.com/chantela-crypto/MGMT-sub003/forecast"
	"github.com/chantela-crypto/MGMT-sub003/schedule"
	"github.com/chantela-crypto/MGMT-sub003/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Shifts    *schedule.Store
	Planner   *forecast.Planner
	Workflow  *forecast.Workflow
	Evaluator *forecast.Evaluator
	Directory engine.Directory
	Ref       *sqlite.Store // reference-data writes for scenario loading
	Clock     engine.Clock
	Log       *zap.Logger

	currentScenario string
}

// NewHandler wires a handler around a sqlite store and callback sink.
func NewHandler(store *sqlite.Store, sink engine.ScheduleSink, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	clock := engine.Clock(time.Now)
	shifts := schedule.NewStore(store, sink, clock)
	return &Handler{
		Shifts:    shifts,
		Planner:   forecast.NewPlanner(store, store, store, shifts, sink, clock),
		Workflow:  forecast.NewWorkflow(store, sink, clock),
		Evaluator: forecast.NewEvaluator(store, clock),
		Directory: store,
		Ref:       store,
		Clock:     clock,
		Log:       log,
	}
}

func actorRole(r *http.Request) engine.Role {
	role := engine.Role(r.Header.Get("X-Actor-Role"))
	if role == "" {
		role = engine.RoleStaff
	}
	return role
}

func actorID(r *http.Request) string { return r.Header.Get("X-Actor-Id") }

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns every shift for a schedulable, ordered by date.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	id := engine.SchedulableID(chi.URLParam(r, "id"))

	entries, err := h.Shifts.List(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTOs(entries))
}

// UpsertShift creates or fully replaces the shift for (id, date).
func (h *Handler) UpsertShift(w http.ResponseWriter, r *http.Request) {
	id := engine.SchedulableID(chi.URLParam(r, "id"))
	day, err := engine.ParseDayKey(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "validation")
		return
	}

	var req UpsertShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "validation")
		return
	}

	entry, err := h.Shifts.Upsert(r.Context(), schedule.UpsertInput{
		SchedulableID:   id,
		Date:            day,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		DivisionID:      engine.DivisionID(req.DivisionID),
		ActorID:         actorID(r),
		ActorRole:       actorRole(r),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(*entry))
}

// DeleteShift removes the keyed shift; removing an absent key is a no-op.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := engine.SchedulableID(chi.URLParam(r, "id"))
	day, err := engine.ParseDayKey(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "validation")
		return
	}

	if err := h.Shifts.Remove(r.Context(), id, day, actorRole(r)); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRollup returns the entity's scheduled-hours total. scope=all (default,
// source behavior) sums every shift ever entered; scope=month needs year
// and month query params.
func (h *Handler) GetRollup(w http.ResponseWriter, r *http.Request) {
	id := engine.SchedulableID(chi.URLParam(r, "id"))

	scope := schedule.AllTime()
	scopeName := r.URL.Query().Get("scope")
	monthStr := ""
	if scopeName == "month" {
		month, err := engine.ParseMonthKey(r.URL.Query().Get("month"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "validation")
			return
		}
		scope = schedule.ForMonth(month)
		monthStr = month.String()
	} else {
		scopeName = "all"
	}

	total, err := h.Shifts.Rollup(r.Context(), id, scope)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	hours, _ := total.Float64()
	writeJSON(w, http.StatusOK, RollupDTO{
		SchedulableID: string(id),
		Scope:         scopeName,
		Month:         monthStr,
		TotalHours:    hours,
	})
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

func monthParam(r *http.Request) (engine.MonthKey, error) {
	return engine.ParseMonthKey(chi.URLParam(r, "year") + "-" + chi.URLParam(r, "month"))
}

// GetProjection returns the stored projection or a seeded draft.
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	id := engine.SchedulableID(chi.URLParam(r, "id"))
	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "validation")
		return
	}

	p, err := h.Planner.Get(r.Context(), id, month)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(*p))
}

// PutProjection replaces the four inputs and rederives everything.
func (h *Handler) PutProjection(w http.ResponseWriter, r *http.Request) {
	id := engine.SchedulableID(chi.URLParam(r, "id"))
	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "validation")
		return
	}

	var req SetProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "validation")
		return
	}

	p, err := h.Planner.SetInputs(r.Context(), id, month, engine.ProjectionInputs{
		ScheduledHours:        decimal.NewFromFloat(req.ScheduledHours),
		EstimatedProductivity: decimal.NewFromFloat(req.EstimatedProductivity),
		ServiceSalesPerHour:   decimal.NewFromFloat(req.ServiceSalesPerHour),
		RetailPercentage:      decimal.NewFromFloat(req.RetailPercentage),
	}, actorID(r), actorRole(r), req.ExpectedVersion)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(*p))
}

// SubmitProjection flips the keyed projection to Submitted.
func (h *Handler) SubmitProjection(w http.ResponseWriter, r *http.Request) {
	id := engine.SchedulableID(chi.URLParam(r, "id"))
	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "validation")
		return
	}

	p, err := h.Workflow.Submit(r.Context(), id, month, actorID(r), actorRole(r))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(*p))
}

// ListProjections returns every stored projection for the month.
func (h *Handler) ListProjections(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "validation")
		return
	}

	records, err := h.Planner.Projections.ListProjections(r.Context(), month)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]ProjectionDTO, len(records))
	for i, p := range records {
		dtos[i] = toProjectionDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REFERENCE & EVALUATION HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Directory.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = EmployeeDTO{
			ID:              string(e.ID),
			Name:            e.Name,
			DivisionID:      string(e.DivisionID),
			Locations:       e.Locations,
			Category:        e.Category,
			ExperienceLevel: e.ExperienceLevel,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListUnits returns all hormone units.
func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.Directory.ListUnits(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dtos := make([]UnitDTO, len(units))
	for i, u := range units {
		dtos[i] = UnitDTO{
			UnitID:        string(u.UnitID),
			Location:      u.Location,
			NPIDs:         u.NPIDs,
			SpecialistIDs: u.SpecialistIDs,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListDivisions returns all divisions.
func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	divisions, err := h.Directory.ListDivisions(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dtos := make([]DivisionDTO, len(divisions))
	for i, d := range divisions {
		dtos[i] = DivisionDTO{ID: string(d.ID), Name: d.Name, Color: d.Color}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUnderperformance evaluates the employee's trailing KPI record.
func (h *Handler) GetUnderperformance(w http.ResponseWriter, r *http.Request) {
	id := engine.SchedulableID(chi.URLParam(r, "id"))

	emp, err := h.Directory.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "employee not found", "not_found")
		return
	}

	assessment, err := h.Evaluator.Evaluate(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssessmentDTO(*assessment))
}

// GetLock reports the evaluated edit window for the supplied role.
func (h *Handler) GetLock(w http.ResponseWriter, r *http.Request) {
	now := h.Clock()
	role := actorRole(r)
	writeJSON(w, http.StatusOK, LockDTO{
		State:     string(engine.StateAt(now, role)),
		Role:      string(role),
		CutoffDay: engine.CutoffDay,
		Now:       now.Format(time.RFC3339),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// writeDomainError maps engine errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), "validation")
	case engine.IsLocked(err):
		writeError(w, http.StatusForbidden, err.Error(), "locked_period")
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), "not_found")
	case engine.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error(), "conflict")
	default:
		h.Log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
	}
}
