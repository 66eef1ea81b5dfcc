/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Seeds the store with realistic demo data so the frontend has something
  to show without a hosting application wired in. Scenarios are loaded
  through the normal domain services wherever possible so the demo data
  obeys the same invariants as real data.
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chantela-crypto/MGMT-sub003/engine"
	"github.com/chantela-crypto/MGMT-sub003/schedule"
)

var scenarios = []ScenarioDTO{
	{
		ID:          "clinic-demo",
		Name:        "Clinic demo",
		Description: "Three divisions, four employees, one hormone unit, trailing KPIs and a week of shifts.",
	},
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario seeds the store with the selected scenario's data.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "validation")
		return
	}
	if req.ID != "clinic-demo" {
		writeError(w, http.StatusNotFound, "unknown scenario", "not_found")
		return
	}
	if h.Ref == nil {
		writeError(w, http.StatusInternalServerError, "no reference store configured", "internal")
		return
	}

	if err := h.loadClinicDemo(r.Context()); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.currentScenario = req.ID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ID})
}

func (h *Handler) loadClinicDemo(ctx context.Context) error {
	divisions := []engine.Division{
		{ID: "laser", Name: "Laser", Color: "#e76f51"},
		{ID: "injectables", Name: "Injectables", Color: "#2a9d8f"},
		{ID: engine.DivisionHormone, Name: "Hormone Therapy", Color: "#264653"},
	}
	for _, d := range divisions {
		if err := h.Ref.SaveDivision(ctx, d); err != nil {
			return err
		}
	}

	employees := []engine.Employee{
		{ID: "emp-ava", Name: "Ava Tremblay", DivisionID: "laser", Locations: []string{"downtown"}, Category: "senior", ExperienceLevel: "level-3"},
		{ID: "emp-blair", Name: "Blair Singh", DivisionID: "laser", Locations: []string{"downtown", "westside"}, Category: "junior", ExperienceLevel: "level-1"},
		{ID: "emp-casey", Name: "Casey Morin", DivisionID: "injectables", Locations: []string{"westside"}, Category: "senior", ExperienceLevel: "level-2"},
		{ID: "emp-dana", Name: "Dana Okafor", DivisionID: "injectables", Locations: []string{"downtown"}, Category: "senior", ExperienceLevel: "level-3"},
	}
	for _, e := range employees {
		if err := h.Ref.SaveEmployee(ctx, e); err != nil {
			return err
		}
	}

	if err := h.Ref.SaveUnit(ctx, engine.HormoneUnit{
		UnitID:        "unit-h1",
		Location:      "downtown",
		NPIDs:         []string{"np-1"},
		SpecialistIDs: []string{"emp-dana"},
	}); err != nil {
		return err
	}

	// Trailing KPIs for last month so projection seeding has history.
	// Casey sits below the retail threshold on purpose.
	prior := engine.MonthOf(h.Clock()).Prev()
	kpis := []engine.EmployeeKPI{
		{EmployeeID: "emp-ava", Month: prior, ProductivityRate: decimal.NewFromInt(88), RetailPercentage: decimal.NewFromInt(18), AttendanceRate: decimal.NewFromInt(96), ServiceSalesPerHour: decimal.NewFromInt(165), HoursSold: decimal.NewFromInt(142)},
		{EmployeeID: "emp-blair", Month: prior, ProductivityRate: decimal.NewFromInt(72), RetailPercentage: decimal.NewFromInt(12), AttendanceRate: decimal.NewFromInt(91), ServiceSalesPerHour: decimal.NewFromInt(120), HoursSold: decimal.NewFromInt(98)},
		{EmployeeID: "emp-casey", Month: prior, ProductivityRate: decimal.NewFromInt(90), RetailPercentage: decimal.NewFromInt(9), AttendanceRate: decimal.NewFromInt(97), ServiceSalesPerHour: decimal.NewFromInt(175), HoursSold: decimal.NewFromInt(150)},
	}
	for _, k := range kpis {
		if err := h.Ref.SaveKPI(ctx, k); err != nil {
			return err
		}
	}

	// A week of shifts, written through the domain service (as admin, so
	// loading the demo works even after the cutoff).
	monday := mondayOf(h.Clock())
	for i := 0; i < 5; i++ {
		day := engine.DayOf(monday.AddDate(0, 0, i))
		for _, id := range []engine.SchedulableID{"emp-ava", "emp-blair"} {
			if _, err := h.Shifts.Upsert(ctx, schedule.UpsertInput{
				SchedulableID: id,
				Date:          day,
				StartTime:     "09:00",
				EndTime:       "17:00",
				Location:      "downtown",
				DivisionID:    "laser",
				ActorID:       "scenario-loader",
				ActorRole:     engine.RoleAdmin,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

func mondayOf(now time.Time) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, -1)
	}
	return t
}
