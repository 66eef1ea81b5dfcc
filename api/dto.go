/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in the domain services, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chantela-crypto/MGMT-sub003/engine"
	"github.com/chantela-crypto/MGMT-sub003/forecast"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ShiftDTO represents a shift entry in API responses.
type ShiftDTO struct {
	ID             string  `json:"id"`
	SchedulableID  string  `json:"schedulable_id"`
	Date           string  `json:"date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	ScheduledHours float64 `json:"scheduled_hours"`
	Location       string  `json:"location"`
	DivisionID     string  `json:"division_id"`
	CreatedBy      string  `json:"created_by,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
	Locked         bool    `json:"locked"`
	Version        int64   `json:"version"`
}

// UpsertShiftRequest is the request to create or replace a shift.
type UpsertShiftRequest struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Location        string `json:"location"`
	DivisionID      string `json:"division_id"`
	ExpectedVersion int64  `json:"expected_version,omitempty"` // 0 = last-write-wins
}

// RollupDTO reports an entity's scheduled-hours total.
type RollupDTO struct {
	SchedulableID string  `json:"schedulable_id"`
	Scope         string  `json:"scope"` // "all" or "month"
	Month         string  `json:"month,omitempty"`
	TotalHours    float64 `json:"total_hours"`
}

// ProjectionDTO represents a revenue projection in API responses.
type ProjectionDTO struct {
	SchedulableID string `json:"schedulable_id"`
	Month         string `json:"month"`

	ScheduledHours        float64 `json:"scheduled_hours"`
	EstimatedProductivity float64 `json:"estimated_productivity"`
	ServiceSalesPerHour   float64 `json:"service_sales_per_hour"`
	RetailPercentage      float64 `json:"retail_percentage"`

	EffectiveHours          float64 `json:"effective_hours"`
	ProjectedServiceRevenue float64 `json:"projected_service_revenue"`
	ProjectedRetailRevenue  float64 `json:"projected_retail_revenue"`
	TotalRevenueGoal        float64 `json:"total_revenue_goal"`

	IsSubmitted bool    `json:"is_submitted"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
	SubmittedBy string  `json:"submitted_by,omitempty"`
	Version     int64   `json:"version"`
}

// SetProjectionRequest replaces the four projection inputs. Derived fields
// are never accepted on the wire.
type SetProjectionRequest struct {
	ScheduledHours        float64 `json:"scheduled_hours"`
	EstimatedProductivity float64 `json:"estimated_productivity"`
	ServiceSalesPerHour   float64 `json:"service_sales_per_hour"`
	RetailPercentage      float64 `json:"retail_percentage"`
	ExpectedVersion       int64   `json:"expected_version,omitempty"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	DivisionID      string   `json:"division_id"`
	Locations       []string `json:"locations,omitempty"`
	Category        string   `json:"category,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
}

// UnitDTO represents a hormone unit.
type UnitDTO struct {
	UnitID        string   `json:"unit_id"`
	Location      string   `json:"location,omitempty"`
	NPIDs         []string `json:"np_ids,omitempty"`
	SpecialistIDs []string `json:"specialist_ids,omitempty"`
}

// DivisionDTO represents a division.
type DivisionDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// AssessmentDTO reports an underperformance evaluation.
type AssessmentDTO struct {
	EmployeeID string   `json:"employee_id"`
	Month      string   `json:"month"`
	Flagged    bool     `json:"flagged"`
	Reasons    []string `json:"reasons,omitempty"`
}

// LockDTO reports the evaluated edit window for the supplied role.
type LockDTO struct {
	State     string `json:"state"`
	Role      string `json:"role"`
	CutoffDay int    `json:"cutoff_day"`
	Now       string `json:"now"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ID string `json:"id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toShiftDTO(entry engine.ShiftEntry) ShiftDTO {
	hours, _ := entry.ScheduledHours.Float64()
	return ShiftDTO{
		ID:             string(entry.ID),
		SchedulableID:  string(entry.SchedulableID),
		Date:           entry.Date.String(),
		StartTime:      entry.StartTime,
		EndTime:        entry.EndTime,
		ScheduledHours: hours,
		Location:       entry.Location,
		DivisionID:     string(entry.DivisionID),
		CreatedBy:      entry.CreatedBy,
		CreatedAt:      entry.CreatedAt.Format(time.RFC3339),
		Locked:         entry.Locked,
		Version:        entry.Version,
	}
}

func toShiftDTOs(entries []engine.ShiftEntry) []ShiftDTO {
	dtos := make([]ShiftDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = toShiftDTO(entry)
	}
	return dtos
}

func toProjectionDTO(p engine.RevenueProjection) ProjectionDTO {
	f := func(d decimal.Decimal) float64 {
		v, _ := d.Float64()
		return v
	}
	dto := ProjectionDTO{
		SchedulableID:           string(p.SchedulableID),
		Month:                   p.Month.String(),
		ScheduledHours:          f(p.Inputs.ScheduledHours),
		EstimatedProductivity:   f(p.Inputs.EstimatedProductivity),
		ServiceSalesPerHour:     f(p.Inputs.ServiceSalesPerHour),
		RetailPercentage:        f(p.Inputs.RetailPercentage),
		EffectiveHours:          f(p.Derived.EffectiveHours),
		ProjectedServiceRevenue: f(p.Derived.ProjectedServiceRevenue),
		ProjectedRetailRevenue:  f(p.Derived.ProjectedRetailRevenue),
		TotalRevenueGoal:        f(p.Derived.TotalRevenueGoal),
		IsSubmitted:             p.IsSubmitted,
		SubmittedBy:             p.SubmittedBy,
		Version:                 p.Version,
	}
	if p.SubmittedAt != nil {
		at := p.SubmittedAt.Format(time.RFC3339)
		dto.SubmittedAt = &at
	}
	return dto
}

func toAssessmentDTO(a forecast.Assessment) AssessmentDTO {
	return AssessmentDTO{
		EmployeeID: string(a.EmployeeID),
		Month:      a.Month.String(),
		Flagged:    a.Flagged,
		Reasons:    a.Reasons,
	}
}
