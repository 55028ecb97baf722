/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the engine's
  internal model from the external contract. Decimal figures serialize as
  quoted strings (shopspring default), which front-ends treat as exact.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"

	"github.com/warp/revenue-engine/engine"
)

// =============================================================================
// RECORDS
// =============================================================================

// RecordDTO carries a full daily record. Period payloads stay raw JSON: the
// API does not constrain their shape, the engine's coercion layer does.
type RecordDTO struct {
	Date    string                     `json:"date"`
	Notes   string                     `json:"notes,omitempty"`
	Periods map[string]json.RawMessage `json:"periods"`
}

func recordFromDTO(dto RecordDTO) engine.DailyRecord {
	rec := engine.DailyRecord{
		Date:    dto.Date,
		Notes:   dto.Notes,
		Periods: make(map[engine.PeriodID]json.RawMessage, len(dto.Periods)),
	}
	for id, raw := range dto.Periods {
		rec.Periods[engine.PeriodID(id)] = raw
	}
	return rec
}

func recordToDTO(rec *engine.DailyRecord) RecordDTO {
	dto := RecordDTO{
		Date:    rec.Date,
		Notes:   rec.Notes,
		Periods: make(map[string]json.RawMessage, len(rec.Periods)),
	}
	for id, raw := range rec.Periods {
		dto.Periods[string(id)] = raw
	}
	return dto
}

// =============================================================================
// PERIOD REGISTRY
// =============================================================================

type PeriodDTO struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Kind       string      `json:"kind"`
	Reconciled bool        `json:"reconciled"`
	Category   string      `json:"category"`
	SubTabs    []SubTabDTO `json:"subTabs,omitempty"`
}

type SubTabDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func periodToDTO(def engine.PeriodDef) PeriodDTO {
	dto := PeriodDTO{
		ID:         string(def.ID),
		Name:       def.Name,
		Kind:       string(def.Kind),
		Reconciled: def.Reconciled,
		Category:   string(def.Category),
	}
	for _, tab := range def.SubTabs {
		dto.SubTabs = append(dto.SubTabs, SubTabDTO{
			ID:   string(tab.ID),
			Name: tab.Name,
			Kind: string(tab.Kind),
		})
	}
	return dto
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error string `json:"error"`
}
