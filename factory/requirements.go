/*
Package factory provides JSON to Go configuration conversion.

PURPOSE:
  Converts JSON configuration blobs into typed engine structures. Manning
  tables and event special requirements are authored in admin UIs and
  stored as JSON; this package is the defensive boundary that turns them
  into closed Go types before the engine ever sees them.

WHY JSON?
  - Non-developers configure manning tables per venue
  - Easy integration with admin UI
  - Database storage of per-venue configs

JSON SCHEMAS:
  Manning table config:
    {
      "brackets": ["0-50", "50-100", "100-200"],
      "rows": [
        {"role": "Waiter", "counts": [5, 9, 14]},
        {"role": "Bartender", "counts": [1, 2, 3]}
      ]
    }

  Event special requirements:
    {
      "skills": ["sommelier", "barista"],
      "languages": {"french": "fluent", "german": "basic"}
    }

PERMISSIVE PARSING:
  An unparseable special-requirements blob degrades to "no special
  requirements" rather than failing the run - a best-effort plan beats a
  hard failure. Table config parsing does return an error (the caller
  logs it and treats the table as absent), but structural oddities like
  short count rows are tolerated and handled downstream.

SEE ALSO:
  - engine/manning.go: consumes TableConfig
  - engine/scoring.go: consumes SpecialRequirements
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TableConfigJSON is the JSON representation of a manning table config.
type TableConfigJSON struct {
	Brackets []string       `json:"brackets"`
	Rows     []TableRowJSON `json:"rows"`
}

// TableRowJSON is one role row of a manning table.
type TableRowJSON struct {
	Role   string `json:"role"`
	Counts []int  `json:"counts"`
}

// RequirementsJSON is the JSON representation of event special requirements.
type RequirementsJSON struct {
	Skills    []string          `json:"skills,omitempty"`
	Languages map[string]string `json:"languages,omitempty"`
}

// =============================================================================
// MANNING TABLE CONFIG
// =============================================================================

// ParseTableConfig parses a manning table's JSON configuration. The caller
// should log a returned error and treat the table as absent; per-bracket
// and per-row anomalies are left to the engine, which skips them with a
// logged warning.
func ParseTableConfig(raw string) (engine.TableConfig, error) {
	var cfg TableConfigJSON
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return engine.TableConfig{}, fmt.Errorf("manning table config: %w", err)
	}
	if len(cfg.Brackets) == 0 {
		return engine.TableConfig{}, fmt.Errorf("manning table config: no brackets")
	}

	out := engine.TableConfig{Brackets: cfg.Brackets}
	for _, row := range cfg.Rows {
		if strings.TrimSpace(row.Role) == "" {
			continue
		}
		out.Rows = append(out.Rows, engine.TableRow{RoleName: row.Role, Counts: row.Counts})
	}
	return out, nil
}

// EncodeTableConfig serializes a table config back to its JSON storage form.
func EncodeTableConfig(cfg engine.TableConfig) (string, error) {
	doc := TableConfigJSON{Brackets: cfg.Brackets}
	for _, row := range cfg.Rows {
		doc.Rows = append(doc.Rows, TableRowJSON{Role: row.RoleName, Counts: row.Counts})
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// =============================================================================
// SPECIAL REQUIREMENTS
// =============================================================================

// ParseSpecialRequirements parses an event's special-requirements blob.
// Malformed input degrades to the zero value - no special requirements -
// never to an error. Unknown proficiency strings degrade to basic.
func ParseSpecialRequirements(raw string) engine.SpecialRequirements {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return engine.SpecialRequirements{}
	}

	var doc RequirementsJSON
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return engine.SpecialRequirements{}
	}

	out := engine.SpecialRequirements{}
	for _, skill := range doc.Skills {
		if s := strings.TrimSpace(skill); s != "" {
			out.Skills = append(out.Skills, s)
		}
	}
	if len(doc.Languages) > 0 {
		out.Languages = make(map[string]engine.Proficiency, len(doc.Languages))
		for lang, prof := range doc.Languages {
			lang = strings.TrimSpace(lang)
			if lang == "" {
				continue
			}
			out.Languages[lang] = parseProficiency(prof)
		}
	}
	return out
}

func parseProficiency(s string) engine.Proficiency {
	switch engine.Proficiency(strings.ToLower(strings.TrimSpace(s))) {
	case engine.ProficiencyConversational:
		return engine.ProficiencyConversational
	case engine.ProficiencyFluent:
		return engine.ProficiencyFluent
	case engine.ProficiencyNative:
		return engine.ProficiencyNative
	case engine.ProficiencyMedium:
		return engine.ProficiencyMedium
	case engine.ProficiencyGood:
		return engine.ProficiencyGood
	default:
		return engine.ProficiencyBasic
	}
}
