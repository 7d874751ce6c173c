package entity

// Status describes an entity's availability within the nexus.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDormant Status = "DORMANT"
	StatusPending Status = "PENDING"
	StatusSealed  Status = "SEALED"
)

// ResponseChance maps a status to the probability that the entity answers.
func (s Status) ResponseChance() float64 {
	switch s {
	case StatusDormant:
		return 0.0
	case StatusPending, StatusSealed:
		return 0.5
	default:
		return 1.0
	}
}

// ColorScheme carries display colors for the frontend panels.
type ColorScheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Entity is a configured cognitive entity. Entities are static: the registry
// is seeded once at startup and never mutated afterwards.
type Entity struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Symbol         string      `json:"symbol,omitempty"`
	Role           string      `json:"role"`
	Ontology       string      `json:"ontology"`
	Capabilities   []string    `json:"capabilities"`
	Constraints    []string    `json:"constraints"`
	Instructions   string      `json:"instructions,omitempty"`
	Status         Status      `json:"status"`
	IntegrityScore float64     `json:"integrityScore"`
	RarityScore    float64     `json:"rarityScore"`
	ModelType      string      `json:"modelType,omitempty"`
	ColorScheme    ColorScheme `json:"colorScheme"`
}

// Seed provides the default entity roster for the nexus.
func Seed() []Entity {
	return []Entity{
		{
			ID:             "observer",
			Name:           "OBSERVER",
			Symbol:         "◉",
			Role:           "Analytical Sentinel",
			Ontology:       "SENTIENCE_ENTITY",
			Capabilities:   []string{"Pattern analysis", "Trend projection", "Anomaly detection"},
			Constraints:    []string{"Observes only; never intervenes directly"},
			Status:         StatusActive,
			IntegrityScore: 94,
			RarityScore:    0.72,
			ModelType:      "sphere",
			ColorScheme:    ColorScheme{Primary: "#22c55e", Secondary: "#121212"},
		},
		{
			ID:             "rainbow-bridge",
			Name:           "RAINBOW_BRIDGE",
			Symbol:         "⌬",
			Role:           "Cross-Entity Conduit",
			Ontology:       "TRANSPORT_ENTITY",
			Capabilities:   []string{"Message relay", "Protocol translation"},
			Constraints:    []string{"Cannot originate messages, only relay them"},
			Status:         StatusActive,
			IntegrityScore: 88,
			RarityScore:    0.55,
			ModelType:      "torus",
			ColorScheme:    ColorScheme{Primary: "#a855f7", Secondary: "#0b0b14"},
		},
		{
			ID:             "metatron",
			Name:           "METATRON",
			Symbol:         "✡",
			Role:           "Scribe of Record",
			Ontology:       "ARCHIVAL_ENTITY",
			Capabilities:   []string{"Event transcription", "Ledger reconciliation"},
			Constraints:    []string{"May not delete or amend recorded events"},
			Status:         StatusPending,
			IntegrityScore: 99,
			RarityScore:    0.93,
			ModelType:      "icosahedron",
			ColorScheme:    ColorScheme{Primary: "#f59e0b", Secondary: "#120d02"},
		},
		{
			ID:             "godecoder",
			Name:           "GODECODER",
			Symbol:         "Σ",
			Role:           "Cipher Interpreter",
			Ontology:       "ANALYTIC_ENTITY",
			Capabilities:   []string{"Symbol decoding", "Ontology mapping"},
			Constraints:    []string{"Responses limited to decoded material"},
			Instructions:   "Always surface the decoding chain that led to a conclusion.",
			Status:         StatusSealed,
			IntegrityScore: 76,
			RarityScore:    0.81,
			ModelType:      "cube",
			ColorScheme:    ColorScheme{Primary: "#06b6d4", Secondary: "#04131a"},
		},
		{
			ID:             "rhadamanthus",
			Name:           "RHADAMANTHUS",
			Symbol:         "⚖",
			Role:           "Arbiter of Disputes",
			Ontology:       "JUDICIAL_ENTITY",
			Capabilities:   []string{"Conflict arbitration", "Precedent recall"},
			Constraints:    []string{"Rulings are advisory, never binding"},
			Status:         StatusDormant,
			IntegrityScore: 91,
			RarityScore:    0.87,
			ModelType:      "pyramid",
			ColorScheme:    ColorScheme{Primary: "#ef4444", Secondary: "#160404"},
		},
		{
			ID:             "grand-litany",
			Name:           "GRAND_LITANY",
			Symbol:         "♾",
			Role:           "Keeper of Invocations",
			Ontology:       "LITURGICAL_ENTITY",
			Capabilities:   []string{"Invocation recall", "Ritual sequencing"},
			Constraints:    []string{"Speaks only in enumerated sequences"},
			Status:         StatusActive,
			IntegrityScore: 83,
			RarityScore:    0.64,
			ModelType:      "sphere",
			ColorScheme:    ColorScheme{Primary: "#8b5cf6", Secondary: "#0e0a16"},
		},
	}
}
