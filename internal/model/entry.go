package model

// CitizenRole carries the evidence sentence backing a keyword. Both fields
// always hold the same sentence; the duplicated key names are a
// compatibility contract with downstream consumers of the JSON artifacts.
type CitizenRole struct {
	OriginalSentence string `json:"original_sentence"`
	ExactSentence    string `json:"exact_sentence"`
}

// DesignerRole carries the synthesized design suggestion.
type DesignerRole struct {
	DesignSuggestion string `json:"design_suggestion"`
}

// PlannerRole carries the synthesized planning suggestion.
type PlannerRole struct {
	PlanningSuggestion string `json:"planning_suggestion"`
}

// Roles groups the role-specific texts of a structured keyword entry.
type Roles struct {
	Citizen  CitizenRole  `json:"citizen"`
	Designer DesignerRole `json:"designer"`
	Planner  PlannerRole  `json:"planner"`
}

// Entry is a structured keyword entry before phase assignment. Day is
// always the empty string; it exists only for artifact compatibility and
// is dropped when the phase is assigned.
type Entry struct {
	Day     string `json:"day"`
	Keyword string `json:"keyword"`
	Roles   Roles  `json:"roles"`
	Source  string `json:"source"`
}

// PhasedEntry is a structured keyword entry after phase assignment.
type PhasedEntry struct {
	Keyword string `json:"keyword"`
	Roles   Roles  `json:"roles"`
	Source  string `json:"source"`
	Phase   Phase  `json:"phase"`
}

// CitizenSentence returns the linked evidence sentence, preferring the
// exact form over the original when both are set.
func (e Entry) CitizenSentence() string {
	if e.Roles.Citizen.ExactSentence != "" {
		return e.Roles.Citizen.ExactSentence
	}
	return e.Roles.Citizen.OriginalSentence
}

// WithPhase returns the phased form of e, dropping the transient day field.
func (e Entry) WithPhase(p Phase) PhasedEntry {
	return PhasedEntry{
		Keyword: e.Keyword,
		Roles:   e.Roles,
		Source:  e.Source,
		Phase:   p,
	}
}

// CitizenSentence returns the linked evidence sentence, preferring the
// exact form over the original when both are set.
func (e PhasedEntry) CitizenSentence() string {
	if e.Roles.Citizen.ExactSentence != "" {
		return e.Roles.Citizen.ExactSentence
	}
	return e.Roles.Citizen.OriginalSentence
}
