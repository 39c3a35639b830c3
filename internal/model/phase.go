package model

// Phase is one of the four project-lifecycle labels assigned to a
// structured keyword entry.
type Phase string

const (
	PhaseDiscover Phase = "Discover"
	PhaseDefine   Phase = "Define"
	PhaseDevelop  Phase = "Develop"
	PhaseDeliver  Phase = "Deliver"
)

// PhaseOrder is the canonical ordering of phases. It doubles as the
// tie-break order: when two phases score equally, the earlier one wins.
var PhaseOrder = []Phase{PhaseDiscover, PhaseDefine, PhaseDevelop, PhaseDeliver}

// Valid reports whether p is one of the four known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseDiscover, PhaseDefine, PhaseDevelop, PhaseDeliver:
		return true
	}
	return false
}

func (p Phase) String() string {
	return string(p)
}
