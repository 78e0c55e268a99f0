package engine

import "strconv"

// Phase is where the engine is within a frame.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseInput
	PhaseUpdate
	PhaseRender
	PhasePresent
)

var phaseNames = [...]string{
	PhaseIdle:    "Idle",
	PhaseInput:   "Input",
	PhaseUpdate:  "Update",
	PhaseRender:  "Render",
	PhasePresent: "Present",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Phase(" + strconv.Itoa(int(p)) + ")"
}
