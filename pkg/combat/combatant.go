package combat

import "math"

// Combatant is the session-scoped view of an actor: position, AP,
// target, team. It is owned by the CombatSession and mutated only
// by action primitives while the session is RUNNING.
type Combatant struct {
	ActorID  ActorId
	Team     TeamTag
	Position BattlefieldPosition

	APCurrent float64 // 0.1-unit fixed point
	APMax     float64

	EnergyPosition float64 // [0,1] normalized fatigue proxy

	Target *ActorId // persistently chosen target, nil if none
}

// BASE_AP and the golden-ratio capacity curve constants.
const (
	BaseAP       = 6.0
	goldenRatio  = 1.6180339887498949
	intBaseline  = 10.0
	intSaturator = 90.0
)

// APCapacity implements the intelligence-scaled capacity formula:
//
//	ap.max = BASE_AP * (1 + (phi - 1) * log(1 + x*(e-1)) / log(e))
//	x = max(0, (int - 10) / 90)
//
// Saturates at BASE_AP*phi. Default actors (int=10) get exactly BASE_AP.
func APCapacity(intStat int) float64 {
	x := math.Max(0, (float64(intStat)-intBaseline)/intSaturator)
	x = math.Min(1, x)
	num := math.Log(1 + x*(math.E-1))
	return BaseAP * (1 + (goldenRatio-1)*num/1.0)
}

// NewCombatant constructs a Combatant at ap.current=0 (combat not yet
// started) with ap.max derived from the actor's Int stat.
func NewCombatant(actorID ActorId, team TeamTag, pos BattlefieldPosition, intStat int) Combatant {
	return Combatant{
		ActorID:   actorID,
		Team:      team,
		Position:  pos,
		APCurrent: 0,
		APMax:     CleanAPPrecision(APCapacity(intStat)),
	}
}

// DeductAP subtracts cost from the combatant's current AP, re-snapping
// to the 0.1 grid and panicking with a PrecisionViolation if the result
// falls outside [0, ap.max] by more than the precision guard, or if the
// resulting value is off the grid.
func (c *Combatant) DeductAP(trace string, cost float64) {
	next := CleanAPPrecision(c.APCurrent - cost)
	CheckAPPrecision(trace, next)
	if next < -precisionEpsilon || next > c.APMax+precisionEpsilon {
		PrecisionViolation(trace, "ap %.4f out of bounds [0,%.4f] after deducting %.4f", next, c.APMax, cost)
	}
	if next < 0 {
		next = 0
	}
	c.APCurrent = next
}

// RestoreAP resets current AP to max, as done at turn transfer.
func (c *Combatant) RestoreAP() {
	c.APCurrent = c.APMax
}
