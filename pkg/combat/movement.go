package combat

import "math"

// MovementDirection is the player-facing intent: forward along facing,
// or backward against it.
type MovementDirection int

const (
	Forward  MovementDirection = 1
	Backward MovementDirection = -1
)

// MovementMode selects how a movement command's Value is interpreted.
type MovementMode int

const (
	ByDistance MovementMode = iota
	ByAP
	ByMax
)

// AllRemainingAP is the sentinel ByAP value: spend every AP the
// combatant has left, identical to ByMax.
const AllRemainingAP = -1.0

// backwardEfficiencyClampLow/High and the linear formula implement the
// movement efficiency profile: forward always 1.0; backward scales with
// finesse, clamped to [0.3, 0.8].
const (
	backwardEfficiencyClampLow  = 0.3
	backwardEfficiencyClampHigh = 0.8
)

func movementEfficiency(direction MovementDirection, fin int) float64 {
	if direction == Forward {
		return 1.0
	}
	e := 0.5 + (float64(fin)-50)*0.002
	return math.Max(backwardEfficiencyClampLow, math.Min(backwardEfficiencyClampHigh, e))
}

// Advance executes the ADVANCE primitive: movement_direction=FORWARD.
func (api *CombatantAPI) Advance(trace string, mode MovementMode, value float64, autoDone bool) ([]Event, *Error) {
	return api.move(trace, Forward, mode, value, autoDone)
}

// Retreat executes the RETREAT primitive: movement_direction=BACKWARD.
func (api *CombatantAPI) Retreat(trace string, mode MovementMode, value float64, autoDone bool) ([]Event, *Error) {
	return api.move(trace, Backward, mode, value, autoDone)
}

func (api *CombatantAPI) move(trace string, dir MovementDirection, mode MovementMode, value float64, autoDone bool) ([]Event, *Error) {
	ctx, s, actorID := api.ctx, api.s, api.actor

	c, ok := s.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindCombatantNotFound, "actor %s is not in session %s", actorID, s.ID)
	}
	if mode == ByAP && value == AllRemainingAP {
		mode = ByMax
	}
	if mode != ByMax && value <= 0 {
		return nil, ctx.fail(trace, KindOutOfRange, "movement value must be positive, got %.2f", value)
	}

	actor, ok := ctx.Actors.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindActorNotFound, "actor %s not found", actorID)
	}
	stats := actor.Stats()
	massKg := ctx.Mass.ComputeActorMassGrams(actorID) / 1000
	effDir := float64(dir) * float64(c.Position.Facing)
	efficiency := movementEfficiency(dir, stats.Fin)

	var distance, apCost float64

	switch mode {
	case ByDistance:
		distance = value
		apCost = TacticalAPCost(float64(stats.Pow), float64(stats.Fin), distance, massKg)
	case ByAP:
		apCost = value
		rawDist := APToDistance(float64(stats.Pow), float64(stats.Fin), value, massKg)
		distance = RoundDistanceDown(efficiency * rawDist)
	case ByMax:
		budgetDist := efficiency * APToDistance(float64(stats.Pow), float64(stats.Fin), c.APCurrent, massKg)
		boundary := boundaryDistance(effDir, c.Position.Coordinate, s.Field)
		maxDist := math.Min(budgetDist, boundary)
		if blocked, _, stopDist := checkMovementCollision(s, actorID, c, effDir, maxDist); blocked {
			maxDist = math.Min(maxDist, stopDist)
		}
		distance = RoundDistanceDown(math.Max(0, maxDist))
		apCost = TacticalAPCost(float64(stats.Pow), float64(stats.Fin), distance, massKg)
		if apCost > c.APCurrent+precisionEpsilon {
			apCost = CleanAPPrecision(c.APCurrent)
		}
	}

	preciseEnd := c.Position.Coordinate + effDir*distance
	if !s.Field.InBounds(preciseEnd) {
		maxAllowed := boundaryDistance(effDir, c.Position.Coordinate, s.Field)
		return nil, ctx.fail(trace, KindBoundaryExceeded, "move exceeds battlefield bounds; max distance %.0fm", maxAllowed)
	}

	if mode != ByMax {
		if blocked, blocker, stopDist := checkMovementCollision(s, actorID, c, effDir, distance); blocked {
			blockerC := s.combatants[blocker]
			return nil, ctx.fail(trace, KindCollisionBlocked,
				"blocked by %s at %.0fm; max distance %.0fm", blocker, blockerC.Position.Coordinate, stopDist)
		}
	}

	if c.APCurrent+precisionEpsilon < apCost {
		return nil, ctx.fail(trace, KindInsufficientAP, "need %.1f AP, have %.1f", apCost, c.APCurrent)
	}

	from := c.Position.Coordinate
	newCoord := RoundPosition(from + effDir*distance)
	c.Position.Coordinate = newCoord
	c.DeductAP(trace, apCost)

	direction := int(dir)
	ev := ctx.declare(Event{
		ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventActorDidMoveInCombat,
		Actor: actorID, Location: s.Location, Session: s.ID,
		Payload: MovePayload{From: from, To: newCoord, Distance: distance, Direction: direction, Cost: ActionCost{AP: apCost}},
	})
	events := []Event{ev}

	if autoDone && c.APCurrent < MinAPIncrement {
		doneEvents, err := api.Done(trace)
		if err != nil {
			return events, err
		}
		events = append(events, doneEvents...)
	}
	return events, nil
}

// boundaryDistance returns how far a combatant can travel in effDir
// before leaving the battlefield.
func boundaryDistance(effDir, coordinate float64, field Battlefield) float64 {
	if effDir >= 0 {
		return field.LengthM - coordinate
	}
	return coordinate
}

// checkMovementCollision finds the first enemy combatant
// along the path from self's current coordinate toward the proposed
// distance blocks movement one meter short of them. Allies pass through.
func checkMovementCollision(s *CombatSession, self ActorId, c *Combatant, effDir, distance float64) (blocked bool, blocker ActorId, stopDistance float64) {
	if distance <= 0 {
		return false, "", distance
	}
	p0 := c.Position.Coordinate
	p1 := p0 + effDir*distance
	lo, hi := math.Min(p0, p1), math.Max(p0, p1)

	bestDist := math.Inf(1)
	var bestID ActorId

	for _, id := range s.order {
		if !AreEnemies(self, id, s.combatants) {
			continue
		}
		ec := s.combatants[id].Position.Coordinate
		if ec < lo || ec > hi {
			continue
		}
		stop := ec - effDir*1
		stopDist := math.Max(0, (stop-p0)*effDir)
		if stopDist < bestDist {
			bestDist = stopDist
			bestID = id
		}
	}

	if bestID == "" {
		return false, "", distance
	}
	return true, bestID, math.Max(0, bestDist)
}
