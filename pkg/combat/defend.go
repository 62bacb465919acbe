package combat

// Defend executes the DEFEND primitive: spends all of the
// combatant's remaining AP. When the cost falls below MinAPIncrement
// no event is emitted but the AP is still consumed: the stance below
// threshold is observably a no-op. autoDone chains a DONE.
func (api *CombatantAPI) Defend(trace string, autoDone bool) ([]Event, *Error) {
	ctx, s, actorID := api.ctx, api.s, api.actor

	c, ok := s.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindCombatantNotFound, "actor %s is not in session %s", actorID, s.ID)
	}

	cost := DefendCost(c.APCurrent)
	c.DeductAP(trace, cost.AP)

	var events []Event
	if cost.AP >= MinAPIncrement {
		events = append(events, ctx.declare(Event{
			ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventCombatantDidDefend,
			Actor: actorID, Location: s.Location, Session: s.ID,
			Payload: DefendPayload{Cost: cost},
		}))
	}

	if autoDone && c.APCurrent < MinAPIncrement {
		doneEvents, err := api.Done(trace)
		if err != nil {
			return events, err
		}
		events = append(events, doneEvents...)
	}
	return events, nil
}
