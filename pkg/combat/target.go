package combat

// Target executes the TARGET primitive. Idempotent: if the
// combatant's persistent target already equals actorID, this is a no-op.
func (api *CombatantAPI) Target(trace string, actorID ActorId) ([]Event, *Error) {
	ctx, s, self := api.ctx, api.s, api.actor

	c, ok := s.Get(self)
	if !ok {
		return nil, ctx.fail(trace, KindCombatantNotFound, "actor %s is not in session %s", self, s.ID)
	}

	if c.Target != nil && *c.Target == actorID {
		return nil, nil
	}

	id := actorID
	c.Target = &id

	ev := ctx.declare(Event{
		ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventCombatantDidAcquireTarget,
		Actor: self, Location: s.Location, Session: s.ID,
		Payload: AcquireTargetPayload{Target: actorID},
	})
	return []Event{ev}, nil
}
