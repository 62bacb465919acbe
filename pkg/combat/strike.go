package combat

// Strike executes the STRIKE primitive. target, if nil, falls
// back to the combatant's persistent target. On any precondition
// failure the session is left unchanged and an empty event slice plus a
// declared error is returned; a failed strike mutates nothing.
func (api *CombatantAPI) Strike(trace string, target *ActorId) ([]Event, *Error) {
	ctx, s, actorID := api.ctx, api.s, api.actor

	c, ok := s.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindCombatantNotFound, "actor %s is not in session %s", actorID, s.ID)
	}

	effectiveTarget := target
	if effectiveTarget == nil {
		effectiveTarget = c.Target
	}
	if effectiveTarget == nil {
		return nil, ctx.fail(trace, KindNoTarget, "no target specified and no persistent target set")
	}

	w, aerr := resolveWeapon(ctx, trace, actorID)
	if aerr != nil {
		return nil, aerr
	}

	tc, ok := s.Get(*effectiveTarget)
	if !ok {
		return nil, ctx.fail(trace, KindCombatantNotFound, "target %s is not in session %s", *effectiveTarget, s.ID)
	}

	dist := DistanceBetween(c, tc)
	if !CanWeaponHitFromDistance(w, dist) {
		return nil, ctx.fail(trace, KindOutOfRange, "target %s at %.1fm is outside weapon range", *effectiveTarget, dist)
	}

	actor, ok := ctx.Actors.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindActorNotFound, "actor %s not found", actorID)
	}
	massKg := ctx.Mass.ComputeCombatMassKg(actorID)
	stats := actor.Stats()
	cost := StrikeCost(float64(stats.Pow), float64(stats.Fin), massKg, w)

	if c.APCurrent+precisionEpsilon < cost.AP {
		return nil, ctx.fail(trace, KindInsufficientAP, "need %.1f AP, have %.1f", cost.AP, c.APCurrent)
	}

	c.DeductAP(trace, cost.AP)

	events, _ := resolveStrikeAttack(ctx, trace, s, actorID, stats, w, *effectiveTarget, cost, AttackStrike)
	return events, nil
}

// resolveStrikeAttack rolls accuracy, resolves the hit against one
// target, applies damage, and declares the ATTACK/WAS_ATTACKED/DID_DIE
// events. Used by STRIKE; CLEAVE resolves its targets in
// resolveCleaveAttack.
func resolveStrikeAttack(
	ctx *Context, trace string, s *CombatSession,
	attacker ActorId, attackerStats ActorStats, w *Weapon,
	target ActorId, cost ActionCost, attackType AttackType,
) ([]Event, RollResult) {
	roll := ctx.Rolls.RollWeaponAccuracy(attacker, w)
	rating := attackRating(attackerStats, w, roll)

	var events []Event
	events = append(events, ctx.declare(Event{
		ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventCombatantDidAttack,
		Actor: attacker, Location: s.Location, Session: s.ID,
		Payload: AttackPayload{Target: target, AttackType: attackType, Cost: cost, Roll: roll, AttackRating: rating},
	}))

	targetActor, _ := ctx.Actors.Get(target)
	massKg := ctx.Mass.ComputeCombatMassKg(target)
	evasion := evasionRating(targetActor.Stats(), massKg)
	energyPos := ctx.Energy.EnergyPosition(target)

	evaded, _ := resolveHit(evasion, rating, energyPos, ctx.RNG)

	outcome := OutcomeHit
	damage := 0
	if evaded {
		outcome = OutcomeMiss
	} else {
		var err error
		damage, _, err = applyDamage(ctx, attacker, target, w)
		if err != nil {
			damage = 0
		}
	}

	events = append(events, ctx.declare(Event{
		ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventCombatantWasAttacked,
		Actor: target, Location: s.Location, Session: s.ID,
		Payload: WasAttackedPayload{Source: attacker, Type: attackType, Outcome: outcome, AttackRating: rating, EvasionRating: evasion, Damage: damage},
	}))

	if !evaded {
		if ta, ok := ctx.Actors.Get(target); ok && !ta.Alive() {
			events = append(events, ctx.declare(Event{
				ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventCombatantDidDie,
				Actor: target, Location: s.Location, Session: s.ID,
				Payload: DiedPayload{Killer: attacker},
			}))
		}
	}

	return events, roll
}
