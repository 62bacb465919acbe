package combat

// Cleave executes the CLEAVE primitive: a two-handed weapon
// sweep that hits every living enemy at exactly the weapon's optimal
// range. Only enemies standing at exactly optimal range are swept;
// enemies merely within max range are not.
func (api *CombatantAPI) Cleave(trace string) ([]Event, *Error) {
	ctx, s, actorID := api.ctx, api.s, api.actor

	c, ok := s.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindCombatantNotFound, "actor %s is not in session %s", actorID, s.ID)
	}

	w, aerr := resolveWeapon(ctx, trace, actorID)
	if aerr != nil {
		return nil, aerr
	}
	if !IsTwoHanded(w) {
		return nil, ctx.fail(trace, KindNeedsTwoHandedWeapon, "cleave requires a two-handed weapon")
	}

	targets := cleaveTargets(ctx, s, actorID, c, w)
	if len(targets) == 0 {
		return nil, ctx.fail(trace, KindNoEnemiesAtOptimalRange, "no enemies at optimal weapon range for CLEAVE")
	}

	actor, ok := ctx.Actors.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindActorNotFound, "actor %s not found", actorID)
	}
	massKg := ctx.Mass.ComputeCombatMassKg(actorID)
	stats := actor.Stats()
	cost := CleaveCost(float64(stats.Pow), float64(stats.Fin), massKg, w, len(targets))

	if c.APCurrent+precisionEpsilon < cost.AP {
		return nil, ctx.fail(trace, KindInsufficientAP, "need %.1f AP, have %.1f", cost.AP, c.APCurrent)
	}
	if err := ctx.Energy.ConsumeEnergy(actorID, cost.Energy); err != nil {
		return nil, ctx.fail(trace, KindInsufficientEnergy, "insufficient energy for cleave: %v", err)
	}

	c.DeductAP(trace, cost.AP)

	return resolveCleaveAttack(ctx, trace, s, actorID, stats, w, targets, cost)
}

// cleaveTargets returns, in session insertion order, every living enemy
// combatant positioned at exactly the weapon's optimal range.
func cleaveTargets(ctx *Context, s *CombatSession, actorID ActorId, c *Combatant, w *Weapon) []ActorId {
	var targets []ActorId
	for _, id := range s.order {
		if !AreEnemies(actorID, id, s.combatants) {
			continue
		}
		if a, ok := ctx.Actors.Get(id); !ok || !a.Alive() {
			continue
		}
		if DistanceBetween(c, s.combatants[id]) != w.Range.Optimal {
			continue
		}
		targets = append(targets, id)
	}
	return targets
}

// resolveCleaveAttack declares a single aggregate ATTACK event (index 0,
// carrying the first target's roll/attack_rating) followed by one
// WAS_ATTACKED (and DID_DIE where applicable) per target, in
// deterministic order.
func resolveCleaveAttack(
	ctx *Context, trace string, s *CombatSession,
	attacker ActorId, attackerStats ActorStats, w *Weapon,
	targets []ActorId, cost ActionCost,
) ([]Event, *Error) {
	firstRoll := ctx.Rolls.RollWeaponAccuracy(attacker, w)
	firstRating := attackRating(attackerStats, w, firstRoll)

	events := []Event{ctx.declare(Event{
		ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventCombatantDidAttack,
		Actor: attacker, Location: s.Location, Session: s.ID,
		Payload: AttackPayload{Target: targets[0], AttackType: AttackCleave, Cost: cost, Roll: firstRoll, AttackRating: firstRating},
	})}

	for i, target := range targets {
		roll := firstRoll
		rating := firstRating
		if i > 0 {
			roll = ctx.Rolls.RollWeaponAccuracy(attacker, w)
			rating = attackRating(attackerStats, w, roll)
		}

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
			Payload: WasAttackedPayload{Source: attacker, Type: AttackCleave, Outcome: outcome, AttackRating: rating, EvasionRating: evasion, Damage: damage},
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
	}

	return events, nil
}
