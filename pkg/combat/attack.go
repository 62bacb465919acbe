package combat

import "math"

// resolveWeapon fetches the actor's equipped weapon through the
// context's EquipmentAPI + SchemaManager, consulting the per-pass weapon
// cache first.
func resolveWeapon(ctx *Context, trace string, actor ActorId) (*Weapon, *Error) {
	if ctx.Caches != nil {
		if w, ok := ctx.Caches.Weapon[actor]; ok {
			return w, nil
		}
	}
	urn, ok := ctx.Equipment.GetEquippedWeaponSchema(actor)
	if !ok || urn == "" {
		return nil, ctx.fail(trace, KindWeaponNotEquipped, "actor %s has no equipped weapon", actor)
	}
	w, ok := ctx.Schemas.GetWeaponSchema(urn)
	if !ok {
		return nil, ctx.fail(trace, KindSchemaNotFound, "schema %s not found", urn)
	}
	if ctx.Caches != nil {
		ctx.Caches.Weapon[actor] = w
	}
	return w, nil
}

// attackRating combines the attacker's stats, their weapon, and the
// accuracy roll into a single rating used to resolve the hit.
func attackRating(stats ActorStats, w *Weapon, roll RollResult) float64 {
	return float64(stats.Pow)*0.5 + float64(stats.Fin)*0.2 + roll.Result
}

// evasionRating combines a defender's stats and mass into the rating a
// hit must beat. Heavier combatants are easier to hit;
// finesse and perception make evasion easier.
func evasionRating(stats ActorStats, massKg float64) float64 {
	return float64(stats.Fin)*0.4 + float64(stats.Per)*0.3 - massKg*0.05
}

// resolveHit decides whether an attack connects. Higher
// attack rating relative to evasion increases the hit chance; a
// defender's fatigue (energyPosition, [0,1]) makes them easier to hit as
// it rises.
func resolveHit(evasionRating, attackRating, targetEnergyPosition float64, rng RNG) (evaded bool, hitChance float64) {
	hitChance = 0.5 + 0.04*(attackRating-evasionRating) + 0.2*targetEnergyPosition
	hitChance = math.Max(0.05, math.Min(0.95, hitChance))
	roll := rng.Float64()
	evaded = roll >= hitChance
	return evaded, hitChance
}

// applyDamage rolls weapon damage and decrements the target's HP via the
// host's HPMutator, returning the damage dealt and the target's
// remaining HP.
func applyDamage(ctx *Context, attacker ActorId, target ActorId, w *Weapon) (damage int, remaining int, err error) {
	roll := ctx.Rolls.RollWeaponDamage(attacker, w)
	damage = roll.Sum
	if damage < 0 {
		damage = 0
	}
	remaining, err = ctx.HP.DecrementHP(target, damage)
	return damage, remaining, err
}
