// Package aiplanner implements the AI combat planner: target
// selection, heuristic scoring, and a bounded-search action planner built
// on top of pkg/combat's reducers and battlefield analysis.
package aiplanner

import (
	"math"

	"github.com/freeeve/tacticalcombat/pkg/combat"
)

// optimalToleranceNoFalloff and optimalToleranceFalloff are the
// targeting tolerances: how close to a weapon's optimal range counts as
// "at optimal" for target-selection purposes.
const (
	optimalToleranceNoFalloff = 0.5
	optimalToleranceFalloff   = 2.0
)

// TargetChoice is choose_target_for_actor's result.
type TargetChoice struct {
	ActorID  combat.ActorId
	Distance float64
}

type candidate struct {
	id          combat.ActorId
	distance    float64
	healthRatio float64
}

// ChooseTargetForActor implements single-pass target selection:
// persistence first, then optimal-range preference, then best-in-range
// score, falling back to the closest enemy overall as a movement target.
func ChooseTargetForActor(ctx *combat.Context, trace string, s *combat.CombatSession, actorID combat.ActorId) (*TargetChoice, *combat.Error) {
	c, ok := s.Get(actorID)
	if !ok {
		return nil, ctx.Fail(trace, combat.KindCombatantNotFound, "actor %s is not in session %s", actorID, s.ID)
	}
	w, werr := combat.ResolveWeapon(ctx, trace, actorID)
	if werr != nil {
		return nil, werr
	}

	if c.Target != nil {
		if tc, ok := s.Get(*c.Target); ok {
			if ta, ok := ctx.Actors.Get(*c.Target); ok && ta.Alive() {
				d := combat.DistanceBetween(c, tc)
				if combat.CanWeaponHitFromDistance(w, d) {
					return &TargetChoice{ActorID: *c.Target, Distance: d}, nil
				}
			}
		}
	}

	var candidates []candidate
	for _, id := range s.Order() {
		if !combat.AreEnemies(actorID, id, s.Combatants()) {
			continue
		}
		oc, ok := s.Get(id)
		if !ok {
			continue
		}
		ta, ok := ctx.Actors.Get(id)
		if !ok || !ta.Alive() {
			continue
		}
		candidates = append(candidates, candidate{
			id:          id,
			distance:    combat.DistanceBetween(c, oc),
			healthRatio: healthRatioOf(ta.HP()),
		})
	}
	if len(candidates) == 0 {
		return nil, ctx.Fail(trace, combat.KindNoValidTargets, "no living enemy combatants in session %s", s.ID)
	}

	tolerance := optimalToleranceNoFalloff
	if w.Range.Falloff != nil {
		tolerance = optimalToleranceFalloff
	}
	optimal := w.Range.Optimal
	isRanged := combat.Classify(w) == combat.ClassRanged

	var closestOverall *candidate
	var bestOptimal *candidate
	var bestInRange *candidate
	bestInRangeScore := math.Inf(1)

	for i := range candidates {
		cand := &candidates[i]
		if closestOverall == nil || cand.distance < closestOverall.distance {
			closestOverall = cand
		}
		if !combat.CanWeaponHitFromDistance(w, cand.distance) {
			continue
		}
		if math.Abs(cand.distance-optimal) <= tolerance {
			if bestOptimal == nil || cand.healthRatio < bestOptimal.healthRatio {
				bestOptimal = cand
			}
			continue
		}
		score := cand.distance
		if isRanged {
			score = cand.healthRatio / cand.distance
		}
		if score < bestInRangeScore {
			bestInRangeScore = score
			bestInRange = cand
		}
	}

	switch {
	case bestOptimal != nil:
		return &TargetChoice{ActorID: bestOptimal.id, Distance: bestOptimal.distance}, nil
	case bestInRange != nil:
		return &TargetChoice{ActorID: bestInRange.id, Distance: bestInRange.distance}, nil
	default:
		return &TargetChoice{ActorID: closestOverall.id, Distance: closestOverall.distance}, nil
	}
}

func healthRatioOf(hp combat.HitPoints) float64 {
	if hp.Max <= 0 {
		return 0
	}
	return float64(hp.Current) / float64(hp.Max)
}
