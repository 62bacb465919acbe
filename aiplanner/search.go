package aiplanner

import (
	"math"
	"time"

	"github.com/freeeve/tacticalcombat/pkg/combat"
)

// ActionKind enumerates the candidate action primitives get_valid_actions
// can propose.
type ActionKind int

const (
	ActionStrike ActionKind = iota
	ActionCleave
	ActionDefend
	ActionAdvance
	ActionRetreat
	ActionTarget
)

// PlannedAction is one step of a ScoredPlan: an action primitive plus the
// simulated parameters the search chose for it.
type PlannedAction struct {
	Kind     ActionKind
	Distance float64 // ADVANCE/RETREAT: discretized meters
	Target   *combat.ActorId
	Cost     combat.ActionCost
}

// ScoredPlan is find_optimal_plan's result.
type ScoredPlan struct {
	Actions   []PlannedAction
	Score     float64
	Breakdown simScore
}

// SearchConfig bounds a planning pass in time, depth, and width.
type SearchConfig struct {
	TimeBudget        time.Duration
	MaxDepth          int
	MaxBranching      int
	MinScoreThreshold float64
}

// movementDiscretization is the set of candidate ADVANCE/RETREAT
// distances get_valid_actions proposes, capped by a node's AP budget and
// by config.MaxBranching.
var movementDiscretization = []float64{1, 2, 3, 4, 5, 6, 8, 10}

// planNode is one node of the search tree: a simulated combatant state
// plus the running tally scoreNode needs. It tracks
// distance/coordinate only with respect to the primary target situation
// analysis identified; it does not re-simulate other combatants' turns,
// matching the bounded, single-actor scope of a planning pass.
type planNode struct {
	actions     []PlannedAction
	actionKinds []ActionKind
	depth       int

	apCurrent float64
	apMax     float64

	energySpent float64
	energyMax   int

	coordinate float64
	facing     int

	finalDistance     float64
	finalCoordinate   float64
	optimalDistance   float64
	minSafeDistance   float64
	initialGap        float64
	isRanged          bool
	weapon            *combat.Weapon
	battlefieldLength float64

	targets   []combat.TargetInfo
	targetIdx int

	attackCount int
	actionCount int
	apSpent     float64

	pow, fin, massKg float64
}

// FindOptimalPlan runs a depth- and time-bounded DFS over
// candidate action sequences, returning the best-scoring terminal plan
// found. It never panics; when the time budget elapses it returns the
// best plan found so far, or nil if none met config.MinScoreThreshold.
func FindOptimalPlan(
	ctx *combat.Context, trace string, s *combat.CombatSession, actorID combat.ActorId,
	situation *combat.TacticalSituation, profile HeuristicProfile, config SearchConfig,
) (*ScoredPlan, *combat.Error) {
	c, ok := s.Get(actorID)
	if !ok {
		return nil, ctx.Fail(trace, combat.KindCombatantNotFound, "actor %s is not in session %s", actorID, s.ID)
	}
	actor, ok := ctx.Actors.Get(actorID)
	if !ok {
		return nil, ctx.Fail(trace, combat.KindActorNotFound, "actor %s not found", actorID)
	}
	w, werr := combat.ResolveWeapon(ctx, trace, actorID)
	if werr != nil {
		return nil, werr
	}
	stats := actor.Stats()
	massKg := ctx.Mass.ComputeCombatMassKg(actorID)

	dist := situation.Assessments.PrimaryTargetDistance
	if situation.Assessments.PrimaryTarget == nil && len(situation.ValidTargets) > 0 {
		dist = situation.ValidTargets[0].Distance
	}
	targetIdx := 0
	if situation.Assessments.PrimaryTarget != nil {
		for i, ti := range situation.ValidTargets {
			if ti.ActorID == *situation.Assessments.PrimaryTarget {
				targetIdx = i
				break
			}
		}
	}

	root := planNode{
		apCurrent: c.APCurrent, apMax: c.APMax,
		energyMax:         situation.Resources.EnergyMax,
		coordinate:        c.Position.Coordinate,
		facing:            c.Position.Facing,
		finalDistance:     dist,
		finalCoordinate:   c.Position.Coordinate,
		optimalDistance:   profile.OptimalDistance,
		minSafeDistance:   profile.MinSafeDistance,
		initialGap:        math.Abs(dist - profile.OptimalDistance),
		isRanged:          combat.Classify(w) == combat.ClassRanged,
		weapon:            w,
		battlefieldLength: s.Field.LengthM,
		targets:           situation.ValidTargets,
		targetIdx:         targetIdx,
		pow:               float64(stats.Pow), fin: float64(stats.Fin), massKg: massKg,
	}

	deadline := time.Now().Add(config.TimeBudget)
	var best *ScoredPlan
	searchNode(root, profile, config, deadline, &best)
	if best != nil && best.Score < config.MinScoreThreshold {
		return nil, nil
	}
	return best, nil
}

// searchNode runs bounded DFS from n, updating best whenever a terminal
// node improves on it. Ties are broken by first-found order since a
// strictly-greater comparison never replaces an equal score.
func searchNode(n planNode, profile HeuristicProfile, config SearchConfig, deadline time.Time, best **ScoredPlan) {
	if time.Now().After(deadline) {
		return
	}

	score, breakdown := scoreNode(profile, n.isRanged, &n)
	if len(n.actions) > 0 && (*best == nil || score > (*best).Score) {
		*best = &ScoredPlan{Actions: append([]PlannedAction(nil), n.actions...), Score: score, Breakdown: breakdown}
	}

	if n.depth >= config.MaxDepth || n.apCurrent < MinAPForAction {
		return
	}

	children := getValidActions(n, profile)
	if len(children) > config.MaxBranching {
		children = children[:config.MaxBranching]
	}
	for _, child := range children {
		childScore, _ := scoreNode(profile, child.isRanged, &child)
		if childScore < config.MinScoreThreshold {
			continue
		}
		searchNode(child, profile, config, deadline, best)
		if time.Now().After(deadline) {
			return
		}
	}
}

// MinAPForAction is the smallest AP a combatant must have to consider any
// further action worth simulating.
const MinAPForAction = 0.1

// getValidActions enumerates the action primitives n's combatant can
// afford from its current simulated state.
func getValidActions(n planNode, profile HeuristicProfile) []planNode {
	var children []planNode

	strikeCost := combat.StrikeCost(n.pow, n.fin, n.massKg, n.weapon)
	if n.apCurrent+1e-9 >= strikeCost.AP && combat.CanWeaponHitFromDistance(n.weapon, n.finalDistance) {
		children = append(children, n.withAction(ActionStrike, strikeCost, 0))
	}

	if combat.IsTwoHanded(n.weapon) {
		cleaveCost := combat.CleaveCost(n.pow, n.fin, n.massKg, n.weapon, 1)
		if n.apCurrent+1e-9 >= cleaveCost.AP && n.finalDistance == n.weapon.Range.Optimal {
			children = append(children, n.withAction(ActionCleave, cleaveCost, 0))
		}
	}

	children = append(children, n.withAction(ActionDefend, combat.ActionCost{AP: n.apCurrent}, 0))

	// TARGET-switch: re-aim at another valid enemy. Free of AP, but it
	// consumes a plan slot, and consecutive switches are pointless, so
	// only non-TARGET nodes propose one.
	if last := len(n.actionKinds); last == 0 || n.actionKinds[last-1] != ActionTarget {
		for i := range n.targets {
			if i == n.targetIdx {
				continue
			}
			children = append(children, n.withTargetSwitch(i))
		}
	}

	for _, d := range movementDiscretization {
		ap := combat.TacticalAPCost(n.pow, n.fin, d, n.massKg)
		if ap > n.apCurrent+1e-9 {
			break
		}
		children = append(children, n.withMovement(ActionAdvance, d, ap))
	}

	backEff := backwardEfficiency(n.fin)
	for _, d := range movementDiscretization {
		ap := combat.TacticalAPCost(n.pow, n.fin, d, n.massKg)
		if ap > n.apCurrent+1e-9 {
			break
		}
		children = append(children, n.withMovement(ActionRetreat, d*backEff, ap))
	}

	return children
}

func backwardEfficiency(fin float64) float64 {
	e := 0.5 + (fin-50)*0.002
	return math.Max(0.3, math.Min(0.8, e))
}

// withAction returns a copy of n with a non-movement action applied.
func (n planNode) withAction(kind ActionKind, cost combat.ActionCost, distanceDelta float64) planNode {
	c := n.clone()
	c.apCurrent = combat.CleanAPPrecision(c.apCurrent - cost.AP)
	c.energySpent += float64(cost.Energy)
	c.apSpent += cost.AP
	c.actionCount++
	c.depth++
	c.actions = append(c.actions, PlannedAction{Kind: kind, Cost: cost})
	c.actionKinds = append(c.actionKinds, kind)
	if isAttack(kind) {
		c.attackCount++
	}
	return c
}

// withTargetSwitch returns a copy of n re-aimed at the i-th valid
// target: the simulated gap resets to that enemy's distance, adjusted by
// the ground already covered (the simulation assumes enemies ahead along
// facing, same as withMovement).
func (n planNode) withTargetSwitch(i int) planNode {
	c := n.clone()
	c.depth++
	c.actionCount++
	c.targetIdx = i

	disp := (n.finalCoordinate - n.coordinate) * float64(n.facing)
	c.finalDistance = math.Max(0, n.targets[i].Distance-disp)
	c.initialGap = math.Abs(c.finalDistance - c.optimalDistance)

	id := n.targets[i].ActorID
	c.actions = append(c.actions, PlannedAction{Kind: ActionTarget, Target: &id})
	c.actionKinds = append(c.actionKinds, ActionTarget)
	return c
}

// withMovement returns a copy of n with an ADVANCE/RETREAT of
// travelDistance applied (closing the gap to the primary target for
// ADVANCE, opening it for RETREAT).
func (n planNode) withMovement(kind ActionKind, travelDistance, apCost float64) planNode {
	c := n.clone()
	c.apCurrent = combat.CleanAPPrecision(c.apCurrent - apCost)
	c.apSpent += apCost
	c.actionCount++
	c.depth++

	delta := travelDistance
	if kind == ActionRetreat {
		delta = -delta
	}
	c.finalDistance = math.Max(0, c.finalDistance-delta)
	c.finalCoordinate += float64(c.facing) * delta

	c.actions = append(c.actions, PlannedAction{Kind: kind, Distance: travelDistance, Cost: combat.ActionCost{AP: apCost}})
	c.actionKinds = append(c.actionKinds, kind)
	return c
}

// clone deep-copies the slices planNode carries so sibling branches in
// the DFS never alias each other's action history.
func (n planNode) clone() planNode {
	c := n
	c.actions = append([]PlannedAction(nil), n.actions...)
	c.actionKinds = append([]ActionKind(nil), n.actionKinds...)
	return c
}

// OptimizeMovementSequence fuses consecutive same-direction movement
// actions in a plan into one action with summed distance.
func OptimizeMovementSequence(actions []PlannedAction) []PlannedAction {
	var out []PlannedAction
	for _, a := range actions {
		if (a.Kind == ActionAdvance || a.Kind == ActionRetreat) && len(out) > 0 {
			last := &out[len(out)-1]
			if last.Kind == a.Kind {
				last.Distance += a.Distance
				last.Cost.AP += a.Cost.AP
				last.Cost.Energy += a.Cost.Energy
				continue
			}
		}
		out = append(out, a)
	}
	return out
}
