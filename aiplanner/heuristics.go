package aiplanner

import (
	"math"

	"github.com/freeeve/tacticalcombat/pkg/combat"
)

// HeuristicPriorities weighs the five scoring heuristics against each
// other when composing a plan's final score.
type HeuristicPriorities struct {
	Damage      float64
	Efficiency  float64
	Positioning float64
	Momentum    float64
	Risk        float64
}

// HeuristicProfile is create_heuristic_profile's output: a weapon-class
// derived scoring configuration.
type HeuristicProfile struct {
	Priorities           HeuristicPriorities
	OptimalDistance      float64
	MinSafeDistance      float64
	MaxEffectiveDistance float64
	ControlsSpace        bool
}

// CreateHeuristicProfile derives a HeuristicProfile from a weapon's
// classification.
func CreateHeuristicProfile(w *combat.Weapon) HeuristicProfile {
	switch combat.Classify(w) {
	case combat.ClassMelee:
		return HeuristicProfile{
			Priorities:           HeuristicPriorities{Damage: 0.35, Efficiency: 0.15, Positioning: 0.25, Momentum: 0.15, Risk: 0.10},
			OptimalDistance:      1,
			MinSafeDistance:      0,
			MaxEffectiveDistance: 1,
			ControlsSpace:        false,
		}
	case combat.ClassReach:
		return HeuristicProfile{
			Priorities:           HeuristicPriorities{Damage: 0.30, Efficiency: 0.20, Positioning: 0.25, Momentum: 0.15, Risk: 0.10},
			OptimalDistance:      w.Range.Optimal,
			MinSafeDistance:      1,
			MaxEffectiveDistance: w.Range.Optimal,
			ControlsSpace:        true,
		}
	default: // RANGED
		return HeuristicProfile{
			Priorities:           HeuristicPriorities{Damage: 0.25, Efficiency: 0.20, Positioning: 0.20, Momentum: 0.10, Risk: 0.25},
			OptimalDistance:      w.Range.Optimal,
			MinSafeDistance:      w.Range.Optimal * 0.5,
			MaxEffectiveDistance: w.Range.Max,
			ControlsSpace:        true,
		}
	}
}

// simScore is a terminal plan node's per-heuristic breakdown.
type simScore struct {
	Damage      float64
	Efficiency  float64
	Positioning float64
	Momentum    float64
	Risk        float64
}

// composite weights a simScore by the profile's priorities into one
// number, the value PlanNode.score caches.
func (sc simScore) composite(p HeuristicPriorities) float64 {
	return sc.Damage*p.Damage + sc.Efficiency*p.Efficiency + sc.Positioning*p.Positioning +
		sc.Momentum*p.Momentum + sc.Risk*p.Risk
}

// scoreNode runs all five heuristics over a simulated plan node and
// returns their weighted composite plus the raw breakdown.
func scoreNode(profile HeuristicProfile, isRanged bool, n *planNode) (float64, simScore) {
	sc := simScore{
		Damage:      scoreDamage(profile, isRanged, n),
		Efficiency:  scoreEfficiency(n),
		Positioning: scorePositioning(profile, n),
		Momentum:    scoreMomentum(isRanged, n),
		Risk:        scoreRisk(n),
	}
	return sc.composite(profile.Priorities), sc
}

func scoreDamage(profile HeuristicProfile, isRanged bool, n *planNode) float64 {
	if !isRanged && n.finalDistance > profile.OptimalDistance {
		return 0
	}
	eff := combat.AssessWeaponCapabilities(n.weapon, n.finalDistance)
	score := 100 * eff
	if n.finalDistance == profile.OptimalDistance {
		score += 25
	}
	attacks := n.attackCount
	if attacks > 0 {
		bonus := attacks - 1
		if bonus > 2 {
			bonus = 2
		}
		score += 15 * float64(bonus)
	}
	return score
}

func scoreEfficiency(n *planNode) float64 {
	score := 0.0
	if n.actionCount > 0 {
		apPerAction := n.apSpent / float64(n.actionCount)
		if apPerAction >= 1.0 && apPerAction <= 2.5 {
			score += 40
		} else {
			score -= 20
		}
	}
	if n.energyMax > 0 {
		ratio := n.energySpent / float64(n.energyMax)
		score += 30 * (1 - ratio)
	}
	if n.apCurrent >= 1.0 {
		score += 15
	}
	return math.Max(0, score)
}

func scorePositioning(profile HeuristicProfile, n *planNode) float64 {
	var score float64
	switch {
	case profile.MaxEffectiveDistance <= 1:
		if n.finalDistance <= 1 {
			score = 100
		} else {
			score = 100 * closingProgress(n)
		}
	case profile.ControlsSpace && profile.OptimalDistance > 1 && !n.isRanged:
		if n.finalDistance == profile.OptimalDistance {
			score = 100
		} else {
			score = 100 * closingProgress(n)
		}
	default:
		if n.finalDistance <= profile.OptimalDistance {
			score = 100
		} else {
			score = 100 * closingProgress(n)
		}
	}
	center := n.battlefieldLength / 2
	centerBonus := 10 * (1 - math.Abs(n.finalCoordinate-center)/center)
	return score + math.Max(0, centerBonus)
}

// closingProgress is how much of the initial gap to optimal range a plan
// has closed, in [0,1].
func closingProgress(n *planNode) float64 {
	if n.initialGap <= 0 {
		return 1
	}
	remaining := math.Abs(n.finalDistance - n.optimalDistance)
	progress := 1 - remaining/n.initialGap
	return math.Max(0, math.Min(1, progress))
}

func scoreMomentum(isRanged bool, n *planNode) float64 {
	score := 0.0
	for i := 1; i < len(n.actionKinds); i++ {
		prev, cur := n.actionKinds[i-1], n.actionKinds[i]
		if prev == ActionAdvance && isAttack(cur) {
			score += 20
		}
		if isAttack(prev) && cur == ActionAdvance && !isRanged {
			score -= 15
		}
	}
	if len(n.actionKinds) > 0 && isAttack(n.actionKinds[len(n.actionKinds)-1]) {
		score += 20
	}
	if !isRanged && n.initialGap > 0 {
		closed := n.initialGap - math.Abs(n.finalDistance-n.optimalDistance)
		if closed/n.initialGap >= 0.3 {
			score += 15
		}
	}
	return score
}

func scoreRisk(n *planNode) float64 {
	score := 100.0
	if n.apCurrent < 1.0 {
		score -= 20
	}
	if n.energyMax > 0 && n.energySpent/float64(n.energyMax) > 0.7 {
		score -= 15
	}
	if n.isRanged && n.finalDistance < n.minSafeDistance {
		score -= 25
	}
	if !n.isRanged && n.finalDistance > n.optimalDistance {
		score -= 20
	}
	if n.finalCoordinate <= 2 || n.finalCoordinate >= n.battlefieldLength-2 {
		score -= 10
	}
	if n.actionCount > 4 {
		score -= 10 * float64(n.actionCount-4)
	}
	return math.Max(0, score)
}

func isAttack(k ActionKind) bool {
	return k == ActionStrike || k == ActionCleave
}
