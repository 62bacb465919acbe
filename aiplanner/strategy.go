package aiplanner

import (
	"math/rand"
	"time"

	"github.com/freeeve/tacticalcombat/aiplanner/neural"
	"github.com/freeeve/tacticalcombat/pkg/combat"
)

// DefaultSearchConfig is a reasonable 1-v-1 planning budget satisfying
// the <100ms planning latency contract with headroom to spare.
var DefaultSearchConfig = SearchConfig{
	TimeBudget:        80 * time.Millisecond,
	MaxDepth:          4,
	MaxBranching:      8,
	MinScoreThreshold: 0,
}

// Strategy generates a combat plan for one combatant's turn, mirroring
// the bot difficulty ladder a host exposes to players.
type Strategy interface {
	Name() string
	GenerateCombatPlan(ctx *combat.Context, trace string, s *combat.CombatSession, actorID combat.ActorId) (*ScoredPlan, *combat.Error)
}

// StrategyForDifficulty returns the planner strategy for a named
// difficulty level, defaulting to the full heuristic search. search is
// the host-configured planning budget; the zero value means each
// strategy's own default.
func StrategyForDifficulty(difficulty string, search SearchConfig) Strategy {
	switch difficulty {
	case "hold":
		return HoldStrategy{}
	case "random":
		return RandomStrategy{}
	case "hard":
		return HardStrategy{Search: search}
	default:
		return TacticalStrategy{Search: search}
	}
}

// GenerateCombatPlan runs the full planning pipeline for actorID: build
// a fresh TacticalSituation, derive a HeuristicProfile from the actor's
// equipped weapon, and search for the best plan within config's bounds.
func GenerateCombatPlan(ctx *combat.Context, trace string, s *combat.CombatSession, actorID combat.ActorId, config SearchConfig) (*ScoredPlan, *combat.Error) {
	w, werr := combat.ResolveWeapon(ctx, trace, actorID)
	if werr != nil {
		return nil, werr
	}
	situation, serr := combat.AnalyzeBattlefield(ctx, trace, s, actorID, w)
	if serr != nil {
		return nil, serr
	}
	profile := CreateHeuristicProfile(w)
	return FindOptimalPlan(ctx, trace, s, actorID, situation, profile, config)
}

// --- HoldStrategy ---

// HoldStrategy always defends, spending all remaining AP.
type HoldStrategy struct{}

func (HoldStrategy) Name() string { return "hold" }

func (HoldStrategy) GenerateCombatPlan(ctx *combat.Context, trace string, s *combat.CombatSession, actorID combat.ActorId) (*ScoredPlan, *combat.Error) {
	c, ok := s.Get(actorID)
	if !ok {
		return nil, ctx.Fail(trace, combat.KindCombatantNotFound, "actor %s is not in session %s", actorID, s.ID)
	}
	return &ScoredPlan{
		Actions: []PlannedAction{{Kind: ActionDefend, Cost: combat.ActionCost{AP: c.APCurrent}}},
	}, nil
}

// --- RandomStrategy ---

// RandomStrategy runs a shallow single-branch search (depth 2, 20ms)
// and returns a prefix of random length of the plan it finds, or a lone
// DEFEND when there is none; for testing and as a baseline opponent.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) GenerateCombatPlan(ctx *combat.Context, trace string, s *combat.CombatSession, actorID combat.ActorId) (*ScoredPlan, *combat.Error) {
	w, werr := combat.ResolveWeapon(ctx, trace, actorID)
	if werr != nil {
		return nil, werr
	}
	situation, serr := combat.AnalyzeBattlefield(ctx, trace, s, actorID, w)
	if serr != nil {
		return nil, serr
	}
	profile := CreateHeuristicProfile(w)
	plan, perr := FindOptimalPlan(ctx, trace, s, actorID, situation, profile, SearchConfig{
		TimeBudget: 20 * time.Millisecond, MaxDepth: 2, MaxBranching: 1, MinScoreThreshold: 0,
	})
	if perr != nil || plan == nil || len(plan.Actions) == 0 {
		return &ScoredPlan{Actions: []PlannedAction{{Kind: ActionDefend}}}, perr
	}
	idx := rand.Intn(len(plan.Actions))
	return &ScoredPlan{Actions: plan.Actions[:idx+1], Score: plan.Score, Breakdown: plan.Breakdown}, nil
}

// --- TacticalStrategy ---

// TacticalStrategy runs the full bounded search: the engine's
// standard-difficulty opponent.
type TacticalStrategy struct {
	// Search bounds the planning pass; the zero value means
	// DefaultSearchConfig.
	Search SearchConfig
}

func (TacticalStrategy) Name() string { return "tactical" }

func (t TacticalStrategy) GenerateCombatPlan(ctx *combat.Context, trace string, s *combat.CombatSession, actorID combat.ActorId) (*ScoredPlan, *combat.Error) {
	config := t.Search
	if config == (SearchConfig{}) {
		config = DefaultSearchConfig
	}
	return GenerateCombatPlan(ctx, trace, s, actorID, config)
}

// --- HardStrategy ---

// HardStrategy widens the search's depth and branching budget and, when
// a neural scorer is wired up, blends its evaluation into the composite
// heuristic score.
type HardStrategy struct {
	Neural *neural.Scorer // nil disables the blend
	// NeuralWeight scales the blend in [0,1]. Zero behaves identically to
	// TacticalStrategy at a wider budget.
	NeuralWeight float64
	// Search is the base budget to widen; the zero value means
	// DefaultSearchConfig.
	Search SearchConfig
}

func (HardStrategy) Name() string { return "hard" }

func (h HardStrategy) GenerateCombatPlan(ctx *combat.Context, trace string, s *combat.CombatSession, actorID combat.ActorId) (*ScoredPlan, *combat.Error) {
	config := h.Search
	if config == (SearchConfig{}) {
		config = DefaultSearchConfig
	}
	config.TimeBudget += 10 * time.Millisecond
	config.MaxDepth += 2
	config.MaxBranching += 4

	w, werr := combat.ResolveWeapon(ctx, trace, actorID)
	if werr != nil {
		return nil, werr
	}
	situation, serr := combat.AnalyzeBattlefield(ctx, trace, s, actorID, w)
	if serr != nil {
		return nil, serr
	}
	profile := CreateHeuristicProfile(w)
	if h.Neural != nil {
		if signal, err := h.Neural.Evaluate(situation); err == nil {
			profile = blendWithNeuralSignal(profile, signal, h.NeuralWeight)
		}
	}
	return FindOptimalPlan(ctx, trace, s, actorID, situation, profile, config)
}

// blendWithNeuralSignal nudges a profile's damage/risk priorities by the
// network's [-1,1] aggression signal, weighted by neuralWeight in [0,1].
// Positive signal favors aggression; negative favors caution.
// Priorities are left unnormalized.
func blendWithNeuralSignal(profile HeuristicProfile, signal, neuralWeight float64) HeuristicProfile {
	nudge := signal * neuralWeight * 0.15
	profile.Priorities.Damage += nudge
	profile.Priorities.Risk -= nudge
	if profile.Priorities.Damage < 0 {
		profile.Priorities.Damage = 0
	}
	if profile.Priorities.Risk < 0 {
		profile.Priorities.Risk = 0
	}
	return profile
}
