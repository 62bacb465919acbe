package service

import (
	"context"
	"fmt"
	"time"

	"github.com/freeeve/tacticalcombat/aiplanner"
	"github.com/freeeve/tacticalcombat/internal/logx"
	"github.com/freeeve/tacticalcombat/pkg/combat"
)

// FighterConfig describes one side of an arena battle.
type FighterConfig struct {
	Difficulty string // strategy name, see aiplanner.StrategyForDifficulty
	Weapon     combat.SchemaUrn
	Stats      combat.ActorStats
	HP         int
	EnergyJ    int
	Position   float64
	Facing     int
}

// ArenaConfig configures a single bot-vs-bot battle.
type ArenaConfig struct {
	Label             string
	FighterA          FighterConfig
	FighterB          FighterConfig
	MaxRounds         int     // cap before declaring a draw
	Seed              int64   // 0 = time-derived
	BattlefieldLength float64 // 0 = default
	NeuralModelPath   string
	Search            aiplanner.SearchConfig // zero = strategy defaults
}

// ArenaResult describes the outcome of a completed arena battle.
type ArenaResult struct {
	Label         string
	Winner        string // "A", "B", or "" for draw
	Rounds        int
	Turns         int
	TotalEvents   int
	PlanCalls     int
	AvgPlanMS     float64
	CommandErrors int
}

// DefaultFighter returns a baseline fighter wielding weapon for arena
// battles: stats 10 across the board, 100 HP, 20 kJ, at coordinate pos
// facing the given direction.
func DefaultFighter(difficulty string, weapon combat.SchemaUrn, pos float64, facing int) FighterConfig {
	return FighterConfig{
		Difficulty: difficulty,
		Weapon:     weapon,
		Stats:      combat.ActorStats{Pow: 10, Fin: 10, Res: 10, Int: 10, Per: 10, Mem: 10},
		HP:         100,
		EnergyJ:    20000,
		Position:   pos,
		Facing:     facing,
	}
}

// ArmingSword is the arena's default one-handed melee schema.
var ArmingSword = &combat.Weapon{
	URN:           "urn:weapon:arming-sword",
	BaseMassGrams: 1500,
	Range:         combat.WeaponRange{Optimal: 1, Max: 1},
	Fit:           map[string]int{"hand": 1},
}

// Greatsword is the arena's default two-handed reach schema, for
// exercising CLEAVE.
var Greatsword = &combat.Weapon{
	URN:           "urn:weapon:greatsword",
	BaseMassGrams: 3200,
	Range:         combat.WeaponRange{Optimal: 2, Max: 2},
	Fit:           map[string]int{"hand": 2},
}

// RunBattle plays a full 1-v-1 battle between two planner strategies on
// a fresh in-memory Engine, returning aggregate stats. ctx cancellation
// aborts between turns.
func RunBattle(ctx context.Context, cfg ArenaConfig) (*ArenaResult, error) {
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = 50
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	engine := NewEngine(seed, cfg.NeuralModelPath)
	cctx := engine.Context()

	engine.RegisterWeaponSchema(ArmingSword.URN, ArmingSword)
	engine.RegisterWeaponSchema(Greatsword.URN, Greatsword)

	const place = combat.PlaceId("urn:place:arena")
	ids := [2]combat.ActorId{"arena:a", "arena:b"}
	fighters := [2]FighterConfig{cfg.FighterA, cfg.FighterB}
	teams := [2]combat.TeamTag{"red", "blue"}

	for i, f := range fighters {
		hp := combat.HitPoints{Current: f.HP, Max: f.HP}
		if err := engine.RegisterActor(ids[i], place, f.Stats, hp, f.Weapon, f.EnergyJ); err != nil {
			return nil, fmt.Errorf("register fighter %s: %w", ids[i], err)
		}
	}

	length := cfg.BattlefieldLength
	if length <= 0 {
		length = combat.DefaultBattlefieldLength
	}
	s, err := engine.NewSession("arena:battle", place, length)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	for i, f := range fighters {
		pos := combat.BattlefieldPosition{Coordinate: f.Position, Facing: f.Facing}
		if jerr := engine.Join(logx.NewTraceID(), s.ID, ids[i], teams[i], pos); jerr != nil {
			return nil, fmt.Errorf("join fighter %s: %s", ids[i], jerr.Message)
		}
	}

	strategies := map[combat.ActorId]aiplanner.Strategy{
		ids[0]: strategyFor(engine, cfg.FighterA.Difficulty, cfg.Search),
		ids[1]: strategyFor(engine, cfg.FighterB.Difficulty, cfg.Search),
	}

	result := &ArenaResult{Label: cfg.Label}

	startEvents, serr := s.StartCombat(cctx, logx.NewTraceID())
	if serr != nil {
		return nil, fmt.Errorf("start combat: %s", serr.Message)
	}
	result.TotalEvents += len(startEvents)

	var planTotal time.Duration
	for s.Status == combat.StatusRunning && s.Turn.RoundNumber <= cfg.MaxRounds {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.Turns++
		current := s.Turn.Actor
		trace := logx.NewTraceID()

		planStart := time.Now()
		plan, perr := strategies[current].GenerateCombatPlan(cctx, trace, s, current)
		planTotal += time.Since(planStart)
		result.PlanCalls++
		if perr != nil || plan == nil {
			// No viable plan this turn (e.g. NO_VALID_TARGETS after a
			// kill); pass the turn.
			plan = &aiplanner.ScoredPlan{}
		}

		cmds := aiplanner.ToCommands(plan.Actions, logx.NewTraceID, time.Now().UnixMilli(), trace, s.ID, current)
		for _, cmd := range cmds {
			events, derr := engine.Dispatch(cmd)
			result.TotalEvents += len(events)
			if derr != nil {
				result.CommandErrors++
				break
			}
			if s.Status != combat.StatusRunning || s.Turn.Actor != current {
				break
			}
		}

		if s.Status == combat.StatusRunning && s.Turn.Actor == current {
			doneEvents, derr := s.AdvanceTurn(cctx, trace)
			result.TotalEvents += len(doneEvents)
			if derr != nil {
				break
			}
		}

		if winner, over := battleOver(engine, ids); over {
			result.Winner = winner
			break
		}
	}

	result.Rounds = s.Turn.RoundNumber
	if result.PlanCalls > 0 {
		result.AvgPlanMS = float64(planTotal.Milliseconds()) / float64(result.PlanCalls)
	}
	return result, nil
}

// strategyFor builds the Strategy for a difficulty name, wiring the
// engine's neural scorer into HardStrategy when one was loaded.
func strategyFor(e *Engine, difficulty string, search aiplanner.SearchConfig) aiplanner.Strategy {
	if difficulty == "hard" && e.Neural() != nil {
		return aiplanner.HardStrategy{Neural: e.Neural(), NeuralWeight: 0.5, Search: search}
	}
	return aiplanner.StrategyForDifficulty(difficulty, search)
}

// battleOver reports whether exactly one fighter remains alive, and
// which label ("A"/"B") won.
func battleOver(e *Engine, ids [2]combat.ActorId) (winner string, over bool) {
	a, _ := e.Get(ids[0])
	b, _ := e.Get(ids[1])
	aliveA := a != nil && a.Alive()
	aliveB := b != nil && b.Alive()
	switch {
	case aliveA && !aliveB:
		return "A", true
	case aliveB && !aliveA:
		return "B", true
	case !aliveA && !aliveB:
		return "", true
	}
	return "", false
}
