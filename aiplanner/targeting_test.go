package aiplanner

import (
	"testing"

	"github.com/freeeve/tacticalcombat/pkg/combat"
)

func TestChooseTargetForActor_PrefersOptimalRangeTarget(t *testing.T) {
	ctx, w := newTestContext()
	s := combat.NewSession("sess1", "field", combat.NewDefaultBattlefield())
	a := w.addActor("a", defaultStats(), 10, "urn:weapon:sword")
	near := w.addActor("near", defaultStats(), 10, "")
	far := w.addActor("far", defaultStats(), 10, "")
	w.schemas["urn:weapon:sword"] = swordSchema()
	s.AddCombatant(ctx, "t1", a, "red", combat.BattlefieldPosition{Coordinate: 0, Facing: 1})
	s.AddCombatant(ctx, "t1", near, "blue", combat.BattlefieldPosition{Coordinate: 1, Facing: -1})
	s.AddCombatant(ctx, "t1", far, "blue", combat.BattlefieldPosition{Coordinate: 50, Facing: -1})
	s.StartCombat(ctx, "t1")
	w.sessions["sess1"] = s

	choice, err := ChooseTargetForActor(ctx, "t1", s, "a")
	if err != nil {
		t.Fatalf("ChooseTargetForActor: %v", err)
	}
	if choice.ActorID != "near" {
		t.Errorf("expected 'near' at optimal range to be chosen, got %v", choice.ActorID)
	}
}

// Targeting is stable -- a persistent, still-valid
// target is never abandoned for an equally-viable alternative.
func TestChooseTargetForActor_StableOnPersistentTarget(t *testing.T) {
	ctx, w := newTestContext()
	s := combat.NewSession("sess1", "field", combat.NewDefaultBattlefield())
	a := w.addActor("a", defaultStats(), 10, "urn:weapon:sword")
	b := w.addActor("b", defaultStats(), 10, "")
	c := w.addActor("c", defaultStats(), 10, "")
	w.schemas["urn:weapon:sword"] = swordSchema()
	s.AddCombatant(ctx, "t1", a, "red", combat.BattlefieldPosition{Coordinate: 0, Facing: 1})
	s.AddCombatant(ctx, "t1", b, "blue", combat.BattlefieldPosition{Coordinate: 1, Facing: -1})
	s.AddCombatant(ctx, "t1", c, "blue", combat.BattlefieldPosition{Coordinate: 1, Facing: -1})
	s.StartCombat(ctx, "t1")
	w.sessions["sess1"] = s

	api, err := s.GetCombatantAPI(ctx, "t1", "a")
	if err != nil {
		t.Fatalf("GetCombatantAPI: %v", err)
	}
	if _, aerr := api.Target("t1", "c"); aerr != nil {
		t.Fatalf("Target: %v", aerr)
	}

	choice, terr := ChooseTargetForActor(ctx, "t1", s, "a")
	if terr != nil {
		t.Fatalf("ChooseTargetForActor: %v", terr)
	}
	if choice.ActorID != "c" {
		t.Errorf("expected persistent target c to be kept, got %v", choice.ActorID)
	}
}

func TestChooseTargetForActor_AbandonsDeadPersistentTarget(t *testing.T) {
	ctx, w := newTestContext()
	s := combat.NewSession("sess1", "field", combat.NewDefaultBattlefield())
	a := w.addActor("a", defaultStats(), 10, "urn:weapon:sword")
	b := w.addActor("b", defaultStats(), 10, "")
	c := w.addActor("c", defaultStats(), 10, "")
	w.schemas["urn:weapon:sword"] = swordSchema()
	s.AddCombatant(ctx, "t1", a, "red", combat.BattlefieldPosition{Coordinate: 0, Facing: 1})
	s.AddCombatant(ctx, "t1", b, "blue", combat.BattlefieldPosition{Coordinate: 1, Facing: -1})
	s.AddCombatant(ctx, "t1", c, "blue", combat.BattlefieldPosition{Coordinate: 1, Facing: -1})
	s.StartCombat(ctx, "t1")
	w.sessions["sess1"] = s

	api, _ := s.GetCombatantAPI(ctx, "t1", "a")
	api.Target("t1", "b")
	w.actors["b"].hp.Current = 0

	choice, terr := ChooseTargetForActor(ctx, "t1", s, "a")
	if terr != nil {
		t.Fatalf("ChooseTargetForActor: %v", terr)
	}
	if choice.ActorID != "c" {
		t.Errorf("expected fallback to living target c, got %v", choice.ActorID)
	}
}

func TestChooseTargetForActor_NoEnemiesLeft(t *testing.T) {
	ctx, w := newTestContext()
	s := combat.NewSession("sess1", "field", combat.NewDefaultBattlefield())
	a := w.addActor("a", defaultStats(), 10, "urn:weapon:sword")
	w.schemas["urn:weapon:sword"] = swordSchema()
	s.AddCombatant(ctx, "t1", a, "red", combat.BattlefieldPosition{Coordinate: 0, Facing: 1})
	w.sessions["sess1"] = s

	if _, err := ChooseTargetForActor(ctx, "t1", s, "a"); err == nil || err.Kind != combat.KindNoValidTargets {
		t.Fatalf("expected KindNoValidTargets, got %#v", err)
	}
}
