package aiplanner

import (
	"testing"

	"github.com/freeeve/tacticalcombat/pkg/combat"
)

func TestActionKind_String(t *testing.T) {
	cases := map[ActionKind]string{
		ActionStrike: "STRIKE", ActionCleave: "CLEAVE", ActionDefend: "DEFEND",
		ActionAdvance: "ADVANCE", ActionRetreat: "RETREAT", ActionTarget: "TARGET",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}

func TestPlannedAction_ToCommand_Strike(t *testing.T) {
	target := combat.ActorId("b")
	a := PlannedAction{Kind: ActionStrike, Target: &target}
	session := combat.SessionId("sess1")
	cmd := a.ToCommand(func() string { return "id1" }, 100, "trace1", session, "a")
	if cmd.Type != combat.CmdStrike {
		t.Errorf("cmd.Type = %v, want CmdStrike", cmd.Type)
	}
	args, ok := cmd.Args.(combat.StrikeArgs)
	if !ok || args.Target == nil || *args.Target != "b" {
		t.Errorf("unexpected strike args %#v", cmd.Args)
	}
	if cmd.Session == nil || *cmd.Session != session {
		t.Errorf("cmd.Session = %v, want %v", cmd.Session, session)
	}
}

func TestPlannedAction_ToCommand_Advance(t *testing.T) {
	a := PlannedAction{Kind: ActionAdvance, Distance: 5}
	session := combat.SessionId("sess1")
	cmd := a.ToCommand(func() string { return "id1" }, 100, "trace1", session, "a")
	if cmd.Type != combat.CmdAdvance {
		t.Errorf("cmd.Type = %v, want CmdAdvance", cmd.Type)
	}
	args, ok := cmd.Args.(combat.MovementArgs)
	if !ok || args.Value != 5 || args.By != combat.ByDistance {
		t.Errorf("unexpected movement args %#v", cmd.Args)
	}
}

func TestToCommands_FusesMovementBeforeConverting(t *testing.T) {
	actions := []PlannedAction{
		{Kind: ActionAdvance, Distance: 2, Cost: combat.ActionCost{AP: 2}},
		{Kind: ActionAdvance, Distance: 3, Cost: combat.ActionCost{AP: 3}},
		{Kind: ActionDefend},
	}
	session := combat.SessionId("sess1")
	cmds := ToCommands(actions, func() string { return "id1" }, 100, "trace1", session, "a")
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands after fusing consecutive advances, got %d: %#v", len(cmds), cmds)
	}
	args := cmds[0].Args.(combat.MovementArgs)
	if args.Value != 5 {
		t.Errorf("fused advance distance = %v, want 5", args.Value)
	}
	if cmds[1].Type != combat.CmdDefend {
		t.Errorf("second command = %v, want CmdDefend", cmds[1].Type)
	}
}
