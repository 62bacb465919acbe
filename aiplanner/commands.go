package aiplanner

import "github.com/freeeve/tacticalcombat/pkg/combat"

// String names an ActionKind with its wire-level command name.
func (k ActionKind) String() string {
	switch k {
	case ActionStrike:
		return "STRIKE"
	case ActionCleave:
		return "CLEAVE"
	case ActionDefend:
		return "DEFEND"
	case ActionAdvance:
		return "ADVANCE"
	case ActionRetreat:
		return "RETREAT"
	case ActionTarget:
		return "TARGET"
	default:
		return "UNKNOWN"
	}
}

// ToCommand converts one planned action into the combat.Command a host
// would dispatch through combat.DefaultReducer, so a plan flows back
// through the same reducer surface player commands do. uniqID and ts
// let the caller supply the host's id/clock collaborators; session and
// actor identify the turn the plan belongs to.
func (a PlannedAction) ToCommand(uniqID func() string, ts int64, trace string, session combat.SessionId, actor combat.ActorId) combat.Command {
	cmd := combat.Command{
		ID: uniqID(), TS: ts, Trace: trace, Actor: actor, Session: &session,
	}
	switch a.Kind {
	case ActionStrike:
		cmd.Type = combat.CmdStrike
		cmd.Args = combat.StrikeArgs{Target: a.Target}
	case ActionCleave:
		cmd.Type = combat.CmdCleave
		cmd.Args = combat.CleaveArgs{}
	case ActionDefend:
		cmd.Type = combat.CmdDefend
		cmd.Args = combat.DefendArgs{}
	case ActionAdvance:
		cmd.Type = combat.CmdAdvance
		cmd.Args = combat.MovementArgs{By: combat.ByDistance, Value: a.Distance}
	case ActionRetreat:
		cmd.Type = combat.CmdRetreat
		cmd.Args = combat.MovementArgs{By: combat.ByDistance, Value: a.Distance}
	case ActionTarget:
		cmd.Type = combat.CmdTarget
		if a.Target != nil {
			cmd.Args = combat.TargetArgs{Target: *a.Target}
		}
	}
	return cmd
}

// ToCommands converts every action in a plan, in order, into dispatchable
// commands sharing one trace id, fusing the movement sequence first so
// consecutive ADVANCE/RETREAT runs become a single command.
func ToCommands(actions []PlannedAction, uniqID func() string, ts int64, trace string, session combat.SessionId, actor combat.ActorId) []combat.Command {
	fused := OptimizeMovementSequence(actions)
	cmds := make([]combat.Command, len(fused))
	for i, a := range fused {
		cmds[i] = a.ToCommand(uniqID, ts, trace, session, actor)
	}
	return cmds
}
