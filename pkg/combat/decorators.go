package combat

// targetOf extracts the optional target actor named by a command's args,
// if any. STRIKE's target is optional; TARGET's is required. Every other
// command type carries no target and is left untouched by the
// cross-session decorator.
func targetOf(cmd Command) *ActorId {
	switch cmd.Type {
	case CmdStrike:
		if args, ok := cmd.Args.(StrikeArgs); ok {
			return args.Target
		}
	case CmdTarget:
		if args, ok := cmd.Args.(TargetArgs); ok {
			t := args.Target
			return &t
		}
	}
	return nil
}

// WithExistingCombatSession requires command.session to reference a
// present combat session and the command's actor to be a combatant of
// it. It never mutates state; on failure it declares the error
// and returns without calling next.
func WithExistingCombatSession(next Reducer) Reducer {
	return func(ctx *Context, cmd Command) ([]Event, *Error) {
		if cmd.Session == nil {
			return nil, ctx.fail(cmd.Trace, KindInvalidSession, "command %s has no session", cmd.ID)
		}
		s, ok := ctx.Sessions.Get(*cmd.Session)
		if !ok {
			return nil, ctx.fail(cmd.Trace, KindInvalidSession, "session %s not found", *cmd.Session)
		}
		if _, ok := s.Get(cmd.Actor); !ok {
			return nil, ctx.fail(cmd.Trace, KindForbidden, "actor %s is not a combatant of session %s", cmd.Actor, *cmd.Session)
		}
		return next(ctx, cmd)
	}
}

// WithPreventCrossSessionTargeting requires that, whenever a command
// names a target, attacker and target share a combat session. When
// neither the attacker nor the command names a session at all, it
// instead requires both actors to be in no combat session anywhere.
func WithPreventCrossSessionTargeting(next Reducer) Reducer {
	return func(ctx *Context, cmd Command) ([]Event, *Error) {
		target := targetOf(cmd)
		if target == nil {
			return next(ctx, cmd)
		}

		targetActor, ok := ctx.Actors.Get(*target)
		if !ok {
			return nil, ctx.fail(cmd.Trace, KindActorNotFound, "target %s not found", *target)
		}

		if cmd.Session != nil {
			s, ok := ctx.Sessions.Get(*cmd.Session)
			if !ok {
				return nil, ctx.fail(cmd.Trace, KindInvalidSession, "session %s not found", *cmd.Session)
			}
			if _, ok := s.Get(*target); !ok {
				return nil, ctx.fail(cmd.Trace, KindForbidden, "target %s is outside your session", *target)
			}
			return next(ctx, cmd)
		}

		attackerActor, ok := ctx.Actors.Get(cmd.Actor)
		if !ok {
			return nil, ctx.fail(cmd.Trace, KindActorNotFound, "actor %s not found", cmd.Actor)
		}
		if len(attackerActor.Sessions()) > 0 || len(targetActor.Sessions()) > 0 {
			return nil, ctx.fail(cmd.Trace, KindForbidden, "already in combat")
		}
		return next(ctx, cmd)
	}
}

// WithCombatSessionAndTarget composes WithExistingCombatSession and
// WithPreventCrossSessionTargeting.
func WithCombatSessionAndTarget(next Reducer) Reducer {
	return WithExistingCombatSession(WithPreventCrossSessionTargeting(next))
}
