package combat

// Status is the CombatSession lifecycle state.
type Status int

const (
	StatusSetup Status = iota
	StatusRunning
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusSetup:
		return "SETUP"
	case StatusRunning:
		return "RUNNING"
	case StatusEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// Strategy names the session's ruleset; the core only ever plays COMBAT.
const StrategyCombat = "COMBAT"

// TurnState names whose turn it currently is, and the round/turn counters.
type TurnState struct {
	RoundNumber int
	TurnNumber  int
	Actor       ActorId
}

// CombatSession is the authoritative battlefield + combatant + turn
// state machine. Combatants are kept in insertion order for
// deterministic, stable round-robin turn assignment.
type CombatSession struct {
	ID       SessionId
	Location PlaceId
	Strategy string
	Field    Battlefield

	order      []ActorId
	combatants map[ActorId]*Combatant

	Status Status
	Turn   TurnState

	advanceTurn func(trace string) ([]Event, *Error) // wired for DONE, see done.go
}

// NewSession creates a session in SETUP at location, over battlefield.
func NewSession(id SessionId, location PlaceId, field Battlefield) *CombatSession {
	return &CombatSession{
		ID:         id,
		Location:   location,
		Strategy:   StrategyCombat,
		Field:      field,
		combatants: make(map[ActorId]*Combatant),
		Status:     StatusSetup,
	}
}

// Combatants returns the live combatant map. Callers must not retain it
// across reducer boundaries in a way that outlives the session mutation
// it observed.
func (s *CombatSession) Combatants() map[ActorId]*Combatant { return s.combatants }

// Order returns the insertion-ordered combatant ids.
func (s *CombatSession) Order() []ActorId { return s.order }

// Get returns the combatant for actor, if present.
func (s *CombatSession) Get(actor ActorId) (*Combatant, bool) {
	c, ok := s.combatants[actor]
	return c, ok
}

// AddCombatant inserts a new combatant for actor. actor must be
// alive and located at the session's location; it must not already be
// present.
func (s *CombatSession) AddCombatant(ctx *Context, trace string, actor Actor, team TeamTag, pos BattlefieldPosition) *Error {
	if actor.Location() != s.Location {
		return ctx.fail(trace, KindActorNotFound, "actor %s is not at session location %s", actor.ID(), s.Location)
	}
	if _, exists := s.combatants[actor.ID()]; exists {
		return ctx.fail(trace, KindForbidden, "actor %s is already a combatant in this session", actor.ID())
	}
	if !actor.Alive() {
		return ctx.fail(trace, KindActorNotFound, "actor %s is dead", actor.ID())
	}
	c := NewCombatant(actor.ID(), team, pos, actor.Stats().Int)
	s.combatants[actor.ID()] = &c
	s.order = append(s.order, actor.ID())
	return nil
}

// hasOpponents reports whether at least two teams still field a living
// combatant, the precondition for starting combat.
func (s *CombatSession) hasOpponents(actorStore ActorStore) bool {
	teams := make(map[TeamTag]bool)
	for _, id := range s.order {
		c := s.combatants[id]
		if a, ok := actorStore.Get(id); ok && a.Alive() {
			teams[c.Team] = true
		}
	}
	return len(teams) >= 2
}

// StartCombat transitions SETUP -> RUNNING, assigns the first turn in
// insertion order, and restores that combatant's AP to max.
func (s *CombatSession) StartCombat(ctx *Context, trace string) ([]Event, *Error) {
	if !s.hasOpponents(ctx.Actors) {
		return nil, ctx.fail(trace, KindNoValidTargets, "no opposing team present")
	}
	s.Status = StatusRunning
	s.Turn = TurnState{RoundNumber: 1, TurnNumber: 1}
	first, ok := s.firstAlive(ctx.Actors, 0)
	if !ok {
		s.Status = StatusEnded
		return nil, ctx.fail(trace, KindNoValidTargets, "no living combatants to start with")
	}
	s.Turn.Actor = first
	s.combatants[first].RestoreAP()
	ev := ctx.declare(Event{
		ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventCombatTurnDidStart,
		Actor: first, Location: s.Location, Session: s.ID,
		Payload: TurnStartPayload{Round: s.Turn.RoundNumber, Turn: s.Turn.TurnNumber},
	})
	return []Event{ev}, nil
}

// firstAlive returns the first living combatant at or after index start
// in insertion order (used both for combat start and turn advancement).
func (s *CombatSession) firstAlive(actorStore ActorStore, start int) (ActorId, bool) {
	n := len(s.order)
	for i := 0; i < n; i++ {
		id := s.order[(start+i)%n]
		if a, ok := actorStore.Get(id); ok && a.Alive() {
			return id, true
		}
	}
	return "", false
}

// AdvanceTurn ends the current actor's turn and starts the next living
// combatant's, in stable round-robin order. If no combatant is
// alive, the session transitions to ENDED.
func (s *CombatSession) AdvanceTurn(ctx *Context, trace string) ([]Event, *Error) {
	if s.Status != StatusRunning {
		return nil, ctx.fail(trace, KindInvalidSession, "session %s is not running", s.ID)
	}
	var events []Event

	outgoing := s.Turn.Actor
	if c, ok := s.combatants[outgoing]; ok {
		before := c.APMax
		after := c.APCurrent
		events = append(events, ctx.declare(Event{
			ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventCombatTurnDidEnd,
			Actor: outgoing, Location: s.Location, Session: s.ID,
			Payload: TurnEndPayload{Before: before, After: after, Recovered: CleanAPPrecision(before - after)},
		}))
	}

	outIdx := indexOf(s.order, outgoing)
	next, ok := s.firstAlive(ctx.Actors, outIdx+1)
	if !ok {
		s.Status = StatusEnded
		return events, ctx.fail(trace, KindNoValidTargets, "no living combatants remain")
	}

	if indexOf(s.order, next) <= outIdx {
		s.Turn.RoundNumber++
	}
	s.Turn.TurnNumber++
	s.Turn.Actor = next
	s.combatants[next].RestoreAP()

	events = append(events, ctx.declare(Event{
		ID: ctx.newEventID(), TS: ctx.eventTS(), Trace: trace, Type: EventCombatTurnDidStart,
		Actor: next, Location: s.Location, Session: s.ID,
		Payload: TurnStartPayload{Round: s.Turn.RoundNumber, Turn: s.Turn.TurnNumber},
	}))
	return events, nil
}

func indexOf(order []ActorId, id ActorId) int {
	for i, o := range order {
		if o == id {
			return i
		}
	}
	return -1
}

// CombatantAPI is the scoped view of the action primitives, bound to
// one session+actor pair.
type CombatantAPI struct {
	ctx   *Context
	s     *CombatSession
	actor ActorId
}

// GetCombatantAPI returns a CombatantAPI bound to actor in this session.
func (s *CombatSession) GetCombatantAPI(ctx *Context, trace string, actor ActorId) (*CombatantAPI, *Error) {
	if _, ok := s.combatants[actor]; !ok {
		return nil, ctx.fail(trace, KindCombatantNotFound, "actor %s is not in session %s", actor, s.ID)
	}
	return &CombatantAPI{ctx: ctx, s: s, actor: actor}, nil
}
