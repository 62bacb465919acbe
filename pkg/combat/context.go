package combat

// The host-facing Context surface. Every interface here is a read-mostly
// collaborator the host must supply; this package never constructs a
// concrete implementation of any of them; wiring real stores, dice,
// and sinks is the host's job (internal/service provides an in-memory
// one).

// ActorStore is the host's id -> actor mapping.
type ActorStore interface {
	Get(id ActorId) (Actor, bool)
}

// SchemaManager resolves a schema urn to a Weapon view.
type SchemaManager interface {
	GetWeaponSchema(urn SchemaUrn) (*Weapon, bool)
}

// EquipmentAPI exposes an actor's equipped weapon.
type EquipmentAPI interface {
	GetEquippedWeaponSchema(actor ActorId) (SchemaUrn, bool)
}

// MassAPI computes the weights the movement and cost formulas need.
type MassAPI interface {
	ComputeActorMassGrams(actor ActorId) float64
	ComputeCombatMassKg(actor ActorId) float64
}

// DiceSpec and DiceResult describe an opaque dice roll.
type DiceSpec struct {
	Count int
	Sides int
	Bonus int
}

type DiceResult struct {
	Values []int
	Sum    int
}

// RollResult is the outcome of an accuracy or damage roll.
type RollResult struct {
	Values []int
	Sum    int
	Result float64
}

// DiceRoller is the host's generic dice service. The
// action primitives themselves only consume the higher-level RollAPI;
// this is exposed for hosts and AI strategies that need raw rolls.
type DiceRoller interface {
	RollDice(spec DiceSpec, rng RNG) DiceResult
}

// RollAPI is the host's opaque "roll provider".
type RollAPI interface {
	RollWeaponAccuracy(actor ActorId, w *Weapon) RollResult
	RollWeaponDamage(actor ActorId, w *Weapon) RollResult
}

// RNG is the host's uniform random source over [0,1).
type RNG interface {
	Float64() float64
}

// EventSink receives declared events in declaration order.
type EventSink interface {
	DeclareEvent(e Event)
}

// ErrorSink receives declared errors.
type ErrorSink interface {
	DeclareError(err *Error)
}

// Caches are optional, reserved-name hot-path memoization slots, valid
// only within a single planning pass; they must never cross reducer
// boundaries.
type Caches struct {
	Distance map[ActorId]map[ActorId]float64
	Weapon   map[ActorId]*Weapon
	Target   map[ActorId]ActorId
}

// NewCaches returns an empty, ready-to-use Caches value.
func NewCaches() *Caches {
	return &Caches{
		Distance: make(map[ActorId]map[ActorId]float64),
		Weapon:   make(map[ActorId]*Weapon),
		Target:   make(map[ActorId]ActorId),
	}
}

// Context bundles every host collaborator a reducer or AI pass needs. It
// must be treated as immutable for the duration of a single reducer call.
type Context struct {
	Actors    ActorStore
	Sessions  SessionStore
	Schemas   SchemaManager
	Equipment EquipmentAPI
	Mass      MassAPI
	Dice      DiceRoller
	Rolls     RollAPI
	RNG       RNG
	Energy    EnergyMutator
	HP        HPMutator
	Events    EventSink
	Errors    ErrorSink
	UniqID    func() string
	Now       func() int64 // event timestamps; unwired means 0
	Caches    *Caches
}

// SessionStore is the host's id -> session mapping, used by the
// cross-session targeting decorator.
type SessionStore interface {
	Get(id SessionId) (*CombatSession, bool)
}

// declareError reports err via the context's error sink, if present, and
// returns err unchanged so callers can `return nil, ctx.fail(...)`.
func (ctx *Context) declareError(err *Error) *Error {
	if ctx.Errors != nil {
		ctx.Errors.DeclareError(err)
	}
	return err
}

// fail is a convenience constructor + declare in one call.
func (ctx *Context) fail(trace string, kind Kind, format string, args ...any) *Error {
	return ctx.declareError(newErr(kind, trace, format, args...))
}

// Fail is the exported equivalent of fail, for packages outside
// pkg/combat (the AI planner) that hold a *Context and need to declare
// an error in the same way a reducer would.
func (ctx *Context) Fail(trace string, kind Kind, format string, args ...any) *Error {
	return ctx.fail(trace, kind, format, args...)
}

// declare appends e to the context's event sink and returns it, so
// primitives can build up a []Event to return while also notifying the
// sink: every event is flushed to the sink before the reducer returns.
func (ctx *Context) declare(e Event) Event {
	if ctx.Events != nil {
		ctx.Events.DeclareEvent(e)
	}
	return e
}

// newEventID returns a fresh event id via the context's UniqID, or a
// deterministic fallback if none was wired (tests often skip it).
func (ctx *Context) newEventID() string {
	if ctx.UniqID != nil {
		return ctx.UniqID()
	}
	return "evt"
}

// eventTS reads the context's clock, if one was wired.
func (ctx *Context) eventTS() int64 {
	if ctx.Now != nil {
		return ctx.Now()
	}
	return 0
}
