// Package service wires the pkg/combat reducer surface to an in-memory
// host implementation: actor/session/schema stores, dice rolling, and
// event/error logging via internal/logx. Constructor-injected
// collaborators and sentinel errors; there is no persistence layer, so
// combat state lives only as long as the process.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/tacticalcombat/aiplanner/neural"
	"github.com/freeeve/tacticalcombat/internal/logx"
	"github.com/freeeve/tacticalcombat/pkg/combat"
)

var (
	ErrActorExists    = errors.New("actor already registered")
	ErrUnknownActor   = errors.New("actor not registered")
	ErrSessionExists  = errors.New("session already registered")
	ErrUnknownSession = errors.New("session not registered")
	ErrUnknownSchema  = errors.New("weapon schema not registered")
)

// actorState is the Engine's mutable record of one actor: the bits
// combat.Actor exposes read-only, plus the host-owned energy budget.
type actorState struct {
	id           combat.ActorId
	location     combat.PlaceId
	stats        combat.ActorStats
	hp           combat.HitPoints
	weaponSchema combat.SchemaUrn
	sessions     []combat.SessionId

	energyCurrent int
	energyMax     int
}

func (a *actorState) ID() combat.ActorId                     { return a.id }
func (a *actorState) Location() combat.PlaceId               { return a.location }
func (a *actorState) Stats() combat.ActorStats               { return a.stats }
func (a *actorState) HP() combat.HitPoints                   { return a.hp }
func (a *actorState) Alive() bool                            { return a.hp.Current > 0 }
func (a *actorState) EquippedWeaponSchema() combat.SchemaUrn { return a.weaponSchema }
func (a *actorState) Sessions() []combat.SessionId           { return a.sessions }

// Engine is the in-memory host for pkg/combat: it implements the store,
// mass, roll, and mutator collaborators itself, points the event/error
// sinks at logx, and exposes a ready-to-use *combat.Context plus
// session/actor management.
type Engine struct {
	mu       sync.Mutex
	actors   map[combat.ActorId]*actorState
	sessions map[combat.SessionId]*combat.CombatSession
	schemas  map[combat.SchemaUrn]*combat.Weapon

	rng    *rand.Rand
	log    zerolog.Logger
	neural *neural.Scorer

	ctx *combat.Context
}

// NewEngine constructs an Engine. neuralModelPath, if non-empty, loads an
// ONNX value scorer for HardStrategy's blend; load
// failures are logged and leave neural scoring disabled.
func NewEngine(seed int64, neuralModelPath string) *Engine {
	e := &Engine{
		actors:   make(map[combat.ActorId]*actorState),
		sessions: make(map[combat.SessionId]*combat.CombatSession),
		schemas:  make(map[combat.SchemaUrn]*combat.Weapon),
		rng:      rand.New(rand.NewSource(seed)),
		log:      logx.Get().With().Str("component", "engine").Logger(),
	}
	if neuralModelPath != "" {
		scorer, err := neural.NewScorer(neuralModelPath)
		if err != nil {
			e.log.Warn().Err(err).Str("path", neuralModelPath).Msg("neural scorer disabled")
		} else {
			e.neural = scorer
		}
	}
	e.ctx = &combat.Context{
		Actors: e, Sessions: sessionStore{e}, Schemas: e, Equipment: e, Mass: e,
		Dice: e, Rolls: e, RNG: e, Energy: e, HP: e,
		Events: logx.NewEventSink(), Errors: logx.NewErrorSink(),
		UniqID: logx.NewTraceID, Now: func() int64 { return time.Now().UnixMilli() },
		Caches: combat.NewCaches(),
	}
	return e
}

// Context returns the wired *combat.Context, ready to pass to
// combat.DefaultReducer or any aiplanner function.
func (e *Engine) Context() *combat.Context { return e.ctx }

// Neural returns the engine's optional value scorer, for constructing a
// HardStrategy.
func (e *Engine) Neural() *neural.Scorer { return e.neural }

// RegisterActor adds a new actor to the engine's world.
func (e *Engine) RegisterActor(id combat.ActorId, location combat.PlaceId, stats combat.ActorStats, hp combat.HitPoints, weapon combat.SchemaUrn, energyMax int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.actors[id]; exists {
		return fmt.Errorf("%w: %s", ErrActorExists, id)
	}
	e.actors[id] = &actorState{
		id: id, location: location, stats: stats, hp: hp, weaponSchema: weapon,
		energyCurrent: energyMax, energyMax: energyMax,
	}
	return nil
}

// RegisterWeaponSchema adds a weapon schema to the engine's catalog.
func (e *Engine) RegisterWeaponSchema(urn combat.SchemaUrn, w *combat.Weapon) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.schemas[urn] = w
}

// NewSession creates and registers a CombatSession, wiring its DONE
// callback.
func (e *Engine) NewSession(id combat.SessionId, location combat.PlaceId, length float64) (*combat.CombatSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.sessions[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, id)
	}
	s := combat.NewSession(id, location, combat.Battlefield{LengthM: length})
	s.WireAdvanceTurn(e.ctx)
	e.sessions[id] = s
	return s, nil
}

// Join adds actor to session as a combatant and records the membership
// on the actor, so Actor.Sessions() reflects it for the cross-session
// targeting decorator.
func (e *Engine) Join(trace string, sessionID combat.SessionId, actorID combat.ActorId, team combat.TeamTag, pos combat.BattlefieldPosition) *combat.Error {
	e.mu.Lock()
	s, ok := e.sessions[sessionID]
	a, aok := e.actors[actorID]
	e.mu.Unlock()
	if !ok {
		return e.ctx.Fail(trace, combat.KindInvalidSession, "session %s not registered", sessionID)
	}
	if !aok {
		return e.ctx.Fail(trace, combat.KindActorNotFound, "actor %s not registered", actorID)
	}
	if err := s.AddCombatant(e.ctx, trace, a, team, pos); err != nil {
		return err
	}
	e.mu.Lock()
	a.sessions = append(a.sessions, sessionID)
	e.mu.Unlock()
	return nil
}

// Dispatch runs cmd through the full validation chain and logs the
// outcome via logx.
func (e *Engine) Dispatch(cmd combat.Command) ([]combat.Event, *combat.Error) {
	logger := logx.ForTrace(logx.WithTraceID(context.Background(), cmd.Trace))
	events, err := combat.DefaultReducer(e.ctx, cmd)
	if err != nil {
		logger.Warn().Str("kind", err.Kind.String()).Str("actor", string(cmd.Actor)).Msg(err.Message)
		return events, err
	}
	logger.Debug().Int("events", len(events)).Str("type", string(cmd.Type)).Msg("command dispatched")
	return events, nil
}

// --- combat.ActorStore ---

func (e *Engine) Get(id combat.ActorId) (combat.Actor, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.actors[id]
	return a, ok
}

// GetSession looks up a registered session by id.
func (e *Engine) GetSession(id combat.SessionId) (*combat.CombatSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	return s, ok
}

// sessionStore adapts Engine to combat.SessionStore under its own method
// name: Engine can't implement SessionStore directly because its
// ActorStore.Get(ActorId) already claims the method name Get.
type sessionStore struct{ e *Engine }

func (s sessionStore) Get(id combat.SessionId) (*combat.CombatSession, bool) {
	return s.e.GetSession(id)
}

// --- combat.SchemaManager ---

func (e *Engine) GetWeaponSchema(urn combat.SchemaUrn) (*combat.Weapon, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.schemas[urn]
	return w, ok
}

// --- combat.EquipmentAPI ---

func (e *Engine) GetEquippedWeaponSchema(actor combat.ActorId) (combat.SchemaUrn, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.actors[actor]
	if !ok {
		return "", false
	}
	return a.weaponSchema, a.weaponSchema != ""
}

// --- combat.MassAPI ---

func (e *Engine) ComputeActorMassGrams(actor combat.ActorId) float64 {
	return 70000 // baseline 70kg actor; hosts with equipment weight override this
}

func (e *Engine) ComputeCombatMassKg(actor combat.ActorId) float64 {
	return e.ComputeActorMassGrams(actor) / 1000
}

// --- combat.DiceRoller ---

func (e *Engine) RollDice(spec combat.DiceSpec, rng combat.RNG) combat.DiceResult {
	sides := spec.Sides
	if sides < 1 {
		sides = 1
	}
	values := make([]int, spec.Count)
	sum := 0
	for i := range values {
		v := int(rng.Float64()*float64(sides)) + 1
		if v > sides {
			v = sides
		}
		values[i] = v
		sum += v
	}
	return combat.DiceResult{Values: values, Sum: sum + spec.Bonus}
}

// --- combat.RollAPI ---

func (e *Engine) RollWeaponAccuracy(actor combat.ActorId, w *combat.Weapon) combat.RollResult {
	return e.rollD(actor, 3, 6, 0)
}

func (e *Engine) RollWeaponDamage(actor combat.ActorId, w *combat.Weapon) combat.RollResult {
	return e.rollD(actor, 2, 8, 0)
}

func (e *Engine) rollD(actor combat.ActorId, count, sides, bonus int) combat.RollResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	values := make([]int, count)
	sum := 0
	for i := range values {
		v := e.rng.Intn(sides) + 1
		values[i] = v
		sum += v
	}
	sum += bonus
	return combat.RollResult{Values: values, Sum: sum, Result: float64(sum)}
}

// --- combat.RNG ---

func (e *Engine) Float64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

// --- combat.EnergyMutator ---

func (e *Engine) ConsumeEnergy(actor combat.ActorId, joules int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.actors[actor]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownActor, actor)
	}
	if a.energyCurrent < joules {
		return fmt.Errorf("insufficient energy: have %d, need %d", a.energyCurrent, joules)
	}
	a.energyCurrent -= joules
	return nil
}

func (e *Engine) EnergyPosition(actor combat.ActorId) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.actors[actor]
	if !ok || a.energyMax <= 0 {
		return 0
	}
	return 1 - float64(a.energyCurrent)/float64(a.energyMax)
}

func (e *Engine) Energy(actor combat.ActorId) (current, max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.actors[actor]
	if !ok {
		return 0, 0
	}
	return a.energyCurrent, a.energyMax
}

// --- combat.HPMutator ---

func (e *Engine) DecrementHP(actor combat.ActorId, amount int) (remaining int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.actors[actor]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownActor, actor)
	}
	a.hp.Current -= amount
	if a.hp.Current < 0 {
		a.hp.Current = 0
	}
	return a.hp.Current, nil
}
