package aiplanner

import "github.com/freeeve/tacticalcombat/pkg/combat"

// testharness_test.go builds a minimal in-memory combat.Context the same
// way pkg/combat's own tests do, since aiplanner only ever receives a
// *combat.Context from its host and never constructs one itself.

type fakeActor struct {
	id       combat.ActorId
	location combat.PlaceId
	stats    combat.ActorStats
	hp       combat.HitPoints
	weapon   combat.SchemaUrn
}

func (a *fakeActor) ID() combat.ActorId                     { return a.id }
func (a *fakeActor) Location() combat.PlaceId               { return a.location }
func (a *fakeActor) Stats() combat.ActorStats               { return a.stats }
func (a *fakeActor) HP() combat.HitPoints                   { return a.hp }
func (a *fakeActor) Alive() bool                            { return a.hp.Current > 0 }
func (a *fakeActor) EquippedWeaponSchema() combat.SchemaUrn { return a.weapon }
func (a *fakeActor) Sessions() []combat.SessionId           { return nil }

type fakeWorld struct {
	actors   map[combat.ActorId]*fakeActor
	sessions map[combat.SessionId]*combat.CombatSession
	schemas  map[combat.SchemaUrn]*combat.Weapon

	energyCurrent map[combat.ActorId]int
	energyMax     map[combat.ActorId]int
	massGrams     map[combat.ActorId]float64
	rngValues     []float64
	rngIdx        int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		actors:        make(map[combat.ActorId]*fakeActor),
		sessions:      make(map[combat.SessionId]*combat.CombatSession),
		schemas:       make(map[combat.SchemaUrn]*combat.Weapon),
		energyCurrent: make(map[combat.ActorId]int),
		energyMax:     make(map[combat.ActorId]int),
		massGrams:     make(map[combat.ActorId]float64),
	}
}

func (w *fakeWorld) Get(id combat.ActorId) (combat.Actor, bool) {
	a, ok := w.actors[id]
	if !ok {
		return nil, false
	}
	return a, true
}
func (w *fakeWorld) GetSession(id combat.SessionId) (*combat.CombatSession, bool) {
	s, ok := w.sessions[id]
	return s, ok
}
func (w *fakeWorld) GetWeaponSchema(urn combat.SchemaUrn) (*combat.Weapon, bool) {
	s, ok := w.schemas[urn]
	return s, ok
}
func (w *fakeWorld) GetEquippedWeaponSchema(actor combat.ActorId) (combat.SchemaUrn, bool) {
	a, ok := w.actors[actor]
	if !ok || a.weapon == "" {
		return "", false
	}
	return a.weapon, true
}
func (w *fakeWorld) ComputeActorMassGrams(actor combat.ActorId) float64 {
	if m, ok := w.massGrams[actor]; ok {
		return m
	}
	return 70000
}
func (w *fakeWorld) ComputeCombatMassKg(actor combat.ActorId) float64 {
	return w.ComputeActorMassGrams(actor) / 1000
}
func (w *fakeWorld) RollWeaponAccuracy(actor combat.ActorId, _ *combat.Weapon) combat.RollResult {
	return combat.RollResult{Result: 10}
}
func (w *fakeWorld) RollWeaponDamage(actor combat.ActorId, _ *combat.Weapon) combat.RollResult {
	return combat.RollResult{Sum: 5, Result: 5}
}
func (w *fakeWorld) Float64() float64 {
	if w.rngIdx >= len(w.rngValues) {
		return 0.5
	}
	v := w.rngValues[w.rngIdx]
	w.rngIdx++
	return v
}
func (w *fakeWorld) ConsumeEnergy(actor combat.ActorId, joules int) error {
	w.energyCurrent[actor] -= joules
	return nil
}
func (w *fakeWorld) EnergyPosition(actor combat.ActorId) float64 {
	max := w.energyMax[actor]
	if max <= 0 {
		return 0
	}
	return 1 - float64(w.energyCurrent[actor])/float64(max)
}
func (w *fakeWorld) Energy(actor combat.ActorId) (int, int) {
	return w.energyCurrent[actor], w.energyMax[actor]
}
func (w *fakeWorld) DecrementHP(actor combat.ActorId, amount int) (int, error) {
	a := w.actors[actor]
	a.hp.Current -= amount
	if a.hp.Current < 0 {
		a.hp.Current = 0
	}
	return a.hp.Current, nil
}
func (w *fakeWorld) DeclareEvent(e combat.Event)  {}
func (w *fakeWorld) DeclareError(e *combat.Error) {}

func newTestContext() (*combat.Context, *fakeWorld) {
	w := newFakeWorld()
	ctx := &combat.Context{
		Actors: w, Sessions: sessionAdapter{w}, Schemas: w, Equipment: w, Mass: w,
		Rolls: w, RNG: w, Energy: w, HP: w, Events: w, Errors: w,
		UniqID: func() string { return "evt" },
		Caches: combat.NewCaches(),
	}
	return ctx, w
}

type sessionAdapter struct{ w *fakeWorld }

func (s sessionAdapter) Get(id combat.SessionId) (*combat.CombatSession, bool) {
	return s.w.GetSession(id)
}

func swordSchema() *combat.Weapon {
	return &combat.Weapon{
		URN: "urn:weapon:sword", BaseMassGrams: 1200,
		Range: combat.WeaponRange{Optimal: 1, Max: 1},
		Fit:   map[string]int{"main_hand": 1},
	}
}

func greatswordSchema() *combat.Weapon {
	return &combat.Weapon{
		URN: "urn:weapon:greatsword", BaseMassGrams: 3000,
		Range: combat.WeaponRange{Optimal: 2, Max: 2},
		Fit:   map[string]int{"main_hand": 1, "off_hand": 1},
	}
}

func bowSchema() *combat.Weapon {
	falloff := 5.0
	return &combat.Weapon{
		URN: "urn:weapon:bow", BaseMassGrams: 900,
		Range: combat.WeaponRange{Optimal: 10, Max: 30, Falloff: &falloff},
		Fit:   map[string]int{"main_hand": 1, "off_hand": 1},
	}
}

func defaultStats() combat.ActorStats {
	return combat.ActorStats{Pow: 10, Fin: 10, Res: 10, Int: 10, Per: 10, Mem: 10}
}

func (w *fakeWorld) addActor(id combat.ActorId, stats combat.ActorStats, hp int, weapon combat.SchemaUrn) *fakeActor {
	a := &fakeActor{id: id, location: "field", stats: stats, hp: combat.HitPoints{Current: hp, Max: hp}, weapon: weapon}
	w.actors[id] = a
	w.energyCurrent[id] = 20000
	w.energyMax[id] = 20000
	return a
}

// setupDuel builds a two-combatant session with actor "a" wielding weapon
// at distance apart, and returns it started.
func setupDuel(t testingT, weapon combat.SchemaUrn, schema *combat.Weapon, distance float64) (*combat.Context, *fakeWorld, *combat.CombatSession) {
	ctx, w := newTestContext()
	s := combat.NewSession("sess1", "field", combat.NewDefaultBattlefield())
	a := w.addActor("a", defaultStats(), 10, weapon)
	b := w.addActor("b", defaultStats(), 10, "")
	w.schemas[weapon] = schema
	if err := s.AddCombatant(ctx, "t1", a, "red", combat.BattlefieldPosition{Coordinate: 0, Facing: 1}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := s.AddCombatant(ctx, "t1", b, "blue", combat.BattlefieldPosition{Coordinate: distance, Facing: -1}); err != nil {
		t.Fatalf("add b: %v", err)
	}
	if _, err := s.StartCombat(ctx, "t1"); err != nil {
		t.Fatalf("StartCombat: %v", err)
	}
	w.sessions["sess1"] = s
	return ctx, w, s
}

// testingT is the minimal subset of *testing.T setupDuel needs, so it can
// be called from table-driven subtests without importing "testing" twice.
type testingT interface {
	Fatalf(format string, args ...any)
}
