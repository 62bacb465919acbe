package combat

// testharness_test.go builds a minimal in-memory Context implementation
// shared by every test in this package: a fake ActorStore/SessionStore/
// SchemaManager/RollAPI/EnergyMutator/HPMutator backed by plain maps, so
// tests exercise the reducers the way a host would without depending on
// internal/service.

type fakeActor struct {
	id       ActorId
	location PlaceId
	stats    ActorStats
	hp       HitPoints
	weapon   SchemaUrn
	sessions []SessionId
}

func (a *fakeActor) ID() ActorId                     { return a.id }
func (a *fakeActor) Location() PlaceId               { return a.location }
func (a *fakeActor) Stats() ActorStats               { return a.stats }
func (a *fakeActor) HP() HitPoints                   { return a.hp }
func (a *fakeActor) Alive() bool                     { return a.hp.Current > 0 }
func (a *fakeActor) EquippedWeaponSchema() SchemaUrn { return a.weapon }
func (a *fakeActor) Sessions() []SessionId           { return a.sessions }

type fakeWorld struct {
	actors   map[ActorId]*fakeActor
	sessions map[SessionId]*CombatSession
	schemas  map[SchemaUrn]*Weapon

	energyCurrent map[ActorId]int
	energyMax     map[ActorId]int
	massGrams     map[ActorId]float64

	accuracyRolls map[ActorId][]RollResult
	damageRolls   map[ActorId][]RollResult
	rngValues     []float64
	rngIdx        int

	events []Event
	errs   []*Error
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		actors:        make(map[ActorId]*fakeActor),
		sessions:      make(map[SessionId]*CombatSession),
		schemas:       make(map[SchemaUrn]*Weapon),
		energyCurrent: make(map[ActorId]int),
		energyMax:     make(map[ActorId]int),
		massGrams:     make(map[ActorId]float64),
		accuracyRolls: make(map[ActorId][]RollResult),
		damageRolls:   make(map[ActorId][]RollResult),
	}
}

func (w *fakeWorld) Get(id ActorId) (Actor, bool) {
	a, ok := w.actors[id]
	if !ok {
		return nil, false
	}
	return a, true
}

func (w *fakeWorld) GetSession(id SessionId) (*CombatSession, bool) {
	s, ok := w.sessions[id]
	return s, ok
}

func (w *fakeWorld) GetWeaponSchema(urn SchemaUrn) (*Weapon, bool) {
	s, ok := w.schemas[urn]
	return s, ok
}

func (w *fakeWorld) GetEquippedWeaponSchema(actor ActorId) (SchemaUrn, bool) {
	a, ok := w.actors[actor]
	if !ok || a.weapon == "" {
		return "", false
	}
	return a.weapon, true
}

func (w *fakeWorld) ComputeActorMassGrams(actor ActorId) float64 {
	if m, ok := w.massGrams[actor]; ok {
		return m
	}
	return 70000
}

func (w *fakeWorld) ComputeCombatMassKg(actor ActorId) float64 {
	return w.ComputeActorMassGrams(actor) / 1000
}

func (w *fakeWorld) RollWeaponAccuracy(actor ActorId, _ *Weapon) RollResult {
	q := w.accuracyRolls[actor]
	if len(q) == 0 {
		return RollResult{Result: 10}
	}
	r := q[0]
	w.accuracyRolls[actor] = q[1:]
	return r
}

func (w *fakeWorld) RollWeaponDamage(actor ActorId, _ *Weapon) RollResult {
	q := w.damageRolls[actor]
	if len(q) == 0 {
		return RollResult{Sum: 10, Result: 10}
	}
	r := q[0]
	w.damageRolls[actor] = q[1:]
	return r
}

func (w *fakeWorld) Float64() float64 {
	if w.rngIdx >= len(w.rngValues) {
		return 0.5
	}
	v := w.rngValues[w.rngIdx]
	w.rngIdx++
	return v
}

func (w *fakeWorld) ConsumeEnergy(actor ActorId, joules int) error {
	w.energyCurrent[actor] -= joules
	return nil
}

func (w *fakeWorld) EnergyPosition(actor ActorId) float64 {
	max := w.energyMax[actor]
	if max <= 0 {
		return 0
	}
	return 1 - float64(w.energyCurrent[actor])/float64(max)
}

func (w *fakeWorld) Energy(actor ActorId) (int, int) {
	return w.energyCurrent[actor], w.energyMax[actor]
}

func (w *fakeWorld) DecrementHP(actor ActorId, amount int) (int, error) {
	a := w.actors[actor]
	a.hp.Current -= amount
	if a.hp.Current < 0 {
		a.hp.Current = 0
	}
	return a.hp.Current, nil
}

func (w *fakeWorld) DeclareEvent(e Event)  { w.events = append(w.events, e) }
func (w *fakeWorld) DeclareError(e *Error) { w.errs = append(w.errs, e) }

// newTestContext builds a ready-to-use *Context wired to a fresh
// fakeWorld, plus the fakeWorld itself for assertions/setup.
func newTestContext() (*Context, *fakeWorld) {
	w := newFakeWorld()
	ctx := &Context{
		Actors: w, Sessions: sessionAdapter{w}, Schemas: w, Equipment: w, Mass: w,
		Rolls: w, RNG: w, Energy: w, HP: w, Events: w, Errors: w,
		UniqID: func() string { return "evt" },
		Caches: NewCaches(),
	}
	return ctx, w
}

type sessionAdapter struct{ w *fakeWorld }

func (s sessionAdapter) Get(id SessionId) (*CombatSession, bool) { return s.w.GetSession(id) }

// swordSchema is a baseline melee weapon: optimal=1, max=1, one-handed.
func swordSchema() *Weapon {
	return &Weapon{
		URN: "urn:weapon:sword", BaseMassGrams: 1200,
		Range: WeaponRange{Optimal: 1, Max: 1},
		Fit:   map[string]int{"main_hand": 1},
	}
}

// greatswordSchema is a two-handed reach weapon: optimal=2, max=2.
func greatswordSchema() *Weapon {
	return &Weapon{
		URN: "urn:weapon:greatsword", BaseMassGrams: 3000,
		Range: WeaponRange{Optimal: 2, Max: 2},
		Fit:   map[string]int{"main_hand": 1, "off_hand": 1},
	}
}

// bowSchema is a ranged weapon with falloff.
func bowSchema() *Weapon {
	falloff := 5.0
	return &Weapon{
		URN: "urn:weapon:bow", BaseMassGrams: 900,
		Range: WeaponRange{Optimal: 10, Max: 30, Falloff: &falloff},
		Fit:   map[string]int{"main_hand": 1, "off_hand": 1},
	}
}

func defaultStats() ActorStats {
	return ActorStats{Pow: 10, Fin: 10, Res: 10, Int: 10, Per: 10, Mem: 10}
}

// addActor registers a living actor with the given hp/weapon at location
// "field", and returns it.
func (w *fakeWorld) addActor(id ActorId, stats ActorStats, hp int, weapon SchemaUrn) *fakeActor {
	a := &fakeActor{id: id, location: "field", stats: stats, hp: HitPoints{Current: hp, Max: hp}, weapon: weapon}
	w.actors[id] = a
	w.energyCurrent[id] = 20000
	w.energyMax[id] = 20000
	return a
}
