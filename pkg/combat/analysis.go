package combat

import "math"

// Falloff caps ranged effectiveness decay at three falloff ranges past
// optimal.
const rangedFalloffCap = 3.0

// TargetInfo is one entry of a TacticalSituation's valid_targets.
type TargetInfo struct {
	ActorID     ActorId
	Distance    float64
	InRange     bool
	IsOptimal   bool
	HealthRatio float64
}

// Resources mirrors a combatant's current/max budgets.
type Resources struct {
	APCurrent     float64
	APMax         float64
	EnergyCurrent int
	EnergyMax     int
}

// Assessments is the derived summary a planner reads first.
type Assessments struct {
	PrimaryTarget         *ActorId
	PrimaryTargetDistance float64
	CanAttack             bool
	NeedsRepositioning    bool
	OptimalDistance       float64
}

// TacticalSituation is analyze_battlefield's return value: a frozen
// snapshot an AI pass reasons over. Its caches must never outlive the
// pass that built it.
type TacticalSituation struct {
	Actor        ActorId
	ValidTargets []TargetInfo
	Resources    Resources
	Assessments  Assessments
}

// AnalyzeBattlefield builds a TacticalSituation for actorID wielding w.
// Distances are cached into ctx.Caches.Distance as they're computed,
// matching the per-pass memoization contract.
func AnalyzeBattlefield(ctx *Context, trace string, s *CombatSession, actorID ActorId, w *Weapon) (*TacticalSituation, *Error) {
	c, ok := s.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindCombatantNotFound, "actor %s is not in session %s", actorID, s.ID)
	}
	if _, ok := ctx.Actors.Get(actorID); !ok {
		return nil, ctx.fail(trace, KindActorNotFound, "actor %s not found", actorID)
	}

	var targets []TargetInfo
	var primary *ActorId
	var primaryDist float64
	bestEffectiveness := -1.0

	for _, id := range s.order {
		if !AreEnemies(actorID, id, s.combatants) {
			continue
		}
		oc := s.combatants[id]
		ta, ok := ctx.Actors.Get(id)
		if !ok || !ta.Alive() {
			continue
		}
		dist := cachedDistance(ctx, c, oc, actorID, id)
		eff := AssessWeaponCapabilities(w, dist)
		info := TargetInfo{
			ActorID:     id,
			Distance:    dist,
			InRange:     CanWeaponHitFromDistance(w, dist),
			IsOptimal:   dist == w.Range.Optimal,
			HealthRatio: healthRatio(ta.HP()),
		}
		targets = append(targets, info)

		if info.InRange && eff > bestEffectiveness {
			bestEffectiveness = eff
			idCopy := id
			primary = &idCopy
			primaryDist = dist
		}
	}

	energyCurrent, energyMax := 0, 0
	if ctx.Energy != nil {
		energyCurrent, energyMax = ctx.Energy.Energy(actorID)
	}

	canAttack := primary != nil
	needsReposition := !canAttack && len(targets) > 0

	return &TacticalSituation{
		Actor:        actorID,
		ValidTargets: targets,
		Resources: Resources{
			APCurrent: c.APCurrent, APMax: c.APMax,
			EnergyCurrent: energyCurrent, EnergyMax: energyMax,
		},
		Assessments: Assessments{
			PrimaryTarget: primary, PrimaryTargetDistance: primaryDist,
			CanAttack: canAttack, NeedsRepositioning: needsReposition,
			OptimalDistance: w.Range.Optimal,
		},
	}, nil
}

func cachedDistance(ctx *Context, self, other *Combatant, selfID, otherID ActorId) float64 {
	if ctx.Caches != nil {
		if row, ok := ctx.Caches.Distance[selfID]; ok {
			if d, ok := row[otherID]; ok {
				return d
			}
		}
	}
	d := DistanceBetween(self, other)
	if ctx.Caches != nil {
		row, ok := ctx.Caches.Distance[selfID]
		if !ok {
			row = make(map[ActorId]float64)
			ctx.Caches.Distance[selfID] = row
		}
		row[otherID] = d
	}
	return d
}

func healthRatio(hp HitPoints) float64 {
	if hp.Max <= 0 {
		return 0
	}
	return float64(hp.Current) / float64(hp.Max)
}

// AssessWeaponCapabilities returns a weapon's effectiveness in [0,1] at
// distance d.
func AssessWeaponCapabilities(w *Weapon, d float64) float64 {
	switch Classify(w) {
	case ClassMelee:
		if d <= 1 {
			return 1.0
		}
		return 0
	case ClassReach:
		if d == w.Range.Optimal {
			return 1.0
		}
		return 0
	case ClassRanged:
		if d <= w.Range.Optimal {
			return 1.0
		}
		if w.Range.Falloff == nil || *w.Range.Falloff <= 0 {
			return 0
		}
		k := (d - w.Range.Optimal) / *w.Range.Falloff
		if k > rangedFalloffCap {
			return 0
		}
		return math.Pow(0.5, k)
	default:
		return 0
	}
}

// PositioningRecommendation is evaluate_positioning's verdict.
type PositioningRecommendation struct {
	Recommend    bool
	BestPosition float64
	BestScore    float64
	CurrentScore float64
}

// EvaluatePositioning samples candidate positions within actorID's
// current movement range and scores each for battlefield centrality and
// distance control against target (if any), recommending a reposition
// when the best candidate beats the current position by >=10 points.
func EvaluatePositioning(ctx *Context, trace string, s *CombatSession, actorID ActorId, target *ActorId) (*PositioningRecommendation, *Error) {
	c, ok := s.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindCombatantNotFound, "actor %s is not in session %s", actorID, s.ID)
	}
	actor, ok := ctx.Actors.Get(actorID)
	if !ok {
		return nil, ctx.fail(trace, KindActorNotFound, "actor %s not found", actorID)
	}
	stats := actor.Stats()
	massKg := ctx.Mass.ComputeCombatMassKg(actorID)

	var optimal float64
	var targetCombatant *Combatant
	if target != nil {
		if tc, ok := s.Get(*target); ok {
			targetCombatant = tc
			if w, err := resolveWeapon(ctx, trace, actorID); err == nil {
				optimal = w.Range.Optimal
			}
		}
	}

	score := func(pos float64) float64 {
		center := s.Field.LengthM / 2
		centrality := 50 * (1 - math.Abs(pos-center)/center)
		rangeControl := 0.0
		if targetCombatant != nil && optimal > 0 {
			distAtPos := math.Abs(targetCombatant.Position.Coordinate - pos)
			rangeControl = 50 * math.Max(0, 1-math.Abs(distAtPos-optimal)/optimal)
		}
		return centrality + rangeControl
	}

	current := c.Position.Coordinate
	currentScore := score(current)

	maxRange := APToDistance(float64(stats.Pow), float64(stats.Fin), c.APCurrent, massKg)
	lo := math.Max(0, current-maxRange)
	hi := math.Min(s.Field.LengthM, current+maxRange)

	bestScore := currentScore
	bestPos := current
	for pos := math.Floor(lo); pos <= math.Ceil(hi); pos++ {
		sc := score(pos)
		if sc > bestScore {
			bestScore = sc
			bestPos = pos
		}
	}

	return &PositioningRecommendation{
		Recommend:    bestScore-currentScore >= 10,
		BestPosition: bestPos,
		BestScore:    bestScore,
		CurrentScore: currentScore,
	}, nil
}
