package combat

// EventType enumerates the world event taxonomy relevant to the core.
// Events are append-only and immutable once declared.
type EventType string

const (
	EventCombatantDidAttack        EventType = "COMBATANT_DID_ATTACK"
	EventCombatantWasAttacked      EventType = "COMBATANT_WAS_ATTACKED"
	EventCombatantDidDie           EventType = "COMBATANT_DID_DIE"
	EventCombatantDidDefend        EventType = "COMBATANT_DID_DEFEND"
	EventCombatantDidAcquireTarget EventType = "COMBATANT_DID_ACQUIRE_TARGET"
	EventActorDidMoveInCombat      EventType = "ACTOR_DID_MOVE_IN_COMBAT"
	EventCombatTurnDidStart        EventType = "COMBAT_TURN_DID_START"
	EventCombatTurnDidEnd          EventType = "COMBAT_TURN_DID_END"
)

// AttackType distinguishes which action primitive produced an attack.
type AttackType string

const (
	AttackStrike AttackType = "STRIKE"
	AttackCleave AttackType = "CLEAVE"
)

// AttackOutcome is the result of resolving a single attack against a target.
type AttackOutcome string

const (
	OutcomeHit  AttackOutcome = "HIT"
	OutcomeMiss AttackOutcome = "MISS"
)

// Event is the append-only world event record.
type Event struct {
	ID       string
	TS       int64
	Trace    string
	Type     EventType
	Actor    ActorId
	Location PlaceId
	Session  SessionId
	Payload  any
}

// Payload shapes, one per event type that carries structured data.

// AttackPayload is the payload of COMBATANT_DID_ATTACK.
type AttackPayload struct {
	Target       ActorId
	AttackType   AttackType
	Cost         ActionCost
	Roll         RollResult
	AttackRating float64
}

// WasAttackedPayload is the payload of COMBATANT_WAS_ATTACKED.
type WasAttackedPayload struct {
	Source        ActorId
	Type          AttackType
	Outcome       AttackOutcome
	AttackRating  float64
	EvasionRating float64
	Damage        int
}

// DiedPayload is the payload of COMBATANT_DID_DIE.
type DiedPayload struct {
	Killer ActorId
}

// DefendPayload is the payload of COMBATANT_DID_DEFEND.
type DefendPayload struct {
	Cost ActionCost
}

// AcquireTargetPayload is the payload of COMBATANT_DID_ACQUIRE_TARGET.
type AcquireTargetPayload struct {
	Target ActorId
}

// MovePayload is the payload of ACTOR_DID_MOVE_IN_COMBAT.
type MovePayload struct {
	From      float64
	To        float64
	Distance  float64
	Direction int
	Cost      ActionCost
}

// TurnStartPayload is the payload of COMBAT_TURN_DID_START.
type TurnStartPayload struct {
	Round int
	Turn  int
}

// TurnEndPayload is the payload of COMBAT_TURN_DID_END.
type TurnEndPayload struct {
	Before    float64
	After     float64
	Recovered float64
}
