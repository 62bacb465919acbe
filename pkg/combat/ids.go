// Package combat implements the tactical combat engine: combat sessions,
// action primitives, movement physics, and the tactical rounding
// discipline that gives the battlefield its grid-like feel.
package combat

// ActorId, SessionId, PlaceId and SchemaUrn are opaque string handles.
// Equality is by bytes; no ordering is implied beyond Go's string
// comparison, which this package never relies on for game logic.
type (
	ActorId   string
	SessionId string
	PlaceId   string
	SchemaUrn string
)

// TeamTag groups combatants into allied factions.
type TeamTag string
