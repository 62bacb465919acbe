package combat

// BattlefieldPosition is a combatant's place on the 1-D battlefield.
type BattlefieldPosition struct {
	Coordinate float64 // meters, tactically rounded
	Facing     int     // -1 or +1
	Speed      float64
}

// Battlefield bounds the playable coordinate range.
type Battlefield struct {
	LengthM float64
}

// DefaultBattlefieldLength is the standard battlefield length in meters.
const DefaultBattlefieldLength = 300.0

// NewDefaultBattlefield returns a battlefield of DefaultBattlefieldLength.
func NewDefaultBattlefield() Battlefield {
	return Battlefield{LengthM: DefaultBattlefieldLength}
}

// InBounds reports whether coordinate lies within [0, LengthM].
func (b Battlefield) InBounds(coordinate float64) bool {
	return coordinate >= 0 && coordinate <= b.LengthM
}
