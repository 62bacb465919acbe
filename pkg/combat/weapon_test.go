package combat

import "testing"

func TestClassify_Melee(t *testing.T) {
	if got := Classify(swordSchema()); got != ClassMelee {
		t.Errorf("Classify(sword) = %v, want MELEE", got)
	}
}

func TestClassify_Reach(t *testing.T) {
	if got := Classify(greatswordSchema()); got != ClassReach {
		t.Errorf("Classify(greatsword) = %v, want REACH", got)
	}
}

func TestClassify_Ranged(t *testing.T) {
	if got := Classify(bowSchema()); got != ClassRanged {
		t.Errorf("Classify(bow) = %v, want RANGED", got)
	}
}

func TestClassify_RangedTakesPrecedenceOverOptimal(t *testing.T) {
	falloff := 1.0
	w := &Weapon{Range: WeaponRange{Optimal: 1, Max: 5, Falloff: &falloff}}
	if got := Classify(w); got != ClassRanged {
		t.Errorf("a weapon with falloff is RANGED regardless of optimal range, got %v", got)
	}
}

func TestIsTwoHanded(t *testing.T) {
	if IsTwoHanded(swordSchema()) {
		t.Error("sword (main_hand:1) should be one-handed")
	}
	if !IsTwoHanded(greatswordSchema()) {
		t.Error("greatsword (main_hand:1, off_hand:1) should be two-handed")
	}
}

func TestCanWeaponHitFromDistance(t *testing.T) {
	sword := swordSchema()
	if !CanWeaponHitFromDistance(sword, 1) {
		t.Error("sword should hit at its max range of 1")
	}
	if CanWeaponHitFromDistance(sword, 1.5) {
		t.Error("sword should not hit beyond its max range")
	}
}

func TestCanWeaponHitFromDistance_RespectsMinRange(t *testing.T) {
	min := 5.0
	w := &Weapon{Range: WeaponRange{Optimal: 10, Max: 30, Min: &min}}
	if CanWeaponHitFromDistance(w, 2) {
		t.Error("weapon with min range 5 should not hit at distance 2")
	}
	if !CanWeaponHitFromDistance(w, 10) {
		t.Error("weapon with min range 5 should hit at distance 10")
	}
}
