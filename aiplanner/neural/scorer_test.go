package neural

import (
	"testing"

	"github.com/freeeve/tacticalcombat/pkg/combat"
)

func TestEncodeSituation_NormalizesResourceRatios(t *testing.T) {
	target := combat.ActorId("b")
	situation := &combat.TacticalSituation{
		ValidTargets: []combat.TargetInfo{{ActorID: "b", HealthRatio: 0.5}},
		Resources:    combat.Resources{APCurrent: 3, APMax: 6, EnergyCurrent: 5000, EnergyMax: 20000},
		Assessments:  combat.Assessments{PrimaryTarget: &target, PrimaryTargetDistance: 2, OptimalDistance: 4},
	}
	f := EncodeSituation(situation)
	if len(f) != numFeatures {
		t.Fatalf("expected %d features, got %d", numFeatures, len(f))
	}
	if f[0] != 0.5 {
		t.Errorf("AP ratio = %v, want 0.5", f[0])
	}
	if f[1] != 0.25 {
		t.Errorf("energy ratio = %v, want 0.25", f[1])
	}
	if f[2] != 0.5 {
		t.Errorf("distance ratio = %v, want 0.5", f[2])
	}
	if f[3] != 0.5 {
		t.Errorf("primary target health ratio = %v, want 0.5", f[3])
	}
	if f[4] != 1 {
		t.Errorf("valid target count = %v, want 1", f[4])
	}
}

func TestEncodeSituation_ZeroMaxesDoNotDivideByZero(t *testing.T) {
	situation := &combat.TacticalSituation{}
	f := EncodeSituation(situation)
	for i, v := range f {
		if v != 0 {
			t.Errorf("feature[%d] = %v, want 0 when maxes are zero", i, v)
		}
	}
}
