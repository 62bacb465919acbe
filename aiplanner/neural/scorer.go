// Package neural runs an optional ONNX value network over a tactical
// situation, producing a single aggression/caution signal the planner
// can blend into its heuristic scoring.
package neural

import (
	"fmt"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"gorgonia.org/tensor"

	"github.com/freeeve/tacticalcombat/pkg/combat"
)

// numFeatures is the width of the feature vector EncodeSituation builds:
// AP ratio, energy ratio, primary-target distance ratio, primary-target
// health ratio, count of valid targets.
const numFeatures = 5

// Scorer wraps a loaded ONNX value model. A nil *Scorer is not valid;
// hosts that don't configure a model path should leave the planner's
// Neural field nil instead of constructing one.
type Scorer struct {
	model *gonnx.Model
	mu    sync.Mutex
}

// NewScorer loads an ONNX value model from path. The expected graph
// takes one input tensor named "situation" of shape (1, numFeatures) and
// produces one output named "value" of shape (1,1), a scalar in
// [-1, 1] where positive favors aggression.
func NewScorer(path string) (*Scorer, error) {
	model, err := gonnx.NewModelFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("neural: load model %s: %w", path, err)
	}
	return &Scorer{model: model}, nil
}

// EncodeSituation flattens a TacticalSituation into the fixed-width
// feature vector the value model expects.
func EncodeSituation(situation *combat.TacticalSituation) []float32 {
	f := make([]float32, numFeatures)

	if situation.Resources.APMax > 0 {
		f[0] = float32(situation.Resources.APCurrent / situation.Resources.APMax)
	}
	if situation.Resources.EnergyMax > 0 {
		f[1] = float32(situation.Resources.EnergyCurrent) / float32(situation.Resources.EnergyMax)
	}
	if situation.Assessments.OptimalDistance > 0 {
		f[2] = float32(situation.Assessments.PrimaryTargetDistance / situation.Assessments.OptimalDistance)
	}
	for _, t := range situation.ValidTargets {
		if situation.Assessments.PrimaryTarget != nil && t.ActorID == *situation.Assessments.PrimaryTarget {
			f[3] = float32(t.HealthRatio)
			break
		}
	}
	f[4] = float32(len(situation.ValidTargets))

	return f
}

// Evaluate runs the value model over situation and returns its scalar
// signal, clamped to [-1, 1].
func (s *Scorer) Evaluate(situation *combat.TacticalSituation) (float64, error) {
	features := EncodeSituation(situation)

	input := tensor.New(
		tensor.WithShape(1, numFeatures),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(features),
	)

	s.mu.Lock()
	outputs, err := s.model.Run(gonnx.Tensors{"situation": input})
	s.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("neural: inference: %w", err)
	}

	out, ok := outputs["value"]
	if !ok {
		return 0, fmt.Errorf("neural: output %q not found", "value")
	}

	value, err := scalarOf(out.Data())
	if err != nil {
		return 0, err
	}
	if value > 1 {
		value = 1
	}
	if value < -1 {
		value = -1
	}
	return value, nil
}

func scalarOf(data any) (float64, error) {
	switch d := data.(type) {
	case []float32:
		if len(d) == 0 {
			return 0, fmt.Errorf("neural: empty output")
		}
		return float64(d[0]), nil
	case []float64:
		if len(d) == 0 {
			return 0, fmt.Errorf("neural: empty output")
		}
		return d[0], nil
	default:
		return 0, fmt.Errorf("neural: unexpected output type %T", data)
	}
}
