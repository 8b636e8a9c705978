package classifier

import (
	"encoding/json"
	"fmt"
	"slices"

	"donorcheck/internal/eligibility/features"
)

const TypeRandomForest = "random_forest"

const leaf = -1

// positiveClass is the label of the eligible class.
const positiveClass = 1

// Tree is one CART tree in array layout. Node 0 is the root; a node whose
// left child is -1 is a leaf. Value holds the per-class weight at each node,
// either counts or fractions.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Forest averages the leaf class distributions of its trees.
type Forest struct {
	NFeatures int    `json:"n_features"`
	Classes   []int  `json:"classes"`
	Trees     []Tree `json:"trees"`

	positive int
}

// DecodeForest parses and validates a random forest artifact.
func DecodeForest(data []byte) (Classifier, error) {
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode random forest: %w", err)
	}
	if err := f.init(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Forest) init() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("random forest: n_features must be positive")
	}
	if len(f.Classes) != 2 {
		return fmt.Errorf("random forest: expected 2 classes, got %v", f.Classes)
	}
	f.positive = slices.Index(f.Classes, positiveClass)
	if f.positive < 0 {
		return fmt.Errorf("random forest: classes %v do not include %d", f.Classes, positiveClass)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("random forest: no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NFeatures, len(f.Classes)); err != nil {
			return fmt.Errorf("random forest: tree %d: %w", i, err)
		}
	}
	return nil
}

// validate checks array shapes and that every child index points forward,
// which guarantees traversal terminates.
func (t *Tree) validate(nFeatures, nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf || r == leaf {
			if l != r {
				return fmt.Errorf("node %d has exactly one child", i)
			}
			if len(t.Value[i]) != nClasses {
				return fmt.Errorf("leaf %d has %d class values, want %d", i, len(t.Value[i]), nClasses)
			}
			total := 0.0
			for _, v := range t.Value[i] {
				if v < 0 {
					return fmt.Errorf("leaf %d has a negative class value", i)
				}
				total += v
			}
			if total == 0 {
				return fmt.Errorf("leaf %d has no class weight", i)
			}
			continue
		}
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has out-of-order children %d/%d", i, l, r)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, t.Feature[i], nFeatures)
		}
	}
	return nil
}

// leafFor walks from the root, going left when x[feature] <= threshold. The
// input is narrowed to float32 first because the trees were fitted on float32
// features; comparing the float64 value would send inputs within float32
// rounding of a threshold down the wrong branch.
func (t *Tree) leafFor(vec features.Vector) int {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if float64(float32(vec[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}

func (t *Tree) probability(vec features.Vector, class int) float64 {
	values := t.Value[t.leafFor(vec)]
	total := 0.0
	for _, v := range values {
		total += v
	}
	return values[class] / total
}

func (f *Forest) PredictProbability(vec features.Vector) (float64, error) {
	if err := checkDim(f.NFeatures, vec); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].probability(vec, f.positive)
	}
	return sum / float64(len(f.Trees)), nil
}

func (f *Forest) NumFeatures() int {
	return f.NFeatures
}

func (f *Forest) Type() string {
	return TypeRandomForest
}
