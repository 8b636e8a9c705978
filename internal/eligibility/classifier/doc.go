// Package classifier scores scaled feature vectors with a persisted binary
// model. Models are opaque to the rest of the pipeline: a fixed-length vector
// in, the positive-class probability out.
//
// A model artifact is a JSON object whose "type" field selects the decoder.
//
// A "random_forest" artifact is an ensemble of CART trees in the array layout
// of a fitted scikit-learn tree:
//
//	{
//	  "type": "random_forest",
//	  "n_features": 14,
//	  "classes": [0, 1],
//	  "trees": [{
//	    "children_left":  [1, -1, -1],
//	    "children_right": [2, -1, -1],
//	    "feature":        [8, -2, -2],
//	    "threshold":      [0.5, -2, -2],
//	    "value":          [[40, 60], [10, 50], [30, 10]]
//	  }]
//	}
//
// Node 0 is the root and a node whose children_left entry is -1 is a leaf;
// feature and threshold are ignored at leaves. Children always have larger
// indices than their parent. At an internal node the feature value is first
// narrowed to float32, the precision the trees were fitted in, and the walk
// goes left when it is <= threshold. value holds per-class weights (counts or
// fractions) ordered like classes, which must contain exactly the labels 0
// and 1. The forest probability is the mean over trees of the leaf's class-1
// fraction.
//
// A "logistic" artifact is a linear model on the same scaled inputs:
//
//	{"type": "logistic", "coef": [0.4, -1.2, ...], "intercept": 0.1}
//
// Its probability is 1 / (1 + exp(-(intercept + coef . x))).
package classifier
