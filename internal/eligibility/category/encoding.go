package category

import (
	"fmt"
	"slices"

	"donorcheck/internal/eligibility"
)

// Encoding maps canonical class strings to consecutive integer codes. The
// code of a class is its index in the sorted class list, matching the label
// encoder used at training time.
type Encoding struct {
	kind    Kind
	classes []string
	codes   map[string]int
}

// NewEncoding builds an encoding from the persisted class list. Classes must
// be non-empty, unique and sorted.
func NewEncoding(kind Kind, classes []string) (*Encoding, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%s encoding has no classes", kind)
	}
	if !slices.IsSorted(classes) {
		return nil, fmt.Errorf("%s encoding classes must be sorted: %v", kind, classes)
	}
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := codes[c]; dup {
			return nil, fmt.Errorf("%s encoding has duplicate class %q", kind, c)
		}
		codes[c] = i
	}
	return &Encoding{kind: kind, classes: slices.Clone(classes), codes: codes}, nil
}

func (e *Encoding) Kind() Kind {
	return e.kind
}

// Classes returns a copy of the class list in code order.
func (e *Encoding) Classes() []string {
	return slices.Clone(e.classes)
}

// Encode returns the code of a canonical class. Strings outside the trained
// vocabulary, including differently cased ones, fail with ErrUnknownCategory.
func (e *Encoding) Encode(value string) (int, error) {
	code, ok := e.codes[value]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q is not one of %v", eligibility.ErrUnknownCategory, e.kind, value, e.classes)
	}
	return code, nil
}

// Encoders bundles the per-kind encodings.
type Encoders struct {
	byKind map[Kind]*Encoding
}

// NewEncoders requires an encoding for every kind in Kinds.
func NewEncoders(encodings ...*Encoding) (*Encoders, error) {
	byKind := make(map[Kind]*Encoding, len(encodings))
	for _, e := range encodings {
		if e == nil {
			continue
		}
		byKind[e.kind] = e
	}
	for _, k := range Kinds {
		if _, ok := byKind[k]; !ok {
			return nil, fmt.Errorf("missing %s encoding", k)
		}
	}
	return &Encoders{byKind: byKind}, nil
}

// Encode encodes value with the encoding for kind.
func (e *Encoders) Encode(kind Kind, value string) (int, error) {
	enc, ok := e.byKind[kind]
	if !ok {
		return 0, fmt.Errorf("%w: no encoding for %s", eligibility.ErrUnknownCategory, kind)
	}
	return enc.Encode(value)
}

// Encoding returns the encoding for kind, or nil.
func (e *Encoders) Encoding(kind Kind) *Encoding {
	return e.byKind[kind]
}
