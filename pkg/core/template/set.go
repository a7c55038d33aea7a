package template

import "fmt"

// Set pairs a right-handed template with its mirrored left-handed variant.
type Set struct {
	Right *Template
	Left  *Template
}

// ParseSet parses both variants.
func ParseSet(right, left []byte) (*Set, error) {
	r, err := ParseBytes(right)
	if err != nil {
		return nil, fmt.Errorf("right-handed template: %w", err)
	}
	l, err := ParseBytes(left)
	if err != nil {
		return nil, fmt.Errorf("left-handed template: %w", err)
	}
	return &Set{Right: r, Left: l}, nil
}

// LoadSet parses the template files at right and left.
func LoadSet(right, left string) (*Set, error) {
	r, err := Load(right)
	if err != nil {
		return nil, err
	}
	l, err := Load(left)
	if err != nil {
		return nil, err
	}
	return &Set{Right: r, Left: l}, nil
}

// For returns the variant for the given handedness.
func (s *Set) For(leftHanded bool) *Template {
	if leftHanded {
		return s.Left
	}
	return s.Right
}
