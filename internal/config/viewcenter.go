package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CenterMode selects the point the structure is centered on.
type CenterMode string

const (
	// COP centers on the mean atom position.
	COP CenterMode = "COP"
	// COC centers on the middle of the cell, (a+b+c)/2.
	COC CenterMode = "COC"
	// Fixed centers on an explicit cartesian point.
	Fixed CenterMode = "point"
)

// ViewCenter is encoded as "COP", "COC" or a flow sequence [x, y, z].
type ViewCenter struct {
	Mode  CenterMode
	Point [3]float64
}

func CenterOfPositions() ViewCenter { return ViewCenter{Mode: COP} }

func CenterOfCell() ViewCenter { return ViewCenter{Mode: COC} }

func CenterAt(x, y, z float64) ViewCenter {
	return ViewCenter{Mode: Fixed, Point: [3]float64{x, y, z}}
}

func (v ViewCenter) String() string {
	if v.Mode == Fixed {
		return fmt.Sprintf("[%g, %g, %g]", v.Point[0], v.Point[1], v.Point[2])
	}
	return string(v.Mode)
}

func (v ViewCenter) validate() error {
	switch v.Mode {
	case COP, COC, Fixed:
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrUnknownViewCenter, v.Mode)
}

func (v *ViewCenter) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		mode := CenterMode(value.Value)
		if mode != COP && mode != COC {
			return fmt.Errorf("%w: line %d: got %q", ErrUnknownViewCenter, value.Line, value.Value)
		}
		*v = ViewCenter{Mode: mode}
		return nil
	case yaml.SequenceNode:
		var p [3]float64
		if len(value.Content) != 3 {
			return fmt.Errorf("%w: line %d: got %d components", ErrUnknownViewCenter, value.Line, len(value.Content))
		}
		if err := value.Decode(&p); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrUnknownViewCenter, value.Line, err)
		}
		*v = ViewCenter{Mode: Fixed, Point: p}
		return nil
	}
	return fmt.Errorf("%w: line %d", ErrUnknownViewCenter, value.Line)
}

func (v ViewCenter) MarshalYAML() (any, error) {
	if v.Mode != Fixed {
		return string(v.Mode), nil
	}
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range v.Point {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(c)})
	}
	return n, nil
}
