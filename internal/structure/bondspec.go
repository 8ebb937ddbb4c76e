package structure

import (
	"encoding/json"
	"fmt"

	"github.com/san-kum/structview/internal/bonds"
	"gopkg.in/yaml.v3"
)

// BondSpec is the "bonds" field of a descriptor: "auto", "off" or a list of
// index pairs. The zero value is "auto".
type BondSpec struct {
	Mode  bonds.Mode
	Pairs []bonds.Pair
}

// AutoBonds, NoBonds and ExplicitBonds build the three accepted forms.
func AutoBonds() BondSpec { return BondSpec{Mode: bonds.Auto} }

func NoBonds() BondSpec { return BondSpec{Mode: bonds.Off} }

func ExplicitBonds(pairs ...bonds.Pair) BondSpec {
	return BondSpec{Mode: bonds.Explicit, Pairs: pairs}
}

func (b BondSpec) valid() bool {
	switch b.Mode {
	case bonds.Auto, bonds.Off, bonds.Explicit:
		return true
	}
	return false
}

func (b *BondSpec) setKeyword(s string) error {
	switch s {
	case "auto":
		*b = AutoBonds()
	case "off":
		*b = NoBonds()
	default:
		return invalid("bonds", ErrInvalidBonds, "got %q", s)
	}
	return nil
}

func (b *BondSpec) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = AutoBonds()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return invalid("bonds", ErrInvalidBonds, "%v", err)
		}
		return b.setKeyword(s)
	}
	var pairs []bonds.Pair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return invalid("bonds", ErrInvalidBonds, "%s", truncate(data))
	}
	*b = ExplicitBonds(pairs...)
	return nil
}

func (b BondSpec) MarshalJSON() ([]byte, error) {
	switch b.Mode {
	case bonds.Explicit:
		if b.Pairs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(b.Pairs)
	case bonds.Off:
		return []byte(`"off"`), nil
	}
	return []byte(`"auto"`), nil
}

func (b *BondSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*b = AutoBonds()
			return nil
		}
		return b.setKeyword(value.Value)
	case yaml.SequenceNode:
		var pairs []bonds.Pair
		if err := value.Decode(&pairs); err != nil {
			return invalid("bonds", ErrInvalidBonds, "line %d: %v", value.Line, err)
		}
		*b = ExplicitBonds(pairs...)
		return nil
	}
	return invalid("bonds", ErrInvalidBonds, "line %d", value.Line)
}

func truncate(data []byte) string {
	const limit = 40
	if len(data) > limit {
		return fmt.Sprintf("%s...", data[:limit])
	}
	return string(data)
}
