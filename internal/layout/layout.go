// Package layout slices a cleaned voter box into named sub-regions using
// fixed proportional offsets. Slicing is purely geometric: no content
// analysis, deterministic for a given box size and variant.
package layout

import (
	"fmt"
	"sort"

	"github.com/rollscan/rollscan/internal/utils"
)

// Kind names a sub-region within a voter box.
type Kind string

const (
	KindSerial Kind = "serial" // running serial number, top-left corner box
	KindEPIC   Kind = "epic"   // EPIC identifier, top strip right of the serial
	KindInfo   Kind = "info"   // name/relation/house/age/gender block
)

// Variant describes one box layout as fractions of the box dimensions.
// Roll formats differ between states; each format gets a named variant
// resolved once per document.
type Variant struct {
	Name string

	// Serial sub-box in the top-left corner.
	SerialWidthFrac  float64
	SerialHeightFrac float64

	// Width fraction of the info block; the right remainder holds the
	// photograph and is not recognized.
	InfoWidthFrac float64
}

// Standard is the common three-column roll layout.
var Standard = Variant{
	Name:             "standard",
	SerialWidthFrac:  0.18,
	SerialHeightFrac: 0.22,
	InfoWidthFrac:    0.67,
}

var registry = map[string]Variant{
	Standard.Name: Standard,
}

// Register adds a layout variant to the registry, replacing any variant
// with the same name.
func Register(v Variant) { registry[v.Name] = v }

// Resolve looks up a layout variant by name.
func Resolve(name string) (Variant, error) {
	v, ok := registry[name]
	if !ok {
		names := make([]string, 0, len(registry))
		for n := range registry {
			names = append(names, n)
		}
		sort.Strings(names)
		return Variant{}, fmt.Errorf("unknown layout variant %q (have %v)", name, names)
	}
	return v, nil
}

// Segment computes the sub-region rectangles for a box of the given
// dimensions. Coordinates are relative to the box origin. The returned
// regions never overlap.
func (v Variant) Segment(w, h int) map[Kind]utils.Box {
	serialW := int(float64(w) * v.SerialWidthFrac)
	serialH := int(float64(h) * v.SerialHeightFrac)
	infoW := int(float64(w) * v.InfoWidthFrac)
	if infoW > w {
		infoW = w
	}

	return map[Kind]utils.Box{
		KindSerial: {X: 0, Y: 0, W: serialW, H: serialH},
		KindEPIC:   {X: serialW, Y: 0, W: w - serialW, H: serialH},
		KindInfo:   {X: 0, Y: serialH, W: infoW, H: h - serialH},
	}
}
