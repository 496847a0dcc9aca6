package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

type Family string

const (
	Favicon    Family = "favicon"
	AppleTouch Family = "apple-touch"
	Android    Family = "android"
	MSTile     Family = "mstile"
)

// Families lists every icon family in declaration order.
var Families = []Family{Favicon, AppleTouch, Android, MSTile}

const IcoFilename = "favicon.ico"

// IcoDimensions are the frames packed into favicon.ico.
var IcoDimensions = []Dimension{16, 32, 48}

var familySizes = map[Family][]Dimension{
	Favicon:    {16, 32, 48},
	AppleTouch: {152, 167, 180},
	Android:    {36, 48, 72, 96, 144, 192, 512},
	MSTile:     {150},
}

var filePatterns = map[Family]string{
	Favicon:    "favicon-%s",
	AppleTouch: "apple-touch-icon-%s",
	Android:    "android-chrome-%s",
	MSTile:     "mstile-%s",
}

// Dimension is the side length of a square icon.
type Dimension int

func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", int(d), int(d))
}

func ParseDimension(raw string) (Dimension, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(raw)), "x")
	if !ok {
		return 0, fmt.Errorf("dimension %q: expected WxH", raw)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, fmt.Errorf("dimension %q: %w", raw, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("dimension %q: %w", raw, err)
	}
	if width != height {
		return 0, fmt.Errorf("dimension %q: icons must be square", raw)
	}
	if width <= 0 {
		return 0, fmt.Errorf("dimension %q: must be positive", raw)
	}
	return Dimension(width), nil
}

func ParseFamily(raw string) (Family, error) {
	name := Family(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := familySizes[name]; !ok {
		return "", fmt.Errorf("unknown icon family %q", raw)
	}
	return name, nil
}

// Sizes returns the dimensions of a family in declaration order.
func Sizes(family Family) []Dimension {
	return append([]Dimension(nil), familySizes[family]...)
}

func Filename(family Family, dim Dimension, format Format) string {
	pattern, ok := filePatterns[family]
	if !ok {
		return ""
	}
	return fmt.Sprintf(pattern, dim.String()) + "." + format.Extension()
}

// Target is one output file of the catalog.
type Target struct {
	Family    Family
	Dimension Dimension
	Filename  string
}

// Targets expands the requested families into output files, keeping catalog order
// within each family. Unknown families are ignored.
func Targets(families []Family, format Format) []Target {
	out := make([]Target, 0, 16)
	for _, family := range families {
		for _, dim := range familySizes[family] {
			out = append(out, Target{
				Family:    family,
				Dimension: dim,
				Filename:  Filename(family, dim, format),
			})
		}
	}
	return out
}

// Lookup maps a filename back to its catalog target.
func Lookup(filename string, format Format) (Target, bool) {
	for _, target := range Targets(Families, format) {
		if target.Filename == filename {
			return target, true
		}
	}
	return Target{}, false
}
