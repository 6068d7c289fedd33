package compositor

import (
	"fmt"
	"strings"

	"golang.org/x/image/draw"
)

// interpolators maps the accepted --interp names to resamplers.
var interpolators = map[string]draw.Interpolator{
	"nearest":         draw.NearestNeighbor,
	"approx-bilinear": draw.ApproxBiLinear,
	"bilinear":        draw.BiLinear,
	"catmull-rom":     draw.CatmullRom,
}

// InterpolatorNames lists the names ParseInterpolator accepts, fastest first.
var InterpolatorNames = []string{"nearest", "approx-bilinear", "bilinear", "catmull-rom"}

// ParseInterpolator returns Options using the named resampler. An empty
// name selects the default.
func ParseInterpolator(name string) (*Options, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	interp, ok := interpolators[name]
	if !ok {
		return nil, fmt.Errorf("unknown interpolator %q: expected one of %s", name, strings.Join(InterpolatorNames, ", "))
	}
	return &Options{Interpolator: interp}, nil
}
