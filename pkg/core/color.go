package core

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrNonFiniteColor is returned when a NaN or infinite channel reaches output
var ErrNonFiniteColor = errors.New("non-finite color")

// Black and White are the two colors the tracer treats specially
var (
	Black = Vec3{}
	White = Vec3{1, 1, 1}
)

// CheckFinite returns ErrNonFiniteColor if any channel of c is NaN or Inf
func CheckFinite(c Vec3) error {
	if c.IsFinite() {
		return nil
	}
	return fmt.Errorf("%w: (%g, %g, %g)", ErrNonFiniteColor, c.X, c.Y, c.Z)
}

// ToRGBA clamps a [0,1] color, scales it to [0,255] and floors each channel.
// Alpha is always opaque.
func ToRGBA(c Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
		A: 255,
	}
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Min(255, math.Floor(v*255)))
}
