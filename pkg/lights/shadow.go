package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// ShadowBias offsets shadow ray origins toward the light to avoid self-hits
const ShadowBias = 1e-3

// ShadowQuery returns how much of a light reaches a point, in [0,1].
// 0 means fully occluded, 1 means fully visible.
type ShadowQuery interface {
	Factor(point, normal, lightPos core.Vec3, occ Occluder) float64
}

// castShadowRay returns the distance to the first occluder between point and
// lightPos, along with the distance to the light. ok is false when nothing
// lies in between.
func castShadowRay(point, lightPos core.Vec3, occ Occluder) (hitDist, lightDist float64, ok bool) {
	toLight := lightPos.Subtract(point)
	lightDist = toLight.Length()
	lightDir := toLight.Normalize()

	origin := point.Add(lightDir.Multiply(ShadowBias))
	hit, isHit := occ.ClosestHit(core.NewRay(origin, lightDir))
	if !isHit || hit.Distance >= lightDist {
		return 0, lightDist, false
	}
	return hit.Distance, lightDist, true
}

// HardShadow is binary: any occluder before the light blocks it completely
type HardShadow struct{}

func (HardShadow) Factor(point, normal, lightPos core.Vec3, occ Occluder) float64 {
	if _, _, blocked := castShadowRay(point, lightPos, occ); blocked {
		return 0
	}
	return 1
}

// SoftShadow scales visibility by where the occluder sits along the shadow ray:
// clamp(1 - Softness*d/distanceToLight, 0, 1). The factor grows as the
// occluder distance d shrinks, and reaches 0 only for occluders at the light.
type SoftShadow struct {
	Softness float64 // 1 for the standard falloff, 0.8 for the lighter variant
}

func (s SoftShadow) Factor(point, normal, lightPos core.Vec3, occ Occluder) float64 {
	hitDist, lightDist, blocked := castShadowRay(point, lightPos, occ)
	if !blocked {
		return 1
	}
	return SoftFactor(hitDist, lightDist, s.Softness)
}

// SoftFactor is the distance falloff used by SoftShadow
func SoftFactor(hitDist, lightDist, softness float64) float64 {
	return math.Max(0, math.Min(1, 1-softness*hitDist/lightDist))
}

// AreaShadow approximates a square area light by sampling a Samples×Samples
// grid of positions spread over Size in the light's X/Y plane. The averaged
// result is blended with the single-ray Base factor, weighted by the angle to
// the light and fading out with distance.
type AreaShadow struct {
	Base    ShadowQuery
	Samples int
	Size    float64
}

// NewAreaShadow uses a 4×4 grid over 0.5 units with the 0.8 soft falloff
func NewAreaShadow() AreaShadow {
	return AreaShadow{Base: SoftShadow{Softness: 0.8}, Samples: 4, Size: 0.5}
}

func (a AreaShadow) Factor(point, normal, lightPos core.Vec3, occ Occluder) float64 {
	base := a.Base.Factor(point, normal, lightPos, occ)
	if base == 0 || base == 1 || a.Samples <= 0 {
		return base
	}

	area := a.average(point, normal, lightPos, occ)

	toLight := lightPos.Subtract(point)
	distanceFactor := math.Min(1, toLight.Length()/10)
	normalDot := math.Abs(normal.Dot(toLight.Normalize()))

	return math.Min(1, base*0.7+area*0.3*normalDot*(1-distanceFactor))
}

func (a AreaShadow) average(point, normal, lightPos core.Vec3, occ Occluder) float64 {
	sum := 0.0
	n := float64(a.Samples)
	for x := 0; x < a.Samples; x++ {
		for y := 0; y < a.Samples; y++ {
			sample := lightPos.Add(core.NewVec3(
				(float64(x)/n-0.5)*a.Size,
				(float64(y)/n-0.5)*a.Size,
				0,
			))
			sum += a.Base.Factor(point, normal, sample, occ)
		}
	}
	return sum / (n * n)
}

// NewShadowQuery returns the shadow policy for a configuration name:
// "hard", "soft" (default), "soft08" or "area".
func NewShadowQuery(mode string) (ShadowQuery, error) {
	switch mode {
	case "hard":
		return HardShadow{}, nil
	case "", "soft":
		return SoftShadow{Softness: 1}, nil
	case "soft08":
		return SoftShadow{Softness: 0.8}, nil
	case "area":
		return NewAreaShadow(), nil
	default:
		return nil, fmt.Errorf("unknown shadow mode %q (want hard, soft, soft08 or area)", mode)
	}
}
