package animation

import (
	"strings"

	"github.com/tanema/gween/ease"
)

// curves maps GSAP-style family names to gween curves as [in, out, inOut].
var curves = map[string][3]ease.TweenFunc{
	"power1":  {ease.InQuad, ease.OutQuad, ease.InOutQuad},
	"quad":    {ease.InQuad, ease.OutQuad, ease.InOutQuad},
	"power2":  {ease.InCubic, ease.OutCubic, ease.InOutCubic},
	"cubic":   {ease.InCubic, ease.OutCubic, ease.InOutCubic},
	"power3":  {ease.InQuart, ease.OutQuart, ease.InOutQuart},
	"quart":   {ease.InQuart, ease.OutQuart, ease.InOutQuart},
	"power4":  {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"quint":   {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"strong":  {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"sine":    {ease.InSine, ease.OutSine, ease.InOutSine},
	"expo":    {ease.InExpo, ease.OutExpo, ease.InOutExpo},
	"circ":    {ease.InCirc, ease.OutCirc, ease.InOutCirc},
	"back":    {ease.InBack, ease.OutBack, ease.InOutBack},
	"elastic": {ease.InElastic, ease.OutElastic, ease.InOutElastic},
	"bounce":  {ease.InBounce, ease.OutBounce, ease.InOutBounce},
}

// Easing resolves a GSAP-style ease name such as "power2.out", "sine.inOut"
// or "none". A family without a variant defaults to its out curve. The second
// result is false for unknown names, in which case the linear curve is
// returned.
func Easing(name string) (ease.TweenFunc, bool) {
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case "none", "linear", "power0", "linear.none":
		return ease.Linear, true
	}

	family, variant, _ := strings.Cut(name, ".")
	c, ok := curves[strings.ToLower(family)]
	if !ok {
		return ease.Linear, false
	}
	switch strings.ToLower(variant) {
	case "in":
		return c[0], true
	case "", "out":
		return c[1], true
	case "inout":
		return c[2], true
	default:
		return ease.Linear, false
	}
}

// applyEase evaluates a normalized curve at t in [0, 1].
func applyEase(fn ease.TweenFunc, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return float64(fn(float32(t), 0, 1, 1))
}
