package home

import (
	"github.com/Carmen-Shannon/oxy-scroll/engine/animation"
	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
	"github.com/Carmen-Shannon/oxy-scroll/engine/overlay"
)

// IntroTimeline is the registry key of the hero intro timeline.
const IntroTimeline = "hero-intro"

// Hero overlay elements.
const (
	HeroContent  = "hero-content"
	HeroLine0    = "hero-title-line-0"
	HeroLine1    = "hero-title-line-1"
	HeroSubtitle = "hero-subtitle"
	HeroCTA      = "cta-button"
)

const (
	introDuration = 0.8
	introEase     = "power2.out"
	introOverlap  = "-=0.4"
	lineStagger   = 0.2

	// heroFadeRate makes the hero text gone by a third of the way down the page.
	heroFadeRate = 3
)

// OverlayElements lists the overlay elements the home page animates.
func OverlayElements() []string {
	return []string{HeroContent, HeroLine0, HeroLine1, HeroSubtitle, HeroCTA}
}

// Motion plays the hero intro and binds page scroll to the sphere, the camera and the hero
// text opacity.
type Motion struct {
	orch  *animation.Orchestrator
	layer *overlay.Layer
	scene *Scene

	intro   *animation.Timeline
	trigger *animation.Trigger
}

// NewMotion creates the home motion module. Panics if orch, layer or scene is nil.
//
// Parameters:
//   - orch: the orchestrator that owns the timeline and trigger
//   - layer: the overlay holding the hero elements
//   - scene: the loaded home scene
//
// Returns:
//   - *Motion: the motion module
func NewMotion(orch *animation.Orchestrator, layer *overlay.Layer, scene *Scene) *Motion {
	if orch == nil || layer == nil || scene == nil {
		panic("home: NewMotion requires an orchestrator, an overlay layer and a scene")
	}
	return &Motion{orch: orch, layer: layer, scene: scene}
}

// Init builds the intro timeline and the page scroll trigger. Under reduced motion the hero
// elements are put in their final state and no timeline is created.
func (m *Motion) Init() {
	if m.trigger != nil {
		logger.Logger().Warn("home motion already initialized", "component", "home")
		return
	}
	m.animateHero()
	m.trigger = m.orch.CreateScrollTrigger(animation.TriggerSpec{
		Start:    "top top",
		End:      "bottom bottom",
		Scrub:    1,
		OnUpdate: m.onScroll,
	})
}

func (m *Motion) animateHero() {
	content := m.targets(HeroContent)
	lines := m.targets(HeroLine0, HeroLine1)
	subtitle := m.targets(HeroSubtitle)
	cta := m.targets(HeroCTA)

	if m.orch.ReducedMotion() {
		m.apply(append(content, lines...), animation.Props{"opacity": 1, "y": 0})
		m.apply(append(subtitle, cta...), animation.Props{"opacity": 1})
		return
	}

	m.apply(content, animation.Props{"opacity": 0, "y": 30})
	m.apply(lines, animation.Props{"opacity": 0, "y": 20})
	m.apply(append(subtitle, cta...), animation.Props{"opacity": 0})

	tl := m.orch.CreateTimeline(IntroTimeline, animation.TimelineOptions{DefaultEase: introEase})
	tl.To(content, animation.TweenVars{
		Props:    animation.Props{"opacity": 1, "y": 0},
		Duration: introDuration,
		Ease:     introEase,
	}, "").
		To(lines, animation.TweenVars{
			Props:    animation.Props{"opacity": 1, "y": 0},
			Duration: introDuration,
			Ease:     introEase,
			Stagger:  lineStagger,
		}, introOverlap).
		To(subtitle, animation.TweenVars{
			Props:    animation.Props{"opacity": 1},
			Duration: introDuration,
			Ease:     introEase,
		}, introOverlap).
		To(cta, animation.TweenVars{
			Props:    animation.Props{"opacity": 1},
			Duration: introDuration,
			Ease:     introEase,
		}, introOverlap)
	m.intro = tl
}

func (m *Motion) apply(targets []animation.Target, props animation.Props) {
	for _, t := range targets {
		m.orch.Set(t, props)
	}
}

func (m *Motion) onScroll(st animation.TriggerState) {
	m.scene.UpdateFromScroll(st.Progress, st.Velocity)
	if el := m.layer.Element(HeroContent); el != nil {
		el.SetProperty("opacity", 1-st.Progress*heroFadeRate)
	}
}

// targets resolves overlay elements, warning about names the layer does not declare.
func (m *Motion) targets(names ...string) []animation.Target {
	out := make([]animation.Target, 0, len(names))
	for _, n := range names {
		el := m.layer.Element(n)
		if el == nil {
			logger.Logger().Warn("overlay element not found", "component", "home", "element", n)
			continue
		}
		out = append(out, el)
	}
	return out
}

// Trigger returns the page scroll trigger, or nil before Init.
func (m *Motion) Trigger() *animation.Trigger { return m.trigger }

// Dispose kills the intro timeline and the scroll trigger. Triggers owned by other behaviors
// are left alone.
func (m *Motion) Dispose() {
	if m.intro != nil {
		m.orch.KillTimeline(IntroTimeline)
		m.intro = nil
	}
	if m.trigger != nil {
		m.trigger.Kill()
		m.trigger = nil
	}
}
