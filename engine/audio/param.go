package audio

// ramp is a linear transition between two values over a sample range.
type ramp struct {
	from, to   float64
	start, end int64
}

// Param is a value automated on the audio clock, measured in sample frames.
// A new SetValue or LinearRamp replaces whatever automation was in flight.
// Param is not safe for concurrent use; the Mixer guards its params.
type Param struct {
	value float64
	ramp  *ramp
}

// NewParam returns a Param holding v.
func NewParam(v float64) *Param {
	return &Param{value: v}
}

// SetValue jumps to v immediately and cancels any ramp.
func (p *Param) SetValue(v float64) {
	p.value = v
	p.ramp = nil
}

// LinearRamp moves from `from` at sample start to `to` at sample start+frames.
// A non-positive frame count behaves like SetValue(to).
func (p *Param) LinearRamp(from, to float64, start, frames int64) {
	if frames <= 0 {
		p.SetValue(to)
		return
	}
	p.value = to
	p.ramp = &ramp{from: from, to: to, start: start, end: start + frames}
}

// ValueAt returns the automated value at sample.
func (p *Param) ValueAt(sample int64) float64 {
	r := p.ramp
	if r == nil || sample >= r.end {
		return p.value
	}
	if sample <= r.start {
		return r.from
	}
	t := float64(sample-r.start) / float64(r.end-r.start)
	return r.from + (r.to-r.from)*t
}

// Ramping reports whether a ramp is still in progress at sample.
func (p *Param) Ramping(sample int64) bool {
	return p.ramp != nil && sample < p.ramp.end
}
