package spin

// RandFunc returns a uniform draw in [0, 1). Injectable so tests can pin
// the selected tier.
type RandFunc func() float64

// Picker selects a tier by weighted random choice. O(tiers) per draw, which
// is fine for a wheel of ten slices.
type Picker struct {
	tiers []Tier
	total float64
	rnd   RandFunc
}

func NewPicker(tiers []Tier, rnd RandFunc) *Picker {
	total := 0.0
	for _, t := range tiers {
		total += t.Weight
	}
	return &Picker{tiers: tiers, total: total, rnd: rnd}
}

// Pick draws one tier. The draw is scaled into [0, totalWeight) and the
// table walked accumulating weight until the running sum exceeds it. If
// floating-point rounding pushes the draw past every bucket, the first tier
// is returned; tests rely on this exact fallback.
func (p *Picker) Pick() Tier {
	draw := p.rnd() * p.total

	sum := 0.0
	for _, t := range p.tiers {
		sum += t.Weight
		if draw < sum {
			return t
		}
	}
	return p.tiers[0]
}

// Tiers returns the wheel layout.
func (p *Picker) Tiers() []Tier {
	return p.tiers
}
