package seqio

// DefaultInitialCapacity is the size a Buffer is allocated with when no
// explicit capacity is requested.
const DefaultInitialCapacity = 64 * 1024 // 64 KiB

// DefaultCap is the hard ceiling a GrowthPolicy refuses to exceed unless
// configured otherwise.
const DefaultCap = 1 << 30 // 1 GiB

// GrowthPolicy decides how large a Buffer should become when the current
// capacity can no longer hold a pending fill. It is an injectable
// strategy object so that tests can drive tight caps without touching the
// reader itself.
type GrowthPolicy interface {
	// Grow returns the capacity the buffer should adopt to hold at least
	// needed bytes, given it currently holds current. It returns ok=false
	// when no capacity under the policy's cap can satisfy the request;
	// the caller surfaces this as a "record too large" error.
	Grow(current, needed int) (next int, ok bool)
}

// DoublingPolicy doubles (or multiplies by Factor) the current capacity
// until it is sufficient, refusing once the result would exceed Cap.
type DoublingPolicy struct {
	// Factor is the multiplier applied on each growth step. Zero is
	// treated as 2.
	Factor float64
	// Cap is the largest capacity the policy will ever return. Zero is
	// treated as DefaultCap.
	Cap int
}

// NewDoublingPolicy returns the default growth strategy: capacity doubles
// on every step, up to DefaultCap.
func NewDoublingPolicy() DoublingPolicy {
	return DoublingPolicy{Factor: 2, Cap: DefaultCap}
}

// Grow implements GrowthPolicy.
func (p DoublingPolicy) Grow(current, needed int) (int, bool) {
	factor := p.Factor
	if factor <= 1 {
		factor = 2
	}
	cap := p.Cap
	if cap <= 0 {
		cap = DefaultCap
	}
	if needed > cap {
		return 0, false
	}
	next := current
	if next <= 0 {
		next = DefaultInitialCapacity
	}
	for next < needed {
		grown := int(float64(next) * factor)
		if grown <= next {
			grown = next + 1
		}
		next = grown
	}
	if next > cap {
		next = cap
	}
	if next < needed {
		return 0, false
	}
	return next, true
}

// DoubleUntilLinearPolicy doubles the buffer's capacity until it reaches
// Threshold, then grows linearly by Increment past that point. This
// avoids the multi-gigabyte overshoot that pure doubling can cause for
// records that are merely large rather than pathological.
type DoubleUntilLinearPolicy struct {
	// Threshold is the capacity at which growth switches from doubling
	// to linear stepping. Zero is treated as 8 MiB.
	Threshold int
	// Increment is the linear step size used once Threshold has been
	// reached. Zero is treated as equal to Threshold.
	Increment int
	// Cap is the largest capacity the policy will ever return. Zero is
	// treated as DefaultCap.
	Cap int
}

// Grow implements GrowthPolicy.
func (p DoubleUntilLinearPolicy) Grow(current, needed int) (int, bool) {
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = 8 << 20
	}
	increment := p.Increment
	if increment <= 0 {
		increment = threshold
	}
	cap := p.Cap
	if cap <= 0 {
		cap = DefaultCap
	}
	if needed > cap {
		return 0, false
	}
	next := current
	if next <= 0 {
		next = DefaultInitialCapacity
	}
	for next < needed {
		if next < threshold {
			grown := next * 2
			if grown <= next {
				grown = next + increment
			}
			next = grown
		} else {
			next += increment
		}
	}
	if next > cap {
		next = cap
	}
	if next < needed {
		return 0, false
	}
	return next, true
}
