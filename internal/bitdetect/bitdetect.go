// Package bitdetect implements a correlator-based BFSK bit detector
// with adaptive bit timing, following the "delay-and-multiply" FM
// discriminator approach described in Cypress Semiconductor AN2336.
//
// For a sinusoid of frequency f sampled at rate F_s, the product of a
// sample with a delayed copy of itself has a sign that depends only on
// whether f is closer to the mark or space tone. Reducing each sample
// to its sign turns that multiply into an XOR-like comparison, which
// is all this detector needs to recover bits.
package bitdetect

import "math"

// Result is the outcome of feeding one sample into the detector.
type Result int

const (
	// End indicates the input buffer was exhausted without producing
	// a bit; re-invoke Analyze once more samples are available.
	End Result = iota
	// Invalid marks a polarity change that happened before any bit was
	// emitted at the previous polarity (less than half a bit period
	// after the change before it): not a hard error, a normal framing
	// signal.
	Invalid
	Zero
	One
)

// Params configures the BFSK tone pair and bit rate.
type Params struct {
	BPS     float64 // bits per second
	MarkHz  float64
	SpaceHz float64
}

// DefaultParams matches the UIC 751-3 data channel.
var DefaultParams = Params{BPS: 600, MarkHz: 1300, SpaceHz: 1700}

// Detector holds the ring buffers and running state for one BFSK
// stream. It is not safe for concurrent use.
type Detector struct {
	params     Params
	sampleRate float64

	prev    []int8 // ring buffer of recent sample signs, length D
	prevIdx int

	corr     []int8 // ring buffer of correlator outputs, length W
	corrIdx  int
	corrSum  int32
	invert   bool

	previousBit int8 // 0, 1, or -1 for "none"
	emittedBits float64
}

// New creates a BFSK detector for the given sample rate and
// parameters. The ring buffers are fully zero-initialised, so no
// special case is needed for the first samples fed in.
func New(sampleRate float64, params Params) *Detector {
	// Hardcoded for the 1300/1700 Hz tone pair: about 1.5 mark periods
	// and 2 space periods (18 samples at 16 kHz), so the delayed product
	// is negative for mark and positive for space.
	prevSize := int(math.Ceil(sampleRate*350.0/300000.0)) - 1
	if prevSize < 1 {
		prevSize = 1
	}

	corrSize := int(sampleRate*6) / (int(params.BPS) * 8)
	if corrSize < 1 {
		corrSize = 1
	}

	return &Detector{
		params:      params,
		sampleRate:  sampleRate,
		prev:        make([]int8, prevSize),
		corr:        make([]int8, corrSize),
		invert:      params.MarkHz < params.SpaceHz,
		previousBit: -1,
	}
}

// Analyze consumes samples from the front of buf, advancing past
// consumed samples, and returns as soon as a non-End result is
// produced. n reports how many samples were consumed so the caller can
// slice buf[n:] and re-invoke to drain the rest of the buffer.
func (d *Detector) Analyze(buf []float32) (result Result, n int) {
	result = End

	for n < len(buf) && result == End {
		sign := int8(1)
		if buf[n] < 0 {
			sign = -1
		}

		newCorr := d.prev[d.prevIdx] * sign
		oldCorr := d.corr[d.corrIdx]
		d.corrSum += int32(newCorr) - int32(oldCorr)

		d.corr[d.corrIdx] = newCorr
		d.corrIdx = (d.corrIdx + 1) % len(d.corr)

		currBit := int8(0)
		positive := d.corrSum >= 0
		if positive != d.invert {
			currBit = 1
		}

		if currBit == d.previousBit {
			oldInt := int64(d.emittedBits)
			d.emittedBits += d.params.BPS / d.sampleRate
			newInt := int64(d.emittedBits)

			if newInt > oldInt {
				if d.previousBit == 1 {
					result = One
				} else {
					result = Zero
				}
			}
		} else {
			if d.emittedBits < 1 {
				result = Invalid
			}
			d.previousBit = currBit
			d.emittedBits = 0.5
		}

		d.prev[d.prevIdx] = sign
		d.prevIdx = (d.prevIdx + 1) % len(d.prev)

		n++
	}

	return result, n
}
