// Package goertzel computes per-frequency magnitude estimates over a
// buffer of samples using the Goertzel algorithm, a second-order IIR
// equivalent to a single DFT bin.
package goertzel

import "math"

// Bank holds precomputed coefficients for a fixed set of target
// frequencies. It is immutable after construction and safe to reuse
// across calls to Magnitude; no state is carried between calls.
type Bank struct {
	coeffs []float64
}

// NewBank precomputes coefficients c_k = 2*cos(2*pi*f_k/sampleRate) for
// each frequency in freqs.
func NewBank(freqs []float64, sampleRate float64) *Bank {
	coeffs := make([]float64, len(freqs))
	for i, f := range freqs {
		coeffs[i] = 2 * math.Cos(2*math.Pi*f/sampleRate)
	}
	return &Bank{coeffs: coeffs}
}

// Len returns the number of target frequencies in the bank.
func (b *Bank) Len() int {
	return len(b.coeffs)
}

// Magnitude computes one relative magnitude per target frequency over
// samples, writing the results into out. out must have length Len().
// The values are not squared; compare them directly to an energy
// estimate of the same buffer.
func (b *Bank) Magnitude(samples []float32, out []float64) {
	for k, c := range b.coeffs {
		var current, old, reallyOld float64
		for _, s := range samples {
			reallyOld = old
			old = current
			current = float64(s) + c*old - reallyOld
		}
		out[k] = math.Sqrt(current*current + old*old - current*old*c)
	}
}
