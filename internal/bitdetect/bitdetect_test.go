package bitdetect

import (
	"math"
	"testing"
)

func toneSamples(freq, sampleRate float64, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / sampleRate))
	}
	return out
}

func drain(d *Detector, buf []float32) []Result {
	var results []Result
	for len(buf) > 0 {
		r, n := d.Analyze(buf)
		buf = buf[n:]
		if r != End {
			results = append(results, r)
		}
	}
	return results
}

func TestAnalyze_PureMarkToneEmitsOne(t *testing.T) {
	// mark_hz < space_hz inverts the correlator sign, so a pure mark
	// tone (1300Hz) must be labeled ONE.
	d := New(16000, Params{BPS: 600, MarkHz: 1300, SpaceHz: 1700})
	samples := toneSamples(1300, 16000, 4000)

	// Until len(prev)+len(corr) samples have passed, the correlator
	// window still holds the zeros the ring buffers start with, and the
	// detector can emit a spurious bit (here a ZERO); discard that span.
	warmup := len(d.prev) + len(d.corr)
	drain(d, samples[:warmup])
	results := drain(d, samples[warmup:])

	ones, zeros := 0, 0
	for _, r := range results {
		switch r {
		case One:
			ones++
		case Zero:
			zeros++
		}
	}

	if ones == 0 {
		t.Fatal("expected at least one ONE result for a pure mark tone")
	}
	if zeros > 0 {
		t.Errorf("expected no ZERO results for a pure mark tone, got %d", zeros)
	}
}

func TestAnalyze_PureSpaceToneEmitsZero(t *testing.T) {
	d := New(16000, Params{BPS: 600, MarkHz: 1300, SpaceHz: 1700})
	samples := toneSamples(1700, 16000, 4000)

	results := drain(d, samples)

	ones, zeros := 0, 0
	for _, r := range results {
		switch r {
		case One:
			ones++
		case Zero:
			zeros++
		}
	}

	if zeros == 0 {
		t.Fatal("expected at least one ZERO result for a pure space tone")
	}
	if ones > 0 {
		t.Errorf("expected no ONE results for a pure space tone, got %d", ones)
	}
}

func TestAnalyze_CorrSumInvariant(t *testing.T) {
	d := New(16000, DefaultParams)
	samples := toneSamples(1500, 16000, 2000)

	for len(samples) > 0 {
		_, n := d.Analyze(samples)
		samples = samples[n:]

		if d.corrSum > int32(len(d.corr)) || d.corrSum < -int32(len(d.corr)) {
			t.Fatalf("corr_sum %d exceeds bounds [-%d, %d]", d.corrSum, len(d.corr), len(d.corr))
		}

		var sum int32
		for _, c := range d.corr {
			sum += int32(c)
		}
		if sum != d.corrSum {
			t.Fatalf("corr_sum %d does not match sum of ring buffer %d", d.corrSum, sum)
		}

		if d.emittedBits < 0 {
			t.Fatalf("emitted_bits went negative: %v", d.emittedBits)
		}
	}
}

func TestAnalyze_DrainsBufferOnEnd(t *testing.T) {
	// The very first sample always triggers a synthetic polarity
	// change (previous_bit starts as "none"), so it emits INVALID
	// before End is ever seen; feed that one sample off, then confirm
	// a flat buffer of identical-polarity samples drains to End.
	d := New(16000, DefaultParams)
	first := []float32{0}
	r, n := d.Analyze(first)
	if r != Invalid || n != 1 {
		t.Fatalf("expected first sample to emit INVALID after 1 sample, got %v after %d", r, n)
	}

	buf := make([]float32, 5)
	r, n = d.Analyze(buf)
	if n != len(buf) {
		t.Errorf("expected to consume entire buffer, consumed %d of %d", n, len(buf))
	}
	if r != End {
		t.Errorf("expected End for a flat same-polarity buffer, got %v", r)
	}
}
