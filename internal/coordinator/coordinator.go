// Package coordinator multiplexes the Goertzel tone bank, the BFSK bit
// detector and the telegram framer into a single stream of typed
// events, debouncing tone classification and guaranteeing that a
// SILENCE event always precedes a PACKET event.
package coordinator

import (
	"github.com/kimjaesung/uic751demod/internal/bitdetect"
	"github.com/kimjaesung/uic751demod/internal/goertzel"
	"github.com/kimjaesung/uic751demod/internal/sample"
	"github.com/kimjaesung/uic751demod/internal/telegram"
	"github.com/kimjaesung/uic751demod/internal/uicerr"
)

// Event is one item of the coordinator's output stream.
type Event int

const (
	None Event = iota
	Warning
	Listening
	ChFree
	Pilot
	Silence
	Packet
)

// String names an event the way the CLI prints it.
func (e Event) String() string {
	switch e {
	case Warning:
		return "Warning"
	case Listening:
		return "Listening"
	case ChFree:
		return "Channel free"
	case Pilot:
		return "Voice pilot"
	case Silence:
		return "Silence"
	case Packet:
		return "Packet"
	default:
		return "None"
	}
}

// Frequencies is the fixed supervisory tone bank, in classification
// order: Warning, Listening, Channel free, Pilot.
var Frequencies = []float64{1520, 1960, 2280, 2800}

// classSilence is the synthetic "no tone qualified" class index, one
// past the last real frequency.
const (
	classWarning = iota
	classListening
	classChFree
	classPilot
	classSilence // 4: none of the above tones qualified
)

const noSignal = -1 // "last_signal == none"

const (
	defaultToneCertainty = 0.75
	defaultRequiredTicks = 3
)

// Coordinator owns one Goertzel bank, one bit detector and one
// telegram framer, allocated once at construction; the hot path
// performs no further allocation.
type Coordinator struct {
	bank *goertzel.Bank
	bit  *bitdetect.Detector
	tel  *telegram.Telegram

	toneCertainty float64
	requiredTicks int

	lastSignal         int
	currentSignal      int
	currentSignalTicks int

	ranGoertzel bool
	hasTelegram bool

	mags []float64 // scratch, reused every Analyze call
}

// New creates a coordinator for the given sample rate. bitParams
// configures the BFSK bit detector; pass bitdetect.DefaultParams for
// the UIC 751-3 data channel defaults.
func New(sampleRate float64, bitParams bitdetect.Params) (*Coordinator, error) {
	if sampleRate <= 0 {
		return nil, &uicerr.ConfigError{Option: "sample_rate", Reason: "must be positive"}
	}

	return &Coordinator{
		bank:          goertzel.NewBank(Frequencies, sampleRate),
		bit:           bitdetect.New(sampleRate, bitParams),
		tel:           telegram.New(),
		toneCertainty: defaultToneCertainty,
		requiredTicks: defaultRequiredTicks,
		lastSignal:    noSignal,
		currentSignal: noSignal,
		mags:          make([]float64, len(Frequencies)),
	}, nil
}

// SetToneCertainty sets the normalised Goertzel threshold, in [0,1],
// required for a tone to be considered present. Idempotent; survives
// AnalyzeBegin.
func (c *Coordinator) SetToneCertainty(t float64) error {
	if t < 0 || t > 1 {
		return &uicerr.ConfigError{Option: "tone_certainty", Reason: "must be within [0,1]"}
	}
	c.toneCertainty = t
	return nil
}

// SetRequiredTicks sets the debounce depth: the number of consecutive
// buffers classified the same before a tone event is emitted.
func (c *Coordinator) SetRequiredTicks(n int) error {
	if n < 1 {
		return &uicerr.ConfigError{Option: "required_ticks", Reason: "must be >= 1"}
	}
	c.requiredTicks = n
	return nil
}

// AnalyzeBegin clears the per-buffer scratch flags. Call once before
// the first Analyze call for a new buffer of samples.
func (c *Coordinator) AnalyzeBegin() {
	c.ranGoertzel = false
}

// Analyze consumes part of samples and returns the next event along
// with the unconsumed remainder. Call it in a loop, passing back the
// returned remainder, until it returns None — at which point the
// buffer is exhausted and the caller should fetch a new one.
func (c *Coordinator) Analyze(samples []float32) (Event, []float32) {
	if c.hasTelegram {
		c.hasTelegram = false
		return Packet, samples
	}

	if !c.ranGoertzel {
		c.ranGoertzel = true

		c.bank.Magnitude(samples, c.mags)
		power := sample.SignalPower(samples)

		newSignal := classSilence
		if power > 0 {
			best := -1.0
			for k, m := range c.mags {
				norm := m / power
				if norm > c.toneCertainty && norm > best {
					best = norm
					newSignal = k
				}
			}
		}

		if newSignal == c.currentSignal {
			c.currentSignalTicks++
		} else {
			c.currentSignal = newSignal
			c.currentSignalTicks = 1
		}

		if c.currentSignalTicks == c.requiredTicks && c.currentSignal != c.lastSignal {
			c.lastSignal = c.currentSignal
			return toneEvent(c.currentSignal), samples
		}
	}

	for len(samples) > 0 {
		result, n := c.bit.Analyze(samples)
		samples = samples[n:]

		switch result {
		case bitdetect.Zero, bitdetect.One:
			bit := 0
			if result == bitdetect.One {
				bit = 1
			}
			status := c.tel.Feed(bit)
			if status == telegram.OK || status == telegram.Integrity {
				if c.lastSignal != classSilence {
					c.lastSignal = classSilence
					c.currentSignal = classSilence
					c.currentSignalTicks = 1
					c.hasTelegram = true
					return Silence, samples
				}
				return Packet, samples
			}
		case bitdetect.Invalid:
			c.tel.Reset()
		}
	}

	return None, samples
}

// GetTelegram returns the most recently completed telegram. Valid
// immediately after Analyze returns Packet and until the next call
// that mutates the coordinator.
func (c *Coordinator) GetTelegram() *telegram.Telegram {
	return c.tel
}

func toneEvent(class int) Event {
	switch class {
	case classWarning:
		return Warning
	case classListening:
		return Listening
	case classChFree:
		return ChFree
	case classPilot:
		return Pilot
	default:
		return Silence
	}
}
