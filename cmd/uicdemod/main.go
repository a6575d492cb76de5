// Command uicdemod decodes a UIC 751-3 ground-to-train signalling
// stream from raw PCM audio, printing classified supervisory tones and
// recovered telegrams to standard output.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/gordonklaus/portaudio"

	"github.com/kimjaesung/uic751demod/internal/audiosource"
	"github.com/kimjaesung/uic751demod/internal/bitdetect"
	"github.com/kimjaesung/uic751demod/internal/coordinator"
	"github.com/kimjaesung/uic751demod/internal/sample"
	"github.com/kimjaesung/uic751demod/internal/telegram"
	"github.com/kimjaesung/uic751demod/internal/uicerr"
)

const (
	exitOK = iota
	exitBadConfig
	exitInitFailure
	exitReadFailure
)

func main() {
	os.Exit(run())
}

func run() int {
	rate := flag.Float64("r", 44100, "input sample rate (Hz)")
	millis := flag.Float64("b", 50, "buffer length in milliseconds")
	certainty := flag.Float64("c", 0.75, "tone certainty threshold [0,1]")
	ticks := flag.Int("t", 3, "required consecutive buffers before a tone event")
	raw := flag.Bool("u", false, "print the raw 39-bit payload alongside each packet")
	suppressDamaged := flag.Bool("d", false, "suppress packets that fail CRC")
	source := flag.String("s", "-", "audio source: '-' or empty for stdin, otherwise a PortAudio device name")
	listDevices := flag.Bool("list-devices", false, "list PortAudio input devices and exit")
	help := flag.Bool("h", false, "show usage")
	help2 := flag.Bool("?", false, "show usage")
	flag.Parse()

	if *help || *help2 {
		flag.Usage()
		return exitOK
	}

	if err := portaudio.Initialize(); err != nil {
		log.Printf("%v", &uicerr.InitError{Component: "portaudio", Err: err})
		return exitInitFailure
	}
	defer portaudio.Terminate()

	if *listDevices {
		if err := audiosource.PrintDevices(); err != nil {
			log.Printf("%v", err)
			return exitInitFailure
		}
		return exitOK
	}

	if *rate <= 0 {
		log.Printf("%v", &uicerr.ConfigError{Option: "r", Reason: "sample rate must be positive"})
		return exitBadConfig
	}
	if *rate < 11800 {
		log.Printf("warning: sample rate %.0fHz is below the recommended 11800Hz floor", *rate)
	}
	if *millis <= 0 {
		log.Printf("%v", &uicerr.ConfigError{Option: "b", Reason: "buffer length must be positive"})
		return exitBadConfig
	}

	coord, err := coordinator.New(*rate, bitdetect.DefaultParams)
	if err != nil {
		log.Printf("%v", err)
		return exitBadConfig
	}
	if err := coord.SetToneCertainty(*certainty); err != nil {
		log.Printf("%v", err)
		return exitBadConfig
	}
	if err := coord.SetRequiredTicks(*ticks); err != nil {
		log.Printf("%v", err)
		return exitBadConfig
	}

	sampleCount := int(math.Ceil(*millis * *rate / 1000))

	src, closeSrc, err := openSource(*source, *rate, sampleCount)
	if err != nil {
		log.Printf("%v", err)
		return exitInitFailure
	}
	defer closeSrc()

	intBuf := make([]int16, sampleCount)

	for {
		n, err := src.Read(intBuf)
		if err != nil {
			log.Printf("%v", err)
			return exitReadFailure
		}
		if n == 0 {
			return exitOK
		}

		samples := sample.Int16ToFloat(intBuf[:n])

		coord.AnalyzeBegin()
		rest := samples
		for {
			var ev coordinator.Event
			ev, rest = coord.Analyze(rest)
			if ev == coordinator.None {
				break
			}
			printEvent(ev, coord, *raw, *suppressDamaged)
		}

		if n < len(intBuf) {
			return exitOK
		}
	}
}

func openSource(name string, rate float64, framesPerBuffer int) (audiosource.Source, func(), error) {
	if name == "" || name == "-" {
		s := audiosource.NewStreamSource(os.Stdin, "stdin")
		return s, func() { s.Close() }, nil
	}

	s, err := audiosource.OpenPortAudio(name, rate, framesPerBuffer)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

func printEvent(ev coordinator.Event, coord *coordinator.Coordinator, raw, suppressDamaged bool) {
	if ev != coordinator.Packet {
		fmt.Println(ev.String())
		return
	}

	tel := coord.GetTelegram()
	if tel.Status() == telegram.Integrity && suppressDamaged {
		return
	}

	if tel.Status() == telegram.Integrity {
		fmt.Printf("Packet %06X %02X (received CRC: %02X, correct: %02X)\n",
			tel.TrainNumber(), tel.CodeNumber(), tel.ReceivedCRC(), tel.CorrectCRC())
	} else {
		fmt.Printf("Packet %06X %02X\n", tel.TrainNumber(), tel.CodeNumber())
	}

	if raw {
		fmt.Printf("Raw packet: %039b\n", tel.Raw())
	}
}
