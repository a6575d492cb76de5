package audiosource

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/kimjaesung/uic751demod/internal/uicerr"
)

// PortAudioSource captures mono int16 PCM from a live input device.
type PortAudioSource struct {
	stream *portaudio.Stream
	buf    []int16
	mu     sync.Mutex
}

// OpenPortAudio opens an input stream at sampleRate with the given
// frames-per-callback size. deviceName selects a specific device by
// the name reported by ListDevices; an empty name opens the system
// default input device.
func OpenPortAudio(deviceName string, sampleRate float64, framesPerBuffer int) (*PortAudioSource, error) {
	s := &PortAudioSource{buf: make([]int16, framesPerBuffer)}

	if deviceName == "" {
		stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, framesPerBuffer, s.buf)
		if err != nil {
			return nil, &uicerr.InitError{Component: "portaudio default input stream", Err: err}
		}
		s.stream = stream
	} else {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, &uicerr.InitError{Component: "portaudio device enumeration", Err: err}
		}
		var dev *portaudio.DeviceInfo
		for _, d := range devices {
			if d.Name == deviceName && d.MaxInputChannels > 0 {
				dev = d
				break
			}
		}
		if dev == nil {
			return nil, &uicerr.InitError{Component: "portaudio input device", Err: fmt.Errorf("device %q not found", deviceName)}
		}

		params := portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   dev,
				Channels: 1,
				Latency:  dev.DefaultLowInputLatency,
			},
			SampleRate:      sampleRate,
			FramesPerBuffer: framesPerBuffer,
		}
		stream, err := portaudio.OpenStream(params, s.buf)
		if err != nil {
			return nil, &uicerr.InitError{Component: "portaudio named input stream", Err: err}
		}
		s.stream = stream
	}

	if err := s.stream.Start(); err != nil {
		s.stream.Close()
		return nil, &uicerr.InitError{Component: "portaudio stream start", Err: err}
	}
	return s, nil
}

// Read fills buf with one stream-sized chunk of samples per call,
// blocking until the device delivers them.
func (s *PortAudioSource) Read(buf []int16) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stream.Read(); err != nil {
		return 0, &uicerr.InputError{Source: "portaudio", Err: err}
	}
	n := copy(buf, s.buf)
	return n, nil
}

// Close stops and releases the underlying stream.
func (s *PortAudioSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	return err
}
