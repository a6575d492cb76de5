// Package audiosource provides the audio capture collaborator the
// demodulator core consumes: anything that can fill a buffer of
// signed 16-bit mono PCM samples at a declared rate. The core itself
// never imports this package's concrete implementations — only the
// Source interface crosses that boundary.
package audiosource

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Source produces interleaved mono int16 PCM samples on demand.
type Source interface {
	// Read fills buf with up to len(buf) samples, returning how many
	// were actually read. Returning n < len(buf) with a nil error
	// signals end of stream after this call drains.
	Read(buf []int16) (n int, err error)
	Close() error
}

// DeviceInfo describes one PortAudio-visible input device.
type DeviceInfo struct {
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
}

// ListDevices enumerates PortAudio input devices. PortAudio must
// already be initialised by the caller.
func ListDevices() ([]DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	defaultIn, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, fmt.Errorf("default input device: %w", err)
	}

	var result []DeviceInfo
	for _, d := range devices {
		if d.MaxInputChannels == 0 {
			continue
		}
		result = append(result, DeviceInfo{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			IsDefault:         d.Name == defaultIn.Name,
		})
	}
	return result, nil
}

// PrintDevices writes a human-readable device list, used by the CLI's
// device-listing flag.
func PrintDevices() error {
	devices, err := ListDevices()
	if err != nil {
		return err
	}
	fmt.Println("Input devices:")
	for _, d := range devices {
		marker := ""
		if d.IsDefault {
			marker = " [DEFAULT]"
		}
		fmt.Printf("  %s (channels:%d rate:%.0f)%s\n", d.Name, d.MaxInputChannels, d.DefaultSampleRate, marker)
	}
	return nil
}
