package display

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/realcatgirly/gobright/api"
	"github.com/realcatgirly/gobright/config"
)

// Serial-attached brightness devices running the trinkey busylight firmware,
// driven with its AT line protocol (AT+B? queries, AT+B=<n> sets)

func init() {
	Backends["serial"] = newSerialDevices
}

type SerialDevice struct {
	conn serial.Port
	port string
	mu   sync.Mutex
}

func newSerialDevices(cfg *config.Config) ([]api.Display, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	var displays []api.Display
	for _, port := range ports {
		if port.VID != cfg.Serial.VID || port.PID != cfg.Serial.PID {
			continue
		}
		s, err := serial.Open(port.Name, &serial.Mode{
			BaudRate: cfg.Serial.BaudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: 1,
		})
		if err != nil {
			return nil, err
		}
		if err := s.SetReadTimeout(time.Second / 2); err != nil {
			return nil, err
		}
		d := &SerialDevice{conn: s, port: port.Name}
		// wake the firmware and check it answers before listing it
		if response, err := d.command("AT"); err != nil {
			return nil, err
		} else if !strings.HasPrefix(response, "OK") {
			return nil, fmt.Errorf("unable to communicate with device at %s", port.Name)
		}
		displays = append(displays, d)
	}
	return displays, nil
}

func (d *SerialDevice) command(cmd string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buffer := make([]byte, 128)
	if _, err := d.conn.Write([]byte("\n")); err != nil {
		return "", err
	}
	if err := d.conn.ResetInputBuffer(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprintf(d.conn, "%s\n", cmd); err != nil {
		return "", err
	}
	time.Sleep(time.Second / 2)
	n, err := d.conn.Read(buffer)
	if err != nil {
		return "", err
	}
	return string(buffer[:n]), nil
}

// Info implements api.Display.
func (d *SerialDevice) Info() api.DisplayInfo {
	return api.DisplayInfo{Model: d.port, Backend: "serial"}
}

// GetVCPFeature implements api.Display.
func (d *SerialDevice) GetVCPFeature(code byte) (uint16, error) {
	if code != api.FeatureBrightness {
		return 0, fmt.Errorf("unsupported feature 0x%02x", code)
	}
	response, err := d.command("AT+B?")
	if err != nil {
		return 0, err
	}
	return parseBrightnessReply(response)
}

// parseBrightnessReply extracts the value from a "+B: <n>" reply line.
func parseBrightnessReply(response string) (uint16, error) {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\r", ""))
		value, ok := strings.CutPrefix(line, "+B: ")
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("bad brightness reply %q", line)
		}
		return uint16(n), nil
	}
	return 0, fmt.Errorf("no brightness in reply %q", response)
}

// SetVCPFeature implements api.Display.
func (d *SerialDevice) SetVCPFeature(code byte, value uint16) error {
	if code != api.FeatureBrightness {
		return fmt.Errorf("unsupported feature 0x%02x", code)
	}
	if value > 100 {
		return fmt.Errorf("brightness out of range")
	}
	response, err := d.command(fmt.Sprintf("AT+B=%d", value))
	if err != nil {
		return err
	}
	if !strings.HasPrefix(response, "OK") {
		return fmt.Errorf("%s", response)
	}
	return nil
}
