package display

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/realcatgirly/gobright/api"
	"github.com/realcatgirly/gobright/config"
)

// DDC/CI monitors through the ddcutil binary. gobright never speaks the
// protocol itself; ddcutil owns the I2C access and the vendor quirks.

func init() {
	Backends["ddcutil"] = newDDCUtil
}

type DDCMonitor struct {
	command string
	number  string
	model   string
}

func newDDCUtil(cfg *config.Config) ([]api.Display, error) {
	command := cfg.DDCUtil.Command
	out, err := exec.Command(command, "detect", "--terse").Output()
	if err != nil {
		return nil, fmt.Errorf("ddcutil detect failed: %w", err)
	}
	monitors := parseDetect(string(out))
	displays := make([]api.Display, 0, len(monitors))
	for i := range monitors {
		monitors[i].command = command
		displays = append(displays, &monitors[i])
	}
	return displays, nil
}

// parseDetect reads the "Display N" blocks from ddcutil detect --terse
// output:
//
//	Display 1
//	   I2C bus:  /dev/i2c-4
//	   Monitor:  DEL:DELL U2720Q:ABC123
//
// "Invalid display" blocks are not listed as displays.
func parseDetect(out string) []DDCMonitor {
	var monitors []DDCMonitor
	for _, line := range strings.Split(out, "\n") {
		if number, ok := strings.CutPrefix(line, "Display "); ok {
			monitors = append(monitors, DDCMonitor{number: strings.TrimSpace(number)})
			continue
		}
		if len(monitors) == 0 {
			continue
		}
		if monitor, ok := strings.CutPrefix(strings.TrimSpace(line), "Monitor:"); ok {
			m := &monitors[len(monitors)-1]
			parts := strings.Split(strings.TrimSpace(monitor), ":")
			if len(parts) >= 2 {
				m.model = parts[1]
			} else {
				m.model = strings.TrimSpace(monitor)
			}
		}
	}
	return monitors
}

// Info implements api.Display.
func (d *DDCMonitor) Info() api.DisplayInfo {
	return api.DisplayInfo{Model: d.model, Backend: "ddcutil"}
}

// GetVCPFeature implements api.Display.
func (d *DDCMonitor) GetVCPFeature(code byte) (uint16, error) {
	out, err := exec.Command(d.command, "--display", d.number,
		"getvcp", fmt.Sprintf("0x%02x", code), "--terse").Output()
	if err != nil {
		return 0, fmt.Errorf("ddcutil getvcp failed: %w", err)
	}
	return parseGetVCP(string(out), code)
}

// parseGetVCP reads a terse continuous-feature reply, e.g. "VCP 10 C 70 100"
// (feature, type, current, max).
func parseGetVCP(out string, code byte) (uint16, error) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) < 4 || fields[0] != "VCP" || !strings.EqualFold(fields[1], fmt.Sprintf("%02X", code)) {
		return 0, fmt.Errorf("unexpected getvcp reply %q", strings.TrimSpace(out))
	}
	if fields[2] != "C" {
		return 0, fmt.Errorf("feature %s is not a continuous value", fields[1])
	}
	value, err := strconv.ParseUint(fields[3], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("unexpected getvcp reply %q", strings.TrimSpace(out))
	}
	return uint16(value), nil
}

// SetVCPFeature implements api.Display.
func (d *DDCMonitor) SetVCPFeature(code byte, value uint16) error {
	err := exec.Command(d.command, "--display", d.number,
		"setvcp", fmt.Sprintf("0x%02x", code), strconv.Itoa(int(value))).Run()
	if err != nil {
		return fmt.Errorf("ddcutil setvcp failed: %w", err)
	}
	return nil
}
