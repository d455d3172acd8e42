package display

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/realcatgirly/gobright/api"
	"github.com/realcatgirly/gobright/config"
)

// Built-in panels under /sys/class/backlight don't speak DDC/CI. Reads come
// straight from sysfs; writes go through the logind SetBrightness call on the
// caller's session, which works without root.

const backlightClass = "/sys/class/backlight"

func init() {
	Backends["backlight"] = newBacklight
}

type Backlight struct {
	name string
	dir  string
	max  int
}

func newBacklight(cfg *config.Config) ([]api.Display, error) {
	return enumerateBacklights(backlightClass)
}

func enumerateBacklights(root string) ([]api.Display, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("no backlight devices: %w", err)
	}
	var displays []api.Display
	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		max, err := readInt(filepath.Join(dir, "max_brightness"))
		if err != nil || max <= 0 {
			continue
		}
		displays = append(displays, &Backlight{name: e.Name(), dir: dir, max: max})
	}
	return displays, nil
}

func readInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// Info implements api.Display.
func (b *Backlight) Info() api.DisplayInfo {
	return api.DisplayInfo{Model: b.name, Backend: "backlight"}
}

// GetVCPFeature implements api.Display.
func (b *Backlight) GetVCPFeature(code byte) (uint16, error) {
	if code != api.FeatureBrightness {
		return 0, fmt.Errorf("unsupported feature 0x%02x", code)
	}
	raw, err := readInt(filepath.Join(b.dir, "brightness"))
	if err != nil {
		return 0, err
	}
	return rawToPercent(raw, b.max), nil
}

// SetVCPFeature implements api.Display.
func (b *Backlight) SetVCPFeature(code byte, value uint16) error {
	if code != api.FeatureBrightness {
		return fmt.Errorf("unsupported feature 0x%02x", code)
	}
	if value > 100 {
		return fmt.Errorf("brightness out of range")
	}
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer conn.Close()
	session := conn.Object("org.freedesktop.login1", "/org/freedesktop/login1/session/auto")
	call := session.Call("org.freedesktop.login1.Session.SetBrightness", 0,
		"backlight", b.name, uint32(percentToRaw(value, b.max)))
	if call.Err != nil {
		return fmt.Errorf("failed to set brightness: %w", call.Err)
	}
	return nil
}

// rawToPercent scales a raw sysfs brightness into 0-100.
func rawToPercent(raw, max int) uint16 {
	percent := int(float64(raw) / float64(max) * 100.0)
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	return uint16(percent)
}

// percentToRaw maps a percentage to the nearest raw sysfs step.
func percentToRaw(percent uint16, max int) int {
	return int(float64(percent)*float64(max)/100.0 + 0.5)
}
