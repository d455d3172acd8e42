package display

import (
	"fmt"

	"github.com/realcatgirly/gobright/api"
	"github.com/realcatgirly/gobright/config"
)

// This is a console backend that fakes displays and prints all received
// writes to the console, for testing without hardware

func init() {
	Backends["console"] = newConsole
}

type Console struct {
	id         int
	brightness uint16
}

func newConsole(cfg *config.Config) ([]api.Display, error) {
	n := cfg.Console.Displays
	if n <= 0 {
		n = 1
	}
	displays := make([]api.Display, 0, n)
	for i := 0; i < n; i++ {
		displays = append(displays, &Console{id: i, brightness: 50})
	}
	return displays, nil
}

// Info implements api.Display.
func (c *Console) Info() api.DisplayInfo {
	return api.DisplayInfo{Model: fmt.Sprintf("console-%d", c.id), Backend: "console"}
}

// GetVCPFeature implements api.Display.
func (c *Console) GetVCPFeature(code byte) (uint16, error) {
	if code != api.FeatureBrightness {
		return 0, fmt.Errorf("unsupported feature 0x%02x", code)
	}
	return c.brightness, nil
}

// SetVCPFeature implements api.Display.
func (c *Console) SetVCPFeature(code byte, value uint16) error {
	if code != api.FeatureBrightness {
		return fmt.Errorf("unsupported feature 0x%02x", code)
	}
	if value > 100 {
		return fmt.Errorf("brightness out of range")
	}
	c.brightness = value
	fmt.Printf("console-%d brightness: %d\n", c.id, value)
	return nil
}
