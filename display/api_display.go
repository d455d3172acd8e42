package display

import (
	"fmt"
	"io"

	"github.com/realcatgirly/gobright/api"
	"github.com/realcatgirly/gobright/config"
)

var (
	Backends map[string]func(cfg *config.Config) ([]api.Display, error)
)

func init() {
	Backends = make(map[string]func(cfg *config.Config) ([]api.Display, error))
}

// Enumerate collects the displays of every configured backend, in backend
// order. A failing backend is reported on errw and skipped; it never aborts
// the other backends.
func Enumerate(cfg *config.Config, errw io.Writer) []api.Display {
	var displays []api.Display
	for _, name := range cfg.Backends {
		open, ok := Backends[name]
		if !ok {
			fmt.Fprintf(errw, "unknown backend %q\n", name)
			continue
		}
		found, err := open(cfg)
		if err != nil {
			fmt.Fprintf(errw, "backend %s: %s\n", name, err)
			continue
		}
		displays = append(displays, found...)
	}
	return displays
}
