package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/realcatgirly/gobright/api"
)

// Action selects what a single invocation does.
type Action int

const (
	ActionSet Action = iota
	ActionHelp
	ActionStatus
	ActionGet
	ActionAdjust
)

// Command is the parsed form of an argument list. Value stays a string until
// dispatch so that a non-numeric positional argument is accepted by the
// parser and rejected on use, the way the tool always behaved.
type Command struct {
	Action Action
	Delta  int
	Value  string
}

// Run parses args (excluding the program name) and performs the selected
// action against the displays returned by enumerate. The returned int is the
// process exit code.
func Run(args []string, stdout, stderr io.Writer, enumerate func() []api.Display) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "No command specified. Type -h or --help for help")
		return 1
	}
	cmd, err := parse(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr)
		return 1
	}
	switch cmd.Action {
	case ActionHelp:
		printUsage(stdout)
		return 0
	case ActionStatus:
		return runStatus(stdout, enumerate)
	case ActionGet:
		return runGet(stdout, enumerate)
	case ActionAdjust:
		return runAdjust(cmd.Delta, stdout, stderr, enumerate)
	default:
		return runSet(cmd.Value, stdout, stderr, enumerate)
	}
}

// parse walks the flat token list. Help wins over status, status over get,
// get over an adjustment, and only when none of those are present does the
// positional value select the set action.
func parse(args []string) (Command, error) {
	var (
		help, status, get bool
		delta             int
		haveDelta         bool
		value             string
		haveValue         bool
	)
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			help = true
		case "--status", "-s":
			status = true
		case "--get", "-g":
			get = true
		default:
			if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
				d, err := strconv.Atoi(arg)
				if err != nil {
					return Command{}, fmt.Errorf("Invalid adjustment value '%s'.", arg)
				}
				delta = d
				haveDelta = true
				continue
			}
			if haveValue {
				return Command{}, fmt.Errorf("Error: Unexpected argument '%s'.", arg)
			}
			value = arg
			haveValue = true
		}
	}
	switch {
	case help:
		return Command{Action: ActionHelp}, nil
	case status:
		return Command{Action: ActionStatus}, nil
	case get:
		return Command{Action: ActionGet}, nil
	case haveDelta:
		return Command{Action: ActionAdjust, Delta: delta}, nil
	default:
		return Command{Action: ActionSet, Value: value}, nil
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gobright <brightness>    Set brightness level (0-100) on supported displays")
	fmt.Fprintln(w, "  gobright --help          Print usage information")
	fmt.Fprintln(w, "  gobright --status        Check if displays support brightness adjustment")
	fmt.Fprintln(w, "  gobright --get           Get current brightness level")
	fmt.Fprintln(w, "  gobright +/-<number>     Adjust brightness by the specified value (0-100)")
}

func runStatus(stdout io.Writer, enumerate func() []api.Display) int {
	for _, d := range enumerate() {
		if _, err := d.GetVCPFeature(api.FeatureBrightness); err == nil {
			fmt.Fprintf(stdout, "Display %q supports brightness adjustment via DDC/CI.\n", d.Info().Model)
		} else {
			fmt.Fprintf(stdout, "Display %q does not support brightness adjustment via DDC/CI.\n", d.Info().Model)
		}
	}
	return 0
}

func runGet(stdout io.Writer, enumerate func() []api.Display) int {
	for _, d := range enumerate() {
		value, err := d.GetVCPFeature(api.FeatureBrightness)
		if err != nil {
			fmt.Fprintf(stdout, "Failed to get brightness for display %q\n", d.Info().Model)
			continue
		}
		fmt.Fprintln(stdout, value)
	}
	return 0
}

func runAdjust(delta int, stdout, stderr io.Writer, enumerate func() []api.Display) int {
	for _, d := range enumerate() {
		current, err := d.GetVCPFeature(api.FeatureBrightness)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to get current brightness for display %q\n", d.Info().Model)
			continue
		}
		value := clamp(int(current) + delta)
		if err := d.SetVCPFeature(api.FeatureBrightness, value); err != nil {
			fmt.Fprintf(stderr, "Failed to set brightness on display %q: %s\n", d.Info().Model, err)
			continue
		}
		fmt.Fprintf(stdout, "Brightness adjusted to %d on display %q\n", value, d.Info().Model)
	}
	return 0
}

func runSet(raw string, stdout, stderr io.Writer, enumerate func() []api.Display) int {
	value, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid brightness value: %s\n", raw)
		return 1
	}
	if value > 100 {
		fmt.Fprintln(stderr, "Brightness value must be between 0 and 100.")
		return 1
	}
	displays := enumerate()
	if len(displays) == 0 {
		fmt.Fprintln(stderr, "No displays supporting DDC/CI found.")
		return 1
	}
	// individual write failures are reported but don't change the exit code
	for _, d := range displays {
		if err := d.SetVCPFeature(api.FeatureBrightness, uint16(value)); err != nil {
			fmt.Fprintf(stderr, "Failed to set brightness on display %q: %s\n", d.Info().Model, err)
			continue
		}
		fmt.Fprintf(stdout, "Brightness set to %d on display %q\n", value, d.Info().Model)
	}
	return 0
}

func clamp(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return uint16(v)
}
