package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/realcatgirly/gobright/api"
)

type fakeDisplay struct {
	model    string
	value    uint16
	getErr   error
	setErr   error
	getCalls int
	setCalls []uint16
}

func (f *fakeDisplay) Info() api.DisplayInfo {
	return api.DisplayInfo{Model: f.model, Backend: "fake"}
}

func (f *fakeDisplay) GetVCPFeature(code byte) (uint16, error) {
	f.getCalls++
	if f.getErr != nil {
		return 0, f.getErr
	}
	return f.value, nil
}

func (f *fakeDisplay) SetVCPFeature(code byte, value uint16) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls = append(f.setCalls, value)
	f.value = value
	return nil
}

// run wires fakes into Run and captures both streams plus how often the
// display list was enumerated.
func run(t *testing.T, args []string, displays ...*fakeDisplay) (code int, stdout, stderr string, enumerations int) {
	t.Helper()
	var out, errw bytes.Buffer
	n := 0
	enumerate := func() []api.Display {
		n++
		list := make([]api.Display, len(displays))
		for i, d := range displays {
			list[i] = d
		}
		return list
	}
	code = Run(args, &out, &errw, enumerate)
	return code, out.String(), errw.String(), n
}

func TestSetWritesEveryDisplay(t *testing.T) {
	a := &fakeDisplay{model: "U2720Q", value: 50}
	b := &fakeDisplay{model: "EV2760", value: 80}
	code, stdout, _, _ := run(t, []string{"40"}, a, b)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, d := range []*fakeDisplay{a, b} {
		if len(d.setCalls) != 1 || d.setCalls[0] != 40 {
			t.Fatalf("display %s: expected one write of 40, got %v", d.model, d.setCalls)
		}
	}
	if !strings.Contains(stdout, `Brightness set to 40 on display "U2720Q"`) {
		t.Fatalf("missing success line, got:\n%s", stdout)
	}
}

func TestSetRejectsOutOfRange(t *testing.T) {
	d := &fakeDisplay{model: "U2720Q", value: 50}
	code, _, stderr, enumerations := run(t, []string{"101"}, d)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if enumerations != 0 || d.getCalls != 0 || len(d.setCalls) != 0 {
		t.Fatalf("expected no display I/O for out-of-range value")
	}
	if !strings.Contains(stderr, "between 0 and 100") {
		t.Fatalf("missing range message, got: %s", stderr)
	}
}

func TestSetInvalidValue(t *testing.T) {
	d := &fakeDisplay{model: "U2720Q"}
	code, _, stderr, enumerations := run(t, []string{"abc"}, d)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if enumerations != 0 {
		t.Fatalf("expected no enumeration for unparseable value")
	}
	if !strings.Contains(stderr, "Invalid brightness value: abc") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestSetNoDisplays(t *testing.T) {
	code, _, stderr, _ := run(t, []string{"50"})
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "No displays supporting DDC/CI found.") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestSetFailingDisplayStillExitsZero(t *testing.T) {
	ok := &fakeDisplay{model: "good", value: 50}
	bad := &fakeDisplay{model: "bad", setErr: errors.New("ddc write failed")}
	code, stdout, stderr, _ := run(t, []string{"70"}, bad, ok)
	if code != 0 {
		t.Fatalf("per-display failure must not change exit code, got %d", code)
	}
	if !strings.Contains(stderr, `Failed to set brightness on display "bad"`) {
		t.Fatalf("missing failure line, got: %s", stderr)
	}
	if len(ok.setCalls) != 1 || ok.setCalls[0] != 70 {
		t.Fatalf("remaining display not written: %v", ok.setCalls)
	}
	if !strings.Contains(stdout, `Brightness set to 70 on display "good"`) {
		t.Fatalf("missing success line, got: %s", stdout)
	}
}

func TestNoArguments(t *testing.T) {
	d := &fakeDisplay{model: "U2720Q"}
	code, _, stderr, enumerations := run(t, nil, d)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if enumerations != 0 {
		t.Fatalf("expected no display I/O without arguments")
	}
	if !strings.Contains(stderr, "No command specified") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestHelp(t *testing.T) {
	for _, arg := range []string{"--help", "-h"} {
		code, stdout, _, enumerations := run(t, []string{arg})
		if code != 0 {
			t.Fatalf("%s: expected exit 0, got %d", arg, code)
		}
		if enumerations != 0 {
			t.Fatalf("%s: help must not touch displays", arg)
		}
		if !strings.Contains(stdout, "Usage:") {
			t.Fatalf("%s: missing usage, got: %s", arg, stdout)
		}
	}
}

func TestHelpWinsOverOtherActions(t *testing.T) {
	code, stdout, _, enumerations := run(t, []string{"--status", "--help"})
	if code != 0 || enumerations != 0 {
		t.Fatalf("expected help with no display I/O, got code %d, %d enumerations", code, enumerations)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Fatalf("expected usage output, got: %s", stdout)
	}
}

func TestUnexpectedArgument(t *testing.T) {
	code, _, stderr, enumerations := run(t, []string{"50", "60"})
	if code != 1 || enumerations != 0 {
		t.Fatalf("expected exit 1 with no display I/O, got code %d, %d enumerations", code, enumerations)
	}
	if !strings.Contains(stderr, "Unexpected argument '60'") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Fatalf("expected usage after argument error, got: %s", stderr)
	}
}

func TestInvalidAdjustment(t *testing.T) {
	code, _, stderr, enumerations := run(t, []string{"-abc"})
	if code != 1 || enumerations != 0 {
		t.Fatalf("expected exit 1 with no display I/O, got code %d, %d enumerations", code, enumerations)
	}
	if !strings.Contains(stderr, "Invalid adjustment value '-abc'.") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestAdjustClamps(t *testing.T) {
	tests := []struct {
		current uint16
		delta   int
		want    uint16
	}{
		{50, 30, 80},
		{90, 20, 100},
		{10, -20, 0},
		{0, -5, 0},
		{100, 10, 100},
		{50, -50, 0},
	}
	for _, tt := range tests {
		d := &fakeDisplay{model: "U2720Q", value: tt.current}
		arg := fmt.Sprintf("%+d", tt.delta)
		code, stdout, _, _ := run(t, []string{arg}, d)
		if code != 0 {
			t.Fatalf("%s from %d: expected exit 0, got %d", arg, tt.current, code)
		}
		if len(d.setCalls) != 1 || d.setCalls[0] != tt.want {
			t.Fatalf("%s from %d: expected write of %d, got %v", arg, tt.current, tt.want, d.setCalls)
		}
		if !strings.Contains(stdout, fmt.Sprintf("Brightness adjusted to %d", tt.want)) {
			t.Fatalf("%s from %d: missing report, got: %s", arg, tt.current, stdout)
		}
	}
}

func TestAdjustReadFailureSkipsWrite(t *testing.T) {
	bad := &fakeDisplay{model: "bad", getErr: errors.New("ddc read failed")}
	ok := &fakeDisplay{model: "good", value: 40}
	code, _, stderr, _ := run(t, []string{"+10"}, bad, ok)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(bad.setCalls) != 0 {
		t.Fatalf("read failure must skip the write, got %v", bad.setCalls)
	}
	if !strings.Contains(stderr, `Failed to get current brightness for display "bad"`) {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if len(ok.setCalls) != 1 || ok.setCalls[0] != 50 {
		t.Fatalf("remaining display not adjusted: %v", ok.setCalls)
	}
}

func TestStatus(t *testing.T) {
	ok := &fakeDisplay{model: "good", value: 50}
	bad := &fakeDisplay{model: "bad", getErr: errors.New("nope")}
	code, stdout, _, _ := run(t, []string{"--status"}, ok, bad)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, `Display "good" supports brightness adjustment via DDC/CI.`) {
		t.Fatalf("missing support line, got: %s", stdout)
	}
	if !strings.Contains(stdout, `Display "bad" does not support brightness adjustment via DDC/CI.`) {
		t.Fatalf("missing no-support line, got: %s", stdout)
	}
	if len(ok.setCalls) != 0 || len(bad.setCalls) != 0 {
		t.Fatalf("status must never write")
	}
}

func TestGet(t *testing.T) {
	ok := &fakeDisplay{model: "good", value: 73}
	bad := &fakeDisplay{model: "bad", getErr: errors.New("nope")}
	code, stdout, _, _ := run(t, []string{"--get"}, ok, bad)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "73\n") {
		t.Fatalf("missing value, got: %s", stdout)
	}
	if !strings.Contains(stdout, `Failed to get brightness for display "bad"`) {
		t.Fatalf("missing failure line, got: %s", stdout)
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		args []string
		want Action
	}{
		{[]string{"--help"}, ActionHelp},
		{[]string{"-s", "-h"}, ActionHelp},
		{[]string{"--status", "--get"}, ActionStatus},
		{[]string{"--get", "+5"}, ActionGet},
		{[]string{"+5", "42"}, ActionAdjust},
		{[]string{"42"}, ActionSet},
	}
	for _, tt := range tests {
		cmd, err := parse(tt.args)
		if err != nil {
			t.Fatalf("%v: unexpected error %v", tt.args, err)
		}
		if cmd.Action != tt.want {
			t.Fatalf("%v: expected action %d, got %d", tt.args, tt.want, cmd.Action)
		}
	}
}
