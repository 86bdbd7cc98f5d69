package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	serialport "github.com/allbin/go-serialport"
	"github.com/google/go-cmp/cmp"
)

func TestFormatHex(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte{0xAA, 0xBB, 0xCC}, "AA BB CC"},
		{[]byte{0x00, 0x0f}, "00 0F"},
		{[]byte("Hi"), "48 69"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := FormatHex(tt.in); got != tt.want {
			t.Errorf("FormatHex(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatASCII(t *testing.T) {
	got := FormatASCII([]byte("OK\r\n\x00~"))
	if want := "OK...~"; got != want {
		t.Errorf("FormatASCII = %q, want %q", got, want)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr string
	}{
		{name: "continuous", input: "48656C6C6F", want: []byte("Hello")},
		{name: "spaced", input: "48 65 6c 6C 6f", want: []byte("Hello")},
		{name: "prefixed", input: "0xAA 0XBB", want: []byte{0xAA, 0xBB}},
		{name: "tabs and newlines", input: "AA\tBB\nCC", want: []byte{0xAA, 0xBB, 0xCC}},
		{name: "empty", input: "   ", wantErr: "empty input"},
		{name: "invalid character", input: "AZ", wantErr: "invalid hex character 'Z'"},
		{name: "odd length", input: "ABC", wantErr: "even number of digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseHex(%q) error = %v, want containing %q", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) failed: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseHex(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestFormatterToggles(t *testing.T) {
	df := NewDataFormatter(true, true)
	msg := DataReceivedMsg{Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), Data: []byte("A")}

	out := df.FormatMessage(msg)
	for _, want := range []string{"03:04:05.000", "RX", "HEX: 41", "ASCII: A"} {
		if !strings.Contains(out, want) {
			t.Errorf("default format %q missing %q", out, want)
		}
	}

	df.ToggleHex()
	df.ToggleTimestamps()
	df.ToggleIndicators()
	out = df.FormatMessage(msg)
	if strings.Contains(out, "HEX:") || strings.Contains(out, "03:04:05") || strings.Contains(out, "RX") {
		t.Errorf("toggled format still decorated: %q", out)
	}

	df.ToggleASCII()
	if out := df.FormatMessage(msg); !strings.Contains(out, "BYTES: 1") {
		t.Errorf("with hex and ascii off got %q, want byte count", out)
	}
}

func TestFormatTXStatus(t *testing.T) {
	df := NewDataFormatter(false, true)
	tests := []struct {
		status TxStatus
		want   string
	}{
		{TxPending, "TX ○"},
		{TxWritten, "TX ✓"},
		{TxIncomplete, "TX ½"},
		{TxError, "TX ✗"},
	}
	for _, tt := range tests {
		out := df.FormatMessage(DataReceivedMsg{Data: []byte("x"), IsTX: true, Status: tt.status})
		if !strings.Contains(out, tt.want) {
			t.Errorf("status %d rendered %q, want %q", tt.status, out, tt.want)
		}
	}
}

func TestFormatNotice(t *testing.T) {
	df := NewDataFormatter(true, true)
	out := df.FormatMessage(DataReceivedMsg{Notice: "link lost"})
	if !strings.Contains(out, "link lost") || strings.Contains(out, "HEX:") {
		t.Errorf("notice rendered %q", out)
	}
}

func TestInputPayload(t *testing.T) {
	in := NewInput("\r\n")
	in.SetValue("AT")

	send, display, err := in.Payload()
	if err != nil {
		t.Fatal(err)
	}
	if string(send) != "AT\r\n" || string(display) != "AT" {
		t.Errorf("ascii payload = %q / %q", send, display)
	}

	in.ToggleSendingMode()
	if in.GetSendingMode() != SendingModeHex {
		t.Fatalf("mode = %v, want HEX", in.GetSendingMode())
	}
	in.SetValue("41 42")
	send, display, err = in.Payload()
	if err != nil {
		t.Fatal(err)
	}
	if string(send) != "AB" || string(display) != "AB" {
		t.Errorf("hex payload = %q / %q", send, display)
	}

	in.SetValue("4")
	if _, _, err := in.Payload(); err == nil {
		t.Error("odd hex input accepted")
	}
}

func TestInputHistory(t *testing.T) {
	in := NewInput("")
	in.AddToHistory("first")
	in.AddToHistory("second")
	in.AddToHistory("second")
	in.AddToHistory("   ")

	if diff := cmp.Diff([]string{"first", "second"}, in.History()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	in.SetValue("draft")
	in.NavigateHistoryUp()
	if in.Value() != "second" {
		t.Errorf("up = %q, want second", in.Value())
	}
	in.NavigateHistoryUp()
	in.NavigateHistoryUp()
	if in.Value() != "first" {
		t.Errorf("up past oldest = %q, want first", in.Value())
	}
	in.NavigateHistoryDown()
	if in.Value() != "second" {
		t.Errorf("down = %q, want second", in.Value())
	}
	in.NavigateHistoryDown()
	if in.Value() != "draft" {
		t.Errorf("down past newest = %q, want the draft back", in.Value())
	}
}

func TestInputHistoryLimit(t *testing.T) {
	in := NewInput("")
	for i := range historyLimit + 10 {
		in.AddToHistory(strings.Repeat("x", i+1))
	}
	h := in.History()
	if len(h) != historyLimit {
		t.Fatalf("history length = %d, want %d", len(h), historyLimit)
	}
	if h[0] != strings.Repeat("x", 11) {
		t.Errorf("oldest kept entry has length %d, want 11", len(h[0]))
	}
}

func TestTerminalScrollback(t *testing.T) {
	term := NewTerminal(40, 5)
	term.RefreshDisplayWithRawData(make([]DataReceivedMsg, MaxLines+5))
	term.AddMessage(DataReceivedMsg{Data: []byte("x")})
	if term.Lines() != MaxLines {
		t.Errorf("lines = %d, want %d", term.Lines(), MaxLines)
	}
	if !term.Following() {
		t.Error("terminal should follow new output by default")
	}

	term.ScrollUp(3)
	if term.Following() {
		t.Error("scrolling up should stop following")
	}
	term.GotoBottom()
	if !term.Following() {
		t.Error("GotoBottom should resume following")
	}

	term.Clear()
	if term.Lines() != 0 {
		t.Errorf("lines after clear = %d", term.Lines())
	}
}

func TestStatusBar(t *testing.T) {
	sb := NewStatusBar("/dev/ttyUSB0", serialport.DefaultConfig())
	sb.SetWidth(120)
	if sb.Status() != "Connecting..." {
		t.Errorf("initial status = %q", sb.Status())
	}

	sb.SetConnected()
	view := sb.View("INSERT", "HEX", "12:00:00")
	for _, want := range []string{"INSERT", "/dev/ttyUSB0", "[HEX]", "9600 8N1", "12:00:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("status bar %q missing %q", view, want)
		}
	}

	lost := errors.New("device removed")
	sb.SetDisconnected(lost)
	if !errors.Is(sb.Err(), lost) {
		t.Errorf("Err() = %v", sb.Err())
	}
	sb.SetDisconnected(nil)
	if sb.Err() != nil || sb.Status() != "Disconnected" {
		t.Errorf("clean disconnect: status %q err %v", sb.Status(), sb.Err())
	}
}
