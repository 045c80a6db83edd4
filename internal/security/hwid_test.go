package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keycratecli/internal/config"
)

var hwidPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// fakeRunner answers commands from a table keyed by the full command line
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	out, ok := f.outputs[key]
	if !ok {
		return nil, errors.New("executable file not found")
	}
	return []byte(out), nil
}

const (
	cpuCmd  = "wmic cpu get ProcessorId /format:list"
	biosCmd = "wmic bios get SerialNumber /format:list"
	diskCmd = "wmic logicaldisk get SerialNumber /format:list"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func expectedHWID(joined string) string {
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:16]
}

func TestHashParts(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{name: "no parts hashes the empty string", parts: nil, want: "e3b0c44298fc1c14"},
		{name: "parts joined with pipe", parts: []string{"BFEBFBFF000906EA", "SN123", "1A2B3C4D"}, want: expectedHWID("BFEBFBFF000906EA|SN123|1A2B3C4D")},
		{name: "empty part keeps its separator", parts: []string{"a", "", "c"}, want: expectedHWID("a||c")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HashParts(tt.parts)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, hwidPattern, got)
		})
	}
}

func TestHashPartsDeterministic(t *testing.T) {
	parts := []string{"cpu", "bios", "disk"}
	first := HashParts(parts)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, HashParts([]string{"cpu", "bios", "disk"}))
	}
	assert.NotEqual(t, first, HashParts([]string{"cpu", "disk", "bios"}), "order matters")
	assert.NotEqual(t, first, HashParts([]string{"cpu", "bios", "disk2"}))
}

func TestComputeWindows(t *testing.T) {
	tests := []struct {
		name    string
		outputs map[string]string
		errs    map[string]error
		joined  string
	}{
		{
			name: "all queries succeed",
			outputs: map[string]string{
				cpuCmd:  "\r\n\r\nProcessorId=BFEBFBFF000906EA\r\n\r\n\r\n",
				biosCmd: "\r\nSerialNumber=PF2ABCDE  \r\n",
				diskCmd: "\r\nSerialNumber=1A2B3C4D\r\n\r\nSerialNumber=99999999\r\n",
			},
			joined: "BFEBFBFF000906EA|PF2ABCDE|1A2B3C4D",
		},
		{
			name: "failed query is omitted",
			outputs: map[string]string{
				cpuCmd:  "ProcessorId=CPU1\n",
				diskCmd: "SerialNumber=DISK1\n",
			},
			errs:   map[string]error{biosCmd: errors.New("exit status 1")},
			joined: "CPU1|DISK1",
		},
		{
			name: "missing field is omitted",
			outputs: map[string]string{
				cpuCmd:  "Name=Intel\n",
				biosCmd: "SerialNumber=BIOS1\n",
				diskCmd: "",
			},
			joined: "BIOS1",
		},
		{
			name: "present but blank field contributes an empty part",
			outputs: map[string]string{
				cpuCmd:  "ProcessorId=CPU1\n",
				biosCmd: "SerialNumber=\n",
				diskCmd: "SerialNumber=DISK1\n",
			},
			joined: "CPU1||DISK1",
		},
		{
			name:   "every query fails",
			joined: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{outputs: tt.outputs, errs: tt.errs}
			g := NewHWIDGenerator(WithGOOS("windows"), WithRunner(runner), WithLogger(quietLogger()))

			got := g.Compute(context.Background())
			assert.Equal(t, expectedHWID(tt.joined), got)
			assert.Regexp(t, hwidPattern, got)
			assert.Equal(t, []string{cpuCmd, biosCmd, diskCmd}, runner.calls, "queries run in order")
		})
	}
}

func TestComputeUnsupportedPlatform(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		t.Run(goos, func(t *testing.T) {
			runner := &fakeRunner{}
			g := NewHWIDGenerator(WithGOOS(goos), WithRunner(runner), WithLogger(quietLogger()))

			assert.False(t, g.Supported())
			assert.Equal(t, config.UnsupportedPlatformHWID, g.Compute(context.Background()))
			assert.Empty(t, runner.calls, "no OS utilities are invoked")
		})
	}
}

func TestComputeIsStable(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		cpuCmd:  "ProcessorId=CPU1\n",
		biosCmd: "SerialNumber=BIOS1\n",
		diskCmd: "SerialNumber=DISK1\n",
	}}
	g := NewHWIDGenerator(WithGOOS("windows"), WithRunner(runner), WithLogger(quietLogger()))

	first := g.Compute(context.Background())
	assert.Equal(t, first, g.Compute(context.Background()))
}

// slowRunner blocks until the query context is done
type slowRunner struct{}

func (slowRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestComputeQueryTimeout(t *testing.T) {
	g := NewHWIDGenerator(
		WithGOOS("windows"),
		WithRunner(slowRunner{}),
		WithQueryTimeout(10*time.Millisecond),
		WithLogger(quietLogger()),
	)

	start := time.Now()
	assert.Equal(t, HashParts(nil), g.Compute(context.Background()))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestComponents(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		cpuCmd:  "ProcessorId=CPU1\n",
		diskCmd: "SerialNumber=DISK1\n",
	}}
	g := NewHWIDGenerator(WithGOOS("windows"), WithRunner(runner), WithLogger(quietLogger()))

	components := g.Components(context.Background())
	assert.Equal(t, map[string]string{
		"os":          "windows",
		"cpu_id":      "CPU1",
		"bios_serial": "",
		"disk_serial": "DISK1",
	}, components)
}

func TestParseListField(t *testing.T) {
	value, ok := parseListField([]byte("Caption=C:\r\nSerialNumber= ABC \r\n"), "SerialNumber")
	require.True(t, ok)
	assert.Equal(t, "ABC", value)

	_, ok = parseListField([]byte("  SerialNumber=indented\n"), "SerialNumber")
	assert.False(t, ok, "field must start the line")

	_, ok = parseListField([]byte{0xff, 0xfe, 'S'}, "SerialNumber")
	assert.False(t, ok, "invalid UTF-8 is ignored")
}

func TestComputeHWIDOnHost(t *testing.T) {
	got := ComputeHWID()
	if NewHWIDGenerator().Supported() {
		assert.Regexp(t, hwidPattern, got)
		return
	}
	assert.Equal(t, config.UnsupportedPlatformHWID, got)
}
