package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"keycratecli/internal/config"
)

// hwidSeparator joins hardware parts before hashing
const hwidSeparator = "|"

// CommandRunner runs an external program and returns its standard output
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec
type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// hardwareQuery is one OS utility invocation that prints a labeled field
type hardwareQuery struct {
	Name    string
	Command string
	Args    []string
	Field   string
}

// platformQueries lists, per GOOS, the queries feeding the HWID in hash order.
// Platforms without an entry get the unsupported sentinel.
var platformQueries = map[string][]hardwareQuery{
	"windows": {
		{Name: "cpu_id", Command: "wmic", Args: []string{"cpu", "get", "ProcessorId", "/format:list"}, Field: "ProcessorId"},
		{Name: "bios_serial", Command: "wmic", Args: []string{"bios", "get", "SerialNumber", "/format:list"}, Field: "SerialNumber"},
		{Name: "disk_serial", Command: "wmic", Args: []string{"logicaldisk", "get", "SerialNumber", "/format:list"}, Field: "SerialNumber"},
	},
}

// HWIDGenerator derives a hardware identifier from OS-reported serial numbers
type HWIDGenerator struct {
	goos         string
	runner       CommandRunner
	queryTimeout time.Duration
	logger       *slog.Logger
}

// HWIDOption configures an HWIDGenerator
type HWIDOption func(*HWIDGenerator)

// WithRunner replaces the command runner
func WithRunner(r CommandRunner) HWIDOption {
	return func(g *HWIDGenerator) { g.runner = r }
}

// WithGOOS overrides the platform the strategy is chosen for
func WithGOOS(goos string) HWIDOption {
	return func(g *HWIDGenerator) { g.goos = goos }
}

// WithQueryTimeout bounds each OS utility invocation
func WithQueryTimeout(d time.Duration) HWIDOption {
	return func(g *HWIDGenerator) { g.queryTimeout = d }
}

// WithLogger sets the logger used for debug output
func WithLogger(l *slog.Logger) HWIDOption {
	return func(g *HWIDGenerator) { g.logger = l }
}

// NewHWIDGenerator creates a generator for the running platform
func NewHWIDGenerator(opts ...HWIDOption) *HWIDGenerator {
	g := &HWIDGenerator{
		goos:         runtime.GOOS,
		runner:       execRunner{},
		queryTimeout: config.DefaultHWIDQueryTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ComputeHWID returns the HWID of this machine using default settings
func ComputeHWID() string {
	return NewHWIDGenerator().Compute(context.Background())
}

// Supported reports whether the platform has a hardware query strategy
func (g *HWIDGenerator) Supported() bool {
	_, ok := platformQueries[g.goos]
	return ok
}

// Compute returns the 16 character HWID, or config.UnsupportedPlatformHWID
// when the platform has no strategy. Individual query failures only weaken
// the fingerprint; they are never returned.
func (g *HWIDGenerator) Compute(ctx context.Context) string {
	if !g.Supported() {
		g.logger.DebugContext(ctx, "HWID not supported on platform",
			slog.String("os", g.goos))
		return config.UnsupportedPlatformHWID
	}

	queries := platformQueries[g.goos]
	start := time.Now()
	var parts []string
	for _, q := range queries {
		if value, ok := g.query(ctx, q); ok {
			parts = append(parts, value)
		}
	}

	hwid := HashParts(parts)
	g.logger.InfoContext(ctx, "HWID computed",
		slog.String("hwid", hwid),
		slog.Int("parts", len(parts)),
		slog.Int("queries", len(queries)),
		slog.Duration("generation_time", time.Since(start)),
	)
	return hwid
}

// Components returns the raw value of every query by name, for debugging.
// Missing values are empty strings.
func (g *HWIDGenerator) Components(ctx context.Context) map[string]string {
	components := map[string]string{"os": g.goos}
	for _, q := range platformQueries[g.goos] {
		value, _ := g.query(ctx, q)
		components[q.Name] = value
	}
	return components
}

// query runs one hardware query and extracts its field
func (g *HWIDGenerator) query(ctx context.Context, q hardwareQuery) (string, bool) {
	qctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	out, err := g.runner.Output(qctx, q.Command, q.Args...)
	if err != nil {
		g.logger.DebugContext(ctx, "Hardware query failed",
			slog.String("query", q.Name),
			slog.String("error", err.Error()))
		return "", false
	}

	value, ok := parseListField(out, q.Field)
	if !ok {
		g.logger.DebugContext(ctx, "Hardware query returned no field",
			slog.String("query", q.Name),
			slog.String("field", q.Field))
	}
	return value, ok
}

// parseListField finds the first "Field=value" line of /format:list output.
// Output that is not valid UTF-8 yields nothing.
func parseListField(out []byte, field string) (string, bool) {
	if !utf8.Valid(out) {
		return "", false
	}
	prefix := field + "="
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}

// HashParts joins parts with "|", hashes them with SHA-256 and returns the
// first 16 lowercase hex characters of the digest.
func HashParts(parts []string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, hwidSeparator)))
	return hex.EncodeToString(sum[:])[:config.HWIDLength]
}
