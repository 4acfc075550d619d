package mux

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/model"
)

// FFmpeg invocation constants
const (
	LogLevel        = "info"
	StreamCopy      = "copy"
	OutputExtension = ".mp4"
	HeaderSeparator = "\r\n"
	stderrTailLines = 5
)

var (
	durationPattern = regexp.MustCompile(`Duration: (\d+):(\d+):(\d+)\.(\d+)`)
	timePattern     = regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)
)

// Runner invokes ffmpeg for adaptive streams
type Runner struct {
	ffmpeg string
	log    *zap.Logger
}

// NewRunner creates a runner around a resolved ffmpeg executable
func NewRunner(ffmpegPath string, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ffmpeg: ffmpegPath, log: log}
}

// OutputPath returns the file ffmpeg will write for outBase
func OutputPath(outBase string) string {
	return outBase + OutputExtension
}

// BuildArgs builds the ffmpeg command arguments. Headers are sorted so the
// invocation is reproducible.
func BuildArgs(url string, headers map[string]string, output string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", LogLevel}
	if block := HeaderBlock(headers); block != "" {
		args = append(args, "-headers", block)
	}
	return append(args, "-i", url, "-c", StreamCopy, output)
}

// HeaderBlock renders headers in the CRLF-terminated form ffmpeg expects
func HeaderBlock(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(headers)) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(headers[k])
		b.WriteString(HeaderSeparator)
	}
	return b.String()
}

// ScanLogLines splits ffmpeg output on either \r or \n. Progress lines are
// rewritten in place with \r, so bufio.ScanLines alone would buffer them.
func ScanLogLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Parser turns ffmpeg log lines into monotonically increasing percentages
type Parser struct {
	duration float64
	last     int
}

// Feed consumes one log line. It returns the new percentage and true only
// when the value grew.
func (p *Parser) Feed(line string) (int, bool) {
	if p.duration == 0 {
		if m := durationPattern.FindStringSubmatch(line); m != nil {
			p.duration = clockSeconds(m[1:])
			return 0, false
		}
	}
	if p.duration <= 0 {
		return 0, false
	}
	m := timePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	percent := min(100, int(clockSeconds(m[1:])/p.duration*100))
	if percent <= p.last {
		return 0, false
	}
	p.last = percent
	return percent, true
}

// Duration returns the parsed media duration in seconds, zero if unseen
func (p *Parser) Duration() float64 { return p.duration }

// clockSeconds converts h, m, s and centiseconds captures
func clockSeconds(parts []string) float64 {
	var v [4]float64
	for i, s := range parts {
		n, _ := strconv.Atoi(s)
		v[i] = float64(n)
	}
	return v[0]*3600 + v[1]*60 + v[2] + v[3]/100
}

// Run remuxes url into output. Progress is reported as downloading events
// carrying Percent; the caller emits the final event. Killing ffmpeg
// through ctx is reported as an error. A failed run removes the partial
// output.
func (r *Runner) Run(ctx context.Context, url string, headers map[string]string, output string, onProgress model.ProgressFunc) error {
	args := BuildArgs(url, headers, output)
	r.log.Info("starting ffmpeg remux", zap.String("url", url), zap.String("output", output), zap.Int("headers", len(headers)))

	cmd := exec.CommandContext(ctx, r.ffmpeg, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	tail := r.monitorProgress(stderr, output, onProgress)

	if err := cmd.Wait(); err != nil {
		r.log.Error("ffmpeg failed", zap.Error(err), zap.Strings("stderr_tail", tail))
		if rmErr := os.Remove(output); rmErr != nil && !os.IsNotExist(rmErr) {
			r.log.Warn("failed to remove partial output", zap.String("output", output), zap.Error(rmErr))
		}
		if len(tail) > 0 {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, tail[len(tail)-1])
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// monitorProgress drains stderr until EOF and returns the last few lines
func (r *Runner) monitorProgress(stderr io.Reader, output string, onProgress model.ProgressFunc) []string {
	scanner := bufio.NewScanner(stderr)
	scanner.Split(ScanLogLines)

	var parser Parser
	var tail []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
		percent, ok := parser.Feed(line)
		if !ok || onProgress == nil {
			continue
		}
		onProgress(model.ProgressEvent{
			Status:     model.ProgressDownloading,
			Percent:    float64(percent),
			OutputPath: output,
		})
	}
	return tail
}
