package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"reframe/internal/media/ffprobe"
	"reframe/internal/services"
)

var commandContext = exec.CommandContext

// Option configures the CLI client.
type Option func(*Client)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithProbeBinary overrides the default ffprobe binary name.
func WithProbeBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.probeBinary = binary
		}
	}
}

// Client wraps the ffmpeg command-line tool for the remux, trim, and split
// operations plus the rawvideo frame pipes used by the rawvideo engine.
type Client struct {
	binary      string
	probeBinary string
}

// NewClient constructs a Client using defaults.
func NewClient(opts ...Option) *Client {
	client := &Client{binary: "ffmpeg", probeBinary: "ffprobe"}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Binary returns the configured ffmpeg executable.
func (c *Client) Binary() string { return c.binary }

// ProbeBinary returns the configured ffprobe executable.
func (c *Client) ProbeBinary() string { return c.probeBinary }

// Available verifies the ffmpeg and ffprobe binaries can be executed.
func (c *Client) Available(ctx context.Context) error {
	for _, binary := range []string{c.binary, c.probeBinary} {
		cmd := commandContext(ctx, binary, "-version")
		if output, err := cmd.CombinedOutput(); err != nil {
			return services.Wrap(services.ErrExternalTool, "preflight", "version check", binary, fmt.Errorf("%w: %s", err, firstLine(output)))
		}
	}
	return nil
}

// Remux copies the video stream from videoNoAudio bit-exact and re-encodes
// the audio stream from audioSource into outPath.
func (c *Client) Remux(ctx context.Context, videoNoAudio, audioSource, outPath, audioCodec string) error {
	if err := requireFile(videoNoAudio); err != nil {
		return services.Wrap(services.ErrRemux, "audio", "remux", "video input missing", err)
	}
	if err := requireFile(audioSource); err != nil {
		return services.Wrap(services.ErrRemux, "audio", "remux", "audio source missing", err)
	}
	if strings.TrimSpace(audioCodec) == "" {
		audioCodec = "aac"
	}

	args := []string{
		"-y",
		"-i", videoNoAudio,
		"-i", audioSource,
		"-c:v", "copy",
		"-c:a", audioCodec,
		"-map", "0:v:0",
		"-map", "1:a:0",
		outPath,
	}
	cmd := commandContext(ctx, c.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return services.Wrap(services.ErrRemux, "audio", "remux", tailLines(output, 6), err)
	}
	return nil
}

// Trim extracts [startS, endS) from the input. Stream copy is attempted
// first; on failure the command is retried with a re-encode unless reencode
// already forced one.
func (c *Client) Trim(ctx context.Context, videoIn string, startS, endS float64, outPath string, reencode bool) error {
	if err := requireFile(videoIn); err != nil {
		return services.Wrap(services.ErrVideoOpen, "trim", "open input", videoIn, err)
	}
	duration := endS - startS
	if duration <= 0 {
		return services.Wrap(services.ErrValidation, "trim", "boundary", fmt.Sprintf("end %.3f not after start %.3f", endS, startS), nil)
	}

	run := func(copyStreams bool) error {
		args := []string{
			"-y",
			"-i", videoIn,
			"-ss", formatSeconds(startS),
			"-t", formatSeconds(duration),
		}
		if copyStreams {
			args = append(args, "-c", "copy")
		} else {
			args = append(args, "-c:v", "libx264", "-c:a", "aac")
		}
		args = append(args, outPath)
		cmd := commandContext(ctx, c.binary, args...)
		if output, err := cmd.CombinedOutput(); err != nil {
			return services.Wrap(services.ErrExternalTool, "trim", "ffmpeg", tailLines(output, 6), err)
		}
		return nil
	}

	if reencode {
		return run(false)
	}
	if err := run(true); err != nil {
		// Keyframe misalignment breaks stream copy on some containers.
		return run(false)
	}
	return nil
}

// SplitEqual divides the input into n equal-duration segments. The template
// must contain a single %d placeholder for the 1-based segment number.
func (c *Client) SplitEqual(ctx context.Context, videoIn, template string, n int, reencode bool) ([]string, error) {
	if err := requireFile(videoIn); err != nil {
		return nil, services.Wrap(services.ErrVideoOpen, "split", "open input", videoIn, err)
	}
	if n <= 0 {
		return nil, services.Wrap(services.ErrValidation, "split", "segment count", strconv.Itoa(n), nil)
	}
	if !strings.Contains(template, "%d") {
		return nil, services.Wrap(services.ErrValidation, "split", "output template", "missing %d placeholder", nil)
	}

	probe, err := ffprobe.Inspect(ctx, c.probeBinary, videoIn)
	if err != nil {
		return nil, services.Wrap(services.ErrVideoOpen, "split", "probe duration", videoIn, err)
	}
	duration := probe.DurationSeconds()
	if duration <= 0 {
		return nil, services.Wrap(services.ErrVideoOpen, "split", "probe duration", "container reports no duration", nil)
	}

	segDuration := duration / float64(n)
	outputs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out := fmt.Sprintf(template, i+1)
		start := float64(i) * segDuration
		if err := c.Trim(ctx, videoIn, start, start+segDuration, out, reencode); err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}
	return nil
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

func firstLine(output []byte) string {
	text := strings.TrimSpace(string(output))
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

func tailLines(output []byte, n int) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
