package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"reframe/internal/media/ffprobe"
	"reframe/internal/services"
)

// RawDecoder streams decoded frames from a video as packed RGB24 bytes.
type RawDecoder struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer

	width      int
	height     int
	frameRate  float64
	frameSize  int
	frameCount int
}

// OpenRawDecoder probes the input and starts an ffmpeg rawvideo pipe over its
// first video stream.
func (c *Client) OpenRawDecoder(ctx context.Context, path string) (*RawDecoder, error) {
	probe, err := ffprobe.Inspect(ctx, c.probeBinary, path)
	if err != nil {
		return nil, services.Wrap(services.ErrVideoOpen, "decode", "probe", path, err)
	}
	video, ok := probe.VideoStream()
	if !ok {
		return nil, services.Wrap(services.ErrVideoOpen, "decode", "probe", "no video stream in "+path, nil)
	}
	if video.Width <= 0 || video.Height <= 0 {
		return nil, services.Wrap(services.ErrVideoOpen, "decode", "probe", fmt.Sprintf("invalid dimensions %dx%d", video.Width, video.Height), nil)
	}

	args := []string{
		"-v", "error",
		"-i", path,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	}
	cmd := commandContext(ctx, c.binary, args...)
	decoder := &RawDecoder{
		cmd:        cmd,
		width:      video.Width,
		height:     video.Height,
		frameRate:  video.FrameRate(),
		frameSize:  video.Width * video.Height * 3,
		frameCount: video.FrameCount(),
	}
	cmd.Stderr = &decoder.stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrVideoOpen, "decode", "stdout pipe", path, err)
	}
	decoder.stdout = stdout
	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrVideoOpen, "decode", "start ffmpeg", path, err)
	}
	return decoder, nil
}

// Width returns the frame width in pixels.
func (d *RawDecoder) Width() int { return d.width }

// Height returns the frame height in pixels.
func (d *RawDecoder) Height() int { return d.height }

// FrameRate returns the detected frame rate (30fps fallback applied).
func (d *RawDecoder) FrameRate() float64 { return d.frameRate }

// FrameSize returns the byte length of one RGB24 frame.
func (d *RawDecoder) FrameSize() int { return d.frameSize }

// FrameCount returns the container-reported frame count, 0 when unknown.
func (d *RawDecoder) FrameCount() int { return d.frameCount }

// ReadFrame fills buf with the next frame. It returns false once the stream
// is exhausted. buf must be FrameSize() bytes.
func (d *RawDecoder) ReadFrame(buf []byte) (bool, error) {
	if len(buf) != d.frameSize {
		return false, fmt.Errorf("frame buffer is %d bytes, want %d", len(buf), d.frameSize)
	}
	_, err := io.ReadFull(d.stdout, buf)
	if err == io.EOF {
		return false, nil
	}
	if err == io.ErrUnexpectedEOF {
		// Trailing partial frame; treat as end of stream.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read frame: %w", err)
	}
	return true, nil
}

// Close drains the pipe and reaps the decoder process.
func (d *RawDecoder) Close() error {
	_, _ = io.Copy(io.Discard, d.stdout)
	_ = d.stdout.Close()
	if err := d.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg decode: %w: %s", err, tailLines(d.stderr.Bytes(), 4))
	}
	return nil
}

// RawEncoder consumes packed RGB24 frames and encodes them to a video file
// without audio.
type RawEncoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer

	frameSize int
	written   int
}

// OpenRawEncoder starts an ffmpeg process encoding rawvideo frames of the
// given geometry into path.
func (c *Client) OpenRawEncoder(ctx context.Context, path string, width, height int, frameRate float64, codec string) (*RawEncoder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid encoder dimensions %dx%d", width, height)
	}
	if frameRate <= 0 {
		frameRate = ffprobe.FallbackFrameRate
	}
	if codec == "" {
		codec = "libx264"
	}

	args := []string{
		"-y",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(frameRate, 'f', -1, 64),
		"-i", "-",
		"-an",
		"-c:v", codec,
		"-pix_fmt", "yuv420p",
		path,
	}
	cmd := commandContext(ctx, c.binary, args...)
	encoder := &RawEncoder{cmd: cmd, frameSize: width * height * 3}
	cmd.Stderr = &encoder.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	encoder.stdin = stdin
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg encode: %w", err)
	}
	return encoder, nil
}

// WriteFrame submits one RGB24 frame to the encoder.
func (e *RawEncoder) WriteFrame(buf []byte) error {
	if len(buf) != e.frameSize {
		return fmt.Errorf("frame buffer is %d bytes, want %d", len(buf), e.frameSize)
	}
	if _, err := e.stdin.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w: %s", err, tailLines(e.stderr.Bytes(), 4))
	}
	e.written++
	return nil
}

// FramesWritten returns the number of frames submitted so far.
func (e *RawEncoder) FramesWritten() int { return e.written }

// Close finishes the stream and waits for the encoder to exit.
func (e *RawEncoder) Close() error {
	_ = e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg encode: %w: %s", err, tailLines(e.stderr.Bytes(), 4))
	}
	return nil
}
