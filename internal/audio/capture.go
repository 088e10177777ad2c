// Package audio captures microphone audio through an ffmpeg child
// process, encoding it as webm/opus for upload.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/scriptspeak/scriptspeak/internal/recorder"
)

const (
	captureSampleRate = 16000
	captureChannels   = 1
	chunkSize         = 4096
)

// FFmpegSource starts ffmpeg capture sessions against the default
// microphone.
type FFmpegSource struct {
	command string
	format  string
	device  string
}

// NewFFmpegSource creates a source running the given ffmpeg binary.
// Empty arguments fall back to ffmpeg reading the default pulse
// device.
func NewFFmpegSource(command, format, device string) *FFmpegSource {
	if command == "" {
		command = "ffmpeg"
	}
	if format == "" {
		format = "pulse"
	}
	if device == "" {
		device = "default"
	}
	return &FFmpegSource{command: command, format: format, device: device}
}

// Start launches ffmpeg and begins streaming encoded fragments. An
// ffmpeg that dies immediately (no device, no permission) is reported
// as a start failure rather than a dead session.
func (s *FFmpegSource) Start(ctx context.Context, cfg recorder.CaptureConfig) (recorder.CaptureSession, error) {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", s.format,
		"-i", s.device,
		"-ac", strconv.Itoa(captureChannels),
		"-ar", strconv.Itoa(captureSampleRate),
	}
	if filter := filterChain(cfg); filter != "" {
		args = append(args, "-af", filter)
	}
	args = append(args,
		"-c:a", "libopus",
		"-f", "webm",
		"-",
	)

	cmd := exec.CommandContext(ctx, s.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// Wait runs while the pump is still reading, and exec's managed
	// StdoutPipe must not be read past Wait. A hand-made pipe keeps
	// the read end ours; closing our copy of the write end after
	// Start gives the pump a clean EOF once ffmpeg has exited and
	// flushed the container trailer.
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	cmd.Stdout = pw
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	pw.Close()

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	// Give ffmpeg a moment to open the device so permission and
	// missing-device failures surface here, not mid-recording.
	select {
	case err := <-waitErr:
		pr.Close()
		if err != nil {
			return nil, fmt.Errorf("ffmpeg exited before capture started: %w: %s", err, trimmed(stderr.String()))
		}
		return nil, errors.New("ffmpeg exited before capture started")
	case <-time.After(250 * time.Millisecond):
	}

	session := &ffmpegSession{
		stdout:   pr,
		stderr:   &stderr,
		process:  cmd.Process,
		waitErr:  waitErr,
		chunks:   make(chan []byte, 16),
		pumpDone: make(chan struct{}),
	}
	go session.pump()
	return session, nil
}

// filterChain maps capture cleanup flags onto ffmpeg audio filters.
// Echo cancellation needs a far-end reference signal ffmpeg does not
// have for a bare microphone, so that flag is accepted but unmapped.
func filterChain(cfg recorder.CaptureConfig) string {
	var filters []string
	if cfg.NoiseSuppression {
		filters = append(filters, "afftdn")
	}
	if cfg.AutoGainControl {
		filters = append(filters, "speechnorm")
	}
	if len(filters) == 0 {
		return ""
	}
	chain := filters[0]
	for _, f := range filters[1:] {
		chain += "," + f
	}
	return chain
}

type ffmpegSession struct {
	stdout io.ReadCloser
	stderr *bytes.Buffer

	process *os.Process
	waitErr <-chan error

	chunks   chan []byte
	pumpDone chan struct{}

	stopOnce sync.Once
	stopErr  error
}

func (s *ffmpegSession) Chunks() <-chan []byte {
	return s.chunks
}

// pump reads encoded fragments off ffmpeg's stdout until EOF, then
// closes the chunk channel. EOF arrives when Stop interrupts ffmpeg
// and it flushes its container trailer.
func (s *ffmpegSession) pump() {
	defer close(s.pumpDone)
	defer close(s.chunks)
	for {
		buf := make([]byte, chunkSize)
		n, err := s.stdout.Read(buf)
		if n > 0 {
			s.chunks <- buf[:n]
		}
		if err != nil {
			return
		}
	}
}

// Stop interrupts ffmpeg so it finalizes the webm container, waits
// for it to exit, and releases the device. Safe to call once per
// session; the chunk channel closes after the final fragment.
func (s *ffmpegSession) Stop() error {
	s.stopOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-s.waitErr:
			if ok {
				s.stopErr = normalizeStopErr(err)
			}
		case <-time.After(1200 * time.Millisecond):
			if s.process != nil {
				_ = s.process.Kill()
			}
			err, ok := <-s.waitErr
			if ok {
				s.stopErr = normalizeStopErr(err)
			}
		}

		// ffmpeg is gone; let the pump drain the trailer to EOF
		// before the read end goes away.
		<-s.pumpDone

		if closeErr := s.stdout.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			if s.stopErr == nil {
				s.stopErr = closeErr
			}
		}

		if s.stopErr != nil && s.stderr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, trimmed(s.stderr.String()))
		}
	})
	return s.stopErr
}

// normalizeStopErr drops the exit status ffmpeg reports when it is
// interrupted on purpose.
func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func trimmed(input string) string {
	if input == "" {
		return input
	}
	return string(bytes.TrimSpace([]byte(input)))
}
