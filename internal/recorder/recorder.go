// Package recorder implements the client-side recording controller:
// an explicit state machine driving one microphone-to-text cycle at a
// time. States move Idle → Recording → Processing → (Displaying |
// Errored) → Idle; the microphone is held only during Recording.
package recorder

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// State is a recording session phase.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateProcessing State = "processing"
	StateDisplaying State = "displaying"
	StateErrored    State = "errored"
)

// ErrBusy is returned when an operation is rejected by the current
// state, e.g. starting a capture while one is already running.
var ErrBusy = errors.New("operation not allowed in current state")

// defaultNoSpeechMessage covers gateways answering success=false with
// no message of their own.
const defaultNoSpeechMessage = "no speech detected"

// Status is a point-in-time controller snapshot. At most one of
// ResultText and ErrorMessage is ever populated.
type Status struct {
	State        State
	Language     string
	ResultText   string
	ErrorMessage string
}

// Controller owns the capture lifecycle for one user. All methods are
// safe for concurrent use, but only one capture runs at a time.
type Controller struct {
	source CaptureSource
	client TranscriptionClient
	cfg    CaptureConfig
	log    zerolog.Logger

	mu       sync.Mutex
	state    State
	language string
	result   string
	errMsg   string
	starting bool
	stopping bool

	session  CaptureSession
	chunks   [][]byte
	pumpDone chan struct{}
}

// New creates a controller in Idle with the given default language.
func New(source CaptureSource, client TranscriptionClient, language string, log zerolog.Logger) *Controller {
	return &Controller{
		source:   source,
		client:   client,
		cfg:      DefaultCaptureConfig(),
		log:      log.With().Str("component", "recorder").Logger(),
		state:    StateIdle,
		language: language,
	}
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:        c.state,
		Language:     c.language,
		ResultText:   c.result,
		ErrorMessage: c.errMsg,
	}
}

// StartCapture opens the microphone and begins accumulating audio
// fragments in arrival order. Allowed from Idle and Errored; a prior
// error is cleared. Microphone denial is not returned as an error: it
// resolves into the Errored state.
func (c *Controller) StartCapture(ctx context.Context) error {
	c.mu.Lock()
	if c.starting || (c.state != StateIdle && c.state != StateErrored) {
		c.mu.Unlock()
		return ErrBusy
	}
	c.starting = true
	c.mu.Unlock()

	// May suspend on the user's permission decision.
	session, err := c.source.Start(ctx, c.cfg)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.starting = false

	if err != nil {
		c.log.Warn().Err(err).Msg("microphone unavailable")
		c.state = StateErrored
		c.result = ""
		c.errMsg = "Microphone access was denied or no device is available. Allow microphone access and try again."
		return nil
	}

	c.chunks = nil
	c.result = ""
	c.errMsg = ""
	c.session = session
	c.pumpDone = make(chan struct{})
	c.state = StateRecording
	go c.pump(session, c.pumpDone)

	c.log.Debug().Str("language", c.language).Msg("recording started")
	return nil
}

// pump appends fragments strictly in the order the session delivers
// them. It exits when the session closes its channel after Stop.
func (c *Controller) pump(session CaptureSession, done chan struct{}) {
	defer close(done)
	for chunk := range session.Chunks() {
		buf := make([]byte, len(chunk))
		copy(buf, chunk)

		c.mu.Lock()
		if c.session == session {
			c.chunks = append(c.chunks, buf)
		}
		c.mu.Unlock()
	}
}

// StopCapture ends the capture, releases the microphone once the
// final fragment is in, and submits the concatenated payload. It
// always leaves Processing for exactly one of Displaying or Errored.
// Only the first of overlapping calls proceeds; the rest get ErrBusy.
func (c *Controller) StopCapture(ctx context.Context) error {
	c.mu.Lock()
	if c.stopping || c.state != StateRecording {
		c.mu.Unlock()
		return ErrBusy
	}
	c.stopping = true
	session := c.session
	done := c.pumpDone
	lang := c.language
	c.mu.Unlock()

	// Stop releases the device; fragments already captured keep
	// arriving until the session closes its channel.
	if err := session.Stop(); err != nil {
		c.log.Warn().Err(err).Msg("capture did not stop cleanly")
	}
	<-done

	c.mu.Lock()
	payload := concat(c.chunks)
	c.chunks = nil
	c.session = nil
	c.pumpDone = nil
	c.state = StateProcessing
	c.stopping = false
	c.mu.Unlock()

	result, err := c.client.Transcribe(ctx, payload, lang)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err != nil:
		c.state = StateErrored
		c.result = ""
		c.errMsg = transportMessage(err)
		c.log.Warn().Err(err).Msg("submission failed")
	case result.Success:
		c.state = StateDisplaying
		c.result = result.NativeText
		c.errMsg = ""
	default:
		c.state = StateErrored
		c.result = ""
		c.errMsg = result.Message
		if c.errMsg == "" {
			c.errMsg = defaultNoSpeechMessage
		}
	}
	return nil
}

// ChangeLanguage switches the target language. Rejected while a
// capture or submission is in flight.
func (c *Controller) ChangeLanguage(code string) error {
	if code == "" {
		return errors.New("language code must not be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRecording || c.state == StateProcessing {
		return ErrBusy
	}
	c.language = code
	return nil
}

// Clear discards the displayed result or error and returns to Idle.
func (c *Controller) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDisplaying && c.state != StateErrored {
		return ErrBusy
	}
	c.state = StateIdle
	c.result = ""
	c.errMsg = ""
	return nil
}

func concat(chunks [][]byte) []byte {
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	payload := make([]byte, 0, total)
	for _, chunk := range chunks {
		payload = append(payload, chunk...)
	}
	return payload
}

// transportMessage maps the client error taxonomy onto the messages
// shown to the user.
func transportMessage(err error) string {
	var te *TransportError
	if !errors.As(err, &te) {
		return "Failed to send the recording. Please try again."
	}
	switch te.Kind {
	case TransportServer:
		return "Server error: " + te.Detail
	case TransportConnect:
		return "Could not reach the transcription server. Check your connection and that the server is running."
	default:
		return "Failed to send the recording. Please try again."
	}
}
