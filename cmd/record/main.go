// Command record is a terminal client for the transcription gateway:
// it captures the microphone, submits the recording and prints the
// transcription in the language's native script.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/scriptspeak/scriptspeak/internal/audio"
	"github.com/scriptspeak/scriptspeak/internal/logging"
	"github.com/scriptspeak/scriptspeak/internal/recorder"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		serverURL     string
		languageCode  string
		listLanguages bool
		ffmpegBinary  string
		inputFormat   string
		inputDevice   string
		logLevel      string
	)
	flag.StringVar(&serverURL, "server", "http://localhost:8000", "gateway base URL")
	flag.StringVar(&languageCode, "language", "hindi", "language code, see -list-languages")
	flag.BoolVar(&listLanguages, "list-languages", false, "print supported languages and exit")
	flag.StringVar(&ffmpegBinary, "ffmpeg", "ffmpeg", "ffmpeg binary")
	flag.StringVar(&inputFormat, "input-format", "", "ffmpeg input format (default pulse)")
	flag.StringVar(&inputDevice, "input-device", "", "ffmpeg input device (default default)")
	flag.StringVar(&logLevel, "log-level", "warn", "log level")
	flag.Parse()

	log := logging.New(logging.Config{Level: logLevel, Format: "console"})
	client := recorder.NewClient(serverURL, log)

	ctx := context.Background()

	if listLanguages {
		listCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		languages, err := client.Languages(listCtx)
		if err != nil {
			fmt.Println("gateway unreachable, showing built-in languages")
		}
		for _, l := range languages {
			fmt.Printf("  %-10s %s (%s)\n", l.Code, l.Name, l.Script)
		}
		return nil
	}

	source := audio.NewFFmpegSource(ffmpegBinary, inputFormat, inputDevice)
	ctl := recorder.New(source, client, languageCode, log)

	if err := ctl.StartCapture(ctx); err != nil {
		return err
	}
	if status := ctl.Status(); status.State == recorder.StateErrored {
		return fmt.Errorf("%s", status.ErrorMessage)
	}

	fmt.Printf("Recording (%s). Press Enter to stop.\n", languageCode)
	waitForEnter()

	fmt.Println("Transcribing...")
	if err := ctl.StopCapture(ctx); err != nil {
		return err
	}

	status := ctl.Status()
	switch status.State {
	case recorder.StateDisplaying:
		fmt.Println()
		fmt.Println(status.ResultText)
		return nil
	case recorder.StateErrored:
		return fmt.Errorf("%s", status.ErrorMessage)
	default:
		return fmt.Errorf("unexpected state %s", status.State)
	}
}

func waitForEnter() {
	reader := bufio.NewReader(os.Stdin)
	_, _ = reader.ReadString('\n')
}
