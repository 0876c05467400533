package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/livetl"
	"github.com/ZaguanLabs/livetl/config"
	"github.com/ZaguanLabs/livetl/device"
	"github.com/ZaguanLabs/livetl/provider"
)

type translateOptions struct {
	baseURL   string
	language  string
	debounce  time.Duration
	noDevices bool
}

func newTranslateCmd(root *rootOptions) *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Start an interactive translation session",
		Long: `Each line you type replaces the text to translate. Commands start with ':'

  :lang <code>   select the target language
  :langs         list languages
  :copy          copy the translation to the clipboard
  :speak         read the translation aloud
  :clear         clear input and translation
  :quit          leave the session

When input ends (e.g. piped text), livetl waits for the last translation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load()
			if err != nil {
				return err
			}
			opts.apply(cfg)
			// The session only talks to the client side; server settings are ignored
			if err := cfg.ValidateClient(); err != nil {
				return err
			}

			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			ctrl := newController(cfg, opts.noDevices, logger)
			defer ctrl.Close()

			s := newSession(ctrl, cmd.OutOrStdout())
			return s.run(cmd.Context(), cmd.InOrStdin(), cfg.Client.Timeout()+cfg.Client.Debounce())
		},
	}

	cmd.Flags().StringVarP(&opts.baseURL, "url", "u", "", "Translation service base URL")
	cmd.Flags().StringVarP(&opts.language, "lang", "l", "", "Target language (arabic, french, german, italian)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "Quiet period before a request (e.g. 500ms)")
	cmd.Flags().BoolVar(&opts.noDevices, "no-devices", false, "Disable clipboard and speech")

	return cmd
}

// apply lets flags that were set override the config.
func (o *translateOptions) apply(cfg *config.Config) {
	if o.baseURL != "" {
		cfg.Client.BaseURL = o.baseURL
	}
	if o.language != "" {
		cfg.Client.Language = o.language
	}
	if o.debounce > 0 {
		cfg.Client.DebounceMs = int(o.debounce / time.Millisecond)
	}
}

func newController(cfg *config.Config, noDevices bool, logger *slog.Logger) *livetl.Controller {
	p := provider.NewHTTPProvider(provider.HTTPConfig{
		BaseURL: cfg.Client.BaseURL,
		Timeout: cfg.Client.Timeout(),
	})

	opts := []livetl.ControllerOption{
		livetl.WithDebounce(cfg.Client.Debounce()),
		livetl.WithCopiedDuration(cfg.Client.CopiedDuration()),
		livetl.WithTargetLanguage(cfg.Client.Language),
		livetl.WithLogger(logger),
	}

	if !noDevices {
		if speaker, err := newSpeaker(cfg.Client.SpeechCommand); err == nil {
			opts = append(opts, livetl.WithSpeaker(speaker))
		} else {
			logger.Debug("speech disabled", "error", err)
		}
		if clipboard, err := newClipboard(cfg.Client.ClipboardCommand); err == nil {
			opts = append(opts, livetl.WithClipboard(clipboard))
		} else {
			logger.Debug("clipboard disabled", "error", err)
		}
	}

	return livetl.NewController(p, opts...)
}

func newSpeaker(line string) (*device.CommandSpeaker, error) {
	if line == "" {
		return device.DetectSpeaker()
	}
	return device.NewCommandSpeaker(line)
}

func newClipboard(line string) (livetl.Clipboard, error) {
	if line == "" {
		return device.DetectClipboard()
	}
	return device.NewCommandClipboard(line)
}

// session reads lines, drives the controller and renders its state.
type session struct {
	ctrl *livetl.Controller
	out  *termenv.Output

	mu         sync.Mutex
	last       livetl.State
	editRev    uint64 // Revision of the latest edit that schedules a request
	loadingRev uint64 // Latest snapshot with a request in flight
	doneRev    uint64 // Latest snapshot where a request finished
	awaiting   bool
	settled    chan struct{}
}

func newSession(ctrl *livetl.Controller, w io.Writer) *session {
	// Detect the color profile on w itself; the wrapper hides the TTY
	profile := termenv.NewOutput(w).Profile

	return &session{
		ctrl:    ctrl,
		out:     termenv.NewOutput(&lockedWriter{w: w}, termenv.WithProfile(profile)),
		last:    ctrl.State(),
		settled: make(chan struct{}, 1),
	}
}

func (s *session) run(ctx context.Context, in io.Reader, settleTimeout time.Duration) error {
	unsubscribe := s.ctrl.Subscribe(s.render)
	defer unsubscribe()

	fmt.Fprintf(s.out, "%s (%s). Type text to translate, :help for commands.\n",
		s.out.String(livetl.Name).Bold(), s.languageName(s.ctrl.State().Language))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if quit := s.handle(ctx, scanner.Text()); quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	s.wait(settleTimeout)
	return nil
}

// handle processes one input line and reports whether to quit.
func (s *session) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		rev, err := s.ctrl.SetInputText(line)
		if err != nil {
			s.errorln(fmt.Sprintf("input rejected: %v", err))
			return false
		}
		s.markEdit(rev, strings.TrimSpace(line) != "")
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":lang":
		if len(fields) < 2 {
			s.println(s.out.String("usage: :lang <code>").Faint().String())
			return false
		}
		rev, err := s.ctrl.SetTargetLanguage(fields[1])
		if errors.Is(err, livetl.ErrUnknownLanguage) {
			s.errorln(fmt.Sprintf("unknown language %q, see :langs", fields[1]))
			return false
		}
		if err != nil {
			s.errorln(fmt.Sprintf("language rejected: %v", err))
			return false
		}
		st := s.ctrl.State()
		s.println(s.out.String("→ " + s.languageName(st.Language)).Faint().String())
		s.markEdit(rev, strings.TrimSpace(st.Text) != "")
	case ":langs":
		current := s.ctrl.State().Language
		for _, l := range livetl.Languages() {
			marker := "  "
			if l.Code == current {
				marker = "* "
			}
			s.println(fmt.Sprintf("%s%-8s %s", marker, l.Code, l.DisplayName))
		}
	case ":clear":
		if err := s.ctrl.Clear(); err != nil {
			s.errorln(fmt.Sprintf("clear failed: %v", err))
			return false
		}
		s.markEdit(0, false)
	case ":copy":
		if err := s.ctrl.CopyResult(ctx); err != nil {
			s.deviceError("clipboard", err)
		}
	case ":speak":
		if err := s.ctrl.SpeakResult(); err != nil {
			s.deviceError("speech", err)
		}
	case ":help", ":h":
		s.println(":lang <code>  :langs  :copy  :speak  :clear  :quit")
	default:
		s.println(s.out.String(fmt.Sprintf("unknown command %s, see :help", fields[0])).Faint().String())
	}
	return false
}

func (s *session) deviceError(name string, err error) {
	msg := fmt.Sprintf("%s failed: %v", name, err)
	if errors.Is(err, livetl.ErrNoDevice) {
		msg = fmt.Sprintf("no %s available", name)
	}
	s.errorln(msg)
}

func (s *session) errorln(msg string) {
	s.println(s.out.String(msg).Foreground(s.out.Color("1")).String())
}

// markEdit records that the change published at rev will (or will not)
// produce a request, so wait knows what to wait for. Snapshots after rev
// may already have been rendered.
func (s *session) markEdit(rev uint64, expectRequest bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editRev = rev
	s.awaiting = expectRequest
	select {
	case <-s.settled:
	default:
	}
	s.checkSettledLocked()
}

// checkSettledLocked signals wait once a request started after editRev has
// finished.
func (s *session) checkSettledLocked() {
	if !s.awaiting || s.loadingRev <= s.editRev || s.doneRev <= s.loadingRev {
		return
	}
	s.awaiting = false
	select {
	case s.settled <- struct{}{}:
	default:
	}
}

// wait blocks until the request scheduled by the latest edit has completed.
func (s *session) wait(timeout time.Duration) {
	s.mu.Lock()
	awaiting := s.awaiting
	s.mu.Unlock()
	if !awaiting {
		return
	}

	select {
	case <-s.settled:
	case <-time.After(timeout):
	}
}

// render prints what changed between the last rendered state and st.
func (s *session) render(st livetl.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.last
	s.last = st

	if st.Loading && !prev.Loading {
		s.println(s.out.String("…").Faint().String())
	}

	finished := prev.Loading && !st.Loading
	if (finished || st.Result != prev.Result) && !st.Result.IsZero() {
		switch st.Result.Outcome {
		case livetl.OutcomeSuccess:
			s.println(s.out.String(st.Result.Text).Foreground(s.out.Color("2")).Bold().String())
		default:
			s.println(s.out.String(st.Result.Text).Foreground(s.out.Color("1")).String())
		}
	}

	if st.Copied && !prev.Copied {
		s.println(s.out.String("copied").Faint().String())
	}

	if st.Loading {
		s.loadingRev = st.Revision
	} else if prev.Loading {
		s.doneRev = st.Revision
	}
	s.checkSettledLocked()
}

func (s *session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *session) languageName(code string) string {
	if l, ok := livetl.LookupLanguage(code); ok {
		return l.DisplayName
	}
	return code
}

// lockedWriter serializes writes from the input loop and the subscriber.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
