package livetl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ZaguanLabs/livetl/internal/logging"
)

const (
	// DefaultDebounce is the quiet period between the last edit and the request.
	DefaultDebounce = 500 * time.Millisecond
	// DefaultCopiedDuration is how long the "copied" indicator stays on.
	DefaultCopiedDuration = 2 * time.Second
)

// ErrNoDevice is returned when copy or speech is requested but no adapter
// was configured.
var ErrNoDevice = errors.New("device not configured")

// Translator is the interface for the remote translation service.
// Implementations return *ServiceError when the service reports a failure
// and *NetworkError for anything transport related.
type Translator interface {
	Translate(ctx context.Context, req TranslationRequest) (string, error)
}

// Speaker plays text in the given locale (e.g., "fr-FR").
type Speaker interface {
	Speak(ctx context.Context, text, locale string) error
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// Controller turns text and language edits into debounced translation
// requests and applies responses in latest-request-wins order.
//
// All methods are safe for concurrent use.
type Controller struct {
	translator Translator
	speaker    Speaker
	clipboard  Clipboard
	logger     *slog.Logger
	debounce   time.Duration
	copiedFor  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	generation  uint64 // Latest dispatched (or invalidated) request
	timer       *time.Timer
	timerToken  uint64
	copiedTimer *time.Timer
	copiedToken uint64
	closed      bool
	pending     []State // Snapshots not yet delivered to subscribers

	subMu       sync.RWMutex
	subscribers map[uint64]func(State)
	nextSubID   uint64

	wake chan struct{}
	stop chan struct{}
}

// ControllerOption is a functional option for configuring the Controller.
type ControllerOption func(*Controller)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithCopiedDuration sets how long State.Copied stays true after a copy.
func WithCopiedDuration(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.copiedFor = d
		}
	}
}

// WithTargetLanguage sets the initially selected language.
// Unknown keys are ignored and the default language is kept.
func WithTargetLanguage(code string) ControllerOption {
	return func(c *Controller) {
		if lang, ok := LookupLanguage(code); ok {
			c.state.Language = lang.Code
		}
	}
}

// WithSpeaker sets the speech playback adapter.
func WithSpeaker(s Speaker) ControllerOption {
	return func(c *Controller) {
		c.speaker = s
	}
}

// WithClipboard sets the clipboard adapter.
func WithClipboard(cb Clipboard) ControllerOption {
	return func(c *Controller) {
		c.clipboard = cb
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a Controller that sends requests to translator.
// Call Close when the view goes away.
func NewController(translator Translator, opts ...ControllerOption) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		translator:  translator,
		logger:      logging.NewNop(),
		debounce:    DefaultDebounce,
		copiedFor:   DefaultCopiedDuration,
		ctx:         ctx,
		cancel:      cancel,
		state:       State{Language: DefaultLanguage},
		subscribers: make(map[uint64]func(State)),
		wake:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	go c.deliverLoop()

	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive every state change, in order.
// fn runs on a dedicated goroutine and may call back into the Controller.
// The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subscribers, id)
		c.subMu.Unlock()
	}
}

// SetInputText updates the input text. Blank text clears the result at once
// and schedules nothing; other text restarts the quiet period.
// It returns the Revision of the snapshot it published.
func (c *Controller) SetInputText(text string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}

	c.state.Text = text
	if strings.TrimSpace(text) == "" {
		c.stopTimerLocked()
		c.resetResultLocked()
	} else {
		c.scheduleLocked()
	}
	c.publishLocked()

	return c.state.Revision, nil
}

// SetTargetLanguage selects a language from the catalog and restarts the
// quiet period. It returns the Revision of the snapshot it published.
func (c *Controller) SetTargetLanguage(code string) (uint64, error) {
	lang, ok := LookupLanguage(code)
	if !ok {
		return 0, ErrUnknownLanguage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}

	c.state.Language = lang.Code
	c.scheduleLocked()
	c.publishLocked()

	return c.state.Revision, nil
}

// Clear resets input and result and cancels the pending timer.
// The selected language is kept.
func (c *Controller) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.stopTimerLocked()
	c.state.Text = ""
	c.resetResultLocked()
	c.publishLocked()

	return nil
}

// Close cancels the pending timer and in-flight requests. Responses that
// arrive afterwards are dropped. Close is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopTimerLocked()
	c.stopCopiedLocked()
	c.mu.Unlock()

	c.cancel()
	close(c.stop)

	return nil
}

// CopyResult writes the current translation to the clipboard and turns on
// the "copied" indicator. Nothing is copied unless the active result is a
// successful translation.
func (c *Controller) CopyResult(ctx context.Context) error {
	if c.clipboard == nil {
		return ErrNoDevice
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	result, gen := c.state.Result, c.generation
	c.mu.Unlock()

	if result.Outcome != OutcomeSuccess || result.Text == "" {
		return nil
	}

	if err := c.clipboard.SetText(ctx, result.Text); err != nil {
		c.logger.Warn("clipboard write failed", "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The indicator belongs to the copied result only.
	if c.closed || c.generation != gen || c.state.Result != result {
		return nil
	}

	c.stopCopiedLocked()
	c.state.Copied = true
	token := c.copiedToken
	c.copiedTimer = time.AfterFunc(c.copiedFor, func() {
		c.expireCopied(token)
	})
	c.publishLocked()

	return nil
}

// SpeakResult plays the current translation in the selected language.
func (c *Controller) SpeakResult() error {
	c.mu.Lock()
	result, lang := c.state.Result, c.state.Language
	c.mu.Unlock()

	if result.Outcome != OutcomeSuccess {
		return nil
	}
	return c.Speak(result.Text, lang)
}

// Speak starts playback of text in the locale mapped from languageKey.
// It does not wait for playback to finish; failures are only logged.
func (c *Controller) Speak(text, languageKey string) error {
	if c.speaker == nil {
		return ErrNoDevice
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	locale := SpeechLocale(languageKey)
	go func() {
		if err := c.speaker.Speak(c.ctx, text, locale); err != nil {
			c.logger.Warn("speech playback failed", "locale", locale, "error", err)
		}
	}()

	return nil
}

// scheduleLocked replaces any pending timer with a fresh quiet period.
func (c *Controller) scheduleLocked() {
	c.stopTimerLocked()
	token := c.timerToken
	c.timer = time.AfterFunc(c.debounce, func() {
		c.fire(token)
	})
}

// stopTimerLocked cancels the pending timer. Bumping the token also
// neutralizes a callback that already started running.
func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerToken++
}

func (c *Controller) stopCopiedLocked() {
	if c.copiedTimer != nil {
		c.copiedTimer.Stop()
		c.copiedTimer = nil
	}
	c.copiedToken++
}

// resetResultLocked clears the displayed result. The generation moves on so
// a response still in flight cannot bring the old result back.
func (c *Controller) resetResultLocked() {
	c.generation++
	c.state.Loading = false
	c.state.Result = TranslationResult{}
	c.stopCopiedLocked()
	c.state.Copied = false
}

func (c *Controller) fire(token uint64) {
	c.mu.Lock()

	if c.closed || token != c.timerToken {
		c.mu.Unlock()
		return
	}
	c.timer = nil

	req, gen, ok := c.dispatchLocked()
	c.mu.Unlock()

	if ok {
		go c.run(gen, req)
	}
}

// dispatchLocked captures the current text and language. It reports false
// when there is nothing to send.
func (c *Controller) dispatchLocked() (TranslationRequest, uint64, bool) {
	text := strings.TrimSpace(c.state.Text)
	if text == "" {
		c.resetResultLocked()
		c.publishLocked()
		return TranslationRequest{}, 0, false
	}

	c.generation++
	gen := c.generation
	c.state.Loading = true
	c.publishLocked()

	req := TranslationRequest{Text: text, TargetLanguage: c.state.Language}
	c.logger.Debug("dispatching translation",
		"generation", gen,
		"language", req.TargetLanguage,
		"chars", len(req.Text),
	)

	return req, gen, true
}

func (c *Controller) run(gen uint64, req TranslationRequest) {
	start := time.Now()
	translation, err := c.translator.Translate(c.ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation {
		c.logger.Debug("dropping stale response", "generation", gen, "latest", c.generation)
		return
	}

	c.state.Loading = false
	c.stopCopiedLocked()
	c.state.Copied = false

	if err != nil {
		outcome := classify(err)
		text := TranslationErrorText
		if outcome == OutcomeNetworkError {
			text = NetworkErrorText
		}
		c.state.Result = TranslationResult{Text: text, Outcome: outcome}
		c.logger.Warn("translation failed",
			"generation", gen,
			"kind", outcome.String(),
			"elapsed", time.Since(start),
			"error", err,
		)
	} else {
		c.state.Result = TranslationResult{Text: translation, Outcome: OutcomeSuccess}
		c.logger.Debug("translation applied", "generation", gen, "elapsed", time.Since(start))
	}

	c.publishLocked()
}

func (c *Controller) expireCopied(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || token != c.copiedToken {
		return
	}
	c.copiedTimer = nil
	c.state.Copied = false
	c.publishLocked()
}

// publishLocked stamps a new revision and queues the snapshot for delivery.
func (c *Controller) publishLocked() {
	c.state.Revision++
	c.pending = append(c.pending, c.state)

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// deliverLoop hands queued snapshots to subscribers in revision order.
func (c *Controller) deliverLoop() {
	for {
		select {
		case <-c.wake:
			c.deliver()
		case <-c.stop:
			c.deliver()
			return
		}
	}
}

func (c *Controller) deliver() {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	c.subMu.RLock()
	subs := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.subMu.RUnlock()

	for _, s := range batch {
		for _, fn := range subs {
			fn(s)
		}
	}
}
