// Package pipeline drives the batch conversion of ordered images into one
// searchable PDF. A run recognizes each image in input order, appends a page
// for every success, isolates per-item failures, reports progress and honors
// cooperative cancellation between items.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/wudi/ocrpdf/assembler"
	"github.com/wudi/ocrpdf/imagefile"
	"github.com/wudi/ocrpdf/observability"
	"github.com/wudi/ocrpdf/ocr"
)

// ErrRunActive reports an attempt to start a run while one is in flight. A
// pipeline executes at most one run at a time.
var ErrRunActive = errors.New("a batch run is already active")

// Assembler is what a run needs from the PDF layer: append pages, serialize
// once at the end.
type Assembler interface {
	AddImagePage(data []byte, contentType, overlayText string) error
	Finalize() ([]byte, error)
}

// AssemblerFactory produces the exclusively-owned document of one run.
type AssemblerFactory func() (Assembler, error)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger installs a structured logger. Defaults to a no-op logger.
func WithLogger(l observability.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithNotifier installs the sink for user-visible notices.
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithAssemblerFactory overrides how the per-run PDF document is created.
func WithAssemblerFactory(f AssemblerFactory) Option {
	return func(p *Pipeline) { p.newDocument = f }
}

// WithProgressFunc registers a callback invoked with a fresh snapshot after
// every state transition.
func WithProgressFunc(f func(Snapshot)) Option {
	return func(p *Pipeline) { p.onProgress = f }
}

// WithClock overrides the time source used for elapsed-time estimation.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// Pipeline owns the state of one conversion session. All state is guarded by
// an internal mutex so Cancel and Snapshot may be called from any goroutine
// while Process runs.
type Pipeline struct {
	engine      ocr.Engine
	newDocument AssemblerFactory
	logger      observability.Logger
	notifier    Notifier
	onProgress  func(Snapshot)
	now         func() time.Time

	mu              sync.Mutex
	processing      bool
	cancelRequested bool
	phase           Phase
	items           []Item
	overall         int
	eta             string
	result          []byte
}

// New builds a pipeline around the given OCR engine. A nil engine selects
// ocr.DefaultEngine().
func New(engine ocr.Engine, opts ...Option) *Pipeline {
	if engine == nil {
		engine = ocr.DefaultEngine()
	}
	p := &Pipeline{
		engine:      engine,
		newDocument: func() (Assembler, error) { return assembler.New(), nil },
		logger:      observability.NopLogger{},
		notifier:    NopNotifier{},
		now:         time.Now,
		phase:       PhaseIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process converts the ordered images into one searchable PDF using the given
// OCR language code. Unrecognized codes are passed through to the engine.
//
// An empty batch returns (nil, nil) immediately without touching run state.
// Cancellation is not an error: an observed Cancel or context cancellation
// ends the run with a nil result and a nil error, discarding the partial
// document. A failing image never aborts the batch; it is marked in the item
// list and skipped. Only run-level failures (document creation, finalize)
// return an error. A run in which every item fails produces no pages and
// therefore ends as a run-level failure rather than publishing an empty
// document.
func (p *Pipeline) Process(ctx context.Context, images []imagefile.ImageFile, language string) ([]byte, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if language == "" {
		language = ocr.DefaultLanguage
	}

	p.mu.Lock()
	if p.processing {
		p.mu.Unlock()
		return nil, ErrRunActive
	}
	p.processing = true
	p.cancelRequested = false
	p.phase = PhaseRunning
	p.result = nil
	p.overall = 0
	p.eta = ""
	p.items = make([]Item, len(images))
	for i, img := range images {
		p.items[i] = Item{ImageIndex: i, ImageName: img.Name, Status: StatusPending}
	}
	p.mu.Unlock()
	p.publish()

	// isProcessing clears on every exit path, including panics below.
	defer func() {
		p.mu.Lock()
		p.processing = false
		p.mu.Unlock()
		p.publish()
	}()

	log := p.logger.With(
		observability.String("engine", p.engine.Name()),
		observability.String("language", language),
	)
	log.Info("run started", observability.Int("images", len(images)))

	doc, err := p.newDocument()
	if err != nil {
		return nil, p.failRun(log, fmt.Errorf("create document: %w", err))
	}

	start := p.now()
	total := len(images)
	for i, img := range images {
		if p.cancelled(ctx) {
			return p.abortCancelled(log)
		}
		p.setItem(i, func(it *Item) { it.Status = StatusProcessing })

		res, err := p.engine.Recognize(ctx, ocr.Input{
			ID:        img.ID,
			Image:     img.Data,
			Languages: []string{language},
		})
		if err != nil {
			p.failItem(log, i, img.Name, err)
			continue
		}
		p.setItem(i, func(it *Item) { it.Progress = 100 })
		p.advance(start, i+1, total)

		if err := doc.AddImagePage(img.Data, img.ContentType, res.Text); err != nil {
			p.failItem(log, i, img.Name, err)
			continue
		}
		p.setItem(i, func(it *Item) { it.Status = StatusCompleted })
		log.Debug("image processed",
			observability.Int("index", i),
			observability.String("name", img.Name),
		)
	}

	// A cancel during the final item must still prevent finalization.
	if p.cancelled(ctx) {
		return p.abortCancelled(log)
	}

	out, err := doc.Finalize()
	if err != nil {
		return nil, p.failRun(log, fmt.Errorf("finalize document: %w", err))
	}

	p.mu.Lock()
	p.result = out
	p.overall = 100
	p.eta = ""
	p.phase = PhaseCompleted
	p.mu.Unlock()
	p.publish()
	p.notifier.Notify(Notice{Level: NoticeInfo, Message: "PDF generated successfully!"})
	log.Info("run completed",
		observability.Int("bytes", len(out)),
		observability.Duration("elapsed", p.now().Sub(start)),
	)
	return out, nil
}

// Cancel requests cooperative cancellation of the active run. It is a no-op
// when no run is active. The request is observed before the next item starts
// and once more before finalization; in-flight OCR or embedding work always
// runs to completion first.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.processing {
		return
	}
	p.cancelRequested = true
}

// Snapshot returns a consistent copy of the current run state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pipeline) snapshotLocked() Snapshot {
	items := make([]Item, len(p.items))
	copy(items, p.items)
	return Snapshot{
		Processing:      p.processing,
		Phase:           p.phase,
		Items:           items,
		OverallProgress: p.overall,
		EstimatedTime:   p.eta,
		Result:          p.result,
	}
}

func (p *Pipeline) cancelled(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelRequested
}

func (p *Pipeline) setItem(i int, mutate func(*Item)) {
	p.mu.Lock()
	mutate(&p.items[i])
	p.mu.Unlock()
	p.publish()
}

// advance publishes overall progress and the remaining-time estimate after
// done of total items finished recognition.
func (p *Pipeline) advance(start time.Time, done, total int) {
	overall := int(math.Round(100 * float64(done) / float64(total)))
	eta := formatETA(p.now().Sub(start), float64(overall)/100)
	p.mu.Lock()
	p.overall = overall
	p.eta = eta
	p.mu.Unlock()
	p.publish()
}

// failItem marks item i as errored and keeps the run going. The item's
// progress value is left as-is.
func (p *Pipeline) failItem(log observability.Logger, i int, name string, err error) {
	p.setItem(i, func(it *Item) { it.Status = StatusError })
	p.notifier.Notify(Notice{Level: NoticeError, Message: fmt.Sprintf("Failed to process %s", name)})
	log.Warn("image failed",
		observability.Int("index", i),
		observability.String("name", name),
		observability.Error("err", err),
	)
}

// abortCancelled ends the run without finalizing; the partial document is
// discarded.
func (p *Pipeline) abortCancelled(log observability.Logger) ([]byte, error) {
	p.mu.Lock()
	p.phase = PhaseCancelled
	p.eta = ""
	p.mu.Unlock()
	p.publish()
	p.notifier.Notify(Notice{Level: NoticeError, Message: "Processing cancelled"})
	log.Info("run cancelled")
	return nil, nil
}

func (p *Pipeline) failRun(log observability.Logger, err error) error {
	p.mu.Lock()
	p.phase = PhaseFailed
	p.eta = ""
	p.mu.Unlock()
	p.publish()
	p.notifier.Notify(Notice{Level: NoticeError, Message: "Failed to process images"})
	log.Error("run failed", observability.Error("err", err))
	return err
}

func (p *Pipeline) publish() {
	if p.onProgress == nil {
		return
	}
	p.onProgress(p.Snapshot())
}
