// Package orchestrator runs try-on jobs: one generation per garment,
// strictly in order, persisting and downloading each result as it lands.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/download"
	"tailorpreview/internal/imagegen"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/media"
)

// DefaultResetDelay is how long COMPLETED is shown before the state resets.
const DefaultResetDelay = 2 * time.Second

// Generator renders one try-on; *imagegen.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req imagegen.GenerateRequest) (imagegen.Result, error)
}

// GallerySink persists a result and returns the confirmed item.
type GallerySink interface {
	SaveToGallery(ctx context.Context, result domain.GenerationResult) (domain.GalleryItem, error)
}

type Options struct {
	ResetDelay time.Duration
	// SystemPrompt supplies the prompt for each generation. Nil uses the
	// built-in default.
	SystemPrompt func(ctx context.Context) string
	// OnStart runs once a job has passed validation and entered PROCESSING.
	OnStart func()
	// OnSingleResult receives the result of a one-garment job.
	OnSingleResult func(result domain.GenerationResult)
	// OnNavigate runs when a one-garment job's reset delay elapses.
	OnNavigate func()
	// AfterFunc schedules the reset; defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())
	Logger    zerolog.Logger
	Metrics   *infra.Metrics
}

// Outcome is what a settled job produced.
type Outcome struct {
	Items []domain.GalleryItem   `json:"items"`
	State domain.ProcessingState `json:"state"`
}

// Orchestrator owns one ProcessingState; nothing else mutates it.
type Orchestrator struct {
	gen       Generator
	gallery   GallerySink
	downloads download.Downloader
	opts      Options

	mu     sync.Mutex
	state  domain.ProcessingState
	seq    uint64
	subs   map[int]func(domain.ProcessingState)
	nextID int
}

func New(gen Generator, gallery GallerySink, downloads download.Downloader, opts Options) *Orchestrator {
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return &Orchestrator{
		gen:       gen,
		gallery:   gallery,
		downloads: downloads,
		opts:      opts,
		state:     domain.IdleState(),
		subs:      make(map[int]func(domain.ProcessingState)),
	}
}

func (o *Orchestrator) State() domain.ProcessingState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe registers fn for every state transition, delivered in order.
// fn runs under the orchestrator lock and must not block. The returned
// function removes the subscription.
func (o *Orchestrator) Subscribe(fn func(domain.ProcessingState)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.subscribeLocked(fn)
}

func (o *Orchestrator) subscribeLocked(fn func(domain.ProcessingState)) func() {
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
	}
}

// Watch is Subscribe, but fn first receives the current state. Both happen
// under one lock, so no transition can fall between them.
func (o *Orchestrator) Watch(fn func(domain.ProcessingState)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(o.state)
	return o.subscribeLocked(fn)
}

// setLocked must be called with o.mu held.
func (o *Orchestrator) setLocked(state domain.ProcessingState) {
	o.state = state
	for _, fn := range o.subs {
		fn(state)
	}
}

func (o *Orchestrator) set(seq uint64, state domain.ProcessingState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seq == seq {
		o.setLocked(state)
	}
}

// RunJob processes every garment in order and blocks until the job settles.
// The first generation or gallery failure aborts the job and is returned.
func (o *Orchestrator) RunJob(ctx context.Context, cfg domain.JobConfig) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{State: o.State()}, err
	}
	customer := *cfg.Customer
	garments := append([]domain.CatalogItem(nil), cfg.Garments...)
	total := len(garments)

	o.mu.Lock()
	if o.state.Status == domain.JobProcessing {
		o.mu.Unlock()
		return Outcome{State: o.State()}, domain.ErrJobInProgress
	}
	o.seq++
	seq := o.seq
	o.setLocked(domain.ProcessingState{
		Status:         domain.JobProcessing,
		TotalSteps:     total,
		CurrentGarment: garments[0].Title,
	})
	o.mu.Unlock()
	if o.opts.OnStart != nil {
		o.opts.OnStart()
	}

	log := o.opts.Logger.With().Str("customer", customer.Name).Int("garments", total).Logger()
	log.Info().Bool("pro", cfg.UsePro).Msg("orchestrator: job started")

	var systemPrompt string
	if o.opts.SystemPrompt != nil {
		systemPrompt = o.opts.SystemPrompt(ctx)
	}

	items := make([]domain.GalleryItem, 0, total)
	for i, garment := range garments {
		o.set(seq, domain.ProcessingState{
			Status:         domain.JobProcessing,
			CurrentStep:    i + 1,
			TotalSteps:     total,
			CurrentGarment: garment.Title,
		})

		res, err := o.gen.Generate(ctx, imagegen.GenerateRequest{
			CustomerImage: customer.PhotoURL,
			GarmentImage:  garment.ImageURL,
			Instructions:  cfg.Instructions,
			Tier:          imagegen.TierFor(cfg.UsePro),
			SystemPrompt:  systemPrompt,
		})
		if err != nil {
			return o.fail(seq, items, log, i+1, err)
		}

		result := domain.GenerationResult{
			ImageURL:     media.EncodeDataURL(res.Image.Data, res.Image.MIMEType),
			Confidence:   res.Confidence,
			Customer:     customer,
			Garment:      garment,
			Instructions: cfg.Instructions,
		}
		item, err := o.gallery.SaveToGallery(ctx, result)
		if err != nil {
			return o.fail(seq, items, log, i+1, err)
		}
		items = append(items, item)

		if o.downloads != nil {
			name := download.BatchFileName(customer.Name, garment.Title)
			if err := o.downloads.Download(ctx, name, result.ImageURL); err != nil {
				log.Warn().Err(err).Str("file", name).Msg("orchestrator: download failed")
			}
		}
		if total == 1 && o.opts.OnSingleResult != nil {
			o.opts.OnSingleResult(result)
		}
	}

	done := domain.ProcessingState{
		Status:         domain.JobCompleted,
		CurrentStep:    total,
		TotalSteps:     total,
		CurrentGarment: garments[total-1].Title,
	}
	o.set(seq, done)
	o.opts.Metrics.RecordJob(string(domain.JobCompleted))
	log.Info().Msg("orchestrator: job completed")

	o.opts.AfterFunc(o.opts.ResetDelay, func() { o.reset(seq, total == 1) })
	return Outcome{Items: items, State: done}, nil
}

func (o *Orchestrator) fail(seq uint64, items []domain.GalleryItem, log zerolog.Logger, step int, err error) (Outcome, error) {
	o.mu.Lock()
	state := o.state
	state.Status = domain.JobFailed
	if o.seq == seq {
		o.setLocked(state)
	}
	o.mu.Unlock()
	o.opts.Metrics.RecordJob(string(domain.JobFailed))
	log.Error().Err(err).Int("step", step).Msg("orchestrator: job failed")
	return Outcome{Items: items, State: state}, fmt.Errorf("job failed at step %d: %w", step, err)
}

// reset returns a completed job to PENDING unless a newer job has started.
func (o *Orchestrator) reset(seq uint64, single bool) {
	o.mu.Lock()
	if o.seq != seq || o.state.Status != domain.JobCompleted {
		o.mu.Unlock()
		return
	}
	o.setLocked(domain.IdleState())
	o.mu.Unlock()
	if single && o.opts.OnNavigate != nil {
		o.opts.OnNavigate()
	}
}
