package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

// conceptStore is what the controller needs from the state holder.
type conceptStore interface {
	SetLink(text string)
	Link() string
	SetConcepts(concepts []Concept)
	Concepts() []Concept
	Present() bool
	Discard(index int) bool
	DiscardID(id string) bool
}

const maxLoggedBody = 512

// analysisMsg carries the result of submission seq back to the event loop.
type analysisMsg struct {
	seq    uint64
	link   string
	result AnalysisResult
}

type submitOutcome int

const (
	outcomeSucceeded submitOutcome = iota
	outcomeFailed
	outcomeStale
)

// Controller owns the concept store and orchestrates analysis requests.
// All methods must be called from the Bubble Tea event loop; only the
// commands returned by Submit run elsewhere.
type Controller struct {
	store    conceptStore
	analyzer Analyzer
	log      *log.Logger
	latest   uint64
	registry metrics.Registry
}

func NewController(store conceptStore, analyzer Analyzer, logger *log.Logger) *Controller {
	return &Controller{
		store:    store,
		analyzer: analyzer,
		log:      logger,
		registry: metrics.NewRegistry(),
	}
}

func (c *Controller) SetLink(text string) {
	c.store.SetLink(text)
}

func (c *Controller) Link() string {
	return c.store.Link()
}

func (c *Controller) Concepts() []Concept {
	return c.store.Concepts()
}

func (c *Controller) Present() bool {
	return c.store.Present()
}

// Submit issues a new request for the current link. Earlier requests keep
// running but their results will be dropped by Apply.
func (c *Controller) Submit() tea.Cmd {
	c.latest++
	seq := c.latest
	link := c.store.Link()
	c.counter("analysis.submitted").Inc(1)
	c.log.WithFields(log.Fields{"seq": seq, "link": link}).Info("Submitting link for analysis")

	analyzer := c.analyzer
	return func() tea.Msg {
		return analysisMsg{
			seq:    seq,
			link:   link,
			result: analyzer.Analyze(context.Background(), link),
		}
	}
}

// Apply writes the result of submission seq into the store, unless a newer
// submission has been issued since.
func (c *Controller) Apply(seq uint64, link string, result AnalysisResult) submitOutcome {
	entry := c.log.WithFields(log.Fields{"seq": seq, "link": link, "kind": result.Kind.String()})

	if seq != c.latest {
		c.counter("analysis.stale").Inc(1)
		entry.WithField("latest", c.latest).Debug("Ignoring result of a superseded submission")
		return outcomeStale
	}

	switch result.Kind {
	case ResultOK:
		c.counter("analysis.succeeded").Inc(1)
		c.store.SetConcepts(result.Concepts)
		entry.WithField("count", len(result.Concepts)).Info("Key concepts received")
		return outcomeSucceeded
	case ResultEmptyShape:
		c.counter("analysis.empty_shape").Inc(1)
		entry.WithField("body", truncate(result.Body, maxLoggedBody)).Warn("Data does not contain key concepts")
	default:
		c.counter("analysis.transport_error").Inc(1)
		entry.WithError(result.Err).Error("Analysis request failed")
	}
	c.store.SetConcepts([]Concept{})
	return outcomeFailed
}

// Discard removes a card by its concept ID.
func (c *Controller) Discard(id string) bool {
	if !c.store.DiscardID(id) {
		return false
	}
	c.counter("cards.discarded").Inc(1)
	return true
}

// LogStats writes the request counters to the log.
func (c *Controller) LogStats() {
	fields := log.Fields{}
	c.registry.Each(func(name string, i interface{}) {
		if counter, ok := i.(metrics.Counter); ok {
			fields[name] = counter.Count()
		}
	})
	c.log.WithFields(fields).Info("Session statistics")
}

func (c *Controller) count(name string) int64 {
	return c.counter(name).Count()
}

func (c *Controller) counter(name string) metrics.Counter {
	return metrics.GetOrRegisterCounter(name, c.registry)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
