package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	logTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnalyzer returns canned results and records the links it was given.
type fakeAnalyzer struct {
	result AnalysisResult
	links  []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, link string) AnalysisResult {
	f.links = append(f.links, link)
	return f.result
}

func newTestController(result AnalysisResult) (*Controller, *fakeAnalyzer, *logTest.Hook) {
	logger, hook := logTest.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	analyzer := &fakeAnalyzer{result: result}
	return NewController(NewConceptStore(), analyzer, logger), analyzer, hook
}

func runSubmit(t *testing.T, c *Controller) analysisMsg {
	cmd := c.Submit()
	require.NotNil(t, cmd)
	msg, ok := cmd().(analysisMsg)
	require.True(t, ok)
	return msg
}

func TestSubmitSuccess(t *testing.T) {
	concepts := generateConcepts(4)
	c, analyzer, _ := newTestController(AnalysisResult{Kind: ResultOK, Concepts: concepts})
	c.SetLink("https://youtu.be/abc")

	msg := runSubmit(t, c)
	assert.Equal(t, []string{"https://youtu.be/abc"}, analyzer.links)

	outcome := c.Apply(msg.seq, msg.link, msg.result)

	assert.Equal(t, outcomeSucceeded, outcome)
	assert.Equal(t, concepts, c.Concepts())
	assert.Equal(t, int64(1), c.count("analysis.submitted"))
	assert.Equal(t, int64(1), c.count("analysis.succeeded"))
}

func TestSubmitEmptyShape(t *testing.T) {
	c, _, hook := newTestController(AnalysisResult{Kind: ResultEmptyShape, Body: `{"status":"error"}`})
	c.SetLink("https://youtu.be/abc")

	msg := runSubmit(t, c)
	outcome := c.Apply(msg.seq, msg.link, msg.result)

	assert.Equal(t, outcomeFailed, outcome)
	assert.True(t, c.Present())
	assert.Empty(t, c.Concepts())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.WarnLevel, entry.Level)
	assert.Equal(t, "Data does not contain key concepts", entry.Message)
	assert.Equal(t, `{"status":"error"}`, entry.Data["body"])
	assert.Equal(t, int64(1), c.count("analysis.empty_shape"))
}

func TestEmptyShapeLogTruncatesBody(t *testing.T) {
	body := `{"status":"error","detail":"` + strings.Repeat("x", 4096) + `"}`
	c, _, hook := newTestController(AnalysisResult{Kind: ResultEmptyShape, Body: body})

	msg := runSubmit(t, c)
	c.Apply(msg.seq, msg.link, msg.result)

	logged, ok := hook.LastEntry().Data["body"].(string)
	require.True(t, ok)
	assert.Equal(t, body[:maxLoggedBody]+"...(truncated)", logged)
}

func TestSubmitTransportError(t *testing.T) {
	transportErr := errors.New("connection refused")
	c, _, hook := newTestController(AnalysisResult{Kind: ResultTransportError, Err: transportErr})

	msg := runSubmit(t, c)
	outcome := c.Apply(msg.seq, msg.link, msg.result)

	assert.Equal(t, outcomeFailed, outcome)
	assert.True(t, c.Present())
	assert.Empty(t, c.Concepts())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.ErrorLevel, entry.Level)
	assert.Equal(t, transportErr, entry.Data[log.ErrorKey])
	assert.Equal(t, int64(1), c.count("analysis.transport_error"))
}

func TestFailureReplacesPreviousConcepts(t *testing.T) {
	c, analyzer, _ := newTestController(AnalysisResult{Kind: ResultOK, Concepts: generateConcepts(3)})
	msg := runSubmit(t, c)
	c.Apply(msg.seq, msg.link, msg.result)
	require.Len(t, c.Concepts(), 3)

	analyzer.result = AnalysisResult{Kind: ResultTransportError, Err: errors.New("boom")}
	msg = runSubmit(t, c)
	c.Apply(msg.seq, msg.link, msg.result)

	assert.Empty(t, c.Concepts())
}

func TestStaleResultIsIgnored(t *testing.T) {
	first := generateConcepts(2)
	second := generateConcepts(3)
	c, analyzer, hook := newTestController(AnalysisResult{Kind: ResultOK, Concepts: first})

	firstMsg := runSubmit(t, c)
	analyzer.result = AnalysisResult{Kind: ResultOK, Concepts: second}
	secondMsg := runSubmit(t, c)
	assert.Greater(t, secondMsg.seq, firstMsg.seq)

	// the newer submission completes first
	assert.Equal(t, outcomeSucceeded, c.Apply(secondMsg.seq, secondMsg.link, secondMsg.result))
	assert.Equal(t, outcomeStale, c.Apply(firstMsg.seq, firstMsg.link, firstMsg.result))

	assert.Equal(t, second, c.Concepts())
	assert.Equal(t, "Ignoring result of a superseded submission", hook.LastEntry().Message)
	assert.Equal(t, int64(1), c.count("analysis.stale"))
}

func TestStaleFailureDoesNotClearConcepts(t *testing.T) {
	concepts := generateConcepts(2)
	c, analyzer, _ := newTestController(AnalysisResult{Kind: ResultTransportError, Err: errors.New("timeout")})

	failing := runSubmit(t, c)
	analyzer.result = AnalysisResult{Kind: ResultOK, Concepts: concepts}
	latest := runSubmit(t, c)

	c.Apply(latest.seq, latest.link, latest.result)
	c.Apply(failing.seq, failing.link, failing.result)

	assert.Equal(t, concepts, c.Concepts())
}

func TestSubmitUsesLinkAtSubmitTime(t *testing.T) {
	c, analyzer, _ := newTestController(AnalysisResult{Kind: ResultOK, Concepts: []Concept{}})
	c.SetLink("first")
	cmd := c.Submit()
	c.SetLink("second")

	msg := cmd().(analysisMsg)

	assert.Equal(t, "first", msg.link)
	assert.Equal(t, []string{"first"}, analyzer.links)
}

func TestControllerDiscard(t *testing.T) {
	concepts := generateConcepts(2)
	c, _, _ := newTestController(AnalysisResult{Kind: ResultOK, Concepts: concepts})
	msg := runSubmit(t, c)
	c.Apply(msg.seq, msg.link, msg.result)

	assert.True(t, c.Discard(concepts[0].ID))
	assert.False(t, c.Discard(concepts[0].ID))
	assert.Equal(t, []Concept{concepts[1]}, c.Concepts())
	assert.Equal(t, int64(1), c.count("cards.discarded"))
}

func TestLogStats(t *testing.T) {
	c, _, hook := newTestController(AnalysisResult{Kind: ResultEmptyShape})
	msg := runSubmit(t, c)
	c.Apply(msg.seq, msg.link, msg.result)

	c.LogStats()

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Session statistics", entry.Message)
	assert.Equal(t, int64(1), entry.Data["analysis.submitted"])
	assert.Equal(t, int64(1), entry.Data["analysis.empty_shape"])
}
