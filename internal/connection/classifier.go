package connection

import (
	"strings"
	"time"

	"github.com/haasonsaas/agentline/pkg/models"
)

// Verdict is the streaming classification of one inbound message.
type Verdict string

const (
	VerdictStreamChunk Verdict = "stream_chunk"
	VerdictStreamEnd   Verdict = "stream_end"
	VerdictComplete    Verdict = "complete_message"
)

// ClassifierConfig tunes the streaming heuristics. The defaults mirror the
// behavior of the upstream protocol gap: the wire has no mandatory chunk
// framing, so intent is inferred from markers, length, punctuation, and
// timing. False positives only cost an extra streaming render pass, so the
// heuristic is deliberately lenient toward chunks.
type ClassifierConfig struct {
	// ChunkMaxChars is the text length below which an unterminated message
	// may be a chunk.
	ChunkMaxChars int

	// ChunkWindow is how close to the previous activity a short
	// unterminated message must arrive to count as a chunk.
	ChunkWindow time.Duration

	// RapidWindow classifies any message arriving this close to the
	// previous one as a chunk, regardless of length or punctuation.
	RapidWindow time.Duration
}

// DefaultClassifierConfig returns the baseline heuristics.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ChunkMaxChars: 150,
		ChunkWindow:   3 * time.Second,
		RapidWindow:   time.Second,
	}
}

func (c ClassifierConfig) withDefaults() ClassifierConfig {
	def := DefaultClassifierConfig()
	if c.ChunkMaxChars <= 0 {
		c.ChunkMaxChars = def.ChunkMaxChars
	}
	if c.ChunkWindow <= 0 {
		c.ChunkWindow = def.ChunkWindow
	}
	if c.RapidWindow <= 0 {
		c.RapidWindow = def.RapidWindow
	}
	return c
}

// Classified is an annotated copy of an inbound activity. The original
// activity is never mutated.
type Classified struct {
	Activity *models.Activity
	Verdict  Verdict
}

// Classifier decides whether an inbound message is a streaming chunk, a
// stream terminator, or a complete message.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a classifier, filling zero config values with
// defaults.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg.withDefaults()}
}

// Classify tags one inbound message. prev is the arrival time of the
// previous inbound activity; a zero prev means there was none. now is the
// arrival time of this activity, supplied by the caller so timing is
// deterministic under test.
//
// The checks run in a fixed order and the first match wins; the ordering is
// part of the contract because the heuristics overlap.
func (c *Classifier) Classify(act *models.Activity, prev, now time.Time) Verdict {
	// 1. Explicit server-supplied partial markers always win.
	if act.ChannelDataBool("streaming") || act.ChannelDataBool("isPartial") {
		return VerdictStreamChunk
	}

	// 2. Explicit completion markers: an isComplete flag or citation
	// metadata only present on finished responses.
	if act.ChannelDataBool("isComplete") ||
		act.HasEntityType("citation") ||
		act.HasAttachmentType("citation") {
		return VerdictStreamEnd
	}

	// 3. Heuristic chunk detection: short, unterminated text arriving
	// soon after the previous activity.
	text := strings.TrimSpace(act.Text)
	if text != "" &&
		len([]rune(text)) < c.cfg.ChunkMaxChars &&
		!endsWithTerminalPunctuation(text) &&
		within(prev, now, c.cfg.ChunkWindow) {
		return VerdictStreamChunk
	}

	// 4. Rapid succession: anything arriving this fast is part of a burst.
	if within(prev, now, c.cfg.RapidWindow) {
		return VerdictStreamChunk
	}

	return VerdictComplete
}

// Annotate classifies the activity and returns an annotated copy, leaving
// the original untouched.
func (c *Classifier) Annotate(act *models.Activity, prev, now time.Time) Classified {
	return Classified{
		Activity: act.Clone(),
		Verdict:  c.Classify(act, prev, now),
	}
}

func within(prev, now time.Time, window time.Duration) bool {
	if prev.IsZero() {
		return false
	}
	delta := now.Sub(prev)
	return delta >= 0 && delta <= window
}

func endsWithTerminalPunctuation(text string) bool {
	runes := []rune(text)
	if len(runes) == 0 {
		return false
	}
	return strings.ContainsRune(".!?…", runes[len(runes)-1])
}
