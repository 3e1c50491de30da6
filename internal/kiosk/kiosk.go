// Package kiosk orchestrates one frame's trip through the system: decode,
// detect, match, mark, announce. One Service is built at startup and handed
// to the web layer; there is no package-level state.
package kiosk

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"github.com/kozaktomas/attendance-kiosk/internal/encoder"
	"github.com/kozaktomas/attendance-kiosk/internal/ledger"
	"github.com/kozaktomas/attendance-kiosk/internal/match"
	"github.com/kozaktomas/attendance-kiosk/internal/metrics"
	"github.com/kozaktomas/attendance-kiosk/internal/roster"
	"github.com/kozaktomas/attendance-kiosk/internal/voice"
)

const announceTimeout = 10 * time.Second

// Outcome is the result for a single detected face.
type Outcome struct {
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
	Marked bool   `json:"marked"`
}

// Result is the response for one processed frame. Status keeps the legacy
// single-string contract (the last face's status); Outcomes carries the
// full per-face list.
type Result struct {
	Status   string    `json:"status"`
	Outcomes []Outcome `json:"outcomes"`
}

// Service wires the matcher, ledger and announcer together.
type Service struct {
	roster    *roster.Roster
	matcher   *match.Matcher
	ledger    *ledger.Ledger
	announcer voice.Announcer
	cooldown  *voice.Cooldown
	phrases   *config.PhrasesConfig
	encoder   encoder.FaceEncoder
	metrics   *metrics.Metrics
	maxSize   int
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock. Tests use this to pin the day.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithAnnouncer sets the voice announcer and its cooldown gate.
func WithAnnouncer(a voice.Announcer, cooldown *voice.Cooldown, phrases *config.PhrasesConfig) Option {
	return func(s *Service) {
		s.announcer = a
		s.cooldown = cooldown
		s.phrases = phrases
	}
}

// WithMaxFrameSize overrides the downscale bound for incoming frames.
func WithMaxFrameSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

// New creates the orchestrator service.
func New(r *roster.Roster, m *match.Matcher, l *ledger.Ledger, enc encoder.FaceEncoder, met *metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		roster:    r,
		matcher:   m,
		ledger:    l,
		encoder:   enc,
		metrics:   met,
		announcer: voice.Nop{},
		maxSize:   constants.MaxFrameSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	met.RosterSize.Set(float64(r.Len()))
	return s
}

// Ledger exposes the attendance store for the web layer's count, reset and
// export endpoints.
func (s *Service) Ledger() *ledger.Ledger {
	return s.ledger
}

// ProcessFrame runs one captured frame through detection, matching and
// marking. An empty frame (no faces) yields the scanning status; otherwise
// each face gets an outcome and the last one becomes the collapsed status.
func (s *Service) ProcessFrame(ctx context.Context, imageData []byte) (*Result, error) {
	frameID := uuid.New().String()[:8]
	s.metrics.FramesProcessed.Inc()

	prepared, err := PrepareFrame(imageData, s.maxSize)
	if err != nil {
		s.metrics.FrameErrors.Inc()
		return nil, fmt.Errorf("preparing frame: %w", err)
	}

	faces, err := s.encoder.DetectFaces(ctx, prepared)
	if err != nil {
		s.metrics.FrameErrors.Inc()
		return nil, fmt.Errorf("detecting faces: %w", err)
	}
	s.metrics.FacesDetected.Add(float64(len(faces)))

	result := &Result{
		Status:   constants.StatusScanning,
		Outcomes: []Outcome{},
	}

	now := s.now()
	for _, face := range faces {
		outcome := s.resolveFace(face, now)
		result.Outcomes = append(result.Outcomes, outcome)
		result.Status = outcome.Status
		log.Printf("[frame %s] face %d: %s", frameID, face.FaceIndex, outcome.Status)
	}

	return result, nil
}

// resolveFace matches one face and, for known names, marks attendance and
// dispatches voice feedback.
func (s *Service) resolveFace(face encoder.Face, now time.Time) Outcome {
	m := s.matcher.Match(face.Embedding)
	if !m.Known {
		s.metrics.UnknownFaces.Inc()
		return Outcome{Status: constants.StatusUnknown}
	}

	marked, err := s.ledger.TryMark(m.Name, now)
	if err != nil {
		log.Printf("Failed to mark %s: %v", m.Name, err)
		return Outcome{Name: m.Name, Status: constants.StatusError}
	}

	var outcome Outcome
	if marked {
		s.metrics.MarksAccepted.Inc()
		outcome = Outcome{Name: m.Name, Status: fmt.Sprintf("Success: %s", m.Name), Marked: true}
		s.announce("success", m.Name, now)
	} else {
		s.metrics.MarksDuplicate.Inc()
		outcome = Outcome{Name: m.Name, Status: fmt.Sprintf("%s already marked", m.Name)}
		s.announce("repeat", m.Name, now)
	}
	return outcome
}

// announce dispatches a spoken phrase in a detached goroutine. Failures are
// logged and swallowed; speech latency never blocks the frame response.
func (s *Service) announce(key, name string, now time.Time) {
	if s.cooldown != nil && !s.cooldown.Allow(name, now) {
		return
	}

	phrase := name
	if s.phrases != nil {
		phrase = s.phrases.Phrase(key, name)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
		defer cancel()
		if err := s.announcer.Announce(ctx, phrase); err != nil {
			log.Printf("Voice announcement failed for %s: %v", name, err)
		}
	}()
}
