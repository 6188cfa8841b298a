// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/zodiac"
)

// EventType represents the type of change between two successive charts.
type EventType string

const (
	EventSignIngress     EventType = "SIGN_INGRESS"
	EventAspectFormed    EventType = "ASPECT_FORMED"
	EventAspectSeparated EventType = "ASPECT_SEPARATED"
	EventAspectChanged   EventType = "ASPECT_CHANGED"
)

// Event represents a change between the previous chart and the current one.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Point     ephem.Point `json:"point"`
	Partner   ephem.Point `json:"partner,omitempty"`
	OldSign   zodiac.Sign `json:"old_sign"`
	NewSign   zodiac.Sign `json:"new_sign"`
	OldKind   aspect.Kind `json:"old_kind,omitempty"`
	NewKind   aspect.Kind `json:"new_kind,omitempty"`
}

// HistoryEntry represents a single chart in the history buffer.
type HistoryEntry struct {
	Timestamp time.Time
	Chart     *chart.Chart
}

// PointHistory tracks the longitude of one chart point across charts.
type PointHistory struct {
	Point     ephem.Point
	Longitude []TimeSeries
}

// TimeSeries is a single data point keyed by Julian day.
type TimeSeries struct {
	JulianDay float64
	Value     float64
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current       *chart.Chart
	lastBuild     time.Time
	lastError     error
	buildDuration time.Duration

	// History buffers
	history       []HistoryEntry
	maxHistoryLen int
	pointHistory  [ephem.NumPoints]*PointHistory
	maxPointHist  int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	now func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen int
	MaxPointHist  int
	MaxEvents     int

	// Clock stamps builds and events. Nil means time.Now.
	Clock func() time.Time
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 60,
		MaxPointHist:  120,
		MaxEvents:     50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 1
	}
	m := &Manager{
		maxHistoryLen: maxHistory,
		maxPointHist:  cfg.MaxPointHist,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
		now:           time.Now,
	}
	if cfg.Clock != nil {
		m.now = cfg.Clock
	}
	for p := range m.pointHistory {
		m.pointHistory[p] = &PointHistory{Point: ephem.Point(p)}
	}
	return m
}

// Update atomically replaces the current chart. A nil chart records the
// error and keeps the previous chart.
func (m *Manager) Update(c *chart.Chart, buildDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastBuild = m.now()
	m.lastError = err
	m.buildDuration = buildDuration

	if c == nil {
		return
	}

	// Detect events before updating current state
	if m.current != nil {
		m.detectEvents(m.current, c)
	}

	m.current = c

	m.history = append(m.history, HistoryEntry{Timestamp: m.lastBuild, Chart: c})
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	m.updatePointHistory(c)
}

// detectEvents compares two charts and generates events.
func (m *Manager) detectEvents(prev, next *chart.Chart) {
	now := m.lastBuild

	for p := ephem.Sun; p <= ephem.MediumCoeli; p++ {
		oldSign, newSign := prev.Points[p].Sign, next.Points[p].Sign
		if oldSign != newSign {
			m.addEvent(Event{
				Type:      EventSignIngress,
				Timestamp: now,
				Point:     p,
				OldSign:   oldSign,
				NewSign:   newSign,
			})
		}
	}

	// Aspect changes only make sense between two direct-aspect charts
	if prev.Options.Midpoints || next.Options.Midpoints {
		return
	}
	for p := ephem.Sun; p <= ephem.MediumCoeli; p++ {
		for _, e := range next.Grid[p] {
			old, ok := prev.Grid.Lookup(p, e.Partner)
			if !ok || old.Kind == e.Kind {
				continue
			}

			ev := Event{
				Timestamp: now,
				Point:     p,
				Partner:   e.Partner,
				OldKind:   old.Kind,
				NewKind:   e.Kind,
			}
			switch {
			case old.Kind == aspect.None:
				ev.Type = EventAspectFormed
			case e.Kind == aspect.None:
				ev.Type = EventAspectSeparated
			default:
				ev.Type = EventAspectChanged
			}
			m.addEvent(ev)
		}
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

func (m *Manager) updatePointHistory(c *chart.Chart) {
	if m.maxPointHist <= 0 {
		return
	}
	jd := c.Info.JulianDay
	for p, pos := range c.Points {
		hist := m.pointHistory[p]
		hist.Longitude = append(hist.Longitude, TimeSeries{JulianDay: jd, Value: pos.Longitude})
		if len(hist.Longitude) > m.maxPointHist {
			hist.Longitude = hist.Longitude[1:]
		}
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Chart         *chart.Chart
	LastBuild     time.Time
	LastError     error
	BuildDuration time.Duration
	HistoryLen    int
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Chart:         m.current,
		LastBuild:     m.lastBuild,
		LastError:     m.lastError,
		BuildDuration: m.buildDuration,
		HistoryLen:    len(m.history),
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// History returns the charts in the history buffer, oldest first.
func (m *Manager) History() []HistoryEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]HistoryEntry, len(m.history))
	copy(out, m.history)
	return out
}

// Previous returns the chart before the current one, if any.
func (m *Manager) Previous() *chart.Chart {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.history) < 2 {
		return nil
	}
	return m.history[len(m.history)-2].Chart
}

// GetPointHistory returns the longitude history of a point.
func (m *Manager) GetPointHistory(p ephem.Point) *PointHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !p.Valid() {
		return nil
	}
	hist := m.pointHistory[p]

	// Return a copy
	out := &PointHistory{
		Point:     hist.Point,
		Longitude: make([]TimeSeries, len(hist.Longitude)),
	}
	copy(out.Longitude, hist.Longitude)
	return out
}

// Motion estimates the daily motion of a point in degrees from the last two
// charts in its history. Negative values mean retrograde motion. Returns 0
// when there is not enough history or the charts share a Julian day.
func (m *Manager) Motion(p ephem.Point) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !p.Valid() {
		return 0
	}
	hist := m.pointHistory[p].Longitude
	if len(hist) < 2 {
		return 0
	}

	p1 := hist[len(hist)-2]
	p2 := hist[len(hist)-1]
	days := p2.JulianDay - p1.JulianDay
	if days == 0 {
		return 0
	}

	// Shortest signed arc, so 359° -> 1° is +2°
	delta := p2.Value - p1.Value
	for delta >= 180 {
		delta -= 360
	}
	for delta < -180 {
		delta += 360
	}
	return delta / days
}

// HasData returns true if at least one chart was built successfully.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
