package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/helix-robotics/graspcore/internal/timeutil"
)

// Event type values stored in the grasp_events table.
const (
	EventGrasp   = "grasp"
	EventRelease = "release"
)

// GraspEvent is one attach or release recorded during an episode.
type GraspEvent struct {
	EventID   string  `json:"event_id"`
	EpisodeID string  `json:"episode_id"`
	Event     string  `json:"event"`
	Mode      string  `json:"mode"`
	Target    string  `json:"target"`
	Distance  float64 `json:"distance"`
	CreatedAt int64   `json:"created_at"`
}

// ModeSummary aggregates committed grasps for one selection mode.
type ModeSummary struct {
	Mode        string  `json:"mode"`
	Grasps      int     `json:"grasps"`
	AvgDistance float64 `json:"avg_distance"`
}

// EventStore provides persistence for grasp episode events.
type EventStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewEventStore creates a new EventStore using the real clock.
func NewEventStore(db *sql.DB) *EventStore {
	return NewEventStoreWithClock(db, timeutil.RealClock{})
}

// NewEventStoreWithClock creates an EventStore with an injected clock
// for deterministic timestamps in tests.
func NewEventStoreWithClock(db *sql.DB, clock timeutil.Clock) *EventStore {
	return &EventStore{db: db, clock: clock}
}

// Insert persists one event. If EventID is empty, a UUID is generated;
// a zero CreatedAt is stamped with the current time.
func (s *EventStore) Insert(ev *GraspEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.New().String()
	}
	if ev.CreatedAt == 0 {
		ev.CreatedAt = s.clock.Now().UnixNano()
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO grasp_events (
				event_id, episode_id, event, mode, target, distance, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ev.EventID, ev.EpisodeID, ev.Event, ev.Mode, ev.Target, ev.Distance, ev.CreatedAt,
		)
		return err
	})
}

// ListByEpisode returns all events for an episode in recording order.
func (s *EventStore) ListByEpisode(episodeID string) ([]*GraspEvent, error) {
	rows, err := s.db.Query(`
		SELECT event_id, episode_id, event, mode, target, distance, created_at
		FROM grasp_events
		WHERE episode_id = ?
		ORDER BY created_at ASC, rowid ASC`, episodeID)
	if err != nil {
		return nil, fmt.Errorf("query grasp events: %w", err)
	}
	defer rows.Close()

	var events []*GraspEvent
	for rows.Next() {
		var e GraspEvent
		if err := rows.Scan(&e.EventID, &e.EpisodeID, &e.Event, &e.Mode,
			&e.Target, &e.Distance, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan grasp event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// EpisodeIDs returns the distinct episodes present, newest first.
func (s *EventStore) EpisodeIDs() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT episode_id
		FROM grasp_events
		GROUP BY episode_id
		ORDER BY MIN(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan episode id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SummarizeByMode aggregates committed grasps across all episodes.
func (s *EventStore) SummarizeByMode() ([]*ModeSummary, error) {
	rows, err := s.db.Query(`
		SELECT mode, COUNT(*), AVG(distance)
		FROM grasp_events
		WHERE event = ?
		GROUP BY mode
		ORDER BY mode ASC`, EventGrasp)
	if err != nil {
		return nil, fmt.Errorf("query mode summary: %w", err)
	}
	defer rows.Close()

	var out []*ModeSummary
	for rows.Next() {
		var m ModeSummary
		if err := rows.Scan(&m.Mode, &m.Grasps, &m.AvgDistance); err != nil {
			return nil, fmt.Errorf("scan mode summary: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// GraspDistances returns the commit distance of every grasp for one
// mode, in recording order, across all episodes.
func (s *EventStore) GraspDistances(mode string) ([]float64, error) {
	rows, err := s.db.Query(`
		SELECT distance
		FROM grasp_events
		WHERE event = ? AND mode = ?
		ORDER BY created_at ASC, rowid ASC`, EventGrasp, mode)
	if err != nil {
		return nil, fmt.Errorf("query grasp distances: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var d float64
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan grasp distance: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
