package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgurjar/monopoly-ai-simulator/internal/events"
)

// EventRepository writes game events to SQLite. It satisfies
// events.Persister so a recorder can write through to disk.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ events.Persister = (*EventRepository)(nil)

func (r *EventRepository) Append(event events.GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, game_id, turn, event_type, actor_id, target_id, payload, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		event.ID, event.GameID, event.Turn, string(event.Type), event.ActorID,
		event.TargetID, string(payloadBytes), event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *EventRepository) getMany(query string, args ...interface{}) ([]events.GameEvent, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.GameEvent
	for rows.Next() {
		var e events.GameEvent
		var eventType, payloadStr string
		err := rows.Scan(&e.ID, &e.GameID, &e.Turn, &eventType, &e.ActorID, &e.TargetID, &payloadStr, &e.Timestamp)
		if err != nil {
			return nil, err
		}
		e.Type = events.Type(eventType)
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByGameID returns a game's full event stream in append order.
func (r *EventRepository) GetByGameID(gameID string) ([]events.GameEvent, error) {
	query := `SELECT id, game_id, turn, event_type, actor_id, target_id, payload, timestamp FROM events WHERE game_id = ? ORDER BY timestamp ASC`
	return r.getMany(query, gameID)
}

// GetByActorID returns one player's events within a game.
func (r *EventRepository) GetByActorID(gameID, actorID string) ([]events.GameEvent, error) {
	query := `SELECT id, game_id, turn, event_type, actor_id, target_id, payload, timestamp FROM events WHERE game_id = ? AND actor_id = ? ORDER BY timestamp ASC`
	return r.getMany(query, gameID, actorID)
}

// ---------------------------------------------------------
// ResultRepository
// ---------------------------------------------------------

// GameResult is one finished game as persisted.
type GameResult struct {
	GameID     string
	WinnerID   string
	Turns      int
	Draw       bool
	Seed       int64
	FinishedAt time.Time
}

// ResultRepository stores one row per completed game.
type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) Insert(result GameResult) error {
	query := `
		INSERT INTO game_results (game_id, winner_id, turns, draw, seed, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		result.GameID, result.WinnerID, result.Turns, result.Draw, result.Seed, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game result: %w", err)
	}
	return nil
}

// GetByGameID returns one game's result, or nil if not recorded.
func (r *ResultRepository) GetByGameID(gameID string) (*GameResult, error) {
	query := `SELECT game_id, winner_id, turns, draw, seed, finished_at FROM game_results WHERE game_id = ?`
	var res GameResult
	err := r.db.QueryRow(query, gameID).Scan(
		&res.GameID, &res.WinnerID, &res.Turns, &res.Draw, &res.Seed, &res.FinishedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

// WinCounts aggregates wins per player across every stored game.
func (r *ResultRepository) WinCounts() (map[string]int, error) {
	query := `SELECT winner_id, COUNT(*) FROM game_results WHERE draw = 0 GROUP BY winner_id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var winnerID string
		var n int
		if err := rows.Scan(&winnerID, &n); err != nil {
			return nil, err
		}
		counts[winnerID] = n
	}
	return counts, rows.Err()
}
