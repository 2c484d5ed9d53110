// Package journal keeps a SQLite transcript of every resolved turn.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/111acge/DNDGP/internal/models"
)

// Journal appends turn records for one play session.
type Journal struct {
	conn    *sqlx.DB
	session string
}

type turnRow struct {
	Session    string `db:"session"`
	Turn       int    `db:"turn"`
	Action     string `db:"action"`
	Narrative  string `db:"narrative"`
	Path       string `db:"path"`
	Roll       int    `db:"roll"`
	Difficulty int    `db:"difficulty"`
	Success    bool   `db:"success"`
	Health     int    `db:"health"`
	Gold       int    `db:"gold"`
	Location   string `db:"location"`
	CreatedAt  int64  `db:"created_at"`
}

// Open opens or creates the journal database at path and starts a new session.
func Open(path string) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{conn: conn, session: uuid.NewString()}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return j, nil
}

// Session is the id shared by every record written through this journal.
func (j *Journal) Session() string {
	return j.session
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		turn INTEGER NOT NULL,
		action TEXT NOT NULL,
		narrative TEXT NOT NULL,
		path TEXT NOT NULL,
		roll INTEGER NOT NULL,
		difficulty INTEGER NOT NULL,
		success INTEGER NOT NULL,
		health INTEGER NOT NULL,
		gold INTEGER NOT NULL,
		location TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session, id);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// Record appends one turn to the current session.
func (j *Journal) Record(ctx context.Context, rec models.TurnRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	row := turnRow{
		Session:    j.session,
		Turn:       rec.Turn,
		Action:     rec.Action,
		Narrative:  rec.Narrative,
		Path:       rec.Path,
		Roll:       rec.Roll,
		Difficulty: rec.Difficulty,
		Success:    rec.Success,
		Health:     rec.Health,
		Gold:       rec.Gold,
		Location:   rec.Location,
		CreatedAt:  rec.CreatedAt.UnixNano(),
	}
	_, err := j.conn.NamedExecContext(ctx, `INSERT INTO turns
		(session, turn, action, narrative, path, roll, difficulty, success, health, gold, location, created_at)
		VALUES (:session, :turn, :action, :narrative, :path, :roll, :difficulty, :success, :health, :gold, :location, :created_at)`,
		row)
	if err != nil {
		return fmt.Errorf("record turn %d: %w", rec.Turn, err)
	}
	return nil
}

// Recent returns up to limit turns of the current session, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]models.TurnRecord, error) {
	var rows []turnRow
	err := j.conn.SelectContext(ctx, &rows,
		`SELECT session, turn, action, narrative, path, roll, difficulty, success, health, gold, location, created_at
		FROM turns WHERE session = ? ORDER BY id DESC LIMIT ?`,
		j.session, limit,
	)
	if err != nil {
		return nil, err
	}

	records := make([]models.TurnRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, models.TurnRecord{
			Turn:       r.Turn,
			Action:     r.Action,
			Narrative:  r.Narrative,
			Path:       r.Path,
			Roll:       r.Roll,
			Difficulty: r.Difficulty,
			Success:    r.Success,
			Health:     r.Health,
			Gold:       r.Gold,
			Location:   r.Location,
			CreatedAt:  time.Unix(0, r.CreatedAt),
		})
	}
	return records, nil
}
