// Package store keeps the roll log: film rolls loaded in a camera and the frames exposed on them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/majorfi/filmroll/pkg/utils"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a roll id does not exist.
	ErrNotFound = errors.New("roll not found")
	// ErrInvalidRoll is returned when a roll misses its name or has a non-positive ISO.
	ErrInvalidRoll = errors.New("invalid roll")
)

type DB struct {
	sql *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS rolls (
  id         INTEGER PRIMARY KEY,
  name       TEXT NOT NULL,
  iso        INTEGER NOT NULL CHECK (iso > 0),
  camera     TEXT,
  loaded_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS frames (
  id         INTEGER PRIMARY KEY,
  roll_id    INTEGER NOT NULL REFERENCES rolls(id) ON DELETE CASCADE,
  number     INTEGER NOT NULL,
  aperture   TEXT NOT NULL,
  shutter    TEXT NOT NULL,
  iso        INTEGER NOT NULL,
  ev         REAL NOT NULL,
  note       TEXT,
  created_at TEXT NOT NULL,
  UNIQUE(roll_id, number)
);
CREATE INDEX IF NOT EXISTS idx_frames_roll ON frames(roll_id, number);
`

/**************************************************************************************************
** Open opens (and creates when missing) the roll log at path. Foreign keys are enabled so
** deleting a roll removes its frames.
**
** @param path - SQLite database file, ":memory:" is not supported since every connection would
** get its own database
** @return *DB - The opened store
** @return error - Any error opening the file or creating the schema
**************************************************************************************************/
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

/**************************************************************************************************
** CreateRoll stores a new roll and returns it with its id. A zero LoadedAt is set to now.
**************************************************************************************************/
func (d *DB) CreateRoll(ctx context.Context, roll utils.TFilm) (utils.TFilm, error) {
	roll.Name = strings.TrimSpace(roll.Name)
	if roll.Name == "" || roll.ISO <= 0 {
		return utils.TFilm{}, fmt.Errorf("%w: name %q, iso %d", ErrInvalidRoll, roll.Name, roll.ISO)
	}
	if roll.LoadedAt.IsZero() {
		roll.LoadedAt = time.Now()
	}
	roll.LoadedAt = roll.LoadedAt.UTC()

	res, err := d.sql.ExecContext(ctx, `INSERT INTO rolls(name, iso, camera, loaded_at) VALUES(?,?,?,?)`,
		roll.Name, roll.ISO, nullIfEmpty(roll.Camera), roll.LoadedAt.Format(utils.TimeFormat))
	if err != nil {
		return utils.TFilm{}, err
	}
	if roll.ID, err = res.LastInsertId(); err != nil {
		return utils.TFilm{}, err
	}
	return roll, nil
}

// GetRoll returns ErrNotFound when the id is unknown.
func (d *DB) GetRoll(ctx context.Context, id int64) (utils.TFilm, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT id, name, iso, camera, loaded_at FROM rolls WHERE id = ?`, id)
	roll, err := scanRoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.TFilm{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return roll, err
}

// ListRolls returns every roll, most recently loaded first.
func (d *DB) ListRolls(ctx context.Context) ([]utils.TFilm, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id, name, iso, camera, loaded_at FROM rolls ORDER BY loaded_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []utils.TFilm
	for rows.Next() {
		roll, err := scanRoll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, roll)
	}
	return out, rows.Err()
}

// DeleteRoll removes a roll and its frames.
func (d *DB) DeleteRoll(ctx context.Context, id int64) error {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM rolls WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

/**************************************************************************************************
** AddFrame appends a frame to its roll. The frame number is the next one on the roll, whatever
** frame.Number holds, and CreatedAt defaults to now.
**
** @param ctx - Context for the transaction
** @param frame - The frame, RollID must reference an existing roll
** @return utils.TFrame - The stored frame with its id and number
** @return error - ErrNotFound for an unknown roll, or any database error
**************************************************************************************************/
func (d *DB) AddFrame(ctx context.Context, frame utils.TFrame) (out utils.TFrame, err error) {
	if frame.CreatedAt.IsZero() {
		frame.CreatedAt = time.Now()
	}
	frame.CreatedAt = frame.CreatedAt.UTC()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return utils.TFrame{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM rolls WHERE id = ?`, frame.RollID).Scan(&exists); err != nil {
		return utils.TFrame{}, err
	}
	if exists == 0 {
		err = fmt.Errorf("%w: %d", ErrNotFound, frame.RollID)
		return utils.TFrame{}, err
	}

	if err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(number), 0) + 1 FROM frames WHERE roll_id = ?`, frame.RollID).Scan(&frame.Number); err != nil {
		return utils.TFrame{}, err
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO frames(roll_id, number, aperture, shutter, iso, ev, note, created_at) VALUES(?,?,?,?,?,?,?,?)`,
		frame.RollID, frame.Number, frame.Aperture, frame.Shutter, frame.ISO, frame.EV, nullIfEmpty(frame.Note), frame.CreatedAt.Format(utils.TimeFormat))
	if err != nil {
		return utils.TFrame{}, err
	}
	if frame.ID, err = res.LastInsertId(); err != nil {
		return utils.TFrame{}, err
	}
	if err = tx.Commit(); err != nil {
		return utils.TFrame{}, err
	}
	return frame, nil
}

// ListFrames returns the frames of a roll in frame order.
func (d *DB) ListFrames(ctx context.Context, rollID int64) ([]utils.TFrame, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id, roll_id, number, aperture, shutter, iso, ev, note, created_at FROM frames WHERE roll_id = ? ORDER BY number`, rollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []utils.TFrame
	for rows.Next() {
		var (
			f         utils.TFrame
			note      sql.NullString
			createdAt string
		)
		if err := rows.Scan(&f.ID, &f.RollID, &f.Number, &f.Aperture, &f.Shutter, &f.ISO, &f.EV, &note, &createdAt); err != nil {
			return nil, err
		}
		f.Note = note.String
		if f.CreatedAt, err = time.Parse(utils.TimeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("frame %d: %w", f.ID, err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoll(s scanner) (utils.TFilm, error) {
	var (
		roll     utils.TFilm
		camera   sql.NullString
		loadedAt string
	)
	if err := s.Scan(&roll.ID, &roll.Name, &roll.ISO, &camera, &loadedAt); err != nil {
		return utils.TFilm{}, err
	}
	roll.Camera = camera.String
	t, err := time.Parse(utils.TimeFormat, loadedAt)
	if err != nil {
		return utils.TFilm{}, fmt.Errorf("roll %d: %w", roll.ID, err)
	}
	roll.LoadedAt = t
	return roll, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
