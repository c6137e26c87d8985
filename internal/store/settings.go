package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// KeyHighScore holds the best score ever reached.
const KeyHighScore = "high_score"

// SettingsRepository reads and writes key-value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value stored under key, or ErrNotFound.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Delete removes key. Deleting a missing key returns ErrNotFound.
func (r *SettingsRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HighScore returns the stored high score, 0 when none has been recorded.
func (r *SettingsRepository) HighScore() (int, error) {
	value, err := r.Get(KeyHighScore)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	score, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse high score %q: %w", value, err)
	}
	return score, nil
}

// SetHighScore overwrites the stored high score.
func (r *SettingsRepository) SetHighScore(score int) error {
	if score < 0 {
		return fmt.Errorf("negative high score %d", score)
	}
	return r.Set(KeyHighScore, strconv.Itoa(score))
}
