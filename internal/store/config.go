package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/uptrace/bun"
)

var recognizedConfigKeys = map[string]bool{
	ConfigMaxRetries:   true,
	ConfigBackoffBase:  true,
	ConfigJobTimeout:   true,
	ConfigRetentionAge: true,
}

// ConfigGet returns the current value of key and true, or ("", false) if
// the key has never been set (it is always set after InitDB seeds the
// defaults, so this is mainly a defensive path).
func (s *Store) ConfigGet(ctx context.Context, key string) (string, bool, error) {
	var model configModel
	err := s.db.NewSelect().Model(&model).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return model.Value, true, nil
}

// ConfigSet upserts a recognized configuration key. ErrUnknownConfigKey is
// returned for any key outside {max-retries, backoff-base, job-timeout,
// retention-age-seconds}.
func (s *Store) ConfigSet(ctx context.Context, key, value string) error {
	if !recognizedConfigKeys[key] {
		return ErrUnknownConfigKey
	}
	_, err := s.db.NewInsert().
		Model(&configModel{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}

// ConfigAll returns every stored configuration key/value pair.
func (s *Store) ConfigAll(ctx context.Context) (map[string]string, error) {
	var models []*configModel
	if err := s.db.NewSelect().Model(&models).Scan(ctx); err != nil {
		return nil, err
	}
	ret := make(map[string]string, len(models))
	for _, m := range models {
		ret[m.Key] = m.Value
	}
	return ret, nil
}

func configGetInt64(ctx context.Context, db bun.IDB, key string, fallback int64) (int64, error) {
	var model configModel
	err := db.NewSelect().Model(&model).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return 0, err
	}
	v, err := strconv.ParseInt(model.Value, 10, 64)
	if err != nil {
		return fallback, nil
	}
	return v, nil
}
