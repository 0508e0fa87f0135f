package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"topicwheel/internal/domain"
)

// StateStore keeps the aggregate in relational tables. Unlike the file store it
// detects lost updates: Save succeeds only if nobody saved since the aggregate
// was loaded.
type StateStore struct {
	db *gorm.DB
}

func NewStateStore(gdb *gorm.DB) *StateStore {
	return &StateStore{db: gdb}
}

func (s *StateStore) Load(ctx context.Context) (*domain.State, error) {
	st := domain.NewState()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meta stateMeta
		err := tx.First(&meta, stateMetaID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return fmt.Errorf("version: %w", err)
		}
		st.Version = meta.Version

		var users []participantRow
		if err := tx.Find(&users).Error; err != nil {
			return fmt.Errorf("participants: %w", err)
		}
		for _, r := range users {
			st.Users[r.Key] = r.toDomain()
		}

		var subs []submissionRow
		if err := tx.Find(&subs).Error; err != nil {
			return fmt.Errorf("submissions: %w", err)
		}
		for _, r := range subs {
			st.Submissions[r.ID] = r.toDomain()
		}

		var used []usedTopicsRow
		if err := tx.Find(&used).Error; err != nil {
			return fmt.Errorf("used topics: %w", err)
		}
		for _, r := range used {
			st.UsedTopics[domain.Pool(r.Pool)] = []string(r.IDs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("db: load state: %w", err)
	}

	st.Normalize()
	return st, nil
}

// Save writes the whole aggregate in one transaction and bumps its version.
// A concurrent save since Load yields a stale_state conflict and nothing is written.
func (s *StateStore) Save(ctx context.Context, st *domain.State) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&stateMeta{}).
			Where("id = ? AND version = ?", stateMetaID, st.Version).
			Update("version", st.Version+1)
		if res.Error != nil {
			return fmt.Errorf("version: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewConflict(domain.ReasonStaleState,
				"the data was changed by another request, retry")
		}

		if len(st.Users) > 0 {
			rows := make([]participantRow, 0, len(st.Users))
			for _, u := range st.Users {
				rows = append(rows, toParticipantRow(u))
			}
			if err := upsert(tx, &rows); err != nil {
				return fmt.Errorf("participants: %w", err)
			}
		}

		if len(st.Submissions) > 0 {
			rows := make([]submissionRow, 0, len(st.Submissions))
			for _, sub := range st.Submissions {
				rows = append(rows, toSubmissionRow(sub))
			}
			if err := upsert(tx, &rows); err != nil {
				return fmt.Errorf("submissions: %w", err)
			}
		}

		rows := make([]usedTopicsRow, 0, len(st.UsedTopics))
		for pool, ids := range st.UsedTopics {
			rows = append(rows, usedTopicsRow{Pool: pool.String(), IDs: idList(ids)})
		}
		if len(rows) > 0 {
			if err := upsert(tx, &rows); err != nil {
				return fmt.Errorf("used topics: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		var ce *domain.ConflictError
		if errors.As(err, &ce) {
			return err
		}
		return fmt.Errorf("db: save state: %w", err)
	}

	st.Version++
	return nil
}

// Ping checks the database connection.
func (s *StateStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func upsert(tx *gorm.DB, rows any) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(rows).Error
}
