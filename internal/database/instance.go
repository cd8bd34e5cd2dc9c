package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/contract"
	"github.com/diegoclair/qotd-bot/internal/domain/entity"
)

// instance implements the QueueStore contract on top of SQLite
type instance struct {
	db        *DB
	queueRepo *queueRepository
}

// NewInstance creates a queue store backed by the given database
func NewInstance(db *DB) contract.QueueStore {
	return &instance{
		db:        db,
		queueRepo: newQueueRepo(db.conn),
	}
}

func (i *instance) ReadAll(ctx context.Context, store entity.StoreName) ([]string, error) {
	if !store.Valid() {
		return nil, storeErr("read", store, errUnknownStore)
	}

	lines, err := i.queueRepo.List(ctx, store)
	if err != nil {
		return nil, storeErr("read", store, err)
	}

	return lines, nil
}

func (i *instance) Append(ctx context.Context, store entity.StoreName, line string) error {
	if !store.Valid() {
		return storeErr("append", store, errUnknownStore)
	}

	if err := i.queueRepo.Insert(ctx, store, strings.TrimSpace(line)); err != nil {
		return storeErr("append", store, err)
	}

	return nil
}

func (i *instance) ReplaceAll(ctx context.Context, store entity.StoreName, lines []string) error {
	if !store.Valid() {
		return storeErr("replace", store, errUnknownStore)
	}

	err := i.withTransaction(ctx, func(repo *queueRepository) error {
		if err := repo.DeleteAll(ctx, store); err != nil {
			return err
		}
		return repo.InsertMany(ctx, store, lines)
	})
	if err != nil {
		return storeErr("replace", store, err)
	}

	return nil
}

// withTransaction executes a function within a database transaction
func (i *instance) withTransaction(ctx context.Context, fn func(repo *queueRepository) error) error {
	tx, err := i.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = fn(newQueueRepo(tx))
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

var errUnknownStore = errors.New("unknown store")

func storeErr(op string, store entity.StoreName, err error) error {
	return &domain.StoreError{Op: op, Store: string(store), Err: err}
}
