// Package filestore keeps the queue stores as plain UTF-8 text files, one record per line.
package filestore

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/contract"
	"github.com/diegoclair/qotd-bot/internal/domain/entity"
)

// File names of existing deployments; data dirs carry over unchanged
var fileNames = map[entity.StoreName]string{
	entity.StorePending:  "QoTD.txt",
	entity.StorePast:     "PastQoTD.txt",
	entity.StoreRejected: "RejectedQoTD.txt",
	entity.StoreIntake:   "Suggestions.txt",
}

type Store struct {
	dir string
}

var _ contract.QueueStore = (*Store)(nil)

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file backing a store
func (s *Store) Path(store entity.StoreName) string {
	return filepath.Join(s.dir, fileNames[store])
}

// Init creates the data dir and any missing store file
func (s *Store) Init(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	for _, name := range entity.AllStores {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := os.OpenFile(s.Path(name), os.O_CREATE|os.O_RDONLY, 0o644)
		if err != nil {
			return storeErr("init", name, err)
		}
		f.Close()
	}

	return nil
}

func (s *Store) ReadAll(ctx context.Context, store entity.StoreName) ([]string, error) {
	if err := s.check(ctx, "read", store); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(store))
	if err != nil {
		return nil, storeErr("read", store, err)
	}

	return splitLines(data), nil
}

func (s *Store) Append(ctx context.Context, store entity.StoreName, line string) error {
	if err := s.check(ctx, "append", store); err != nil {
		return err
	}

	f, err := os.OpenFile(s.Path(store), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return storeErr("append", store, err)
	}
	defer f.Close()

	if _, err := f.WriteString(strings.TrimSpace(line) + "\n"); err != nil {
		return storeErr("append", store, err)
	}
	if err := f.Sync(); err != nil {
		return storeErr("append", store, err)
	}

	return nil
}

// ReplaceAll writes the new contents next to the target and renames it into place,
// so readers see either the old or the new file.
func (s *Store) ReplaceAll(ctx context.Context, store entity.StoreName, lines []string) error {
	if err := s.check(ctx, "replace", store); err != nil {
		return err
	}

	target := s.Path(store)
	if _, err := os.Stat(target); err != nil {
		return storeErr("replace", store, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+fileNames[store]+".*")
	if err != nil {
		return storeErr("replace", store, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return storeErr("replace", store, err)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w.WriteString(line)
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		tmp.Close()
		return storeErr("replace", store, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return storeErr("replace", store, err)
	}
	if err := tmp.Close(); err != nil {
		return storeErr("replace", store, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return storeErr("replace", store, err)
	}

	return nil
}

func (s *Store) check(ctx context.Context, op string, store entity.StoreName) error {
	if !store.Valid() {
		return storeErr(op, store, errors.New("unknown store"))
	}
	return ctx.Err()
}

func splitLines(data []byte) []string {
	var lines []string
	for _, raw := range bytes.Split(data, []byte("\n")) {
		line := strings.TrimSpace(string(raw))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func storeErr(op string, store entity.StoreName, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("store file missing: %w", err)
	}
	return &domain.StoreError{Op: op, Store: string(store), Err: err}
}
