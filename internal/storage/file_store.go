package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore は1つのJSONファイルに全キーを保存するStore。
// ファイルの中身は「キー → エンコード済み文字列」のオブジェクトで、
// キーごとの値は文字列のまま保持するため、1つのキーが壊れていても他のキーは読める。
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore は指定パスを使うFileStoreを生成する。ファイルは初回書き込み時に作成される。
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path は保存先ファイルのパスを返す。
func (s *FileStore) Path() string {
	return s.path
}

// Get はキーの値を返す。
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readAll()
	if err != nil {
		return nil, false, err
	}

	v, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Set はキーの値を保存する。
// 既存ファイルが壊れている場合は空の状態から書き直す。
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readAll()
	if err != nil {
		entries = make(map[string]string)
	}
	entries[key] = string(value)

	return s.writeAll(entries)
}

// Clear は保存ファイルを削除する。
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear store file: %w", err)
	}
	return nil
}

// readAll はファイル全体を読み込む。ファイルが無い場合は空のマップを返す。
func (s *FileStore) readAll() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	entries := make(map[string]string)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode store file: %w", err)
	}
	return entries, nil
}

// writeAll は一時ファイルに書き込んでからリネームし、書き込み途中のファイルを残さない。
func (s *FileStore) writeAll(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".campmatch-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// compile-time interface check
var _ Store = (*FileStore)(nil)
