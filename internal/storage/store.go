// Package storage はローカルファーストな永続化を提供する。
//
// Storeはキーごとに構造化データ（JSON）を保存する永続キーバリューストアの抽象で、
// Bindingは1つのキーに紐づいたメモリ上の値とベストエフォートの書き込みを提供する。
package storage

import (
	"context"
	"sync"
)

// Store は永続キーバリューストアのインターフェース。
// 値はJSONエンコード済みのバイト列として扱う。
type Store interface {
	// Get はキーの値を返す。存在しない場合はokにfalseを返す。
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set はキーの値を上書き保存する。
	Set(ctx context.Context, key string, value []byte) error
	// Clear は全キーの値をまとめて削除する。キー単位の削除は提供しない。
	Clear(ctx context.Context) error
}

// MemoryStore はプロセス内メモリのみを使うStore。
// テストおよび永続化が不要な実行モード向け。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore は空のMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get はキーの値を返す。
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set はキーの値を保存する。
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

// Clear は全キーを削除する。
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)
	return nil
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
