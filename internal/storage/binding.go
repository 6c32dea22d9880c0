package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"reflect"
	"sync"
)

// Binding は1つの永続化キーに紐づいた値を保持する。
//
// 初回アクセス時にStoreから読み込み、値が無い・デコードできない場合は初期値を使う。
// 更新はメモリ上の値を先に反映し、その後ベストエフォートでStoreに書き込む。
// 書き込みの失敗はログに残すだけで呼び出し元には返さない。
//
// Getが返す値は共有されている可能性があるため、スライスやマップを変更する場合は
// コピーしてからSetすること。
//
// Detach後のBindingはメモリ上の値だけを更新し、Storeには書き込まない。
type Binding[T any] struct {
	store   Store
	key     string
	initial T
	logger  *slog.Logger

	mu       sync.Mutex
	loaded   bool
	detached bool
	value    T
}

// NewBinding はBindingを生成する。Storeへのアクセスは初回のGet/Set/Updateまで行わない。
func NewBinding[T any](store Store, key string, initial T, logger *slog.Logger) *Binding[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binding[T]{
		store:   store,
		key:     key,
		initial: initial,
		logger:  logger,
	}
}

// Get は現在の値を返す。
func (b *Binding[T]) Get(ctx context.Context) T {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loadLocked(ctx)
	return b.value
}

// Set は値を置き換え、永続化を試みる。
func (b *Binding[T]) Set(ctx context.Context, v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loaded = true
	b.value = v
	b.persistLocked(ctx)
}

// Update は現在の値にfnを適用した結果で置き換え、新しい値を返す。
// fnがエラーを返した場合は値を変更せずにそのエラーを返す。
func (b *Binding[T]) Update(ctx context.Context, fn func(T) (T, error)) (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loadLocked(ctx)
	next, err := fn(b.value)
	if err != nil {
		return b.value, err
	}
	b.value = next
	b.persistLocked(ctx)
	return next, nil
}

// Detach はStoreへの書き込みを止める。
// 実行中のSet/Updateが終わるまで待ってから戻るため、戻った後にこのBindingがStoreへ書くことはない。
func (b *Binding[T]) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detached = true
}

// Reattach はDetachを取り消す。Detach中の変更はStoreに反映されていない。
func (b *Binding[T]) Reattach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detached = false
}

// loadLocked は未読み込みの場合にStoreから値を読み込む。
func (b *Binding[T]) loadLocked(ctx context.Context) {
	if b.loaded {
		return
	}
	b.loaded = true
	b.value = b.initial

	raw, ok, err := b.store.Get(ctx, b.key)
	if err != nil {
		b.logger.Warn("failed to read persisted value, using initial value",
			slog.String("key", b.key),
			slog.String("error", err.Error()),
		)
		return
	}
	if !ok || len(raw) == 0 {
		return
	}
	// ポインタ型でない値の null は未保存と同じ扱いにする
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) && !nullable[T]() {
		return
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		b.logger.Warn("failed to decode persisted value, using initial value",
			slog.String("key", b.key),
			slog.String("error", err.Error()),
		)
		return
	}
	b.value = v
}

// persistLocked は現在の値をベストエフォートで書き込む。
func (b *Binding[T]) persistLocked(ctx context.Context) {
	if b.detached {
		return
	}
	raw, err := json.Marshal(b.value)
	if err != nil {
		b.logger.Warn("failed to encode value for persistence",
			slog.String("key", b.key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := b.store.Set(ctx, b.key, raw); err != nil {
		b.logger.Warn("failed to persist value",
			slog.String("key", b.key),
			slog.String("error", err.Error()),
		)
	}
}

// nullable はTがJSONのnullをそのまま値として持てる型かどうかを返す。
func nullable[T any]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}
