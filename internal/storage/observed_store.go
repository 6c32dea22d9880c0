package storage

import "context"

// FailureRecorder は永続化の失敗を記録するインターフェース。
// metrics.Collectorが実装する。
type FailureRecorder interface {
	RecordPersistFailure(op string)
}

// ObservedStore は内側のStoreの失敗をFailureRecorderに記録するデコレータ。
type ObservedStore struct {
	inner    Store
	recorder FailureRecorder
}

// NewObservedStore はObservedStoreを生成する。
func NewObservedStore(inner Store, recorder FailureRecorder) *ObservedStore {
	return &ObservedStore{inner: inner, recorder: recorder}
}

// Get は内側のStoreに委譲する。
func (s *ObservedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := s.inner.Get(ctx, key)
	if err != nil {
		s.recorder.RecordPersistFailure("read")
	}
	return v, ok, err
}

// Set は内側のStoreに委譲する。
func (s *ObservedStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.inner.Set(ctx, key, value)
	if err != nil {
		s.recorder.RecordPersistFailure("write")
	}
	return err
}

// Clear は内側のStoreに委譲する。
func (s *ObservedStore) Clear(ctx context.Context) error {
	err := s.inner.Clear(ctx)
	if err != nil {
		s.recorder.RecordPersistFailure("clear")
	}
	return err
}

// compile-time interface check
var _ Store = (*ObservedStore)(nil)
