// Package messaging はモックの会話スレッドを提供する。
//
// 実際の配送は行わない。メッセージを送ると、一定時間後に相手から固定の返信が届く。
// 返信はキャンセル可能な遅延タスクとして扱い、会話から離れた場合やサービス終了時に破棄できる。
// スレッドはメモリ上にのみ保持し、永続化しない。
package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/campmatch/internal/discovery"
	"github.com/hitoshi/campmatch/internal/metrics"
	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/security"
)

// ScriptedReply は相手から届く固定の返信。
const ScriptedReply = "À plus dans l'allée D!"

// DefaultReplyDelay は返信が届くまでの時間。
const DefaultReplyDelay = 800 * time.Millisecond

// ThreadSummary は会話一覧の1行。
type ThreadSummary struct {
	discovery.Camper
	MessageCount int            `json:"messageCount"`
	LastMessage  *model.Message `json:"lastMessage"`
	PendingReply bool           `json:"pendingReply"`
}

// Service はモック会話を管理する。
type Service struct {
	delay     time.Duration
	sanitizer security.TextSanitizer
	metrics   metrics.MetricsCollector
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	threads map[string][]model.Message
	// pending は会話ごとの返信待ちタスク。キャンセルすると未配信の返信は全て破棄される。
	pending map[string]*pendingReplies
	closed  bool
	wg      sync.WaitGroup
}

type pendingReplies struct {
	ctx    context.Context
	cancel context.CancelFunc
	count  int
}

// NewService はServiceを生成し、初期スレッドを読み込む。
func NewService(delay time.Duration, sanitizer security.TextSanitizer, m metrics.MetricsCollector, logger *slog.Logger) *Service {
	if delay <= 0 {
		delay = DefaultReplyDelay
	}
	if m == nil {
		m = metrics.NopCollector{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		delay:     delay,
		sanitizer: sanitizer,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
		threads:   make(map[string][]model.Message),
		pending:   make(map[string]*pendingReplies),
	}
	s.seed()
	return s
}

// seed は各候補との初期メッセージを登録する。
func (s *Service) seed() {
	initial := map[string][]struct {
		from model.Sender
		text string
	}{
		"u1": {
			{model.SenderThem, "Salut ! Tu es à La Sirène aussi?"},
			{model.SenderMe, "Yes, emplacement 42, et toi?"},
			{model.SenderThem, "Vers la piscine 😄"},
		},
		"u2": {{model.SenderThem, "On fait une équipe volley demain?"}},
		"u3": {{model.SenderThem, "Rando facile au bord de mer!"}},
	}

	base := s.now()
	for _, c := range discovery.Campers() {
		msgs := initial[c.ID]
		thread := make([]model.Message, 0, len(msgs))
		for i, m := range msgs {
			thread = append(thread, model.Message{
				ID:     uuid.New().String(),
				From:   m.from,
				Text:   m.text,
				SentAt: base.Add(time.Duration(i-len(msgs)) * time.Minute),
			})
		}
		s.threads[c.ID] = thread
	}
}

// Threads は会話一覧を候補の並び順で返す。
func (s *Service) Threads() []ThreadSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	campers := discovery.Campers()
	out := make([]ThreadSummary, 0, len(campers))
	for _, c := range campers {
		thread := s.threads[c.ID]
		summary := ThreadSummary{Camper: c, MessageCount: len(thread)}
		if len(thread) > 0 {
			last := thread[len(thread)-1]
			summary.LastMessage = &last
		}
		if p, ok := s.pending[c.ID]; ok && p.count > 0 {
			summary.PendingReply = true
		}
		out = append(out, summary)
	}
	return out
}

// Thread は会話のメッセージのコピーを古い順に返す。
func (s *Service) Thread(matchID string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.threads[matchID]
	if !ok {
		return nil, model.NewMatchNotFoundError(matchID)
	}
	out := make([]model.Message, len(thread))
	copy(out, thread)
	return out, nil
}

// Send は自分のメッセージを追加し、固定の返信を遅延タスクとして予約する。
func (s *Service) Send(matchID, text string) (model.Message, error) {
	text = s.sanitizer.Clean(text)
	if text == "" {
		return model.Message{}, model.NewValidationError("Message vide")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[matchID]; !ok {
		return model.Message{}, model.NewMatchNotFoundError(matchID)
	}

	msg := model.Message{
		ID:     uuid.New().String(),
		From:   model.SenderMe,
		Text:   text,
		SentAt: s.now(),
	}
	s.threads[matchID] = append(s.threads[matchID], msg)
	s.metrics.RecordMessageSent()

	if !s.closed {
		s.scheduleReplyLocked(matchID)
	}
	return msg, nil
}

// scheduleReplyLocked は返信タスクを開始する。s.muを保持した状態で呼ぶこと。
func (s *Service) scheduleReplyLocked(matchID string) {
	p, ok := s.pending[matchID]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		p = &pendingReplies{ctx: ctx, cancel: cancel}
		s.pending[matchID] = p
	}
	p.count++

	s.wg.Add(1)
	go func(p *pendingReplies) {
		defer s.wg.Done()

		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-p.ctx.Done():
			return
		case <-timer.C:
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		// キャンセルとタイマー発火が競合した場合はキャンセルを優先する
		if p.ctx.Err() != nil {
			return
		}
		s.threads[matchID] = append(s.threads[matchID], model.Message{
			ID:     uuid.New().String(),
			From:   model.SenderThem,
			Text:   ScriptedReply,
			SentAt: s.now(),
		})
		p.count--
		if p.count == 0 {
			p.cancel()
			delete(s.pending, matchID)
		}
	}(p)
}

// Abandon は会話の未配信の返信を全て破棄する。
// 返信待ちが無い場合は何もしない。
func (s *Service) Abandon(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[matchID]; !ok {
		return model.NewMatchNotFoundError(matchID)
	}
	if p, ok := s.pending[matchID]; ok {
		s.logger.Info("pending replies cancelled",
			slog.String("match_id", matchID),
			slog.Int("count", p.count),
		)
		p.cancel()
		delete(s.pending, matchID)
	}
	return nil
}

// Close は全ての返信待ちをキャンセルし、タスクの終了を待つ。
// Close後のSendは返信を予約しない。
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	for id, p := range s.pending {
		p.cancel()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
