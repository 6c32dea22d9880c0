package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/hitoshi/campmatch/internal/geo"
	"github.com/hitoshi/campmatch/internal/meetup"
	"github.com/hitoshi/campmatch/internal/messaging"
	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/profile"
	"github.com/hitoshi/campmatch/internal/theme"
)

// --- テスト用モック ---

type mockAuthService struct {
	mode        string
	session     *model.Session
	loginFn     func(ctx context.Context, email, password string) (*model.Session, error)
	registerFn  func(ctx context.Context, email, password string) (*model.Session, error)
	logoutCalls int
}

func (m *mockAuthService) Mode() string { return m.mode }

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if m.loginFn != nil {
		sess, err := m.loginFn(ctx, email, password)
		if err == nil {
			m.session = sess
		}
		return sess, err
	}
	return nil, nil
}

func (m *mockAuthService) Register(ctx context.Context, email, password string) (*model.Session, error) {
	if m.registerFn != nil {
		sess, err := m.registerFn(ctx, email, password)
		if err == nil {
			m.session = sess
		}
		return sess, err
	}
	return nil, nil
}

func (m *mockAuthService) Logout(context.Context) {
	m.logoutCalls++
	m.session = nil
}

func (m *mockAuthService) Session(context.Context) *model.Session { return m.session }

type mockProfileService struct {
	profile          model.Profile
	updateFn         func(ctx context.Context, draft model.Profile) (model.Profile, error)
	addFavoriteFn    func(ctx context.Context, label string) (model.Profile, error)
	removeFavoriteFn func(ctx context.Context, index int) (model.Profile, error)
	locateFn         func(ctx context.Context) (model.Profile, error)
	favorites        []profile.FavoriteView
}

func (m *mockProfileService) Get(context.Context) model.Profile { return m.profile }

func (m *mockProfileService) Update(ctx context.Context, draft model.Profile) (model.Profile, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, draft)
	}
	return draft, nil
}

func (m *mockProfileService) AddFavorite(ctx context.Context, label string) (model.Profile, error) {
	if m.addFavoriteFn != nil {
		return m.addFavoriteFn(ctx, label)
	}
	return m.profile, nil
}

func (m *mockProfileService) RemoveFavorite(ctx context.Context, index int) (model.Profile, error) {
	if m.removeFavoriteFn != nil {
		return m.removeFavoriteFn(ctx, index)
	}
	return m.profile, nil
}

func (m *mockProfileService) Locate(ctx context.Context) (model.Profile, error) {
	if m.locateFn != nil {
		return m.locateFn(ctx)
	}
	return m.profile, nil
}

func (m *mockProfileService) Favorites(context.Context) []profile.FavoriteView {
	return m.favorites
}

type mockMessagingService struct {
	threads   []messaging.ThreadSummary
	threadFn  func(matchID string) ([]model.Message, error)
	sendFn    func(matchID, text string) (model.Message, error)
	abandonFn func(matchID string) error
}

func (m *mockMessagingService) Threads() []messaging.ThreadSummary { return m.threads }

func (m *mockMessagingService) Thread(matchID string) ([]model.Message, error) {
	if m.threadFn != nil {
		return m.threadFn(matchID)
	}
	return nil, nil
}

func (m *mockMessagingService) Send(matchID, text string) (model.Message, error) {
	if m.sendFn != nil {
		return m.sendFn(matchID, text)
	}
	return model.Message{}, nil
}

func (m *mockMessagingService) Abandon(matchID string) error {
	if m.abandonFn != nil {
		return m.abandonFn(matchID)
	}
	return nil
}

type mockMeetupService struct {
	draft    model.EventDraft
	createFn func(ctx context.Context, draft model.EventDraft) (model.Event, error)
	toggleFn func(ctx context.Context, id string) (model.Event, error)
	removeFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context, from *geo.Point) []meetup.EventView
}

func (m *mockMeetupService) Draft() model.EventDraft { return m.draft }

func (m *mockMeetupService) Create(ctx context.Context, draft model.EventDraft) (model.Event, error) {
	if m.createFn != nil {
		return m.createFn(ctx, draft)
	}
	return model.Event{EventDraft: draft}, nil
}

func (m *mockMeetupService) ToggleVisibility(ctx context.Context, id string) (model.Event, error) {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, id)
	}
	return model.Event{ID: id}, nil
}

func (m *mockMeetupService) Remove(ctx context.Context, id string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, id)
	}
	return nil
}

func (m *mockMeetupService) List(ctx context.Context, from *geo.Point) []meetup.EventView {
	if m.listFn != nil {
		return m.listFn(ctx, from)
	}
	return []meetup.EventView{}
}

type mockThemeService struct {
	current theme.Theme
}

func (m *mockThemeService) Get(context.Context) theme.Theme { return m.current }

func (m *mockThemeService) Toggle(context.Context) theme.Theme {
	m.current = m.current.Toggle()
	return m.current
}

type mockServices struct {
	auth      *mockAuthService
	profile   *mockProfileService
	messaging *mockMessagingService
	meetups   *mockMeetupService
	theme     *mockThemeService
}

func newMockServices() *mockServices {
	return &mockServices{
		auth:      &mockAuthService{mode: "local"},
		profile:   &mockProfileService{profile: model.DefaultProfile()},
		messaging: &mockMessagingService{},
		meetups:   &mockMeetupService{},
		theme:     &mockThemeService{current: theme.Default},
	}
}

func (m *mockServices) Auth() AuthServiceInterface           { return m.auth }
func (m *mockServices) Profile() ProfileServiceInterface     { return m.profile }
func (m *mockServices) Messaging() MessagingServiceInterface { return m.messaging }
func (m *mockServices) Meetups() MeetupServiceInterface      { return m.meetups }
func (m *mockServices) Theme() ThemeServiceInterface         { return m.theme }

type mockResetter struct {
	resetFn func(ctx context.Context) error
	calls   int
}

func (m *mockResetter) Reset(ctx context.Context) error {
	m.calls++
	if m.resetFn != nil {
		return m.resetFn(ctx)
	}
	return nil
}

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) CheckHealth(context.Context) error { return m.err }

// --- テストヘルパー ---

const testCSRFToken = "test-csrf-token"

// newTestRouter はモックサービスで構成したルーターを返す。
func newTestRouter(svc *mockServices) (http.Handler, *mockResetter) {
	resetter := &mockResetter{}
	router := NewRouter(&RouterDeps{
		Services:          svc,
		Resetter:          resetter,
		Health:            &mockHealthChecker{},
		CORSAllowedOrigin: "http://localhost:5173",
	})
	return router, resetter
}

// doRequest はCSRFトークン付きでリクエストを実行する。
func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: "campmatch_csrf", Value: testCSRFToken})
	req.Header.Set("X-CSRF-Token", testCSRFToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// loggedIn はセッションありの状態にする。
func loggedIn(svc *mockServices) *mockServices {
	svc.auth.session = &model.Session{Token: "demo-token", Email: "lea@example.com"}
	return svc
}
