package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tennis-tournament-api/models"
	"tennis-tournament-api/storage"
)

var errBoom = errors.New("database unavailable")

func ptr[T any](v T) *T { return &v }

type published struct {
	event string
	data  interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (r *recordingPublisher) Publish(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{event: event, data: data})
}

func (r *recordingPublisher) all() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.events...)
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// actionLogs returns every action log row in insertion order.
func actionLogs(t *testing.T, store *storage.Store) []models.ActionLog {
	t.Helper()
	var logs []models.ActionLog
	require.NoError(t, store.DB.Order("id ASC").Find(&logs).Error)
	return logs
}

// failingStore wraps a Store and fails the operations named in failOn.
type failingStore struct {
	*storage.Store
	failOn map[string]bool
}

func newFailingStore(t *testing.T, ops ...string) *failingStore {
	f := &failingStore{Store: newTestStore(t), failOn: map[string]bool{}}
	for _, op := range ops {
		f.failOn[op] = true
	}
	return f
}

func (f *failingStore) AppendAction(ctx context.Context, e *models.ActionLog) error {
	if f.failOn["AppendAction"] {
		return errBoom
	}
	return f.Store.AppendAction(ctx, e)
}

func (f *failingStore) CountActionsSince(ctx context.Context, a models.Action, since time.Time, n int) ([]models.ActionCount, error) {
	if f.failOn["CountActionsSince"] {
		return nil, errBoom
	}
	return f.Store.CountActionsSince(ctx, a, since, n)
}

func (f *failingStore) IsMonitored(ctx context.Context, userID uint) (bool, error) {
	if f.failOn["IsMonitored"] {
		return false, errBoom
	}
	return f.Store.IsMonitored(ctx, userID)
}

func (f *failingStore) ListPlayers(ctx context.Context, pf models.PlayerFilter) ([]models.Player, error) {
	if f.failOn["ListPlayers"] {
		return nil, errBoom
	}
	return f.Store.ListPlayers(ctx, pf)
}

func (f *failingStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.failOn["GetUserByUsername"] {
		return nil, errBoom
	}
	return f.Store.GetUserByUsername(ctx, username)
}

type tournamentFixture struct {
	store   *storage.Store
	events  *recordingPublisher
	service *TournamentService
}

func newTournamentFixture(t *testing.T) *tournamentFixture {
	store := newTestStore(t)
	events := &recordingPublisher{}
	return &tournamentFixture{
		store:   store,
		events:  events,
		service: NewTournamentService(store, store, NewActionLogger(store), events),
	}
}

func newTestUserService(store UserStore, legacy bool) *UserService {
	s := NewUserService(store, legacy)
	s.BcryptCost = bcrypt.MinCost
	return s
}

type sentMail struct {
	to, code string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendVerificationCode(_ context.Context, to, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, code: code})
	return nil
}
