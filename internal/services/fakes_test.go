package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/store"
	"clipnote/internal/transcript"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
)

// --- Completion mock ---

type mockCompletion struct {
	mock.Mock
}

func (m *mockCompletion) GenerateChatCompletion(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error) {
	args := m.Called(ctx, messages, opts)
	return args.String(0), args.Error(1)
}

func (m *mockCompletion) CheckAvailability(ctx context.Context) store.ProviderStatus {
	return m.Called(ctx).Get(0).(store.ProviderStatus)
}

func (m *mockCompletion) Status() store.ProviderStatus { return store.ProviderStatusActive }
func (m *mockCompletion) Name() string                 { return "mock" }
func (m *mockCompletion) ModelName() string            { return "mock-model" }

func available(m *mockCompletion, status store.ProviderStatus) {
	m.On("CheckAvailability", mock.Anything).Return(status).Once()
}

// --- Video store fake ---

type fakeVideoStore struct {
	mu        sync.Mutex
	nextID    int64
	videos    map[int64]*models.Video
	failTagID int64
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: map[int64]*models.Video{}}
}

func (f *fakeVideoStore) CreateVideo(_ context.Context, v *models.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	v.ID = f.nextID
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	cp := *v
	f.videos[v.ID] = &cp
	return nil
}

func (f *fakeVideoStore) GetVideo(_ context.Context, userID, id int64) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok || v.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideoStore) FindVideo(_ context.Context, userID int64, url, contentID string) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.videos {
		if v.UserID == userID && (v.URL == url || (contentID != "" && v.ContentID == contentID)) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeVideoStore) UpdateVideo(_ context.Context, v *models.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.videos[v.ID]
	if !ok || old.UserID != v.UserID {
		return store.ErrNotFound
	}
	cp := *v
	f.videos[v.ID] = &cp
	return nil
}

func (f *fakeVideoStore) DeleteVideo(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok || v.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeVideoStore) ListVideos(_ context.Context, userID int64, limit, offset int) ([]*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Video
	for _, v := range f.videos {
		if v.UserID == userID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeVideoStore) UpdateVideoTags(_ context.Context, userID, id int64, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.failTagID {
		return store.ErrConflict
	}
	v, ok := f.videos[id]
	if !ok || v.UserID != userID {
		return store.ErrNotFound
	}
	v.Tags = tags
	return nil
}

func (f *fakeVideoStore) UpdateVideoTitle(_ context.Context, userID, id int64, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok || v.UserID != userID {
		return store.ErrNotFound
	}
	v.Title = title
	return nil
}

func (f *fakeVideoStore) ListVideosWithPlaceholderTitles(_ context.Context, userID int64) ([]*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Video
	for _, v := range f.videos {
		if v.UserID == userID && (strings.HasPrefix(v.Title, "Video ") || strings.HasSuffix(v.Title, " Video")) {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- Note store fake ---

type fakeNoteStore struct {
	nextID int64
	notes  map[int64]*models.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: map[int64]*models.Note{}}
}

func (f *fakeNoteStore) CreateNote(_ context.Context, n *models.Note) error {
	f.nextID++
	n.ID = f.nextID
	cp := *n
	f.notes[n.ID] = &cp
	return nil
}

func (f *fakeNoteStore) GetNote(_ context.Context, userID, id int64) (*models.Note, error) {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNoteStore) UpdateNote(_ context.Context, n *models.Note) error {
	old, ok := f.notes[n.ID]
	if !ok || old.UserID != n.UserID {
		return store.ErrNotFound
	}
	cp := *n
	f.notes[n.ID] = &cp
	return nil
}

func (f *fakeNoteStore) DeleteNote(_ context.Context, userID, id int64) error {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeNoteStore) ListNotes(_ context.Context, userID int64, _, _ int) ([]*models.Note, error) {
	var out []*models.Note
	for _, n := range f.notes {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- Chat fakes ---

type fakeItems struct {
	items []models.ContentItem
	err   error
}

func (f *fakeItems) ListContentItems(context.Context, int64) ([]models.ContentItem, error) {
	return f.items, f.err
}

type fakeHistory struct {
	msgs []*models.ChatMessage
}

func (f *fakeHistory) RecordChatMessage(_ context.Context, m *models.ChatMessage) error {
	m.ID = int64(len(f.msgs) + 1)
	m.CreatedAt = time.Now()
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeHistory) ListChatMessages(_ context.Context, userID int64, limit int) ([]*models.ChatMessage, error) {
	var out []*models.ChatMessage
	for _, m := range f.msgs {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeHistory) ClearChatMessages(_ context.Context, userID int64) (int64, error) {
	var kept []*models.ChatMessage
	var n int64
	for _, m := range f.msgs {
		if m.UserID == userID {
			n++
			continue
		}
		kept = append(kept, m)
	}
	f.msgs = kept
	return n, nil
}

// --- Transcript fakes ---

type fakeExtractor struct {
	result transcript.Result
	calls  []string
}

func (f *fakeExtractor) Extract(_ context.Context, url string) transcript.Result {
	f.calls = append(f.calls, url)
	return f.result
}

type fakeTitles struct {
	titles map[string]string
	err    error
}

func (f *fakeTitles) FetchYouTubeTitle(_ context.Context, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if t, ok := f.titles[id]; ok {
		return t, nil
	}
	return "", transcript.ErrTitleNotFound
}

// --- Job client fake ---

type fakeJobs struct {
	processed []int64
	err       error
}

func (f *fakeJobs) Enqueue(context.Context, *asynq.Task, string, int64, ...asynq.Option) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{}, f.err
}

func (f *fakeJobs) EnqueueProcessContent(_ context.Context, _, videoID int64) error {
	if f.err != nil {
		return f.err
	}
	f.processed = append(f.processed, videoID)
	return nil
}

func (f *fakeJobs) EnqueueRegenerateTags(context.Context, int64, int64) error { return f.err }
func (f *fakeJobs) EnqueueRegenerateAllTags(context.Context, int64) error    { return f.err }
func (f *fakeJobs) Close() error                                              { return nil }

// --- User store fake ---

type fakeUsers struct {
	byName map[string]*models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byName: map[string]*models.User{}} }

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	if _, ok := f.byName[u.Username]; ok {
		return store.ErrDuplicate
	}
	u.ID = int64(len(f.byName) + 1)
	f.byName[u.Username] = u
	return nil
}

func (f *fakeUsers) GetUser(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, name string) (*models.User, error) {
	if u, ok := f.byName[name]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

var (
	_ store.VideoStore       = (*fakeVideoStore)(nil)
	_ store.NoteStore        = (*fakeNoteStore)(nil)
	_ store.ContentItemStore = (*fakeItems)(nil)
	_ store.ChatHistoryStore = (*fakeHistory)(nil)
	_ store.JobClient        = (*fakeJobs)(nil)
	_ store.UserStore        = (*fakeUsers)(nil)
	_ transcript.Extractor   = (*fakeExtractor)(nil)
	_ TitleFetcher           = (*fakeTitles)(nil)
	_ CompletionService      = (*mockCompletion)(nil)
)
