package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func chatItems() *fakeItems {
	return &fakeItems{items: []models.ContentItem{
		{ID: 1, Type: models.ContentTypeVideo, Title: "Index fund investing", Summary: "Index funds are cheap and diversified.", Tags: []string{"finance"}},
		{ID: 2, Type: models.ContentTypeNote, Title: "Groceries", Summary: "eggs, milk"},
	}}
}

func TestChatService_Send(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		setup    func(m *mockCompletion)
		wantResp string
		wantPath string
		matched  int
	}{
		{
			name:     "no results",
			message:  "quantum chromodynamics",
			setup:    func(m *mockCompletion) {},
			wantResp: NoResultsReply,
			wantPath: "none",
		},
		{
			name:     "llm unavailable",
			message:  "index funds",
			setup:    func(m *mockCompletion) { available(m, store.ProviderStatusInactive) },
			wantResp: "Based on your videos, I found relevant information in \"Index fund investing\".",
			wantPath: "simple",
			matched:  1,
		},
		{
			name:    "llm answer",
			message: "index funds",
			setup: func(m *mockCompletion) {
				available(m, store.ProviderStatusActive)
				m.On("GenerateChatCompletion", mock.Anything, mock.MatchedBy(func(msgs []ChatMessage) bool {
					return len(msgs) == 2 && msgs[0].Content == DefaultChatSystemPrompt &&
						strings.HasPrefix(msgs[1].Content, "Context:\nUser Query: \"index funds\"") &&
						strings.HasSuffix(msgs[1].Content, "\n\nUser Question: index funds")
				}), CompletionOptions{Temperature: 0.7, MaxTokens: 1000, TopP: 0.9, ServiceType: models.ServiceTypeChat}).
					Return("**Index funds** are great.", nil).Once()
			},
			wantResp: "**Index funds** are great.",
			wantPath: "llm",
			matched:  1,
		},
		{
			name:    "llm failure falls back",
			message: "index funds",
			setup: func(m *mockCompletion) {
				available(m, store.ProviderStatusActive)
				m.On("GenerateChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("timeout")).Once()
			},
			wantResp: "Based on your videos, I found relevant information in \"Index fund investing\".",
			wantPath: "simple",
			matched:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockCompletion{}
			tt.setup(m)
			history := &fakeHistory{}
			svc := NewChatService(chatItems(), history, m, "")

			reply, err := svc.Send(context.Background(), 9, "  "+tt.message+"  ")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(reply.Response, tt.wantResp), reply.Response)
			assert.Equal(t, tt.wantPath, reply.Path)
			assert.Equal(t, tt.message, reply.Message)
			assert.Len(t, reply.MatchedVideos, tt.matched)
			assert.NotEmpty(t, reply.ResponseHTML)

			require.Len(t, history.msgs, 1)
			assert.Equal(t, int64(9), history.msgs[0].UserID)
			assert.Equal(t, reply.Response, history.msgs[0].Response)
			assert.Equal(t, reply.ID, history.msgs[0].ID)
			m.AssertExpectations(t)
		})
	}
}

func TestChatService_SendValidation(t *testing.T) {
	svc := NewChatService(chatItems(), &fakeHistory{}, nil, "")
	_, err := svc.Send(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, models.ErrValidation)

	failing := NewChatService(&fakeItems{err: errors.New("db down")}, &fakeHistory{}, nil, "")
	_, err = failing.Send(context.Background(), 1, "hello world")
	assert.ErrorContains(t, err, "db down")
}

func TestChatService_MatchedItems(t *testing.T) {
	svc := NewChatService(chatItems(), &fakeHistory{}, nil, "")
	reply, err := svc.Send(context.Background(), 1, "index funds")
	require.NoError(t, err)
	require.Len(t, reply.MatchedVideos, 1)
	got := reply.MatchedVideos[0]
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Index fund investing", got.Title)
	assert.Equal(t, models.ContentTypeVideo, got.Type)
	assert.Greater(t, got.RelevanceScore, 0.0)
}

func TestChatService_HistoryAndClear(t *testing.T) {
	history := &fakeHistory{}
	svc := NewChatService(chatItems(), history, nil, "")
	ctx := context.Background()
	for _, msg := range []string{"index funds", "groceries list", "nothing here at all"} {
		_, err := svc.Send(ctx, 3, msg)
		require.NoError(t, err)
	}
	_, err := svc.Send(ctx, 4, "index funds")
	require.NoError(t, err)

	msgs, err := svc.History(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "groceries list", msgs[0].Message)

	n, err := svc.Clear(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	msgs, err = svc.History(ctx, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestRenderHTML(t *testing.T) {
	svc := NewChatService(nil, nil, nil, "")
	assert.Equal(t, "<p><strong>bold</strong> text</p>\n", svc.RenderHTML("**bold** text"))
}
