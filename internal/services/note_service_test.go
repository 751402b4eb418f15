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

func TestCleanAITitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"quotes and colon", `"Budgeting: A Primer"`, "Budgeting A Primer"},
		{"dashes and spaces", "  Saving -  money\n fast ", "Saving money fast"},
		{"capped", strings.Repeat("word ", 20), strings.TrimSpace(strings.Repeat("word ", 12))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanAITitle(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), maxAITitleLength)
		})
	}
}

func TestCleanAITags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma list", "finance, budgeting ,saving", []string{"finance", "budgeting", "saving"}},
		{"numbered lines", "1. finance\n2. budgeting\n3. saving", []string{"finance", "budgeting", "saving"}},
		{"quotes and duplicates", `"AI", ai, machine-learning`, []string{"AI", "machine learning"}},
		{"empty", "  ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanAITags(tt.raw))
		})
	}
}

func userPromptContains(substr string) any {
	return mock.MatchedBy(func(msgs []ChatMessage) bool {
		return strings.Contains(msgs[len(msgs)-1].Content, substr)
	})
}

func TestAskAI(t *testing.T) {
	llm := new(mockCompletion)
	available(llm, store.ProviderStatusActive)
	llm.On("GenerateChatCompletion", mock.Anything, userPromptContains("User Question: how do I save?"), mock.Anything).
		Return("Put aside a fixed amount every month.", nil).Once()
	llm.On("GenerateChatCompletion", mock.Anything, userPromptContains("descriptive title"), mock.Anything).
		Return(`"Monthly Saving: Basics"`, nil).Once()
	llm.On("GenerateChatCompletion", mock.Anything, userPromptContains("relevant tags"), mock.Anything).
		Return("saving, budgeting", nil).Once()

	svc := NewNoteService(newFakeNoteStore(), llm, "")
	note, err := svc.AskAI(context.Background(), 1, "  how do I save? ")
	require.NoError(t, err)

	assert.Equal(t, &AINote{
		Title:         "Monthly Saving Basics",
		Content:       "Put aside a fixed amount every month.",
		Tags:          []string{"saving", "budgeting"},
		IsAIGenerated: true,
	}, note)
	llm.AssertExpectations(t)
}

func TestAskAI_Errors(t *testing.T) {
	ctx := context.Background()

	svc := NewNoteService(newFakeNoteStore(), nil, "")
	_, err := svc.AskAI(ctx, 1, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.AskAI(ctx, 1, "anything")
	assert.ErrorIs(t, err, ErrLLMUnavailable)

	llm := new(mockCompletion)
	available(llm, store.ProviderStatusActive)
	llm.On("GenerateChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()
	svc = NewNoteService(newFakeNoteStore(), llm, "")
	_, err = svc.AskAI(ctx, 1, "anything")
	assert.ErrorContains(t, err, "boom")
}

func TestNoteCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewNoteService(newFakeNoteStore(), nil, "")

	err := svc.CreateNote(ctx, &models.Note{UserID: 1, Title: " ", Content: "body"})
	assert.ErrorIs(t, err, models.ErrValidation)

	n := &models.Note{UserID: 1, Title: " Groceries ", Content: "milk", Tags: []string{"home", "Home", ""}}
	require.NoError(t, svc.CreateNote(ctx, n))
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, []string{"home"}, n.Tags)

	n.Content = "milk and eggs"
	require.NoError(t, svc.UpdateNote(ctx, n))
	got, err := svc.GetNote(ctx, 1, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "milk and eggs", got.Content)

	_, err = svc.GetNote(ctx, 2, n.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := svc.ListNotes(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteNote(ctx, 1, n.ID))
	assert.ErrorIs(t, svc.DeleteNote(ctx, 1, n.ID), store.ErrNotFound)
}
