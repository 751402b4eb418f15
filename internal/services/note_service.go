package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"clipnote/internal/costtracker"
	"clipnote/internal/models"
	"clipnote/internal/store"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	maxAITitleLength = 60
	maxAITagsLength  = 200

	noteTitlePrompt = `Based on this content, generate a clear, descriptive title that captures the main topic or question. The title should be 3-8 words and directly relate to the content. Do not include quotes, colons, or special characters. Just return the title text.

Content: "%s"`

	noteTagsPrompt = `Based on this content, generate 3-5 relevant tags that describe the main topics, concepts, or themes. Return only the tags separated by commas, no numbers, colons, or special formatting. Each tag should be 1-3 words.

Content: "%s"`
)

var (
	quoteRe      = regexp.MustCompile(`['"]`)
	colonDashRe  = regexp.MustCompile(`[:\-]`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
	listNumberRe = regexp.MustCompile(`\d+\.\s*`)
	commaRe      = regexp.MustCompile(`\s*,\s*`)
)

// AINote is a note drafted by the LLM. It is returned to the caller, not stored.
type AINote struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	IsAIGenerated bool     `json:"is_ai_generated"`
}

// NoteService manages user notes and drafts notes with the LLM.
type NoteService struct {
	notes        store.NoteStore
	llm          CompletionService
	systemPrompt string
}

func NewNoteService(notes store.NoteStore, llm CompletionService, systemPrompt string) *NoteService {
	if llm == nil {
		llm = NewNoopCompletionService()
	}
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultChatSystemPrompt
	}
	return &NoteService{notes: notes, llm: llm, systemPrompt: systemPrompt}
}

func validateNote(n *models.Note) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Content = strings.TrimSpace(n.Content)
	if n.Title == "" || n.Content == "" {
		return fmt.Errorf("title and content are required: %w", models.ErrValidation)
	}
	n.Tags = NormalizeTags(n.Tags)
	return nil
}

func (s *NoteService) CreateNote(ctx context.Context, n *models.Note) error {
	if err := validateNote(n); err != nil {
		return err
	}
	if err := s.notes.CreateNote(ctx, n); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (s *NoteService) UpdateNote(ctx context.Context, n *models.Note) error {
	if err := validateNote(n); err != nil {
		return err
	}
	if err := s.notes.UpdateNote(ctx, n); err != nil {
		return fmt.Errorf("update note %d: %w", n.ID, err)
	}
	return nil
}

func (s *NoteService) GetNote(ctx context.Context, userID, id int64) (*models.Note, error) {
	n, err := s.notes.GetNote(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get note %d: %w", id, err)
	}
	return n, nil
}

func (s *NoteService) ListNotes(ctx context.Context, userID int64, limit, offset int) ([]*models.Note, error) {
	notes, err := s.notes.ListNotes(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, userID, id int64) error {
	if err := s.notes.DeleteNote(ctx, userID, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	return nil
}

// AskAI answers question with the LLM, then asks it for a title and tags for
// the answer. It returns ErrLLMUnavailable when the probe fails.
func (s *NoteService) AskAI(ctx context.Context, userID int64, question string) (*AINote, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is required: %w", models.ErrValidation)
	}
	ctx = costtracker.WithUser(ctx, userID)
	if !isAvailable(ctx, s.llm) {
		return nil, ErrLLMUnavailable
	}

	answer, err := s.complete(ctx, fmt.Sprintf("Context:\n\n\nUser Question: %s", question), s.systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	var rawTitle, rawTags string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawTitle, err = s.complete(gctx, fmt.Sprintf(noteTitlePrompt, answer), "")
		return err
	})
	g.Go(func() error {
		var err error
		rawTags, err = s.complete(gctx, fmt.Sprintf(noteTagsPrompt, answer), "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate note title and tags: %w", err)
	}

	note := &AINote{
		Title:         CleanAITitle(rawTitle),
		Content:       answer,
		Tags:          CleanAITags(rawTags),
		IsAIGenerated: true,
	}
	log.Debugf("Drafted AI note %q with %d tags", note.Title, len(note.Tags))
	return note, nil
}

func (s *NoteService) complete(ctx context.Context, user, system string) (string, error) {
	msgs := make([]ChatMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, ChatMessage{Role: ChatMessageRoleSystem, Content: system})
	}
	msgs = append(msgs, ChatMessage{Role: ChatMessageRoleUser, Content: user})
	return s.llm.GenerateChatCompletion(ctx, msgs, CompletionOptions{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		TopP:        chatTopP,
		ServiceType: models.ServiceTypeNote,
	})
}

// CleanAITitle strips quotes and colons from a generated title and caps it.
func CleanAITitle(raw string) string {
	t := quoteRe.ReplaceAllString(raw, "")
	t = colonDashRe.ReplaceAllString(t, " ")
	t = strings.TrimSpace(spaceRunRe.ReplaceAllString(t, " "))
	return strings.TrimSpace(truncate(t, maxAITitleLength))
}

// CleanAITags normalizes a generated comma list, caps it and splits it.
func CleanAITags(raw string) []string {
	t := quoteRe.ReplaceAllString(raw, "")
	t = colonDashRe.ReplaceAllString(t, " ")
	t = strings.ReplaceAll(t, "\n", ", ")
	t = listNumberRe.ReplaceAllString(t, "")
	t = commaRe.ReplaceAllString(t, ", ")
	t = strings.TrimSpace(spaceRunRe.ReplaceAllString(t, " "))
	t = truncate(t, maxAITagsLength)
	return NormalizeTags(strings.Split(t, ","))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
