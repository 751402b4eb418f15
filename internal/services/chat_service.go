package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"clipnote/internal/costtracker"
	"clipnote/internal/metrics"
	"clipnote/internal/models"
	"clipnote/internal/search"
	"clipnote/internal/store"

	log "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
)

// DefaultChatSystemPrompt is used when no chat prompt file is configured.
const DefaultChatSystemPrompt = `You are an expert video content assistant. Analyze the provided video information and give a comprehensive, detailed answer to the user's question.

INSTRUCTIONS:
1. **Be Comprehensive**: Provide a detailed explanation based on the video content
2. **Be Specific**: Reference actual content, concepts, and details from the videos
3. **Be Structured**: Organize your response logically with clear sections if needed
4. **Be Conversational**: Write in a helpful, engaging tone
5. **Be Complete**: Don't leave the user hanging - provide full explanations

SPECIAL GUIDELINES:
- If asked "what I actually did" or "what did I cover", explain the specific content, concepts, and topics covered in the video(s)
- If multiple videos are relevant, explain how they relate and what each covers
- Use the relevance scores to prioritize information from the most relevant videos
- Quote or paraphrase specific content from the videos to support your explanations
- If the user asks for details, provide thorough explanations with examples from the content`

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1000
	chatTopP        = 0.9

	// DefaultHistoryLimit bounds History when the caller passes no limit.
	DefaultHistoryLimit = 100
)

// ChatReply is the outcome of one chat message.
type ChatReply struct {
	ID            int64                `json:"id"`
	Message       string               `json:"message"`
	Response      string               `json:"response"`
	ResponseHTML  string               `json:"response_html"`
	MatchedVideos []models.MatchedItem `json:"matched_videos"`
	Path          string               `json:"-"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ChatService answers questions across a user's videos and notes.
type ChatService struct {
	items        store.ContentItemStore
	history      store.ChatHistoryStore
	llm          CompletionService
	systemPrompt string
	md           goldmark.Markdown
}

func NewChatService(items store.ContentItemStore, history store.ChatHistoryStore, llm CompletionService, systemPrompt string) *ChatService {
	if llm == nil {
		llm = NewNoopCompletionService()
	}
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultChatSystemPrompt
	}
	return &ChatService{
		items:        items,
		history:      history,
		llm:          llm,
		systemPrompt: systemPrompt,
		md:           goldmark.New(),
	}
}

// Send searches the user's content, answers the message and records the exchange.
func (s *ChatService) Send(ctx context.Context, userID int64, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", models.ErrValidation)
	}

	items, err := s.items.ListContentItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load content items: %w", err)
	}
	results := search.Search(message, items)

	response, path := s.answer(costtracker.WithUser(ctx, userID), message, results)
	metrics.RecordChatResponse(path)

	matched := make([]models.MatchedItem, 0, len(results))
	for _, r := range results {
		matched = append(matched, models.MatchedItem{
			ID:             r.Item.ID,
			Title:          r.Item.Title,
			RelevanceScore: r.RelevanceScore,
			Type:           r.Item.Type,
		})
	}

	record := &models.ChatMessage{
		UserID:       userID,
		Message:      message,
		Response:     response,
		MatchedItems: matched,
	}
	if err := s.history.RecordChatMessage(ctx, record); err != nil {
		return nil, fmt.Errorf("save chat message: %w", err)
	}

	return &ChatReply{
		ID:            record.ID,
		Message:       message,
		Response:      response,
		ResponseHTML:  s.RenderHTML(response),
		MatchedVideos: matched,
		Path:          path,
		CreatedAt:     record.CreatedAt,
	}, nil
}

// answer probes the LLM once and degrades to the composed reply on any failure.
func (s *ChatService) answer(ctx context.Context, message string, results []search.Result) (string, string) {
	if len(results) == 0 {
		return NoResultsReply, metrics.ChatPathNone
	}
	if !isAvailable(ctx, s.llm) {
		log.Debug("LLM not available, falling back to simple chat response")
		return ComposeSimpleResponse(message, results), metrics.ChatPathSimple
	}

	out, err := s.llm.GenerateChatCompletion(ctx, []ChatMessage{
		{Role: ChatMessageRoleSystem, Content: s.systemPrompt},
		{Role: ChatMessageRoleUser, Content: fmt.Sprintf("Context:\n%s\n\nUser Question: %s", BuildLLMContext(message, results), message)},
	}, CompletionOptions{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		TopP:        chatTopP,
		ServiceType: models.ServiceTypeChat,
	})
	if err != nil || strings.TrimSpace(out) == "" {
		log.Warnf("LLM chat generation failed, falling back to simple response: %v", err)
		return ComposeSimpleResponse(message, results), metrics.ChatPathSimple
	}
	return out, metrics.ChatPathLLM
}

// History returns the user's last messages in chronological order.
func (s *ChatService) History(ctx context.Context, userID int64, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	msgs, err := s.history.ListChatMessages(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return msgs, nil
}

// Clear deletes the user's chat history and reports how many messages went.
func (s *ChatService) Clear(ctx context.Context, userID int64) (int64, error) {
	n, err := s.history.ClearChatMessages(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear chat messages: %w", err)
	}
	return n, nil
}

// RenderHTML converts a Markdown reply to HTML. Rendering errors yield "".
func (s *ChatService) RenderHTML(markdown string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		log.Warnf("Failed to render chat response as HTML: %v", err)
		return ""
	}
	return buf.String()
}
