package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks figma-gpt/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_notifier.go -package=mocks figma-gpt/internal/service Notifier
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completion_service.go -package=mocks -mock_names=CompletionService=MockCompletionService figma-gpt/internal/service CompletionService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"figma-gpt/internal/contextutil"
	"figma-gpt/internal/llm"
	"figma-gpt/internal/settings"
	"figma-gpt/internal/storage"

	"github.com/google/uuid"
)

// MessageResponseReturned is the notification shown after a code completion.
const MessageResponseReturned = "Response returned."

// LLMClient is the part of the OpenAI client used by the completion service.
type LLMClient interface {
	// StreamChat opens a streamed chat completion.
	StreamChat(ctx context.Context, apiKey string, req llm.ChatRequest) (*llm.Stream, error)
	// Complete runs a non-streamed text completion.
	Complete(ctx context.Context, apiKey string, req llm.CompletionRequest) (llm.CompletionResponse, error)
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string, isError bool)
}

// State is the lifecycle state of a chat request.
type State string

const (
	StateIdle       State = "idle"
	StateSent       State = "sent"
	StateStreaming  State = "streaming"
	StateCompleted  State = "completed"
	StateRolledBack State = "rolled_back"
	// StateInterrupted means the stream broke without an error frame. The
	// partial reply is kept.
	StateInterrupted State = "interrupted"
)

// ChatResult describes how a chat request ended.
type ChatResult struct {
	RequestID string `json:"requestId"`
	State     State  `json:"state"`
	Reply     string `json:"reply"`
}

// CodeResult is the outcome of a code completion.
type CodeResult struct {
	RequestID   string `json:"requestId"`
	Text        string `json:"text"`
	TotalTokens int    `json:"totalTokens"`
}

// CompletionService runs completions against the settings held in the store.
type CompletionService interface {
	// Chat sends the current chat prompt and streams the reply into the
	// message history.
	Chat(ctx context.Context) (ChatResult, error)
	// Code sends the current code prompt and appends the result to it.
	Code(ctx context.Context) (CodeResult, error)
}

type completionService struct {
	store    *settings.Store
	client   LLMClient
	notifier Notifier
	history  storage.CompletionStore
}

// NewCompletionService creates a CompletionService. history may be nil.
func NewCompletionService(store *settings.Store, client LLMClient, notifier Notifier, history storage.CompletionStore) CompletionService {
	return &completionService{
		store:    store,
		client:   client,
		notifier: notifier,
		history:  history,
	}
}

// chatRequest tracks one chat submission through its states.
type chatRequest struct {
	id     string
	state  State
	before settings.Settings
	sent   settings.Settings
	reply  strings.Builder
	tokens int
}

func (r *chatRequest) result() ChatResult {
	return ChatResult{RequestID: r.id, State: r.state, Reply: strings.TrimSpace(r.reply.String())}
}

// Chat implements CompletionService.
func (s *completionService) Chat(ctx context.Context) (ChatResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	req := &chatRequest{id: uuid.NewString(), state: StateIdle}

	// Idle -> Sent: loading on and the user's message written optimistically.
	sent, err := s.store.Modify(func(cur *settings.Settings) error {
		if cur.Loading {
			return ErrBusy
		}
		if cur.APIKey == "" {
			return &ValidationError{Field: "apiKey", Message: "cannot be empty"}
		}
		if strings.TrimSpace(cur.ChatPrompt) == "" {
			return &ValidationError{Field: "chatPrompt", Message: "cannot be empty"}
		}
		req.before = cur.Clone()
		cur.Loading = true
		cur.ChatMessages = append(cur.ChatMessages, settings.ChatMessage{
			Role:    settings.RoleUser,
			Content: cur.ChatPrompt,
		})
		return nil
	})
	if err != nil {
		logger.WarnContext(ctx, "chat request rejected", "error", err)
		return req.result(), err
	}
	req.sent = sent
	req.state = StateSent
	defer s.clearLoading()

	logger = logger.With("request_id", req.id, "model", sent.ChatModel)
	logger.InfoContext(ctx, "chat request sent", "messages", len(sent.ChatMessages))

	stream, err := s.client.StreamChat(ctx, sent.APIKey, buildChatRequest(sent))
	if err != nil {
		// No response body: undo the optimistic write.
		s.rollback(req, false)
		return s.failChat(ctx, logger, req, err)
	}
	defer stream.Close()

	// Sent -> Streaming: placeholder reply and empty prompt.
	s.store.Modify(func(cur *settings.Settings) error {
		cur.ChatMessages = append(cur.ChatMessages, settings.ChatMessage{Role: settings.RoleAssistant})
		cur.ChatPrompt = ""
		return nil
	})
	req.state = StateStreaming

	for {
		chunks, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			req.state = StateInterrupted
			return s.failChat(ctx, logger, req, err)
		}

		for _, chunk := range chunks {
			if chunk.IsError() {
				stream.Close()
				s.rollback(req, true)
				return s.failChat(ctx, logger, req, chunk.Err)
			}
			if chunk.Usage != nil {
				req.tokens += chunk.Usage.TotalTokens
			}
			if chunk.Delta.Content == "" {
				continue
			}
			req.reply.WriteString(chunk.Delta.Content)
			s.replaceReply(strings.TrimSpace(req.reply.String()))
		}
	}

	if req.tokens > 0 {
		tokens := req.tokens
		s.store.Modify(func(cur *settings.Settings) error {
			cur.ChatTotalTokens += tokens
			return nil
		})
	}

	req.state = StateCompleted
	logger.InfoContext(ctx, "chat request completed", "reply_length", len(req.result().Reply), "total_tokens", req.tokens)
	s.record(ctx, storage.ModeChat, sent.ChatModel, string(req.state), req.tokens, nil)
	return req.result(), nil
}

// replaceReply overwrites the assistant placeholder with the reply so far.
func (s *completionService) replaceReply(content string) {
	s.store.Modify(func(cur *settings.Settings) error {
		msg := settings.ChatMessage{Role: settings.RoleAssistant, Content: content}
		n := len(cur.ChatMessages)
		if n > 0 && cur.ChatMessages[n-1].Role == settings.RoleAssistant {
			cur.ChatMessages[n-1] = msg
		} else {
			cur.ChatMessages = append(cur.ChatMessages, msg)
		}
		return nil
	})
}

// rollback restores the history from before the request, and the prompt
// when it had already been cleared.
func (s *completionService) rollback(req *chatRequest, restorePrompt bool) {
	before := req.before
	s.store.Modify(func(cur *settings.Settings) error {
		cur.ChatMessages = settings.CloneMessages(before.ChatMessages)
		if restorePrompt {
			cur.ChatPrompt = before.ChatPrompt
		}
		return nil
	})
	req.state = StateRolledBack
}

func (s *completionService) failChat(ctx context.Context, logger *slog.Logger, req *chatRequest, err error) (ChatResult, error) {
	logger.ErrorContext(ctx, "chat request failed", "state", req.state, "error", err)
	s.notifier.Notify(ctx, UserMessage(err), true)
	s.record(ctx, storage.ModeChat, req.sent.ChatModel, string(req.state), req.tokens, err)
	return req.result(), fmt.Errorf("chat completion failed: %w: %w", ErrExternalService, err)
}

// Code implements CompletionService.
func (s *completionService) Code(ctx context.Context) (CodeResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	result := CodeResult{RequestID: uuid.NewString()}

	sent, err := s.store.Modify(func(cur *settings.Settings) error {
		if cur.Loading {
			return ErrBusy
		}
		if cur.APIKey == "" {
			return &ValidationError{Field: "apiKey", Message: "cannot be empty"}
		}
		if strings.TrimSpace(cur.CodePrompt) == "" {
			return &ValidationError{Field: "codePrompt", Message: "cannot be empty"}
		}
		cur.Loading = true
		return nil
	})
	if err != nil {
		logger.WarnContext(ctx, "code request rejected", "error", err)
		return result, err
	}
	defer s.clearLoading()

	logger = logger.With("request_id", result.RequestID, "model", sent.CodeModel)

	resp, err := s.client.Complete(ctx, sent.APIKey, llm.CompletionRequest{
		Model:            sent.CodeModel,
		Prompt:           sent.CodePrompt,
		Temperature:      sent.Temperature,
		MaxTokens:        sent.CodeMaxTokens,
		Stop:             sent.Stop,
		TopP:             sent.TopP,
		FrequencyPenalty: sent.FrequencyPenalty,
		PresencePenalty:  sent.PresencePenalty,
	})
	if err != nil {
		logger.ErrorContext(ctx, "code request failed", "error", err)
		s.notifier.Notify(ctx, UserMessage(err), true)
		s.record(ctx, storage.ModeCode, sent.CodeModel, "failed", 0, err)
		return result, fmt.Errorf("code completion failed: %w: %w", ErrExternalService, err)
	}

	result.Text = strings.TrimSpace(resp.Choices[0].Text)
	result.TotalTokens = resp.Usage.TotalTokens

	s.store.Modify(func(cur *settings.Settings) error {
		cur.CodePrompt = sent.CodePrompt + "\n\n" + result.Text
		cur.CodeResult = result.Text
		cur.CodeTotalTokens = result.TotalTokens
		return nil
	})

	logger.InfoContext(ctx, "code request completed", "text_length", len(result.Text), "total_tokens", result.TotalTokens)
	s.notifier.Notify(ctx, MessageResponseReturned, false)
	s.record(ctx, storage.ModeCode, sent.CodeModel, string(StateCompleted), result.TotalTokens, nil)
	return result, nil
}

func (s *completionService) clearLoading() {
	s.store.Update(settings.Patch{Loading: settings.Value(false)})
}

// record writes a completion log row. Failures are logged only.
func (s *completionService) record(ctx context.Context, mode, model, state string, tokens int, cause error) {
	if s.history == nil {
		return
	}
	c := &storage.Completion{
		Mode:        mode,
		Model:       model,
		State:       state,
		TotalTokens: tokens,
	}
	if cause != nil {
		c.ErrorMessage = UserMessage(cause)
	}
	if err := s.history.Record(ctx, c); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record completion", "mode", mode, "error", err)
	}
}

// buildChatRequest turns a settings snapshot into a chat request. The system
// message, when set, is sent first but never stored in the history.
func buildChatRequest(s settings.Settings) llm.ChatRequest {
	messages := make([]llm.Message, 0, len(s.ChatMessages)+1)
	if strings.TrimSpace(s.ChatSystemMessage) != "" {
		messages = append(messages, llm.Message{Role: string(settings.RoleSystem), Content: s.ChatSystemMessage})
	}
	for _, m := range s.ChatMessages {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}

	return llm.ChatRequest{
		Model:            s.ChatModel,
		Messages:         messages,
		Temperature:      s.Temperature,
		MaxTokens:        s.ChatMaxTokens,
		Stop:             s.Stop,
		TopP:             s.TopP,
		FrequencyPenalty: s.FrequencyPenalty,
		PresencePenalty:  s.PresencePenalty,
	}
}
