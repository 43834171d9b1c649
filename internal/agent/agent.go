// Package agent orchestrates one chat-completion round trip: message
// assembly, the API call, response formatting, and the simulated fallback
// when the live API cannot be reached.
package agent

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"
	"github.com/sashabaranov/go-openai"

	"github.com/avoschat/llmclient-go/internal/config"
	"github.com/avoschat/llmclient-go/internal/format"
	"github.com/avoschat/llmclient-go/internal/llm"
	"github.com/avoschat/llmclient-go/internal/logger"
)

// FSM states
type fsmState stateless.State

var (
	stateReadyToCallLLM fsmState = "ReadyToCallLLM"
	stateFallingBack    fsmState = "FallingBack"
	stateDone           fsmState = "Done"
)

// FSM triggers
type fsmTrigger stateless.Trigger

var (
	triggerProcessRequest   fsmTrigger = "ProcessRequest"
	triggerLLMAnswered      fsmTrigger = "LLMAnswered"
	triggerLLMUnavailable   fsmTrigger = "LLMUnavailable"
	triggerFallbackAnswered fsmTrigger = "FallbackAnswered"
)

const apology = "I apologize for the inconvenience, but I'm experiencing technical difficulties. Please try again later."

const formattingGuidance = "\nWhen responding, please format your answer appropriately:\n" +
	"- Use code blocks with proper language specification for any code (```python, ```bash, etc.)\n" +
	"- Highlight IMPORTANT information in bold and italic format (**_important_**)\n" +
	"- Use proper Markdown for lists, headings, and other formatting\n" +
	"- If you're explaining steps, use numbered lists\n" +
	"- Use bullet points for feature lists\n"

// ClientFactory acquires an authorized completion client. It runs once per
// Respond call; a failure (missing credentials, token endpoint down) routes
// the call to the simulated responder.
type ClientFactory func(ctx context.Context) (llm.Client, error)

// Request carries one user turn. HistoryJSON is an opaque JSON array of
// prior {role, content} messages; DBData is decoded database context.
type Request struct {
	Prompt       string
	Context      string
	SystemPrompt string
	HistoryJSON  string
	DBData       any
}

// Agent is the response orchestrator.
type Agent struct {
	newClient           ClientFactory
	cfg                 config.LLMConfig
	defaultSystemPrompt string
}

// New creates an agent. defaultSystemPrompt is used for requests that do not
// carry their own system prompt; load it once at startup.
func New(newClient ClientFactory, cfg config.LLMConfig, defaultSystemPrompt string) *Agent {
	return &Agent{
		newClient:           newClient,
		cfg:                 cfg,
		defaultSystemPrompt: defaultSystemPrompt,
	}
}

// Respond answers one user turn. It never returns an error and never returns
// empty text: any internal failure degrades to the simulated responder, and
// an unexpected panic degrades to a fixed apology.
func (a *Agent) Respond(ctx context.Context, req Request) (out string) {
	log := logger.L.With("request_id", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			log.Error("unexpected failure while responding", "panic", r)
			out = apology
		}
		if out == "" {
			out = apology
		}
	}()

	contextText := req.Context
	if req.DBData != nil {
		dbContext := format.Context(req.DBData)
		if contextText != "" && dbContext != "" {
			contextText = contextText + "\n\n" + dbContext
		} else if dbContext != "" {
			contextText = dbContext
		}
	}

	var answer string

	fsm := stateless.NewStateMachine(stateReadyToCallLLM)

	// State: ReadyToCallLLM
	// Action: acquire an authorized client, build the transcript, call the
	// completion endpoint. Any failure routes to FallingBack.
	fsm.Configure(stateReadyToCallLLM).
		PermitReentry(triggerProcessRequest). // the initial fire reenters so OnEntry runs
		OnEntry(func(ctx context.Context, _ ...any) error {
			client, err := a.newClient(ctx)
			if err != nil {
				log.Warn("completion client unavailable, falling back to simulated response", "error", err)
				return fsm.FireCtx(ctx, triggerLLMUnavailable)
			}

			resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:     a.cfg.Model,
				Messages:  a.buildMessages(req, contextText, log),
				MaxTokens: a.cfg.MaxTokens,
			})
			if err != nil {
				log.Warn("completion call failed, falling back to simulated response", "error", err)
				return fsm.FireCtx(ctx, triggerLLMUnavailable)
			}
			if len(resp.Choices) == 0 {
				log.Warn("completion returned no choices, falling back to simulated response")
				return fsm.FireCtx(ctx, triggerLLMUnavailable)
			}

			answer = format.Response(resp.Choices[0].Message.Content)
			return fsm.FireCtx(ctx, triggerLLMAnswered)
		}).
		Permit(triggerLLMAnswered, stateDone).
		Permit(triggerLLMUnavailable, stateFallingBack)

	// State: FallingBack
	// Action: produce the keyword-matched simulated answer. Cannot fail.
	fsm.Configure(stateFallingBack).
		OnEntry(func(ctx context.Context, _ ...any) error {
			answer = format.Response(simulate(req.Prompt, contextText))
			return fsm.FireCtx(ctx, triggerFallbackAnswered)
		}).
		Permit(triggerFallbackAnswered, stateDone)

	// State: Done — terminal.
	fsm.Configure(stateDone)

	// Kick the machine; transitions run synchronously, so it is in Done
	// when this returns.
	if err := fsm.FireCtx(ctx, triggerProcessRequest); err != nil {
		log.Error("response state machine failed", "error", err)
	}

	if answer == "" {
		answer = format.Response(simulate(req.Prompt, contextText))
	}
	return answer
}

// buildMessages assembles the transcript: system prompt, caller history,
// optional context message, then the user prompt with formatting guidance
// appended. Unparsable history is logged and skipped, not fatal.
func (a *Agent) buildMessages(req Request, contextText string, log *slog.Logger) []openai.ChatCompletionMessage {
	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = a.defaultSystemPrompt
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}

	if req.HistoryJSON != "" {
		var history []openai.ChatCompletionMessage
		if err := json.Unmarshal([]byte(req.HistoryJSON), &history); err != nil {
			log.Warn("parsing conversation history failed, skipping history", "error", err)
		} else {
			messages = append(messages, history...)
		}
	}

	if contextText != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: "Context information: " + contextText,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt + "\n\n" + formattingGuidance,
	})

	return messages
}
