package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/erazemk/gripcheck/internal/model"
)

// Replies shown when the model has nothing to say or can't be reached.
const (
	FallbackReply     = "I've updated the inventory based on your request."
	NetworkErrorReply = "I hit a snag on the network. Is the router still plugged in?"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Generator is the part of the Gemini models API the assistant uses.
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Message is one chat turn.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Reply is the assistant's answer to one prompt.
type Reply struct {
	Text    string   `json:"text"`
	Actions []Result `json:"actions"`
}

// Chat keeps a text conversation with GripBot. Every turn sends the whole
// conversation with a fresh inventory snapshot.
type Chat struct {
	mu          sync.Mutex
	gen         Generator
	model       string
	temperature float32
	dispatcher  *Dispatcher
	inventory   func() []model.Equipment
	history     []Message
	now         func() time.Time
}

// NewChat returns a chat that reads the inventory through inventory and
// performs requested actions through d.
func NewChat(gen Generator, modelName string, temperature float32, d *Dispatcher, inventory func() []model.Equipment) *Chat {
	return &Chat{
		gen:         gen,
		model:       modelName,
		temperature: temperature,
		dispatcher:  d,
		inventory:   inventory,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// History returns the conversation so far.
func (c *Chat) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.history...)
}

// Reset forgets the conversation.
func (c *Chat) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

// Send sends prompt and runs every action the model calls. When the model
// can't be reached the reply carries NetworkErrorReply and the error is
// returned; inventory is untouched.
func (c *Chat) Send(ctx context.Context, prompt string) (Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	contents := make([]*genai.Content, 0, len(c.history)+1)
	for _, m := range c.history {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	temperature := c.temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(ChatInstruction(c.inventory()), genai.RoleUser),
		Tools:             Tools(),
		Temperature:       &temperature,
	}

	c.history = append(c.history, Message{Role: RoleUser, Content: prompt, Timestamp: c.now()})

	resp, err := c.gen.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		c.history = append(c.history, Message{Role: RoleAssistant, Content: NetworkErrorReply, Timestamp: c.now()})
		return Reply{Text: NetworkErrorReply, Actions: []Result{}}, fmt.Errorf("generating chat reply: %w", err)
	}

	reply := Reply{Actions: []Result{}}
	var text []string
	for _, part := range firstCandidateParts(resp) {
		switch {
		case part.FunctionCall != nil:
			reply.Actions = append(reply.Actions, c.dispatcher.Dispatch(ctx, part.FunctionCall.Name, part.FunctionCall.Args))
		case part.Text != "" && !part.Thought:
			text = append(text, part.Text)
		}
	}

	reply.Text = strings.TrimSpace(strings.Join(text, ""))
	if reply.Text == "" {
		reply.Text = FallbackReply
	}
	c.history = append(c.history, Message{Role: RoleAssistant, Content: reply.Text, Timestamp: c.now()})
	return reply, nil
}

func firstCandidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return nil
	}
	return cand.Content.Parts
}
