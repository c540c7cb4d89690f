package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"abarrotes-backend/internal/models"
)

// ErrSuperseded is returned when a newer question arrived on the same
// conversation while this one was in flight. The stale answer is
// discarded, never shown.
var ErrSuperseded = errors.New("answer superseded by a newer question")

// maxToolRounds caps the tool-call loop for one question.
const maxToolRounds = 4

// ProductSearcher resolves catalog lookups for the assistant's tool.
type ProductSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
}

// Chat is the store assistant: a tool-augmented conversation that can
// look up catalog products while answering.
type Chat struct {
	client   *Client
	products ProductSearcher

	mu       sync.Mutex
	history  map[string][]chatMessage
	gens     map[string]int
}

func NewChat(client *Client, products ProductSearcher) *Chat {
	return &Chat{
		client:   client,
		products: products,
		history:  make(map[string][]chatMessage),
		gens:     make(map[string]int),
	}
}

const systemPrompt = `Eres el asistente de una tienda de abarrotes.
Respondes en español, breve y directo, sobre precios, productos y cortes de caja.
Cuando el usuario pregunte por un producto usa la herramienta search_products antes de responder.
Si no encuentras el producto dilo claramente, nunca inventes precios.`

var productSearchTool = map[string]any{
	"type": "function",
	"function": map[string]any{
		"name":        "search_products",
		"description": "Busca productos del catálogo por nombre (subcadena, sin distinguir acentos).",
		"parameters": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Nombre o parte del nombre del producto",
				},
			},
			"required": []string{"query"},
		},
	},
}

// Ask answers one question on a conversation. Each call bumps the
// conversation's generation; when a later call lands before this one
// finishes, this one's answer is dropped and ErrSuperseded returned.
func (c *Chat) Ask(ctx context.Context, conversationID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("question is empty")
	}

	c.mu.Lock()
	c.gens[conversationID]++
	gen := c.gens[conversationID]
	messages := append([]chatMessage{{Role: "system", Content: systemPrompt}}, c.history[conversationID]...)
	messages = append(messages, chatMessage{Role: "user", Content: question})
	c.mu.Unlock()

	answer, err := c.run(ctx, messages)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[conversationID] != gen {
		return "", ErrSuperseded
	}
	c.history[conversationID] = append(c.history[conversationID],
		chatMessage{Role: "user", Content: question},
		chatMessage{Role: "assistant", Content: answer},
	)
	return answer, nil
}

// Reset clears a conversation's history.
func (c *Chat) Reset(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.history, conversationID)
	delete(c.gens, conversationID)
}

// run drives the completion loop, executing tool calls until the model
// produces a plain answer.
func (c *Chat) run(ctx context.Context, messages []chatMessage) (string, error) {
	extra := map[string]any{"tools": []map[string]any{productSearchTool}}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := c.client.complete(ctx, messages, extra)
		if err != nil {
			return "", err
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return strings.TrimSpace(msg.Content), nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result := c.execTool(ctx, call)
			messages = append(messages, chatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}
	return "", fmt.Errorf("tool loop did not converge after %d rounds", maxToolRounds)
}

func (c *Chat) execTool(ctx context.Context, call toolCall) string {
	if call.Function.Name != "search_products" {
		return fmt.Sprintf(`{"error": "unknown tool %s"}`, call.Function.Name)
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return `{"error": "bad arguments"}`
	}

	products, err := c.products.Search(ctx, args.Query, 10)
	if err != nil {
		log.Printf("[Assistant] Product search failed: %v", err)
		return `{"error": "search failed"}`
	}

	type hit struct {
		Key   string  `json:"key"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
		Cost  float64 `json:"cost"`
	}
	hits := make([]hit, 0, len(products))
	for _, p := range products {
		hits = append(hits, hit{Key: p.Key, Name: p.Name, Price: p.Price, Cost: p.Cost})
	}

	out, err := json.Marshal(map[string]any{"products": hits})
	if err != nil {
		return `{"error": "encode failed"}`
	}
	return string(out)
}
