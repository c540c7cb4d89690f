package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"abarrotes-backend/internal/models"
)

const semanticPrompt = `Eres un buscador del catálogo de una tienda de abarrotes.
Recibes la consulta del usuario y una lista de productos candidatos.
Devuelve SOLO un objeto JSON {"keys": [...]} con las claves de los productos
que correspondan a lo que el usuario busca, las más relevantes primero.
Si ninguno corresponde devuelve {"keys": []}.`

// SemanticSearch reranks catalog candidates by meaning rather than
// substring: "algo para destapar el baño" can match a drain cleaner.
// Returns matching keys, best first.
func (c *Client) SemanticSearch(ctx context.Context, query string, candidates []models.Product) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" || len(candidates) == 0 {
		return nil, nil
	}

	var catalog strings.Builder
	for _, p := range candidates {
		fmt.Fprintf(&catalog, "%s: %s\n", p.Key, p.Name)
	}

	resp, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: semanticPrompt},
		{Role: "user", Content: "Consulta: " + query + "\n\nCandidatos:\n" + catalog.String()},
	}, map[string]any{
		"response_format": map[string]any{"type": "json_object"},
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Keys []string `json:"keys"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, fmt.Errorf("model returned malformed key list: %w", err)
	}

	// Only keys that actually exist in the candidate set count.
	known := make(map[string]bool, len(candidates))
	for _, p := range candidates {
		known[p.Key] = true
	}
	var keys []string
	for _, k := range out.Keys {
		if known[k] {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
