package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"abarrotes-backend/internal/corte"
)

const cashCutPrompt = `Extrae los montos de un corte de caja del texto del usuario.
Devuelve SOLO un objeto JSON con estas llaves, todas numéricas, 0 cuando no se mencionen:
"sales", "party_income", "recharges", "stay_income", "receivables_payments",
"personal_consumption", "general_expenses", "delivered_cash".
No incluyas ninguna otra llave ni texto fuera del JSON.`

// ParseCashCut turns free-form register notes ("vendimos 3500, gasté
// 200 en hielo, entregué 3100") into reconciliation inputs.
func (c *Client) ParseCashCut(ctx context.Context, text string) (corte.Inputs, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return corte.Inputs{}, fmt.Errorf("text is empty")
	}

	resp, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: cashCutPrompt},
		{Role: "user", Content: text},
	}, map[string]any{
		"response_format": map[string]any{"type": "json_object"},
	})
	if err != nil {
		return corte.Inputs{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var in corte.Inputs
	if err := json.Unmarshal([]byte(content), &in); err != nil {
		return corte.Inputs{}, fmt.Errorf("model returned malformed cash cut: %w", err)
	}
	return in, nil
}
