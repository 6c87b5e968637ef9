package contentd

import (
	"fmt"
	"strings"

	"github.com/phanxgames/cove"
)

// ChatRequest is the JSON body of POST /api/chat.
type ChatRequest struct {
	ChatID   string `json:"chat_id"`
	UserName string `json:"user_name"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// ChatResponse is the JSON shape returned by POST /api/chat.
type ChatResponse struct {
	Content   string            `json:"content"`
	Message   string            `json:"message"`
	ChatID    string            `json:"chat_id"`
	UserName  string            `json:"user_name"`
	Category  string            `json:"category"`
	Timestamp string            `json:"timestamp"`
	Rich      *cove.RichContent `json:"rich,omitempty"`
}

// ErrorResponse is the body of every 4xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Keywords that select a rich reply, in priority order.
var (
	tableWords = []string{"table", "tabla", "data"}
	chartWords = []string{"chart", "graph", "gráfico", "grafico"}
	imageWords = []string{"image", "imagen"}
)

// Reply builds the canned answer for message. Messages mentioning a table,
// chart or image get a matching rich payload; anything else is echoed.
func Reply(message string) (string, *cove.RichContent) {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, tableWords):
		return "Generated a table with the requested data.", &cove.RichContent{
			Tables: []cove.Table{{
				Headers: []string{"Quarter", "Revenue", "Growth"},
				Rows: [][]string{
					{"Q1", "120k", "4%"},
					{"Q2", "134k", "11%"},
					{"Q3", "151k", "13%"},
				},
			}},
		}
	case containsAny(lower, chartWords):
		return "Created a chart based on your request.", &cove.RichContent{
			Charts: []cove.Chart{{
				ID:    "chart-1",
				Type:  "bar",
				Title: "Revenue by quarter",
				Data: []cove.ChartPoint{
					{Label: "Q1", Value: 120, Color: "#2563eb"},
					{Label: "Q2", Value: 134, Color: "#16a34a"},
					{Label: "Q3", Value: 151, Color: "#9333ea"},
				},
			}},
		}
	case containsAny(lower, imageWords):
		return "Added an image related to your question.", &cove.RichContent{
			Images: []cove.Image{{
				Src:     "https://picsum.photos/seed/cove/400/240",
				Alt:     "Illustration",
				Caption: "Related illustration",
			}},
		}
	}
	return fmt.Sprintf("Processing message: %q", message), nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
