package events

// Pricing event types consumed by the document-generation pipeline.
const (
	EventQuoteSimulated = "quote.simulated"
)

// QuoteSimulatedPayload captures the minimal data downstream collaborators
// need to render or persist a simulated quote.
type QuoteSimulatedPayload struct {
	FolderID      string   `json:"folder_id"`
	OperationCode string   `json:"operation_code"`
	Strategy      string   `json:"strategy"`
	Subsidy       string   `json:"subsidy"`
	RAC           string   `json:"rac"`
	Warnings      []string `json:"warnings,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p QuoteSimulatedPayload) ToMap() map[string]any {
	payload := map[string]any{
		"folder_id":      p.FolderID,
		"operation_code": p.OperationCode,
		"strategy":       p.Strategy,
		"subsidy":        p.Subsidy,
		"rac":            p.RAC,
	}
	if len(p.Warnings) > 0 {
		payload["warnings"] = p.Warnings
	}
	return payload
}
