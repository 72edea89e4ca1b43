package service

// Broadcaster pushes events to an agent's open WebSocket connections (avoids import cycle)
type Broadcaster interface {
	BroadcastToOwner(ownerID string, msgType string, payload interface{})
}

// Event types pushed to agents
const (
	EventProgressUpdate   = "progress_update"
	EventWizardSubmitted  = "wizard_submitted"
	EventAutomationResult = "automation_result"
	EventLeadUpdated      = "lead_updated"
	EventPostCreated      = "post_created"
)

// ProgressPayload accompanies EventProgressUpdate
type ProgressPayload struct {
	SessionID       string `json:"sessionId"`
	QuestionnaireID string `json:"questionnaireId"`
	Progress        int    `json:"progress"`
	SectionID       string `json:"sectionId"`
	QuestionID      string `json:"questionId,omitempty"`
}
