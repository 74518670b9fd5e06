package models

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a chat session is not found
var ErrSessionNotFound = errors.New("session not found")

// Intent is the classification of what a user message is asking for.
type Intent struct {
	Category       IntentCategory `json:"category"`
	Keywords       []string       `json:"keywords"`
	NeedsDocuments bool           `json:"needs_documents"`
}

type IntentCategory string

const (
	IntentGreeting       IntentCategory = "greeting"
	IntentLeavePolicy    IntentCategory = "leave_policy"
	IntentBenefits       IntentCategory = "benefits"
	IntentEmployeeLookup IntentCategory = "employee_lookup"
	IntentParentalLeave  IntentCategory = "parental_leave"
	IntentDisciplinary   IntentCategory = "disciplinary"
	IntentHybridWork     IntentCategory = "hybrid_work"
	IntentWorkdaySystem  IntentCategory = "workday_system"
	IntentInternalHiring IntentCategory = "internal_hiring"
	IntentGeneral        IntentCategory = "general_hr"
)

// ChatRequest is the payload accepted by the chat endpoint.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse is the reply returned by the chat endpoint.
type ChatResponse struct {
	SessionID string    `json:"session_id"`
	Reply     string    `json:"reply"`
	Grounded  bool      `json:"grounded"`
	Timestamp time.Time `json:"timestamp"`
}
