package chat

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/askdeck/askdeck/internal/docs"
	"github.com/askdeck/askdeck/internal/history"
	"github.com/askdeck/askdeck/internal/metrics"
	"github.com/askdeck/askdeck/models"
	"github.com/askdeck/askdeck/provider"
)

// greetingPattern matches short conversational openers and closers that
// are answered directly, without documents or the model.
var greetingPattern = regexp.MustCompile(`(?i)^(hi|hello|hey|howdy|good\s+(morning|afternoon|evening)|how\s+are\s+you|bye|goodbye|ok(ay)?|thanks|thank\s+you)[\s!.,?]*$`)

const greetingReply = "Hello! I'm the company HR assistant. Ask me about leave, benefits, workplace policies or anything else in the employee handbook."

// domainWords gate what counts as a workplace question when the intent
// classifier is unavailable.
var domainWords = []string{
	"leave", "vacation", "holiday", "sick", "maternity", "paternity", "parental",
	"benefit", "insurance", "salary", "payroll", "policy", "policies", "manager",
	"employee", "hr", "workday", "hybrid", "remote", "office", "hiring", "job",
	"promotion", "disciplinary", "resignation", "notice",
}

const offTopicReply = "I can help with questions about company policies, leave, benefits and other workplace topics. What would you like to know?"

// fallbackReplies are returned when no document contains an answer for a
// recognized topic.
var fallbackReplies = map[models.IntentCategory]string{
	models.IntentLeavePolicy:    "I couldn't find the leave details you're after. Please check the leave policy in the employee handbook or reach out to HR.",
	models.IntentBenefits:       "I couldn't find that in the benefits documentation. The benefits team can confirm the specifics for you.",
	models.IntentEmployeeLookup: "I couldn't find that person in the documents I have. The company directory is the best place to look.",
	models.IntentParentalLeave:  "I couldn't find those parental leave details. HR can walk you through the current policy.",
	models.IntentDisciplinary:   "Disciplinary matters are handled case by case. Please speak with your manager or HR directly.",
	models.IntentHybridWork:     "I couldn't find the hybrid work arrangement you asked about. Your manager can confirm the policy for your team.",
	models.IntentWorkdaySystem:  "For Workday issues the IT helpdesk is your best bet. I couldn't find a documented fix for that one.",
	models.IntentInternalHiring: "I couldn't find details on that opening. Internal postings are listed on the careers portal.",
}

const generalFallback = "I couldn't find an answer to that in the documents I have. Please reach out to HR for help."

// Engine answers chat messages by grounding them in the document corpus.
type Engine struct {
	docs   *docs.Service
	llm    provider.Provider
	store  history.Store
	logger *log.Logger

	mu      sync.Mutex
	windows map[string]*history.Window
}

// NewEngine creates a chat engine backed by the given document service,
// LLM provider and session store.
func NewEngine(d *docs.Service, llm provider.Provider, store history.Store, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(os.Stdout, "[CHAT] ", log.LstdFlags)
	}
	return &Engine{
		docs:    d,
		llm:     llm,
		store:   store,
		logger:  logger,
		windows: make(map[string]*history.Window),
	}
}

// Ask answers a single user message within a session. A blank session id
// starts a new session.
func (e *Engine) Ask(ctx context.Context, sessionID, message string) (models.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.ChatResponse{}, fmt.Errorf("empty message")
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	reply, grounded := e.answer(ctx, sessionID, message)

	e.store.Append(sessionID, history.SenderUser, message)
	e.store.Append(sessionID, history.SenderBot, reply)
	e.window(sessionID).Add(message, reply)

	return models.ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
		Grounded:  grounded,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Reset discards a session's history.
func (e *Engine) Reset(sessionID string) {
	e.store.Clear(sessionID)
	e.mu.Lock()
	delete(e.windows, sessionID)
	e.mu.Unlock()
}

func (e *Engine) answer(ctx context.Context, sessionID, message string) (string, bool) {
	if greetingPattern.MatchString(message) {
		metrics.QueriesTotal.WithLabelValues("small_talk").Inc()
		return greetingReply, false
	}

	recent := e.window(sessionID).Render()

	intent, err := e.llm.AnalyzeIntent(ctx, message, recent)
	if err != nil {
		if !isDomainQuery(message) {
			e.logger.Printf("intent analysis failed on an off-topic message: %v", err)
			metrics.QueriesTotal.WithLabelValues("small_talk").Inc()
			return offTopicReply, false
		}
		e.logger.Printf("intent analysis failed, assuming document search: %v", err)
		intent = models.Intent{Category: models.IntentGeneral, NeedsDocuments: true}
	}

	if !intent.NeedsDocuments {
		metrics.QueriesTotal.WithLabelValues("small_talk").Inc()
		reply, err := e.llm.SmallTalk(ctx, message)
		if err != nil {
			return greetingReply, false
		}
		return reply, false
	}

	excerpts := e.docs.SearchRelevant(message, strings.Join(intent.Keywords, " "))
	if excerpts == "" {
		metrics.QueriesTotal.WithLabelValues("no_match").Inc()
		return fallbackFor(intent.Category), false
	}

	sessionCtx := e.store.Context(sessionID, history.ContextMessageCap)
	reply, grounded, err := e.llm.AnswerFromDocuments(ctx, message, excerpts, sessionCtx)
	if err != nil {
		// The ranked excerpts still carry the answer. Serve them raw
		// rather than failing the request.
		e.logger.Printf("answer generation failed, serving excerpts: %v", err)
		metrics.QueriesTotal.WithLabelValues("degraded").Inc()
		return "Here's what I found in our documents:\n\n" + excerpts + "\n\nFor more details, please contact HR.", true
	}
	if !grounded {
		metrics.QueriesTotal.WithLabelValues("no_match").Inc()
		return fallbackFor(intent.Category), false
	}

	metrics.QueriesTotal.WithLabelValues("grounded").Inc()
	return reply, true
}

func (e *Engine) window(sessionID string) *history.Window {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.windows[sessionID]
	if !ok {
		w = history.NewWindow(0)
		e.windows[sessionID] = w
	}
	return w
}

func isDomainQuery(message string) bool {
	lower := strings.ToLower(message)
	for _, w := range domainWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func fallbackFor(category models.IntentCategory) string {
	if reply, ok := fallbackReplies[category]; ok {
		return reply
	}
	return generalFallback
}
