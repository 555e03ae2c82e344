// Package stubapi serves an in-memory stand-in for the budget-expenses API
// so the dashboard can be run and tested without the real backend.
package stubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/theirongolddev/budgetdash/internal/budgetapi"
	"github.com/theirongolddev/budgetdash/internal/model"

	"go.uber.org/zap"
)

// Config controls the stub server.
type Config struct {
	Addr string
	// StringBody serializes the GET payload a second time inside "body",
	// the way a proxy-integrated lambda answers.
	StringBody bool
	// FailWrites answers every POST with 503, for exercising the
	// reporting policies.
	FailWrites   bool
	EventsBuffer int
	Logger       *zap.Logger
	Now          func() time.Time
}

// Event is one write the stub received.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	ExpenseID string    `json:"expense_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Users           int       `json:"users"`
	Expenses        int       `json:"expenses"`
	Writes          int64     `json:"writes"`
	StringBody      bool      `json:"string_body"`
	FailWrites      bool      `json:"fail_writes"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// writeRequest is a POST body. Amount is lenient because the dashboard
// sends null for amounts that are not numbers.
type writeRequest struct {
	UserID      model.FlexString `json:"user_id"`
	Type        string           `json:"type"`
	Amount      model.Amount     `json:"amount"`
	Category    string           `json:"category"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Email       string           `json:"email"`
}

type payload struct {
	MonthlyBudget float64         `json:"monthly_budget"`
	Expenses      []model.Expense `json:"expenses"`
}

// Service holds per-user budgets and expenses in memory.
type Service struct {
	cfg Config
	log *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	budgets     map[string]float64
	expenses    map[string][]model.Expense
	nextID      int64
	writes      int64
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a stub service with the provided config.
func New(cfg Config) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		log:       log,
		startedAt: cfg.Now(),
		budgets:   make(map[string]float64),
		expenses:  make(map[string][]model.Expense),
		subs:      make(map[int]chan Event),
	}
}

// Seed sets a user's budget and expenses. Expenses without an id get the
// next one.
func (s *Service) Seed(userID string, budget float64, expenses ...model.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[userID] = budget
	list := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.ExpenseID == "" {
			s.nextID++
			e.ExpenseID = model.FlexString(strconv.FormatInt(s.nextID, 10))
		}
		if e.UserID == "" {
			e.UserID = model.FlexString(userID)
		}
		list = append(list, e)
	}
	s.expenses[userID] = list
}

// Handler returns the HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+budgetapi.ResourcePath, s.handleFetch)
	mux.HandleFunc("POST "+budgetapi.ResourcePath, s.handleWrite)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info("stub api listening",
		zap.String("addr", s.cfg.Addr),
		zap.Bool("string_body", s.cfg.StringBody),
		zap.Bool("fail_writes", s.cfg.FailWrites),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("stub api http server: %w", err)
	}
}

func (s *Service) handleFetch(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	s.mu.RLock()
	p := payload{
		MonthlyBudget: s.budgets[userID],
		Expenses:      append([]model.Expense{}, s.expenses[userID]...),
	}
	s.mu.RUnlock()

	s.log.Debug("fetch", zap.String("user_id", userID), zap.Int("expenses", len(p.Expenses)))

	if !s.cfg.StringBody {
		writeJSON(w, http.StatusOK, map[string]any{"body": p})
		return
	}

	inner, err := json.Marshal(p)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"statusCode": http.StatusOK,
		"body":       string(inner),
	})
}

func (s *Service) handleWrite(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body"})
		return
	}
	var req writeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	userID := req.UserID.String()
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}
	if req.Type != budgetapi.RecordTypeBudget && req.Type != budgetapi.RecordTypeExpense {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown type %q", req.Type)})
		return
	}

	if s.cfg.FailWrites {
		s.recordEvent(Event{Type: req.Type, UserID: userID, Amount: req.Amount.Float(), Email: req.Email, Status: http.StatusServiceUnavailable})
		s.log.Warn("write rejected", zap.String("user_id", userID), zap.String("type", req.Type))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "writes are disabled"})
		return
	}

	switch req.Type {
	case budgetapi.RecordTypeBudget:
		s.mu.Lock()
		s.budgets[userID] = req.Amount.Float()
		s.mu.Unlock()

		s.recordEvent(Event{Type: req.Type, UserID: userID, Amount: req.Amount.Float(), Status: http.StatusOK})
		s.log.Info("budget set", zap.String("user_id", userID), zap.Float64("amount", req.Amount.Float()))
		writeJSON(w, http.StatusOK, map[string]string{"message": "Budget set"})

	case budgetapi.RecordTypeExpense:
		s.mu.Lock()
		s.nextID++
		id := strconv.FormatInt(s.nextID, 10)
		s.expenses[userID] = append(s.expenses[userID], model.Expense{
			Category:    req.Category,
			Amount:      req.Amount,
			Date:        req.Date,
			Description: req.Description,
			ExpenseID:   model.FlexString(id),
			UserID:      model.FlexString(userID),
		})
		s.mu.Unlock()

		s.recordEvent(Event{Type: req.Type, UserID: userID, Amount: req.Amount.Float(), ExpenseID: id, Email: req.Email, Status: http.StatusOK})
		s.log.Info("expense added",
			zap.String("user_id", userID),
			zap.String("expense_id", id),
			zap.String("category", req.Category),
			zap.Float64("amount", req.Amount.Float()),
			zap.String("notify", req.Email),
		)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Expense added", "expense_id": id})
	}
}

// recordEvent stores a write event in the ring buffer and fans it out.
func (s *Service) recordEvent(ev Event) {
	s.mu.Lock()
	s.writes++
	s.nextEventID++
	ev.ID = s.nextEventID
	ev.Timestamp = s.cfg.Now()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]struct{}, len(s.budgets))
	expenses := 0
	for id := range s.budgets {
		users[id] = struct{}{}
	}
	for id, list := range s.expenses {
		users[id] = struct{}{}
		expenses += len(list)
	}

	return Status{
		StartedAt:       s.startedAt,
		Users:           len(users),
		Expenses:        expenses,
		Writes:          s.writes,
		StringBody:      s.cfg.StringBody,
		FailWrites:      s.cfg.FailWrites,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	events := s.Subscribe(r.Context())
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for ev := range events {
		writeSSE(w, ev)
		flusher.Flush()
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Subscribe delivers each write event recorded after the call until ctx
// ends, then closes the channel. Slow readers miss events rather than
// blocking writes.
func (s *Service) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}
