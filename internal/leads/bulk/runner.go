// Package bulk implements the sequential batch runner for pipeline-wide
// actions (draft all NEW, approve all REVIEW, send all READY). A run freezes
// its target set up front, processes items one at a time, and reports
// progress over the event bus; per-item failures are counted and skipped,
// never fatal to the batch.
package bulk

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"prospector_backend/internal/events"
	"prospector_backend/internal/leads/domain"
	"prospector_backend/internal/leads/service"
	"prospector_backend/internal/leads/store"
	"prospector_backend/platform/apperr"
	"prospector_backend/platform/config"
	"prospector_backend/platform/logger"
)

// Action identifies a bulk run over one pipeline stage.
type Action string

const (
	// ActionGenerate drafts an email for every NEW lead.
	ActionGenerate Action = "GENERATING"
	// ActionApprove approves every REVIEW lead with its selected variant.
	ActionApprove Action = "VALIDATING"
	// ActionSend dispatches every READY lead.
	ActionSend Action = "SENDING"
)

// maxLogLines bounds the rolling activity log carried in progress updates.
const maxLogLines = 3

// targetStatus maps an action to the stage it drains.
func targetStatus(action Action) (domain.Status, bool) {
	switch action {
	case ActionGenerate:
		return domain.StatusNew, true
	case ActionApprove:
		return domain.StatusReview, true
	case ActionSend:
		return domain.StatusReady, true
	default:
		return "", false
	}
}

// Snapshot is the externally visible state of the runner.
type Snapshot struct {
	Active      bool     `json:"active"`
	CoolingDown bool     `json:"coolingDown"`
	Action      Action   `json:"action,omitempty"`
	Completed   int      `json:"completed"`
	Total       int      `json:"total"`
	Percent     int      `json:"percent"`
	Failed      int      `json:"failed"`
	Logs        []string `json:"logs"`
}

// Runner serializes bulk actions: at most one run (plus its cooldown) exists
// at a time, and items within a run are processed strictly in order.
type Runner struct {
	svc *service.Service
	st  *store.Store
	bus events.Bus
	cfg config.BulkConfig
	log *logger.Logger

	mu      sync.Mutex
	active  bool
	cooling bool
	state   Snapshot

	wg sync.WaitGroup
}

// NewRunner creates the bulk runner.
func NewRunner(svc *service.Service, st *store.Store, bus events.Bus, cfg config.BulkConfig, log *logger.Logger) *Runner {
	return &Runner{
		svc: svc,
		st:  st,
		bus: bus,
		cfg: cfg,
		log: log,
	}
}

// Start launches a bulk action in the background. An empty target set is a
// successful no-op: the runner never becomes active and no events are
// published. A second Start while a run or its cooldown is in flight is
// rejected with a conflict.
func (r *Runner) Start(ctx context.Context, action Action) error {
	status, ok := targetStatus(action)
	if !ok {
		return apperr.BadRequest(fmt.Sprintf("unknown bulk action %q", action)).WithOp("bulk.Start")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active || r.cooling {
		return apperr.Conflict("a bulk action is already running").WithOp("bulk.Start")
	}

	targets := r.st.FindByStatus(status)
	if len(targets) == 0 {
		return nil
	}

	r.active = true
	r.state = Snapshot{
		Active: true,
		Action: action,
		Total:  len(targets),
	}

	// The run must outlive the HTTP request that triggered it.
	runCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go r.run(runCtx, action, targets)

	return nil
}

// Status returns a copy of the runner state.
func (r *Runner) Status() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.state
	snap.CoolingDown = r.cooling
	snap.Logs = append([]string(nil), r.state.Logs...)
	return snap
}

// Wait blocks until the in-flight run, including its cooldown, finishes.
// Used by tests and graceful shutdown.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, action Action, targets []domain.Lead) {
	defer r.wg.Done()

	total := len(targets)
	failed := 0

	r.log.Info("bulk_run_started", "action", string(action), "total", total)
	r.publish(ctx, events.BulkRunStarted{
		BaseEvent: events.NewBaseEvent(),
		Action:    string(action),
		Total:     total,
	})

	for i, lead := range targets {
		if !r.processItem(ctx, action, lead) {
			failed++
		}

		completed := i + 1
		percent := int(math.Round(float64(completed) / float64(total) * 100))

		r.mu.Lock()
		r.state.Completed = completed
		r.state.Percent = percent
		r.state.Failed = failed
		logs := append([]string(nil), r.state.Logs...)
		r.mu.Unlock()

		r.publish(ctx, events.BulkRunProgress{
			BaseEvent: events.NewBaseEvent(),
			Action:    string(action),
			Completed: completed,
			Total:     total,
			Percent:   percent,
			Logs:      logs,
		})
	}

	r.log.Info("bulk_run_completed", "action", string(action), "total", total, "failed", failed)
	r.publish(ctx, events.BulkRunCompleted{
		BaseEvent: events.NewBaseEvent(),
		Action:    string(action),
		Total:     total,
		Failed:    failed,
	})

	r.mu.Lock()
	r.active = false
	r.cooling = true
	r.state.Active = false
	r.mu.Unlock()

	// Cooldown keeps the controls disabled briefly after the run so the
	// outcome is visible before the next batch can start.
	time.Sleep(r.cfg.GetBulkCooldown())

	r.mu.Lock()
	r.cooling = false
	r.mu.Unlock()
}

// processItem applies the action to one lead and reports success. Items that
// left the target stage between snapshot and processing fail their
// transition and are counted, not retried.
func (r *Runner) processItem(ctx context.Context, action Action, lead domain.Lead) bool {
	switch action {
	case ActionGenerate:
		r.appendLog(fmt.Sprintf("Drafting email for %s...", lead.CompanyName))
		if err := r.svc.GenerateEmail(ctx, lead.ID, ""); err != nil {
			r.appendLog(fmt.Sprintf("Drafting failed for %s", lead.CompanyName))
			return false
		}
		return true

	case ActionApprove:
		time.Sleep(r.cfg.GetBulkApproveDelay())
		if err := r.svc.ApproveSelected(ctx, lead.ID); err != nil {
			r.appendLog(fmt.Sprintf("Approval failed for %s", lead.CompanyName))
			return false
		}
		r.appendLog(fmt.Sprintf("Approved email for %s", lead.CompanyName))
		return true

	case ActionSend:
		time.Sleep(r.cfg.GetBulkSendDelay())
		if err := r.svc.Send(ctx, lead.ID); err != nil {
			r.appendLog(fmt.Sprintf("Sending failed for %s", lead.CompanyName))
			return false
		}
		r.appendLog(fmt.Sprintf("Sent email for %s", lead.CompanyName))
		return true
	}
	return false
}

// publish dispatches run events synchronously so subscribers observe
// progress in processing order.
func (r *Runner) publish(ctx context.Context, event events.Event) {
	if err := r.bus.PublishSync(ctx, event); err != nil {
		r.log.Warn("bulk event handler failed", "event", event.EventName(), "error", err)
	}
}

func (r *Runner) appendLog(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs := append(r.state.Logs, line)
	if len(logs) > maxLogLines {
		logs = logs[len(logs)-maxLogLines:]
	}
	r.state.Logs = logs
}
