package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/shipwatch/shipwatch/pkg/apis/deployment"
	"github.com/shipwatch/shipwatch/pkg/apis/run"
	"github.com/shipwatch/shipwatch/pkg/platform"
	"github.com/shipwatch/shipwatch/pkg/util/sets"
)

var (
	pollTicksMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipwatch_poll_ticks_total",
		Help: "Number of deployment poll queries performed after the initial snapshot",
	})

	commentWritesMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipwatch_status_publishes_total",
		Help: "Number of status publishes attempted",
	})
)

// Defaults for the polling discipline.
const (
	DefaultPollInterval = 10 * time.Second
	DefaultTimeout      = 30 * time.Minute
)

// State of a reconciliation session.
type State string

const (
	StateInitial  State = "INITIAL"
	StatePolling  State = "POLLING"
	StateTerminal State = "TERMINAL"
	StateTimedOut State = "TIMED_OUT"
)

// TrackingLostError aborts the run when a re-query stops returning the
// deployment the session is tracking. Continuing to poll would report on the
// wrong artifact, so the session fails instead of silently re-targeting.
type TrackingLostError struct {
	TrackedID string
	// GotID is empty when the re-query found no deployment at all.
	GotID string
}

func (e *TrackingLostError) Error() string {
	if e.GotID == "" {
		return fmt.Sprintf("lost track of deployment %s: commit no longer matches any deployment", e.TrackedID)
	}
	return fmt.Sprintf("lost track of deployment %s: commit now maps to deployment %s", e.TrackedID, e.GotID)
}

// Locator yields the authoritative deployment for a commit.
type Locator interface {
	FindDeployment(ctx context.Context, appID, commitSHA string) (*deployment.Deployment, error)
}

// Publisher pushes the externally visible status comment.
type Publisher interface {
	Publish(rc run.Context, body string) error
}

// StatusRecorder mirrors status onto an external deployment status API.
type StatusRecorder interface {
	RecordStatus(rc run.Context, d deployment.Deployment, logURL string) error
}

// Session is the in-memory state of one poll-until-done run for one commit.
// It is created at the start of a run and discarded at process exit; nothing
// persists across runs except what can be re-read from GitHub.
type Session struct {
	ID           uuid.UUID
	State        State
	DeploymentID string
	LastStatus   string
	StartTime    time.Time
}

// Result is what the run reports back to the calling pipeline.
type Result struct {
	Found        bool
	Status       string
	URL          string
	LogURL       string
	DeploymentID string
	State        State
}

// Config parameterizes a Reconciler.
type Config struct {
	AppID        string
	PollInterval time.Duration
	Timeout      time.Duration

	// FormatBody renders the comment body for a deployment snapshot. Must
	// be deterministic so replayed publishes stay idempotent.
	FormatBody func(d deployment.Deployment) string

	// LogURL resolves the platform logs address for a deployment id.
	LogURL func(deploymentID string) string
}

// Reconciler drives one deployment to a terminal state, publishing a status
// comment once per distinct observed status plus once at loop end.
type Reconciler struct {
	cfg       Config
	locator   Locator
	publisher Publisher
	// recorder is nil when github deployment status mirroring is disabled
	recorder StatusRecorder

	// injectable clock so tests can simulate elapsed time without delays
	now   func() time.Time
	sleep func(d time.Duration)
}

// New builds a Reconciler. recorder may be nil.
func New(cfg Config, locator Locator, publisher Publisher, recorder StatusRecorder) *Reconciler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Reconciler{
		cfg:       cfg,
		locator:   locator,
		publisher: publisher,
		recorder:  recorder,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// Run drives one reconciliation session to completion. A missing deployment
// is reported with Found=false, not an error; errors.Is/As against
// platform.APIError and TrackingLostError classify the fatal paths.
func (r *Reconciler) Run(ctx context.Context, rc run.Context) (*Result, error) {
	session := &Session{ID: uuid.New(), State: StateInitial, StartTime: r.now()}
	logger := log.WithField("session", session.ID.String()).
		WithField("commit", rc.CommitSHA)

	d, err := r.locator.FindDeployment(ctx, r.cfg.AppID, rc.CommitSHA)
	if err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			logger.Info("no deployment found for commit")
			return &Result{Found: false, State: StateInitial}, nil
		}
		return nil, err
	}

	session.DeploymentID = d.ID
	session.LastStatus = d.Status
	logger = logger.WithField("deployment", d.ID)

	if d.IsTerminal() {
		session.State = StateTerminal
		logger.WithField("status", d.Status).Info("deployment already terminal")
		if err := r.publish(rc, *d, logger); err != nil {
			return nil, err
		}
		return r.result(session, *d), nil
	}

	// the first observation is worth a comment before the first sleep
	if err := r.publish(rc, *d, logger); err != nil {
		return nil, err
	}
	published := sets.NewString(d.Status)

	session.State = StatePolling
	for {
		if r.now().Sub(session.StartTime) >= r.cfg.Timeout {
			session.State = StateTimedOut
			logger.WithField("status", session.LastStatus).Warn("timed out waiting for a terminal status")
			if err := r.publish(rc, *d, logger); err != nil {
				return nil, err
			}
			return r.result(session, *d), nil
		}

		r.sleep(r.cfg.PollInterval)
		pollTicksMetric.Inc()

		next, err := r.locator.FindDeployment(ctx, r.cfg.AppID, rc.CommitSHA)
		if err != nil {
			if errors.Is(err, platform.ErrNotFound) {
				return nil, &TrackingLostError{TrackedID: session.DeploymentID}
			}
			return nil, err
		}
		if next.ID != session.DeploymentID {
			return nil, &TrackingLostError{TrackedID: session.DeploymentID, GotID: next.ID}
		}

		d = next
		if d.IsTerminal() {
			session.State = StateTerminal
			session.LastStatus = d.Status
			logger.WithField("status", d.Status).Info("deployment reached terminal status")
			if err := r.publish(rc, *d, logger); err != nil {
				return nil, err
			}
			return r.result(session, *d), nil
		}

		if !published.Has(d.Status) {
			logger.WithField("status", d.Status).Info("deployment status changed")
			if err := r.publish(rc, *d, logger); err != nil {
				return nil, err
			}
			published.Insert(d.Status)
		}
		session.LastStatus = d.Status
	}
}

func (r *Reconciler) publish(rc run.Context, d deployment.Deployment, logger *log.Entry) error {
	commentWritesMetric.Inc()

	if err := r.publisher.Publish(rc, r.cfg.FormatBody(d)); err != nil {
		return errors.Wrap(err, "publishing status comment")
	}
	if r.recorder != nil {
		if err := r.recorder.RecordStatus(rc, d, r.cfg.LogURL(d.ID)); err != nil {
			return errors.Wrap(err, "recording github deployment status")
		}
	}

	logger.WithField("status", d.Status).Debug("status published")
	return nil
}

func (r *Reconciler) result(session *Session, d deployment.Deployment) *Result {
	return &Result{
		Found:        true,
		Status:       d.Status,
		URL:          d.URL,
		LogURL:       r.cfg.LogURL(d.ID),
		DeploymentID: d.ID,
		State:        session.State,
	}
}
