package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/praktik-go-api/internal/models"
	"github.com/noah-isme/praktik-go-api/internal/observability"
	"github.com/noah-isme/praktik-go-api/internal/repository"
)

// TransitionEvent describes one workflow status change for downstream
// consumers (notification fan-out, audit dashboards).
type TransitionEvent struct {
	Entity     string    `json:"entity"`
	EntityID   uint      `json:"entity_id"`
	ActorID    uint      `json:"actor_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier fans out workflow transitions. Delivery is best effort: a
// publish failure is logged and never fails the transition that caused it.
type Notifier interface {
	TransitionOccurred(ctx context.Context, event TransitionEvent)
}

type natsNotifier struct {
	conn        *nats.Conn
	subjectBase string
	activity    repository.ActivityLogRepository
	logger      zerolog.Logger
}

// NewNotifier constructs a Notifier that publishes to NATS and appends to
// the activity log. Both conn and activity may be nil; whatever is present
// is used.
func NewNotifier(conn *nats.Conn, subjectBase string, activity repository.ActivityLogRepository, logger zerolog.Logger) Notifier {
	if subjectBase == "" {
		subjectBase = "praktik.workflow"
	}

	return &natsNotifier{
		conn:        conn,
		subjectBase: subjectBase,
		activity:    activity,
		logger:      logger.With().Str("component", "notifier").Logger(),
	}
}

func (n *natsNotifier) TransitionOccurred(ctx context.Context, event TransitionEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	observability.WorkflowTransitions().WithLabelValues(event.Entity, event.ToStatus).Inc()

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to encode transition event")
		return
	}

	if n.conn != nil {
		subject := n.subjectBase + "." + event.Entity
		if err := n.conn.Publish(subject, payload); err != nil {
			n.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish transition event")
		}
	}

	if n.activity != nil {
		entry := models.ActivityLog{
			ActorID:  event.ActorID,
			Action:   event.FromStatus + "->" + event.ToStatus,
			Entity:   event.Entity,
			EntityID: event.EntityID,
			Metadata: datatypes.JSON(payload),
		}
		if err := n.activity.Create(ctx, &entry); err != nil {
			n.logger.Warn().Err(err).Msg("failed to append activity log entry")
		}
	}
}
