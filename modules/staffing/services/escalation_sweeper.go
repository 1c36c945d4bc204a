package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/aisleworks/aisle/modules/core/authzutil"
	"github.com/aisleworks/aisle/modules/core/domain/aggregates/user"
	"github.com/aisleworks/aisle/modules/staffing/domain/aggregates/droprequest"
	"github.com/aisleworks/aisle/pkg/composables"
	"github.com/aisleworks/aisle/pkg/configuration"
	"github.com/aisleworks/aisle/pkg/serrors"
)

const sweeperSubject = "staffing.escalation"

var (
	sweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staffing_escalation_sweeps_total",
		Help: "Number of drop request escalation sweeps executed.",
	})
	escalatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staffing_drop_requests_escalated_total",
		Help: "Number of drop requests escalated by the sweeper.",
	})
	sweepErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staffing_escalation_sweep_errors_total",
		Help: "Number of errors encountered while sweeping drop requests.",
	})
)

// EscalationSweeper escalates drop requests that have sat pending past the
// SLA window. It runs as a background loop under a system subject, one
// tenant-pinned transaction batch per tenant per sweep.
type EscalationSweeper struct {
	repo     droprequest.Repository
	service  *DropRequestService
	users    user.Repository
	notifier Notifier
	options  configuration.EscalationOptions
	logger   logrus.FieldLogger
}

func NewEscalationSweeper(
	repo droprequest.Repository,
	service *DropRequestService,
	users user.Repository,
	notifier Notifier,
	options configuration.EscalationOptions,
	logger logrus.FieldLogger,
) *EscalationSweeper {
	return &EscalationSweeper{
		repo:     repo,
		service:  service,
		users:    users,
		notifier: notifier,
		options:  options,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. The context must carry the database
// pool.
func (s *EscalationSweeper) Run(ctx context.Context) {
	if !s.options.Enabled {
		s.logger.Info("drop request escalation sweeper disabled")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"sla_window":     s.options.SLAWindow,
		"sweep_interval": s.options.SweepInterval,
	}).Info("drop request escalation sweeper started")

	ticker := time.NewTicker(s.options.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("drop request escalation sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one escalation pass over every tenant with overdue requests.
// Exported so the CLI can trigger a single pass.
func (s *EscalationSweeper) Sweep(ctx context.Context) {
	sweepsTotal.Inc()
	cutoff := time.Now().Add(-s.options.SLAWindow)

	tenants, err := s.repo.TenantsWithEscalationDue(ctx, cutoff)
	if err != nil {
		sweepErrorsTotal.Inc()
		s.logger.WithError(err).Error("failed to list tenants with overdue drop requests")
		return
	}
	for _, tenantID := range tenants {
		if ctx.Err() != nil {
			return
		}
		tenantCtx := authzutil.WithSystemSubject(
			composables.WithTenantID(ctx, tenantID),
			sweeperSubject,
		)
		s.sweepTenant(tenantCtx, cutoff)
	}
}

func (s *EscalationSweeper) sweepTenant(ctx context.Context, cutoff time.Time) {
	due, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*droprequest.DropRequest, error) {
		return s.repo.FindEscalationDue(txCtx, cutoff, s.options.BatchSize)
	})
	if err != nil {
		sweepErrorsTotal.Inc()
		s.logger.WithError(err).Error("failed to list overdue drop requests")
		return
	}

	for _, request := range due {
		if _, err := s.service.Escalate(ctx, request.ID); err != nil {
			// A manager may have resolved or escalated the request since the
			// listing; that is not a sweeper failure.
			if serrors.HasCode(err, serrors.CodeInvalidStateTransition) {
				continue
			}
			sweepErrorsTotal.Inc()
			s.logger.WithError(err).
				WithField("drop_request_id", request.ID).
				Error("failed to escalate drop request")
			continue
		}
		escalatedTotal.Inc()
		s.logger.WithFields(logrus.Fields{
			"drop_request_id": request.ID,
			"requested_at":    request.RequestedAt,
		}).Info("drop request escalated past SLA")
		s.notifyAdmins(ctx, request)
	}
}

// notifyAdmins alerts the organization's admins that a request breached the
// SLA window and now needs their decision. Delivery failures are logged and
// swallowed.
func (s *EscalationSweeper) notifyAdmins(ctx context.Context, request *droprequest.DropRequest) {
	if s.notifier == nil || s.users == nil {
		return
	}
	admins, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]user.User, error) {
		return s.users.GetPaginated(txCtx, &user.FindParams{Role: user.RoleAdmin, Limit: 50})
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to list admins for escalation notice")
		return
	}
	for _, admin := range admins {
		_, err := s.notifier.Notify(ctx, admin.ID(),
			"Drop request escalated",
			"A drop request has been pending past the SLA window and needs review.",
			map[string]string{
				"drop_request_id": request.ID.String(),
				"assignment_id":   request.AssignmentID.String(),
			},
		)
		if err != nil {
			s.logger.WithError(err).
				WithField("drop_request_id", request.ID).
				Warn("escalation notice failed")
		}
	}
}
