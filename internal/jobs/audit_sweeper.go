package jobs

import (
	"context"
	"time"

	"github.com/emrgen/compliance/internal/store"
	"github.com/sirupsen/logrus"
)

// AuditSweeper trims access log rows past the retention window on a cron
// schedule.
type AuditSweeper struct {
	store     store.AccessLogStore
	retention time.Duration
	cron      string
}

var _ CronJob = (*AuditSweeper)(nil)

func NewAuditSweeper(st store.AccessLogStore, retention time.Duration, schedule string) *AuditSweeper {
	return &AuditSweeper{
		store:     st,
		retention: retention,
		cron:      schedule,
	}
}

func (s *AuditSweeper) Schedule() string {
	return s.cron
}

func (s *AuditSweeper) Run() {
	cutoff := time.Now().UTC().Add(-s.retention)

	removed, err := s.store.DeleteAccessLogsBefore(context.Background(), cutoff)
	if err != nil {
		logrus.Errorf("audit sweep failed: %v", err)
		return
	}

	if removed > 0 {
		logrus.Infof("audit sweep removed %d entries older than %s", removed, cutoff.Format(time.RFC3339))
	}
}
