package app

import (
	"time"

	"github.com/billable/billable/internal/event_bus"
	"github.com/billable/billable/pkg/user"
	log "github.com/sirupsen/logrus"
)

// SubscribeAuditLog writes one structured log line per committed budget or rate change.
func SubscribeAuditLog(bus *event_bus.EventBus) {
	for _, eventType := range []event_bus.EventType{
		event_bus.RecurringBudgetChanged,
		event_bus.BudgetInjectionChanged,
		event_bus.DepartmentSplitsChanged,
	} {
		event_bus.SubscribeTyped(bus, eventType, func(e event_bus.EventT[event_bus.LedgerChanged]) error {
			auditEntry(e.Event).WithFields(log.Fields{
				"project": e.Data.ProjectId,
				"entity":  e.Data.EntityId,
				"action":  e.Data.Action,
				"amount":  e.Data.Amount.StringFixed(2),
			}).Info("budget ledger changed")
			return nil
		})
	}

	event_bus.SubscribeTyped(bus, event_bus.UserRateChanged, func(e event_bus.EventT[event_bus.RateChanged]) error {
		auditEntry(e.Event).WithFields(log.Fields{
			"user": e.Data.UserId,
			"rate": e.Data.Rate.StringFixed(2),
		}).Info("user rate changed")
		return nil
	})
}

func auditEntry(e event_bus.Event) *log.Entry {
	entry := log.WithFields(log.Fields{
		"event": e.Type,
		"at":    e.Timestamp.UTC().Format(time.RFC3339),
	})
	if current, err := user.CurrentId(e.Context()); err == nil {
		entry = entry.WithField("by", current)
	}
	return entry
}
