package app

import (
	"context"
	"testing"

	"github.com/billable/billable/internal/event_bus"
	"github.com/billable/billable/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeAuditLog(t *testing.T) {
	hook := test.NewGlobal()
	t.Cleanup(func() { log.StandardLogger().ReplaceHooks(make(log.LevelHooks)) })
	bus := event_bus.NewEventBus()
	SubscribeAuditLog(bus)
	ctx := user.WithUser(context.Background(), user.User{Id: 7})

	err := bus.Publish(event_bus.NewEvent(ctx, event_bus.DepartmentSplitsChanged, event_bus.LedgerChanged{
		ProjectId: 3,
		EntityId:  11,
		Action:    event_bus.Updated,
		Amount:    decimal.RequireFromString("1250.5"),
	}))
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "budget ledger changed", entry.Message)
	assert.Equal(t, 3, entry.Data["project"])
	assert.Equal(t, event_bus.Updated, entry.Data["action"])
	assert.Equal(t, "1250.50", entry.Data["amount"])
	assert.Equal(t, 7, entry.Data["by"])

	hook.Reset()
	err = bus.Publish(event_bus.NewEvent(context.Background(), event_bus.UserRateChanged, event_bus.RateChanged{
		UserId: 4,
		Rate:   decimal.NewFromInt(90),
	}))
	require.NoError(t, err)

	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "user rate changed", entry.Message)
	assert.Equal(t, "90.00", entry.Data["rate"])
	assert.NotContains(t, entry.Data, "by")
}
