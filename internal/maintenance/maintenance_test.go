package maintenance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/config"
	custdomain "github.com/smallbiznis/crm/internal/customer/domain"
	custrepository "github.com/smallbiznis/crm/internal/customer/repository"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	orderrepository "github.com/smallbiznis/crm/internal/order/repository"
	proddomain "github.com/smallbiznis/crm/internal/product/domain"
)

type fixture struct {
	jobs  *Jobs
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	dir   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&custdomain.Customer{},
		&proddomain.Product{},
		&orderdomain.Order{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 9, 1, 12, 30, 45, 0, time.UTC))
	dir := t.TempDir()

	jobs := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: fake,
		Config: config.Config{
			JobLogDir: dir,
			HTTPAddr:  ":0",
		},
		Customers: custrepository.Provide(),
		Orders:    orderrepository.Provide(),
	})
	return &fixture{jobs: jobs, db: db, node: node, clock: fake, dir: dir}
}

func (f *fixture) readLog(t *testing.T, file string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(f.dir, file))
	require.NoError(t, err)
	return string(b)
}

func (f *fixture) customer(t *testing.T, email string) custdomain.Customer {
	t.Helper()
	now := f.clock.Now()
	row := custdomain.Customer{
		ID:        f.node.Generate(),
		Name:      "Customer",
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&row).Error)
	return row
}

func (f *fixture) order(t *testing.T, customerID snowflake.ID, orderDate time.Time) orderdomain.Order {
	t.Helper()
	now := f.clock.Now()
	row := orderdomain.Order{
		ID:          f.node.Generate(),
		CustomerID:  customerID,
		OrderDate:   orderDate,
		TotalAmount: decimal.RequireFromString("100.00"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.db.Omit("Products", "Customer").Create(&row).Error)
	return row
}

func TestCleanupInactiveCustomers(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	f.customer(t, "no-orders@example.com")
	stale := f.customer(t, "stale@example.com")
	f.order(t, stale.ID, now.AddDate(0, 0, -400))
	active := f.customer(t, "active@example.com")
	f.order(t, active.ID, now.AddDate(0, 0, -10))
	// An old order does not protect a customer with recent activity.
	mixed := f.customer(t, "mixed@example.com")
	f.order(t, mixed.ID, now.AddDate(0, 0, -400))
	f.order(t, mixed.ID, now.AddDate(0, 0, -5))

	deleted, err := f.jobs.CleanupInactiveCustomers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var emails []string
	require.NoError(t, f.db.Model(&custdomain.Customer{}).Order("email").Pluck("email", &emails).Error)
	assert.Equal(t, []string{"active@example.com", "mixed@example.com"}, emails)

	// Stale orders go with their customers; the mixed customer keeps both.
	var orderCount int64
	require.NoError(t, f.db.Model(&orderdomain.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(3), orderCount)

	log := f.readLog(t, cleanupLogFile)
	assert.Equal(t, "[2026-09-01 12:30:45] Deleted 2 inactive customers\n", log)
}

func TestCleanupInactiveCustomers_NothingToDelete(t *testing.T) {
	f := newFixture(t)

	active := f.customer(t, "active@example.com")
	f.order(t, active.ID, f.clock.Now().AddDate(0, 0, -1))

	deleted, err := f.jobs.CleanupInactiveCustomers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	log := f.readLog(t, cleanupLogFile)
	assert.Contains(t, log, "Deleted 0 inactive customers")
}

func TestHeartbeatFormat(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.jobs.Heartbeat(context.Background()))

	log := f.readLog(t, heartbeatLogFile)
	assert.True(t, strings.HasPrefix(log, "01/09/2026-12:30:45 CRM is alive"), "got %q", log)
}

func TestSendOrderReminders(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	alice := f.customer(t, "alice@example.com")
	recent := f.order(t, alice.ID, now.AddDate(0, 0, -3))
	f.order(t, alice.ID, now.AddDate(0, 0, -30))

	require.NoError(t, f.jobs.SendOrderReminders(context.Background()))

	log := f.readLog(t, reminderLogFile)
	lines := strings.Split(strings.TrimRight(log, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t,
		fmt.Sprintf("[2026-09-01 12:30:45] Order ID: %s, Customer Email: alice@example.com", recent.ID),
		lines[0],
	)
}

func TestSendOrderReminders_NoRecentOrders(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.jobs.SendOrderReminders(context.Background()))

	log := f.readLog(t, reminderLogFile)
	assert.Equal(t, "[2026-09-01 12:30:45] No recent orders found for reminders\n", log)
}

func TestGenerateReport(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	alice := f.customer(t, "alice@example.com")
	f.customer(t, "bob@example.com")
	f.order(t, alice.ID, now.AddDate(0, 0, -1))
	f.order(t, alice.ID, now.AddDate(0, 0, -2))

	require.NoError(t, f.jobs.GenerateReport(context.Background()))

	log := f.readLog(t, reportLogFile)
	assert.Equal(t, "2026-09-01 12:30:45 - Report: 2 customers, 2 orders, 200.00 revenue.\n", log)
}
