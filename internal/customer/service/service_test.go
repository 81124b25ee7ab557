package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/crm/internal/customer/domain"
	"github.com/smallbiznis/crm/internal/customer/repository"
	"github.com/smallbiznis/crm/pkg/db/option"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func strptr(s string) *string { return &s }

func TestCreateCustomer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Alice Johnson",
		Email: "alice@example.com",
		Phone: strptr("+1234567890"),
	})
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)
	assert.Equal(t, "Alice Johnson", customer.Name)
	assert.Equal(t, "alice@example.com", customer.Email)
	require.NotNil(t, customer.Phone)
	assert.Equal(t, "+1234567890", *customer.Phone)

	fetched, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: customer.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, customer.Email, fetched.Email)
}

func TestCreateCustomer_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Bob"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Bob", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestCreateCustomer_DuplicateEmailLeavesNoRow(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Other Alice", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailExists)

	var count int64
	require.NoError(t, db.Model(&domain.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateCustomer_PhoneFormats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	valid := []string{"+11234567890", "1234567890", "123-456-7890"}
	for i, phone := range valid {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{
			Name:  "Customer",
			Email: fmt.Sprintf("phone%d@example.com", i),
			Phone: strptr(phone),
		})
		assert.NoError(t, err, "phone %q should be accepted", phone)
	}

	invalid := []string{"12-34-567", "abc", "+123", "123-45-67890"}
	for _, phone := range invalid {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{
			Name:  "Customer",
			Email: "bad-phone@example.com",
			Phone: strptr(phone),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPhone, "phone %q should be rejected", phone)
	}
}

func TestBulkCreate_BestEffort(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Existing", Email: "existing@example.com"})
	require.NoError(t, err)

	result, err := svc.BulkCreate(ctx, []domain.CreateCustomerRequest{
		{Name: "First", Email: "first@example.com"},
		{Name: "Dup", Email: "existing@example.com"},
		{Name: "Second", Email: "second@example.com"},
	})
	require.NoError(t, err)

	assert.Len(t, result.Customers, 2)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Customer 2:")
	assert.Contains(t, result.Errors[0], "Email already exists.")

	var count int64
	require.NoError(t, db.Model(&domain.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestBulkCreate_DuplicateWithinBatch(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.BulkCreate(context.Background(), []domain.CreateCustomerRequest{
		{Name: "A", Email: "same@example.com"},
		{Name: "B", Email: "same@example.com"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Customers, 1)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Customer 2: Email already exists.")
}

func TestListCustomers_Filters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedRows := []domain.CreateCustomerRequest{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: strptr("+1234567890")},
		{Name: "Bob Smith", Email: "bob@example.com", Phone: strptr("123-456-7890")},
		{Name: "Carol White", Email: "carol@other.org"},
	}
	for _, row := range seedRows {
		_, err := svc.Create(ctx, row)
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListCustomerRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Customers, 3)
	assert.Nil(t, resp.PageInfo)

	resp, err = svc.List(ctx, domain.ListCustomerRequest{Filter: domain.CustomerFilter{Name: "ali"}})
	require.NoError(t, err)
	require.Len(t, resp.Customers, 1)
	assert.Equal(t, "Alice Johnson", resp.Customers[0].Name)

	resp, err = svc.List(ctx, domain.ListCustomerRequest{Filter: domain.CustomerFilter{Email: "EXAMPLE.COM"}})
	require.NoError(t, err)
	assert.Len(t, resp.Customers, 2)

	resp, err = svc.List(ctx, domain.ListCustomerRequest{Filter: domain.CustomerFilter{PhonePrefix: "+1"}})
	require.NoError(t, err)
	require.Len(t, resp.Customers, 1)
	assert.Equal(t, "alice@example.com", resp.Customers[0].Email)
}

func TestListCustomers_OrderBy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, row := range []domain.CreateCustomerRequest{
		{Name: "Charlie", Email: "charlie@example.com"},
		{Name: "Alpha", Email: "alpha@example.com"},
		{Name: "Bravo", Email: "bravo@example.com"},
	} {
		_, err := svc.Create(ctx, row)
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListCustomerRequest{OrderBy: "name"})
	require.NoError(t, err)
	require.Len(t, resp.Customers, 3)
	assert.Equal(t, "Alpha", resp.Customers[0].Name)
	assert.Equal(t, "Charlie", resp.Customers[2].Name)

	resp, err = svc.List(ctx, domain.ListCustomerRequest{OrderBy: "-name"})
	require.NoError(t, err)
	assert.Equal(t, "Charlie", resp.Customers[0].Name)

	_, err = svc.List(ctx, domain.ListCustomerRequest{OrderBy: "unknown"})
	assert.ErrorIs(t, err, option.ErrInvalidSortField)
}

func TestListCustomers_CursorPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{
			Name:  fmt.Sprintf("Customer %d", i),
			Email: fmt.Sprintf("c%d@example.com", i),
		})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, first.Customers, 2)
	require.NotNil(t, first.PageInfo)
	assert.True(t, first.PageInfo.HasMore)
	require.NotEmpty(t, first.PageInfo.NextPageToken)

	seen := map[string]bool{}
	for _, c := range first.Customers {
		seen[c.Email] = true
	}

	second, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2, PageToken: first.PageInfo.NextPageToken})
	require.NoError(t, err)
	assert.Len(t, second.Customers, 2)
	for _, c := range second.Customers {
		assert.False(t, seen[c.Email], "page 2 repeated %s", c.Email)
	}
}

func TestGetCustomerByID_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, domain.GetCustomerRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, domain.GetCustomerRequest{ID: "123456789"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
