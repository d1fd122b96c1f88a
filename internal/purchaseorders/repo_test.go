package purchaseorders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db"
	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
	"github.com/vendorpulse/vendorpulse-backend/pkg/enums"
	"github.com/vendorpulse/vendorpulse-backend/pkg/pagination"
	"github.com/vendorpulse/vendorpulse-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	vendors := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact_details TEXT NOT NULL UNIQUE,
  address TEXT NOT NULL,
  vendor_code TEXT NOT NULL UNIQUE,
  on_time_delivery_rate REAL NOT NULL DEFAULT 0,
  quality_rating_avg REAL NOT NULL DEFAULT 0,
  average_response_time REAL NOT NULL DEFAULT 0,
  fulfillment_rate REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	purchaseOrders := `
CREATE TABLE IF NOT EXISTS purchase_orders (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  po_number TEXT NOT NULL UNIQUE,
  order_date DATETIME NOT NULL,
  delivery_date DATETIME NOT NULL,
  items TEXT,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL,
  quality_rating REAL,
  issue_date DATETIME NOT NULL,
  acknowledgment_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(vendors).Error)
	require.NoError(t, conn.Exec(purchaseOrders).Error)
	return conn
}

func newVendor(t *testing.T, conn *gorm.DB, name string) *models.Vendor {
	t.Helper()

	suffix := uuid.New().String()
	vendor := &models.Vendor{
		ID:             uuid.New(),
		Name:           name,
		ContactDetails: fmt.Sprintf("%s <%s@example.com>", name, suffix),
		Address:        "500 Supply Rd",
		VendorCode:     vendorCodeFor(suffix),
	}
	require.NoError(t, conn.Create(vendor).Error)
	return vendor
}

// vendorCodeFor derives a six character uppercase alphanumeric code from a
// uuid string so parallel fixtures never collide on the unique index.
func vendorCodeFor(seed string) string {
	code := make([]byte, 0, 6)
	for i := 0; i < len(seed) && len(code) < 6; i++ {
		c := seed[i]
		switch {
		case c >= '0' && c <= '9':
			code = append(code, c)
		case c >= 'a' && c <= 'z':
			code = append(code, c-'a'+'A')
		}
	}
	return string(code)
}

func createPO(t *testing.T, conn *gorm.DB, vendor *models.Vendor, created time.Time, status enums.PurchaseOrderStatus) *models.PurchaseOrder {
	t.Helper()

	order := &models.PurchaseOrder{
		ID:           uuid.New(),
		VendorID:     vendor.ID,
		PONumber:     "PO-" + uuid.New().String(),
		OrderDate:    created,
		DeliveryDate: created.Add(96 * time.Hour),
		Items:        types.OrderItems{{"sku": "WID-1", "qty": float64(4)}},
		Quantity:     4,
		Status:       status,
		IssueDate:    created,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	vendor := newVendor(t, conn, "Acme Widgets")

	rating := 3.5
	order := &models.PurchaseOrder{
		ID:            uuid.New(),
		VendorID:      vendor.ID,
		PONumber:      "PO-" + uuid.New().String(),
		OrderDate:     time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC),
		DeliveryDate:  time.Date(2024, 5, 17, 8, 0, 0, 0, time.UTC),
		Items:         types.OrderItems{{"sku": "BOLT-9"}},
		Quantity:      12,
		Status:        enums.PurchaseOrderStatusCompleted,
		QualityRating: &rating,
		IssueDate:     time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(context.Background(), order))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.PONumber, found.PONumber)
	assert.Equal(t, enums.PurchaseOrderStatusCompleted, found.Status)
	require.NotNil(t, found.QualityRating)
	assert.InDelta(t, 3.5, *found.QualityRating, 1e-9)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "BOLT-9", found.Items[0]["sku"])
}

func TestRepositoryCreateDuplicatePONumber(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	vendor := newVendor(t, conn, "Dupe Supply")

	first := createPO(t, conn, vendor, time.Now().UTC(), enums.PurchaseOrderStatusPending)

	dup := &models.PurchaseOrder{
		ID:           uuid.New(),
		VendorID:     vendor.ID,
		PONumber:     first.PONumber,
		OrderDate:    time.Now().UTC(),
		DeliveryDate: time.Now().UTC().Add(24 * time.Hour),
		Quantity:     1,
		Status:       enums.PurchaseOrderStatusPending,
		IssueDate:    time.Now().UTC(),
	}
	err := repo.Create(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	vendor := newVendor(t, conn, "Page Co")
	other := newVendor(t, conn, "Other Co")

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		createPO(t, conn, vendor, base.Add(time.Duration(i)*time.Hour), enums.PurchaseOrderStatusPending)
	}
	completed := createPO(t, conn, vendor, base.Add(5*time.Hour), enums.PurchaseOrderStatusCompleted)
	createPO(t, conn, other, base, enums.PurchaseOrderStatusPending)

	page1, next, err := repo.List(context.Background(), pagination.Params{Limit: 2}, ListFilters{VendorID: &vendor.ID})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, next)
	assert.Equal(t, completed.ID, page1[0].ID)

	page2, next2, err := repo.List(context.Background(), pagination.Params{Limit: 2, Cursor: next}, ListFilters{VendorID: &vendor.ID})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Empty(t, next2)
	for _, row := range page2 {
		assert.NotEqual(t, page1[0].ID, row.ID)
		assert.NotEqual(t, page1[1].ID, row.ID)
	}

	status := enums.PurchaseOrderStatusCompleted
	onlyCompleted, _, err := repo.List(context.Background(), pagination.Params{}, ListFilters{VendorID: &vendor.ID, Status: &status})
	require.NoError(t, err)
	require.Len(t, onlyCompleted, 1)
	assert.Equal(t, completed.ID, onlyCompleted[0].ID)
}

func TestRepositoryListRejectsBadCursor(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	_, _, err := repo.List(context.Background(), pagination.Params{Cursor: "not-base64!"}, ListFilters{})
	require.Error(t, err)
}

func TestRepositoryUpdatePersistsChanges(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	vendor := newVendor(t, conn, "Update Co")

	order := createPO(t, conn, vendor, time.Now().UTC(), enums.PurchaseOrderStatusPending)
	order.Status = enums.PurchaseOrderStatusCompleted
	rating := 4.0
	order.QualityRating = &rating
	ack := time.Now().UTC()
	order.AcknowledgmentDate = &ack

	require.NoError(t, repo.Update(context.Background(), order))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseOrderStatusCompleted, found.Status)
	require.NotNil(t, found.QualityRating)
	assert.InDelta(t, 4.0, *found.QualityRating, 1e-9)
	require.NotNil(t, found.AcknowledgmentDate)
}

func TestRepositoryDelete(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	vendor := newVendor(t, conn, "Delete Co")

	order := createPO(t, conn, vendor, time.Now().UTC(), enums.PurchaseOrderStatusPending)
	require.NoError(t, repo.Delete(context.Background(), order.ID))

	err := repo.Delete(context.Background(), order.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryVendorExists(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	vendor := newVendor(t, conn, "Exists Co")

	exists, err := repo.VendorExists(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.VendorExists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}
