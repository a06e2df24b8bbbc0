package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
)

type stubCartRepo struct {
	carts map[string]*models.Cart
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: map[string]*models.Cart{}}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) FindBySessionID(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart, ok := s.carts[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cart, nil
}

func (s *stubCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	for _, cart := range s.carts {
		if cart.ID == id {
			return cart, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.ID = uuid.New()
	s.carts[cart.SessionID] = cart
	return cart, nil
}

func (s *stubCartRepo) Save(ctx context.Context, cart *models.Cart) error {
	for i := range cart.Items {
		if cart.Items[i].ID == uuid.Nil {
			cart.Items[i].ID = uuid.New()
		}
	}
	s.carts[cart.SessionID] = cart
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error { return nil }

func (s *stubCartRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	for session, cart := range s.carts {
		if cart.ID == id {
			delete(s.carts, session)
		}
	}
	return nil
}

func (s *stubCartRepo) DeleteBySessionID(ctx context.Context, sessionID string) error {
	delete(s.carts, sessionID)
	return nil
}

type stubProducts struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func dec(value string) decimal.Decimal { return decimal.RequireFromString(value) }

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func newFixture(t *testing.T, opts Options) (Service, *stubCartRepo, *stubProducts) {
	t.Helper()
	repo := newStubCartRepo()
	products := &stubProducts{products: map[uuid.UUID]*models.Product{}}
	svc, err := NewService(repo, products, opts)
	require.NoError(t, err)
	return svc, repo, products
}

func seedProduct(products *stubProducts, retail string) *models.Product {
	product := &models.Product{
		ID:                   uuid.New(),
		Name:                 map[string]string{"en": "Bamboo Towel Set"},
		Category:             "towels",
		RetailPrice:          decPtr(retail),
		MinWholesaleQuantity: 100,
		InStock:              true,
	}
	products.products[product.ID] = product
	return product
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	svc, repo, _ := newFixture(t, Options{})

	first, err := svc.GetOrCreate(context.Background(), "sess-1", enums.BuyerClassRetail)
	require.NoError(t, err)
	second, err := svc.GetOrCreate(context.Background(), "sess-1", enums.BuyerClassRetail)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.carts, 1)
	assert.True(t, first.Total.IsZero())
}

func TestAddItemMergesDuplicateLineKeepingCapturedPrice(t *testing.T) {
	svc, _, products := newFixture(t, Options{})
	product := seedProduct(products, "10.00")

	_, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: product.ID, Quantity: 2, BuyerClass: enums.BuyerClassRetail,
	})
	require.NoError(t, err)

	// The catalog price changes between the two adds.
	product.RetailPrice = decPtr("12.00")

	cart, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: product.ID, Quantity: 3, BuyerClass: enums.BuyerClassRetail,
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].UnitPrice.Equal(dec("10.00")), "captured price survives, got %s", cart.Items[0].UnitPrice)
	assert.True(t, cart.Total.Equal(dec("50.00")), "total %s", cart.Total)
}

func TestAddItemRepriceOnReAdd(t *testing.T) {
	svc, _, products := newFixture(t, Options{RepriceOnReAdd: true})
	product := seedProduct(products, "10.00")

	_, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: product.ID, Quantity: 2, BuyerClass: enums.BuyerClassRetail,
	})
	require.NoError(t, err)

	product.RetailPrice = decPtr("12.00")

	cart, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: product.ID, Quantity: 3, BuyerClass: enums.BuyerClassRetail,
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].UnitPrice.Equal(dec("12.00")))
	assert.True(t, cart.Total.Equal(dec("60.00")))
}

func TestAddItemWholesalePricing(t *testing.T) {
	svc, _, products := newFixture(t, Options{})
	product := seedProduct(products, "29.99")
	product.WholesalePrice = decPtr("12.50")

	cart, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: product.ID, Quantity: 100, BuyerClass: enums.BuyerClassWholesale,
	})
	require.NoError(t, err)
	assert.True(t, cart.Items[0].UnitPrice.Equal(dec("12.50")))

	cart2, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-2", ProductID: product.ID, Quantity: 50, BuyerClass: enums.BuyerClassWholesale,
	})
	require.NoError(t, err)
	assert.True(t, cart2.Items[0].UnitPrice.Equal(dec("29.99")), "below minimum pays retail")
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, _ := newFixture(t, Options{})

	_, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: uuid.New(), Quantity: 1, BuyerClass: enums.BuyerClassRetail,
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestAddItemWithoutAnyPrice(t *testing.T) {
	svc, _, products := newFixture(t, Options{})
	product := &models.Product{ID: uuid.New(), Name: map[string]string{"en": "Sample"}, MinWholesaleQuantity: 10}
	products.products[product.ID] = product

	_, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: product.ID, Quantity: 1, BuyerClass: enums.BuyerClassRetail,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, products := newFixture(t, Options{})
	product := seedProduct(products, "10.00")

	_, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: product.ID, Quantity: 0, BuyerClass: enums.BuyerClassRetail,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	svc, _, products := newFixture(t, Options{})
	towel := seedProduct(products, "10.00")
	sheet := seedProduct(products, "45.00")

	_, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: towel.ID, Quantity: 2, BuyerClass: enums.BuyerClassRetail,
	})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: sheet.ID, Quantity: 1, BuyerClass: enums.BuyerClassRetail,
	})
	require.NoError(t, err)

	cart, err := svc.UpdateItem(context.Background(), "sess-1", towel.ID, 0)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, sheet.ID, cart.Items[0].ProductID)
	assert.True(t, cart.Total.Equal(dec("45.00")), "total %s", cart.Total)
}

func TestUpdateItemMissingCartAndLine(t *testing.T) {
	svc, _, products := newFixture(t, Options{})
	product := seedProduct(products, "10.00")

	_, err := svc.UpdateItem(context.Background(), "missing", product.ID, 2)
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.GetOrCreate(context.Background(), "sess-1", enums.BuyerClassRetail)
	require.NoError(t, err)
	_, err = svc.UpdateItem(context.Background(), "sess-1", product.ID, 2)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemoveItemAbsentLineIsNoop(t *testing.T) {
	svc, _, products := newFixture(t, Options{})
	product := seedProduct(products, "10.00")

	_, err := svc.GetOrCreate(context.Background(), "sess-1", enums.BuyerClassRetail)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(context.Background(), "sess-1", product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestTotalAlwaysMatchesLineSum(t *testing.T) {
	svc, _, products := newFixture(t, Options{})
	towel := seedProduct(products, "9.99")
	sheet := seedProduct(products, "45.50")

	_, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: towel.ID, Quantity: 3, BuyerClass: enums.BuyerClassRetail,
	})
	require.NoError(t, err)
	cart, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: sheet.ID, Quantity: 2, BuyerClass: enums.BuyerClassRetail,
	})
	require.NoError(t, err)

	expected := dec("9.99").Mul(dec("3")).Add(dec("45.50").Mul(dec("2")))
	assert.True(t, cart.Total.Equal(expected), "total %s expected %s", cart.Total, expected)

	cart, err = svc.UpdateItem(context.Background(), "sess-1", towel.ID, 1)
	require.NoError(t, err)
	expected = dec("9.99").Add(dec("45.50").Mul(dec("2")))
	assert.True(t, cart.Total.Equal(expected))
}

func TestClearDeletesCart(t *testing.T) {
	svc, repo, products := newFixture(t, Options{})
	product := seedProduct(products, "10.00")

	_, err := svc.AddItem(context.Background(), AddItemInput{
		SessionID: "sess-1", ProductID: product.ID, Quantity: 1, BuyerClass: enums.BuyerClassRetail,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), "sess-1"))
	assert.Empty(t, repo.carts)

	// Clearing again is harmless.
	require.NoError(t, svc.Clear(context.Background(), "sess-1"))
}
