package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/internal/pricing"
	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
	pkgerrors "github.com/oviahome/oviahome-backend/pkg/errors"
)

type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Options tunes cart behavior.
type Options struct {
	// RepriceOnReAdd re-resolves the unit price when an existing line gains
	// quantity. Off by default: the captured price stays authoritative even
	// when the merged quantity would now qualify for a different tier.
	RepriceOnReAdd bool
}

// AddItemInput describes a product being added to a session's cart.
type AddItemInput struct {
	SessionID  string
	ProductID  uuid.UUID
	Quantity   int
	BuyerClass enums.BuyerClass
}

// Service owns the cart lifecycle for storefront sessions.
type Service interface {
	GetOrCreate(ctx context.Context, sessionID string, class enums.BuyerClass) (*models.Cart, error)
	AddItem(ctx context.Context, input AddItemInput) (*models.Cart, error)
	UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*models.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	repo     Repository
	products productFinder
	opts     Options
}

// NewService wires the cart service.
func NewService(repo Repository, products productFinder, opts Options) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product finder required")
	}
	return &service{repo: repo, products: products, opts: opts}, nil
}

func (s *service) GetOrCreate(ctx context.Context, sessionID string, class enums.BuyerClass) (*models.Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	cart, err := s.repo.FindBySessionID(ctx, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find cart")
	}

	if !class.IsValid() {
		class = enums.BuyerClassRetail
	}
	created, err := s.repo.Create(ctx, &models.Cart{
		SessionID:  sessionID,
		BuyerClass: class,
		Total:      decimal.Zero,
	})
	if err != nil {
		// A concurrent request may have created the row first.
		if existing, findErr := s.repo.FindBySessionID(ctx, sessionID); findErr == nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.Cart, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
	}

	cart, err := s.GetOrCreate(ctx, input.SessionID, input.BuyerClass)
	if err != nil {
		return nil, err
	}

	class := input.BuyerClass
	if !class.IsValid() {
		class = cart.BuyerClass
	}

	if line := findLine(cart, input.ProductID); line != nil {
		line.Quantity += input.Quantity
		if s.opts.RepriceOnReAdd {
			price, priceErr := pricing.Resolve(product, line.Quantity, class)
			if priceErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, priceErr, "resolve price")
			}
			line.UnitPrice = price
		}
	} else {
		price, priceErr := pricing.Resolve(product, input.Quantity, class)
		if priceErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, priceErr, "resolve price")
		}
		cart.Items = append(cart.Items, models.CartItem{
			CartID:       cart.ID,
			ProductID:    product.ID,
			Quantity:     input.Quantity,
			UnitPrice:    price,
			BuyerClass:   class,
			ProductName:  product.Name,
			ProductImage: product.Image,
		})
	}

	return s.persist(ctx, cart)
}

func (s *service) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*models.Cart, error) {
	cart, err := s.findCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := findLine(cart, productID)
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if quantity <= 0 {
		return s.dropLine(ctx, cart, line)
	}

	line.Quantity = quantity
	return s.persist(ctx, cart)
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*models.Cart, error) {
	cart, err := s.findCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := findLine(cart, productID)
	if line == nil {
		// Removing an absent line is a no-op, not an error.
		return cart, nil
	}
	return s.dropLine(ctx, cart, line)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.repo.DeleteBySessionID(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

func (s *service) findCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	cart, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find cart")
	}
	return cart, nil
}

func (s *service) dropLine(ctx context.Context, cart *models.Cart, line *models.CartItem) (*models.Cart, error) {
	if line.ID != uuid.Nil {
		if err := s.repo.DeleteItem(ctx, line.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}
	}
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != line.ProductID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	return s.persist(ctx, cart)
}

// persist recomputes the derived total from the lines and saves the cart.
func (s *service) persist(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.Total = cartTotal(cart)
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func cartTotal(cart *models.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func findLine(cart *models.Cart, productID uuid.UUID) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}
