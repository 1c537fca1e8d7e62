package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"greenhaven/internal/domain"
	productrepo "greenhaven/internal/repository/product"
	userrepo "greenhaven/internal/repository/user"
	accountsvc "greenhaven/internal/service/account"
	addresssvc "greenhaven/internal/service/address"
	cartsvc "greenhaven/internal/service/cart"
	catalogsvc "greenhaven/internal/service/catalog"
	checkoutsvc "greenhaven/internal/service/checkout"
	reviewsvc "greenhaven/internal/service/review"

	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubAccountSvc struct {
	user      *domain.User
	signupErr error
	loginErr  error
	lookupErr error
}

func (s *stubAccountSvc) Signup(context.Context, accountsvc.SignupInput) (*domain.User, error) {
	return s.user, s.signupErr
}

func (s *stubAccountSvc) Login(context.Context, string, string) (*domain.User, string, string, error) {
	if s.loginErr != nil {
		return nil, "", "", s.loginErr
	}
	return s.user, "access", "refresh", nil
}

func (s *stubAccountSvc) Logout(context.Context, string) error { return nil }

func (s *stubAccountSvc) LookupByToken(context.Context, string) (*domain.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.user, nil
}

func (s *stubAccountSvc) Profile(context.Context, string) (*domain.User, error) {
	return s.user, nil
}

func (s *stubAccountSvc) UpdateProfile(context.Context, string, userrepo.UpdateInput) (*domain.User, error) {
	return s.user, nil
}

func (s *stubAccountSvc) VerifyEmail(context.Context, string) error     { return nil }
func (s *stubAccountSvc) RequestVerification(context.Context, string) error { return nil }
func (s *stubAccountSvc) AccessTTLSeconds() int                         { return 3600 }

type stubCatalogSvc struct {
	product *domain.Product
	getErr  error
}

func (s *stubCatalogSvc) List(context.Context, productrepo.ListFilter) (*catalogsvc.ListResult, error) {
	return &catalogsvc.ListResult{Products: []domain.Product{}, Page: 1, Limit: 20}, nil
}

func (s *stubCatalogSvc) GetBySlug(context.Context, string) (*domain.Product, error) {
	return s.product, s.getErr
}

func (s *stubCatalogSvc) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{}, nil
}

type stubAddressSvc struct{}

func (stubAddressSvc) Create(context.Context, string, addresssvc.Input) (*domain.Address, error) {
	return &domain.Address{ID: "a1"}, nil
}

func (stubAddressSvc) Update(context.Context, string, string, addresssvc.Input) (*domain.Address, error) {
	return &domain.Address{ID: "a1"}, nil
}

func (stubAddressSvc) Delete(context.Context, string, string) error { return nil }

func (stubAddressSvc) List(context.Context, string) ([]domain.Address, error) {
	return []domain.Address{}, nil
}

type stubCartSvc struct {
	addErr error
}

func (s *stubCartSvc) Add(context.Context, string, cartsvc.AddInput) (*domain.CartItem, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &domain.CartItem{ID: "i1"}, nil
}

func (s *stubCartSvc) UpdateQuantity(context.Context, string, string, int) (*domain.CartItem, error) {
	return &domain.CartItem{ID: "i1"}, nil
}

func (s *stubCartSvc) Remove(context.Context, string, string) error { return nil }

func (s *stubCartSvc) Get(context.Context, string) (*cartsvc.Summary, error) {
	return &cartsvc.Summary{Items: []domain.CartItem{}}, nil
}

type stubCheckoutSvc struct {
	order *domain.Order
	err   error
}

func (s *stubCheckoutSvc) Checkout(context.Context, *domain.User, checkoutsvc.Input) (*domain.Order, error) {
	return s.order, s.err
}

type stubOrderSvc struct {
	cancelErr error
}

func (s *stubOrderSvc) List(context.Context, string) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

func (s *stubOrderSvc) Get(context.Context, string, string) (*domain.Order, error) {
	return &domain.Order{ID: "o1"}, nil
}

func (s *stubOrderSvc) Cancel(context.Context, string, string) (*domain.Order, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &domain.Order{ID: "o1", Status: domain.OrderStatusCancelled}, nil
}

type stubReviewSvc struct{}

func (stubReviewSvc) Create(context.Context, string, string, reviewsvc.Input) (*domain.Review, error) {
	return &domain.Review{ID: "r1"}, nil
}

func (stubReviewSvc) ListByProduct(context.Context, string) ([]domain.Review, error) {
	return []domain.Review{}, nil
}

type stubWishlistSvc struct{}

func (stubWishlistSvc) Add(context.Context, string, string) (*domain.WishlistItem, error) {
	return &domain.WishlistItem{ID: "w1"}, nil
}

func (stubWishlistSvc) Remove(context.Context, string, string) error { return nil }

func (stubWishlistSvc) List(context.Context, string) ([]domain.WishlistItem, error) {
	return []domain.WishlistItem{}, nil
}

func (stubWishlistSvc) Contains(context.Context, string, string) (bool, error) { return true, nil }

func testDeps(overrides func(*Deps)) Deps {
	deps := Deps{
		AccountSvc:  &stubAccountSvc{user: &domain.User{ID: "u1", Email: "ada@example.com"}},
		CatalogSvc:  &stubCatalogSvc{product: &domain.Product{ID: "p1", Slug: "monstera"}},
		AddressSvc:  stubAddressSvc{},
		CartSvc:     &stubCartSvc{},
		CheckoutSvc: &stubCheckoutSvc{order: &domain.Order{ID: "o1"}},
		OrderSvc:    &stubOrderSvc{},
		ReviewSvc:   stubReviewSvc{},
		WishlistSvc: stubWishlistSvc{},
	}
	if overrides != nil {
		overrides(&deps)
	}
	return deps
}

func newTestRouter(t *testing.T, overrides func(*Deps)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, testDeps(overrides), nil)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func do(router *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer sometoken")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := do(router, http.MethodGet, "/api/me", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	router := newTestRouter(t, func(d *Deps) {
		d.AccountSvc = &stubAccountSvc{lookupErr: accountsvc.ErrInvalidToken}
	})
	rec := do(router, http.MethodGet, "/api/me", "", true)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSignupCreated(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := do(router, http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"Sup3rSecret"}`, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	router := newTestRouter(t, func(d *Deps) {
		d.AccountSvc = &stubAccountSvc{signupErr: domain.ErrAlreadyExists}
	})
	rec := do(router, http.MethodPost, "/api/auth/signup", `{"email":"a@b.c","password":"Sup3rSecret"}`, false)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	router := newTestRouter(t, func(d *Deps) {
		d.AccountSvc = &stubAccountSvc{loginErr: accountsvc.ErrInvalidCredentials}
	})
	rec := do(router, http.MethodPost, "/api/auth/login", `{"email":"a@b.c","password":"nope"}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetProductNotFound(t *testing.T) {
	router := newTestRouter(t, func(d *Deps) {
		d.CatalogSvc = &stubCatalogSvc{getErr: domain.ErrNotFound}
	})
	rec := do(router, http.MethodGet, "/api/products/missing", "", false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListProductsIsPublic(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := do(router, http.MethodGet, "/api/products?minPrice=1000&inStock=true", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestListProductsBadPriceFilter(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := do(router, http.MethodGet, "/api/products?minPrice=abc", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddCartItemInsufficientStock(t *testing.T) {
	router := newTestRouter(t, func(d *Deps) {
		d.CartSvc = &stubCartSvc{addErr: domain.ErrInsufficientStock}
	})
	rec := do(router, http.MethodPost, "/api/me/cart/items", `{"productId":"p1","quantity":99}`, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAddCartItemInvalidQuantity(t *testing.T) {
	router := newTestRouter(t, func(d *Deps) {
		d.CartSvc = &stubCartSvc{addErr: domain.ErrInvalidQuantity}
	})
	rec := do(router, http.MethodPost, "/api/me/cart/items", `{"productId":"p1","quantity":0}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	router := newTestRouter(t, func(d *Deps) {
		d.CheckoutSvc = &stubCheckoutSvc{err: domain.ErrEmptyCart}
	})
	rec := do(router, http.MethodPost, "/api/me/checkout", `{"shippingAddressId":"a1"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutCreated(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := do(router, http.MethodPost, "/api/me/checkout", `{"shippingAddressId":"a1"}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCancelOrderInvalidTransition(t *testing.T) {
	router := newTestRouter(t, func(d *Deps) {
		d.OrderSvc = &stubOrderSvc{cancelErr: domain.ErrInvalidTransition}
	})
	rec := do(router, http.MethodPost, "/api/me/orders/o1/cancel", "", true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestWishlistAddRequiresProductID(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := do(router, http.MethodPost, "/api/me/wishlist", `{}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := do(router, http.MethodGet, "/healthz", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
