package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/omnicanal-api/internal/application/cancellation"
	"github.com/jhoicas/omnicanal-api/internal/application/checkout"
	"github.com/jhoicas/omnicanal-api/internal/application/dto"
	"github.com/jhoicas/omnicanal-api/internal/application/inventory"
	"github.com/jhoicas/omnicanal-api/internal/application/orders"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/fulfillment"
	"github.com/jhoicas/omnicanal-api/internal/infrastructure/memory"
	"github.com/jhoicas/omnicanal-api/internal/infrastructure/messaging"
	apphttp "github.com/jhoicas/omnicanal-api/internal/interfaces/http"
	"github.com/jhoicas/omnicanal-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	log := logger.NewNop()
	s := memory.NewStore()
	s.PutBranch(entity.Branch{ID: "b1", Code: "SJ01", Name: "San José Centro", Region: "San José", Active: true})
	s.PutAddress(entity.ShippingAddress{ID: "addr-1", CustomerID: "cust-1", Region: "San José"})
	s.PutStock("b1", "v1", 5, 3)
	s.PutCart(entity.Cart{ID: "cart-1", CustomerID: "cust-1", Lines: []entity.CartLine{{VariantID: "v1", Quantity: 2, UnitPrice: dec("5000")}}})
	s.PutLoyalty("cust-1", 0)

	mat := &fulfillment.Materializer{
		Shipping: fulfillment.NewShippingTable(map[string]decimal.Decimal{"standard": dec("3700")}),
		Loyalty: fulfillment.LoyaltyRules{
			Active: true, EarnCurrencyPerPoint: dec("100"), ValuePerPoint: dec("1"),
			MinPurchase: dec("5000"), MaxPercent: dec("50"), MaxAmount: dec("25000"),
		},
		VATRate:     dec("0.13"),
		ManualProof: map[entity.PaymentMethod]bool{entity.PaymentMethodTransfer: true},
	}
	notifier := messaging.NewLogNotifier(log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Checkout:         checkout.NewUseCase(s, s.BranchRepo(), s.AddressRepo(), notifier, nil, mat, log),
		Orders:           orders.NewUseCase(s, s.OrderRepo(), s.PaymentRepo(), notifier, log),
		Cancellation:     cancellation.NewUseCase(s, s.OrderRepo(), s.PaymentRepo(), notifier, log),
		RegisterMovement: inventory.NewRegisterMovementUseCase(s, log),
		Reconciliation:   inventory.NewReconciliationUseCase(s.StockRepo(), s.MovementRepo()),
		Replenishment:    inventory.NewReplenishmentUseCase(s.StockRepo()),
		JWTSecret:        testJWTSecret,
		JWTIssuer:        testIssuer,
	})
	return app, s
}

func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func checkoutBody() dto.CheckoutRequest {
	return dto.CheckoutRequest{CartID: "cart-1", AddressID: "addr-1", ShippingMethod: "standard", PaymentMethod: "CARD"}
}

func TestAPI_CheckoutYCancelacion(t *testing.T) {
	app, s := newAPI(t)
	customer := tokenFor(t, "cust-1", apphttp.RoleCustomer)

	resp := doJSON(t, app, http.MethodPost, "/api/checkout", customer, checkoutBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.CheckoutResponse](t, resp)
	require.Len(t, out.Orders, 1)
	assert.True(t, dec("13700").Equal(out.GrandTotal))
	orderID := out.PrimaryOrderID

	resp = doJSON(t, app, http.MethodGet, "/api/orders/"+orderID, customer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, "PAID", order.Status)

	resp = doJSON(t, app, http.MethodGet, "/api/orders/"+orderID+"/cancellation-preview", customer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	preview := decode[dto.CancellationPreviewResponse](t, resp)
	assert.True(t, preview.ReintegratesStock)
	assert.Equal(t, 2, preview.UnitsToReintegrate)

	resp = doJSON(t, app, http.MethodPost, "/api/orders/"+orderID+"/cancel", customer, dto.CancelOrderRequest{Reason: "me equivoqué", Confirm: false})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CONFIRMATION_REQUIRED", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodPost, "/api/orders/"+orderID+"/cancel", customer, dto.CancelOrderRequest{Reason: "me equivoqué", Confirm: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[dto.CancellationResult](t, resp)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.UnitsReintegrated)
	assert.Equal(t, 5, s.StockQuantity("b1", "v1"))

	resp = doJSON(t, app, http.MethodPost, "/api/orders/"+orderID+"/cancel", customer, dto.CancelOrderRequest{Reason: "otra vez", Confirm: true})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "CANNOT_CANCEL", errBody.Code)
	assert.Equal(t, true, errBody.Details["no_op"])
	assert.Equal(t, "CANCELLED", errBody.Details["status"])
}

func TestAPI_CheckoutStockInsuficiente(t *testing.T) {
	app, s := newAPI(t)
	s.PutCart(entity.Cart{ID: "cart-2", CustomerID: "cust-1", Lines: []entity.CartLine{{VariantID: "v1", Quantity: 9, UnitPrice: dec("5000")}}})

	body := checkoutBody()
	body.CartID = "cart-2"
	resp := doJSON(t, app, http.MethodPost, "/api/checkout", tokenFor(t, "cust-1", apphttp.RoleCustomer), body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.Equal(t, "v1", errBody.Details["variant_id"])
	assert.Equal(t, 5, s.StockQuantity("b1", "v1"))
}

func TestAPI_PedidoAjenoProhibido(t *testing.T) {
	app, _ := newAPI(t)
	resp := doJSON(t, app, http.MethodPost, "/api/checkout", tokenFor(t, "cust-1", apphttp.RoleCustomer), checkoutBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.CheckoutResponse](t, resp)

	resp = doJSON(t, app, http.MethodGet, "/api/orders/"+out.PrimaryOrderID, tokenFor(t, "cust-2", apphttp.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/orders/no-existe", tokenFor(t, "cust-1", apphttp.RoleCustomer), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_TransicionSoloAdmin(t *testing.T) {
	app, _ := newAPI(t)
	resp := doJSON(t, app, http.MethodPost, "/api/checkout", tokenFor(t, "cust-1", apphttp.RoleCustomer), checkoutBody())
	out := decode[dto.CheckoutResponse](t, resp)
	path := "/api/orders/" + out.PrimaryOrderID + "/status"

	resp = doJSON(t, app, http.MethodPatch, path, tokenFor(t, "cust-1", apphttp.RoleCustomer), dto.UpdateOrderStatusRequest{Status: "IN_PREPARATION"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := tokenFor(t, "ops-1", apphttp.RoleAdmin)
	resp = doJSON(t, app, http.MethodPatch, path, admin, dto.UpdateOrderStatusRequest{Status: "DELIVERED"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodPatch, path, admin, dto.UpdateOrderStatusRequest{Status: "IN_PREPARATION"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "IN_PREPARATION", decode[dto.OrderResponse](t, resp).Status)
}

func TestAPI_InventarioAdmin(t *testing.T) {
	app, s := newAPI(t)
	admin := tokenFor(t, "ops-1", apphttp.RoleAdmin)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", tokenFor(t, "cust-1", apphttp.RoleCustomer),
		dto.RegisterMovementRequest{BranchID: "b1", VariantID: "v1", Type: "ENTRY", Quantity: 4})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/inventory/movements", admin,
		dto.RegisterMovementRequest{BranchID: "b1", VariantID: "v1", Type: "ADJUSTMENT", Quantity: -4})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, s.StockQuantity("b1", "v1"))

	resp = doJSON(t, app, http.MethodPost, "/api/inventory/movements", admin,
		dto.RegisterMovementRequest{BranchID: "b1", VariantID: "v1", Type: "ADJUSTMENT", Quantity: -4})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/inventory/reconciliation?branch_id=b1&variant_id=v1", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[dto.ReconciliationResponse](t, resp)
	require.Len(t, rec.Items, 1)
	assert.True(t, rec.Items[0].Balanced)
	assert.Equal(t, 0, rec.Unbalanced)

	resp = doJSON(t, app, http.MethodGet, "/api/inventory/replenishment?branch_id=b1", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Total          int                              `json:"total"`
		Replenishments []dto.ReplenishmentSuggestionDTO `json:"replenishments"`
	}](t, resp)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, 4, list.Replenishments[0].SuggestedOrderQty)
}

func TestAPI_SinToken(t *testing.T) {
	app, _ := newAPI(t)
	resp := doJSON(t, app, http.MethodPost, "/api/checkout", "", checkoutBody())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
