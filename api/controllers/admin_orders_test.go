package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/afigueroa/mailprov-backend/api/middleware"
	internalorders "github.com/afigueroa/mailprov-backend/internal/orders"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

type stubAdminOrders struct {
	listFn   func(ctx context.Context, params pagination.Params) (*internalorders.OrderList, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*internalorders.OrderDTO, error)
	createFn func(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.OrderDTO, error)
	updateFn func(ctx context.Context, id uuid.UUID, input internalorders.UpdateOrderInput) (*internalorders.OrderDTO, error)
	claimFn  func(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) (*internalorders.OrderDTO, error)
	deleteFn func(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) error
}

func (s stubAdminOrders) List(ctx context.Context, params pagination.Params) (*internalorders.OrderList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &internalorders.OrderList{}, nil
}

func (s stubAdminOrders) Get(ctx context.Context, id uuid.UUID) (*internalorders.OrderDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &internalorders.OrderDTO{ID: id}, nil
}

func (s stubAdminOrders) Create(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.OrderDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &internalorders.OrderDTO{}, nil
}

func (s stubAdminOrders) Update(ctx context.Context, id uuid.UUID, input internalorders.UpdateOrderInput) (*internalorders.OrderDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, input)
	}
	return &internalorders.OrderDTO{ID: id}, nil
}

func (s stubAdminOrders) Claim(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) (*internalorders.OrderDTO, error) {
	if s.claimFn != nil {
		return s.claimFn(ctx, id, actorID, actorIP)
	}
	return &internalorders.OrderDTO{ID: id}, nil
}

func (s stubAdminOrders) Delete(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id, actorID, actorIP)
	}
	return nil
}

func adminOrdersRouter(svc adminOrdersService) http.Handler {
	logg := testLogger()
	router := chi.NewRouter()
	router.Route("/api/admin/orders", func(r chi.Router) {
		r.Get("/", AdminListOrders(svc, logg))
		r.Post("/", AdminCreateOrder(svc, logg))
		r.Get("/{orderId}", AdminGetOrder(svc, logg))
		r.Patch("/{orderId}", AdminUpdateOrder(svc, logg))
		r.Delete("/{orderId}", AdminDeleteOrder(svc, logg))
		r.Post("/{orderId}/claim", AdminClaimOrder(svc, logg))
	})
	return router
}

func asAdmin(req *http.Request) *http.Request {
	ctx := middleware.WithUserID(req.Context(), "admin-1")
	ctx = middleware.WithRole(ctx, enums.RoleAdmin)
	return req.WithContext(ctx)
}

func TestAdminListOrdersPassesPagination(t *testing.T) {
	orderID := uuid.New()
	svc := stubAdminOrders{
		listFn: func(ctx context.Context, params pagination.Params) (*internalorders.OrderList, error) {
			if params.Page != 2 || params.Limit != 5 {
				t.Fatalf("unexpected params %+v", params)
			}
			return &internalorders.OrderList{
				Orders: []internalorders.OrderDTO{{ID: orderID, Status: enums.OrderStatusPending}},
				Total:  11,
				Page:   2,
				Limit:  5,
			}, nil
		},
	}

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/orders/?page=2&limit=5", nil))
	resp := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data internalorders.OrderList `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 11 || len(envelope.Data.Orders) != 1 || envelope.Data.Orders[0].ID != orderID {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdminCreateOrderReturns201(t *testing.T) {
	svc := stubAdminOrders{
		createFn: func(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.OrderDTO, error) {
			if input.UserID != "user-1" || input.ActorID != "admin-1" {
				t.Fatalf("unexpected input %+v", input)
			}
			if input.Priority == nil || *input.Priority != enums.PriorityHigh {
				t.Fatalf("expected high priority, got %+v", input.Priority)
			}
			return &internalorders.OrderDTO{UserID: input.UserID, Status: enums.OrderStatusPending}, nil
		},
	}

	body := `{"user_id":"user-1","priority":"high"}`
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/orders/", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminCreateOrderRejectsBadPriority(t *testing.T) {
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/orders/", strings.NewReader(`{"user_id":"user-1","priority":"asap"}`)))
	resp := httptest.NewRecorder()
	adminOrdersRouter(stubAdminOrders{}).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminCreateOrderRecordsPaymentRefs(t *testing.T) {
	svc := stubAdminOrders{
		createFn: func(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.OrderDTO, error) {
			if input.PaymentID == nil || *input.PaymentID != "pay_123" {
				t.Fatalf("payment id not forwarded: %+v", input.PaymentID)
			}
			if input.PolarSubscriptionID == nil || *input.PolarSubscriptionID != "sub_456" {
				t.Fatalf("subscription id not forwarded: %+v", input.PolarSubscriptionID)
			}
			return &internalorders.OrderDTO{UserID: input.UserID}, nil
		},
	}

	body := `{"user_id":"user-1","payment_id":"pay_123","polar_subscription_id":"sub_456"}`
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/orders/", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminUpdateOrderReassignsAdmin(t *testing.T) {
	orderID := uuid.New()
	svc := stubAdminOrders{
		updateFn: func(ctx context.Context, id uuid.UUID, input internalorders.UpdateOrderInput) (*internalorders.OrderDTO, error) {
			if id != orderID {
				t.Fatalf("unexpected order id %s", id)
			}
			if input.AssignedAdminID == nil || *input.AssignedAdminID != "admin-2" {
				t.Fatalf("assignee not forwarded: %+v", input.AssignedAdminID)
			}
			return &internalorders.OrderDTO{ID: id, AssignedAdminID: input.AssignedAdminID}, nil
		},
	}

	body := `{"assigned_admin_id":"admin-2"}`
	req := asAdmin(httptest.NewRequest(http.MethodPatch, "/api/admin/orders/"+orderID.String(), strings.NewReader(body)))
	resp := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data internalorders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AssignedAdminID == nil || *envelope.Data.AssignedAdminID != "admin-2" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdminUpdateOrderStateConflict(t *testing.T) {
	svc := stubAdminOrders{
		updateFn: func(ctx context.Context, id uuid.UUID, input internalorders.UpdateOrderInput) (*internalorders.OrderDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot move from delivered to processing")
		},
	}

	body := `{"status":"processing"}`
	req := asAdmin(httptest.NewRequest(http.MethodPatch, "/api/admin/orders/"+uuid.New().String(), strings.NewReader(body)))
	resp := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "STATE_CONFLICT" {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if !strings.Contains(envelope.Error.Message, "delivered") {
		t.Fatalf("expected transition message, got %q", envelope.Error.Message)
	}
}

func TestAdminClaimOrderConflict(t *testing.T) {
	svc := stubAdminOrders{
		claimFn: func(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) (*internalorders.OrderDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already claimed by another admin")
		},
	}

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/orders/"+uuid.New().String()+"/claim", nil))
	resp := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestAdminGetOrderNotFound(t *testing.T) {
	svc := stubAdminOrders{
		getFn: func(ctx context.Context, id uuid.UUID) (*internalorders.OrderDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/orders/"+uuid.New().String(), nil))
	resp := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminDeleteOrder(t *testing.T) {
	deleted := false
	svc := stubAdminOrders{
		deleteFn: func(ctx context.Context, id uuid.UUID, actorID string, actorIP *string) error {
			deleted = true
			return nil
		},
	}

	req := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/admin/orders/"+uuid.New().String(), nil))
	resp := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !deleted {
		t.Fatal("delete was not forwarded to the service")
	}
}
