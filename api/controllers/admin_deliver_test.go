package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/afigueroa/mailprov-backend/api/middleware"
	"github.com/afigueroa/mailprov-backend/internal/delivery"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubDeliveryService struct {
	result *delivery.Result
	err    error
	inputs []delivery.Input
}

func (s *stubDeliveryService) Deliver(ctx context.Context, input delivery.Input) (*delivery.Result, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func deliverRequest(t *testing.T, svc *stubDeliveryService, orderID, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.Post("/api/admin/orders/{orderId}/deliver", AdminDeliverCredentials(svc, testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/orders/"+orderID+"/deliver", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), "admin-1"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAdminDeliverCredentialsSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubDeliveryService{result: &delivery.Result{EmailSent: true, ResendID: "re_1"}}

	resp := deliverRequest(t, svc, orderID.String(), `{
		"enterprise_email": "seat@corp.example.com",
		"enterprise_password": "hunter2hunter2"
	}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.inputs) != 1 {
		t.Fatalf("expected one delivery call, got %d", len(svc.inputs))
	}
	if svc.inputs[0].OrderID != orderID || svc.inputs[0].ActorID != "admin-1" {
		t.Fatalf("unexpected input %+v", svc.inputs[0])
	}

	var envelope struct {
		Data delivery.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.EmailSent || envelope.Data.ResendID != "re_1" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdminDeliverCredentialsPartialReturns207(t *testing.T) {
	svc := &stubDeliveryService{result: &delivery.Result{EmailSent: false, EmailError: "provider down"}}

	resp := deliverRequest(t, svc, uuid.New().String(), `{
		"enterprise_email": "seat@corp.example.com",
		"enterprise_password": "hunter2hunter2"
	}`)

	if resp.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207 got %d", resp.Code)
	}
}

func TestAdminDeliverCredentialsInvalidOrderID(t *testing.T) {
	svc := &stubDeliveryService{}

	resp := deliverRequest(t, svc, "not-a-uuid", `{
		"enterprise_email": "seat@corp.example.com",
		"enterprise_password": "hunter2hunter2"
	}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.inputs) != 0 {
		t.Fatal("service should not be called for a bad id")
	}
}

func TestAdminDeliverCredentialsValidatesBody(t *testing.T) {
	svc := &stubDeliveryService{}

	resp := deliverRequest(t, svc, uuid.New().String(), `{
		"enterprise_email": "not-an-email",
		"enterprise_password": "short"
	}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if envelope.Error.Details["enterprise_email"] == "" || envelope.Error.Details["enterprise_password"] == "" {
		t.Fatalf("expected field details, got %v", envelope.Error.Details)
	}
}
