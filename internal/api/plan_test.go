package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"geopath/pkg/geodesy"
	"geopath/pkg/planner"
)

// gridQuerier serves a flat, obstacle-free neighborhood around any point,
// letting the handler tests exercise a full plan without a network service.
type gridQuerier struct{}

func (q *gridQuerier) Query(_ context.Context, lon, lat float64, size int) ([]geodesy.LLA, error) {
	var out []geodesy.LLA
	half := size / 2
	for dx := -half; dx <= half; dx++ {
		for dy := -half; dy <= half; dy++ {
			out = append(out, geodesy.LLA{Lon: lon + float64(dx)*0.01, Lat: lat + float64(dy)*0.01, Alt: -5})
		}
	}
	return out, nil
}

func newTestHandler() *PlanHandler {
	q := &gridQuerier{}
	p := planner.New(q, planner.Config{QuerySize: 15})
	return &PlanHandler{Planner: p, Querier: q}
}

func TestHandlePlan_Success(t *testing.T) {
	h := newTestHandler()
	body, _ := json.Marshal(PlanRequest{OriginLon: 10, OriginLat: 50, TerminusLon: 10.05, TerminusLat: 50.05, Altitude: 0})

	req := httptest.NewRequest("POST", "/api/plan", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandlePlan(rec, req)

	var resp PlanResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("expected success, got %+v", resp)
	}
	if len(resp.Path) < 2 {
		t.Errorf("expected a multi-point path, got %d points", len(resp.Path))
	}
}

func TestHandlePlan_InvalidParameters(t *testing.T) {
	h := newTestHandler()
	body, _ := json.Marshal(PlanRequest{OriginLon: 200, OriginLat: 50, TerminusLon: 10, TerminusLat: 50})

	req := httptest.NewRequest("POST", "/api/plan", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandlePlan(rec, req)

	var resp PlanResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Status != "failed" || resp.Error != ErrInvalidParameters {
		t.Errorf("expected invalid_parameters failure, got %+v", resp)
	}
}

func TestHandlePlan_DistanceTooLong(t *testing.T) {
	h := newTestHandler()
	body, _ := json.Marshal(PlanRequest{OriginLon: 10, OriginLat: 50, TerminusLon: 20, TerminusLat: 60})

	req := httptest.NewRequest("POST", "/api/plan", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandlePlan(rec, req)

	var resp PlanResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Status != "failed" || resp.Error != ErrDistanceTooLong {
		t.Errorf("expected distance_too_long failure, got %+v", resp)
	}
}

func TestHandlePlan_MalformedBody(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest("POST", "/api/plan", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	h.HandlePlan(rec, req)

	var resp PlanResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Status != "failed" || resp.Error != ErrInvalidParameters {
		t.Errorf("expected invalid_parameters failure, got %+v", resp)
	}
}
