package mlservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, 2*time.Second, 5*time.Second)
	return client, server
}

func TestGetStatus_ParsesReply(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/store/7/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"store_id": 7,
			"has_models": true,
			"is_training": false,
			"dishes": ["Nasi Lemak", "Chicken Rice"],
			"days_available": 90
		}`))
	})
	defer server.Close()

	status := client.GetStatus(context.Background(), 7)
	if !status.ServiceAvailable {
		t.Fatal("expected ServiceAvailable=true")
	}
	if !status.HasModels || status.IsTraining {
		t.Errorf("flags = %v/%v, want true/false", status.HasModels, status.IsTraining)
	}
	if len(status.Dishes) != 2 || status.DaysAvailable != 90 {
		t.Errorf("dishes=%v days=%d", status.Dishes, status.DaysAvailable)
	}
}

func TestGetStatus_ServerErrorNeverFails(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	status := client.GetStatus(context.Background(), 7)
	if status.ServiceAvailable {
		t.Fatal("expected ServiceAvailable=false on 500")
	}
	if status.StoreID != 7 {
		t.Errorf("store id = %d, want 7", status.StoreID)
	}
}

func TestGetStatus_UnreachableNeverFails(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // deliberately closed

	client := NewClient(server.URL, time.Second, time.Second)
	status := client.GetStatus(context.Background(), 7)
	if status.ServiceAvailable {
		t.Fatal("expected ServiceAvailable=false when unreachable")
	}
}

func TestTriggerTraining_ParsesErrorDetail(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": {"status": "insufficient_data", "message": "need at least 30 days"}}`))
	})
	defer server.Close()

	result, err := client.TriggerTraining(context.Background(), 7)
	if err != nil {
		t.Fatalf("TriggerTraining failed: %v", err)
	}
	if result.Status != "insufficient_data" {
		t.Errorf("status = %q, want insufficient_data", result.Status)
	}
	if result.Message != "need at least 30 days" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestTriggerTraining_Accepted(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "training_started", "message": "training 5 dishes"}`))
	})
	defer server.Close()

	result, err := client.TriggerTraining(context.Background(), 7)
	if err != nil {
		t.Fatalf("TriggerTraining failed: %v", err)
	}
	if result.Status != "training_started" {
		t.Errorf("status = %q", result.Status)
	}
}

func TestGetPredictions_NormalizesDishes(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/store/7/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"store_id": 7,
			"status": "ok",
			"predictions": {
				"Nasi Lemak": {
					"dish": "Nasi Lemak",
					"model": "prophet",
					"predictions": [
						{"date": "2026-08-10", "yhat": 42.5},
						{"date": "not-a-date", "yhat": 10},
						{"date": "2026-08-11", "yhat": 38.1, "prophet_yhat": 40.0}
					]
				},
				"Broken Dish": {"error": "model missing"},
				"Garbage": 12345
			}
		}`))
	})
	defer server.Close()

	result, err := client.GetPredictions(context.Background(), 7, 9, nil, nil, "SG")
	if err != nil {
		t.Fatalf("GetPredictions failed: %v", err)
	}
	if result.Status != StatusOK {
		t.Fatalf("status = %s, want ok", result.Status)
	}

	dish := result.Predictions["Nasi Lemak"]
	if dish.Err != "" {
		t.Fatalf("unexpected dish error %q", dish.Err)
	}
	// The unparsable date is dropped, not fatal.
	if len(dish.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(dish.Points))
	}
	if dish.Points[0].Yhat != 42.5 {
		t.Errorf("yhat = %f", dish.Points[0].Yhat)
	}
	if dish.Points[1].ProphetYhat == nil || *dish.Points[1].ProphetYhat != 40.0 {
		t.Errorf("prophet_yhat = %v", dish.Points[1].ProphetYhat)
	}

	// Per-dish failures stay per-dish.
	if result.Predictions["Broken Dish"].Err != "model missing" {
		t.Errorf("broken dish = %+v", result.Predictions["Broken Dish"])
	}
	if result.Predictions["Garbage"].Err == "" {
		t.Error("malformed dish entry must become the error variant")
	}
}

func TestGetPredictions_TrainingStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "training", "message": "models are being trained"}`))
	})
	defer server.Close()

	result, err := client.GetPredictions(context.Background(), 7, 9, nil, nil, "")
	if err != nil {
		t.Fatalf("GetPredictions failed: %v", err)
	}
	if result.Status != StatusTraining {
		t.Errorf("status = %s, want training", result.Status)
	}
	if result.Predictions != nil {
		t.Error("non-ok result must carry no predictions")
	}
}

func TestGetPredictions_UnknownStatusBecomesError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "something_new"}`))
	})
	defer server.Close()

	result, err := client.GetPredictions(context.Background(), 7, 9, nil, nil, "")
	if err != nil {
		t.Fatalf("GetPredictions failed: %v", err)
	}
	if result.Status != StatusError {
		t.Errorf("status = %s, want error", result.Status)
	}
}

func TestGetPredictions_EmptyBodyBecomesError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	result, err := client.GetPredictions(context.Background(), 7, 9, nil, nil, "")
	if err != nil {
		t.Fatalf("empty body must normalize, not fail: %v", err)
	}
	if result.Status != StatusError {
		t.Errorf("status = %s, want error", result.Status)
	}
}

func TestGetPredictions_TransportErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // deliberately closed

	client := NewClient(server.URL, time.Second, time.Second)
	if _, err := client.GetPredictions(context.Background(), 7, 9, nil, nil, ""); err == nil {
		t.Fatal("expected transport error")
	}
}
