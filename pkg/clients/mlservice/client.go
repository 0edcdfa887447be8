package mlservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/smartsuschef/backend-go/internal/domain"
)

// Client talks to the external ML forecasting service. Replies are parsed
// loosely and normalized into the typed results of types.go; the rest of the
// backend never sees the raw wire format.
type Client struct {
	http          *resty.Client
	statusTimeout time.Duration
}

// NewClient creates a configured prediction-service client. predictTimeout
// bounds train/predict calls; status checks use the much shorter
// statusTimeout so a slow service cannot stall cheap health lookups.
func NewClient(baseURL string, statusTimeout, predictTimeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetHeader("content-type", "application/json").
		SetTimeout(predictTimeout)

	return &Client{http: http, statusTimeout: statusTimeout}
}

type statusWire struct {
	StoreID       *int64   `json:"store_id"`
	HasModels     bool     `json:"has_models"`
	IsTraining    bool     `json:"is_training"`
	Dishes        []string `json:"dishes"`
	DaysAvailable *int     `json:"days_available"`
	TrainingProg  *struct {
		Trained     int    `json:"trained"`
		Failed      int    `json:"failed"`
		Total       int    `json:"total"`
		CurrentDish string `json:"current_dish"`
	} `json:"training_progress"`
}

// GetStatus returns the store's model status. It never returns an error:
// any transport failure, non-2xx reply or empty body is reported as
// ServiceAvailable=false.
func (c *Client) GetStatus(ctx context.Context, storeID int64) Status {
	unavailable := Status{StoreID: storeID, ServiceAvailable: false}

	ctx, cancel := context.WithTimeout(ctx, c.statusTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/store/%d/status", storeID))
	if err != nil {
		log.Warn().Err(err).Int64("store_id", storeID).Msg("ml status check failed")
		return unavailable
	}
	if resp.IsError() || len(resp.Body()) == 0 {
		log.Warn().Int("status", resp.StatusCode()).Int64("store_id", storeID).Msg("ml status check returned no usable body")
		return unavailable
	}

	var wire statusWire
	if err := json.Unmarshal(resp.Body(), &wire); err != nil {
		log.Warn().Err(err).Int64("store_id", storeID).Msg("ml status response unparsable")
		return unavailable
	}

	status := Status{
		StoreID:          storeID,
		HasModels:        wire.HasModels,
		IsTraining:       wire.IsTraining,
		Dishes:           wire.Dishes,
		ServiceAvailable: true,
	}
	if wire.StoreID != nil {
		status.StoreID = *wire.StoreID
	}
	if wire.DaysAvailable != nil {
		status.DaysAvailable = *wire.DaysAvailable
	}
	if wire.TrainingProg != nil {
		status.TrainingProgress = &TrainingProgress{
			Trained:     wire.TrainingProg.Trained,
			Failed:      wire.TrainingProg.Failed,
			Total:       wire.TrainingProg.Total,
			CurrentDish: wire.TrainingProg.CurrentDish,
		}
	}
	return status
}

// TriggerTraining asks the service to start training models for the store.
// Training runs fire-and-forget on the service side; this call only confirms
// acceptance. Unlike GetStatus, failures are returned to the caller, who
// needs to know training did not start.
func (c *Client) TriggerTraining(ctx context.Context, storeID int64) (*TrainResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/store/%d/train", storeID))
	if err != nil {
		return nil, fmt.Errorf("ml train call: %w", err)
	}

	body := resp.Body()
	if len(body) == 0 {
		status := "unknown"
		if resp.IsError() {
			status = "error"
		}
		return &TrainResult{
			Status:  status,
			StoreID: storeID,
			Message: fmt.Sprintf("ml service returned empty response (%d)", resp.StatusCode()),
		}, nil
	}

	var wire struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("ml train response unparsable: %w", err)
	}

	result := &TrainResult{Status: wire.Status, StoreID: storeID, Message: wire.Message}
	if result.Status == "" {
		result.Status = "error"
	}

	// Errors such as insufficient data come back as a structured detail
	// field on a 4xx reply.
	if resp.IsError() && len(wire.Detail) > 0 {
		var detail struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(wire.Detail, &detail); err == nil && detail.Status != "" {
			result.Status = detail.Status
			result.Message = detail.Message
		} else {
			var msg string
			if err := json.Unmarshal(wire.Detail, &msg); err == nil {
				result.Message = msg
			}
		}
	}
	return result, nil
}

type predictWire struct {
	StoreID       *int64                     `json:"store_id"`
	Status        string                     `json:"status"`
	Message       string                     `json:"message"`
	DaysAvailable *int                       `json:"days_available"`
	Predictions   map[string]json.RawMessage `json:"predictions"`
}

type dishWire struct {
	Dish        string  `json:"dish"`
	Model       string  `json:"model"`
	ModelCombo  string  `json:"model_combo"`
	Error       *string `json:"error"`
	Predictions []struct {
		Date        string   `json:"date"`
		Yhat        float64  `json:"yhat"`
		ProphetYhat *float64 `json:"prophet_yhat"`
		ResidualHat *float64 `json:"residual_hat"`
	} `json:"predictions"`
}

// GetPredictions fetches per-dish/day demand predictions for the store.
// Transport failures are returned as errors; everything else, including
// non-2xx replies carrying a JSON body, is normalized into a PredictResult.
// A malformed entry for a single dish becomes that dish's error variant,
// never a whole-request failure.
func (c *Client) GetPredictions(ctx context.Context, storeID int64, horizonDays int, latitude, longitude *decimal.Decimal, countryCode string) (*PredictResult, error) {
	reqBody := map[string]any{
		"store_id":     storeID,
		"horizon_days": horizonDays,
	}
	if latitude != nil {
		reqBody["latitude"], _ = latitude.Float64()
	}
	if longitude != nil {
		reqBody["longitude"], _ = longitude.Float64()
	}
	if countryCode != "" {
		reqBody["country_code"] = countryCode
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(reqBody).
		Post(fmt.Sprintf("/store/%d/predict", storeID))
	if err != nil {
		return nil, fmt.Errorf("ml predict call: %w", err)
	}

	body := resp.Body()
	if len(body) == 0 {
		return &PredictResult{
			StoreID: storeID,
			Status:  StatusError,
			Message: fmt.Sprintf("ml service returned empty response (%d)", resp.StatusCode()),
		}, nil
	}

	var wire predictWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("ml predict response unparsable: %w", err)
	}

	result := &PredictResult{
		StoreID: storeID,
		Status:  normalizeStatus(wire.Status),
		Message: wire.Message,
	}
	if wire.StoreID != nil {
		result.StoreID = *wire.StoreID
	}
	if wire.DaysAvailable != nil {
		result.DaysAvailable = *wire.DaysAvailable
	}

	if result.Status != StatusOK || wire.Predictions == nil {
		return result, nil
	}

	result.Predictions = make(map[string]DishPrediction, len(wire.Predictions))
	for dishName, raw := range wire.Predictions {
		result.Predictions[dishName] = parseDish(dishName, raw)
	}
	return result, nil
}

func normalizeStatus(s string) PredictionStatus {
	switch PredictionStatus(s) {
	case StatusOK, StatusTraining, StatusInsufficientData:
		return PredictionStatus(s)
	default:
		return StatusError
	}
}

func parseDish(name string, raw json.RawMessage) DishPrediction {
	var wire dishWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return DishPrediction{Dish: name, Err: fmt.Sprintf("malformed prediction entry: %v", err)}
	}
	if wire.Error != nil {
		return DishPrediction{Dish: name, Err: *wire.Error}
	}

	dish := DishPrediction{Dish: name, Model: wire.Model, ModelCombo: wire.ModelCombo}
	if wire.Dish != "" {
		dish.Dish = wire.Dish
	}

	for _, p := range wire.Predictions {
		date, err := time.Parse(domain.DateFormat, p.Date)
		if err != nil {
			// A bad date skips the point, not the dish.
			log.Warn().Str("dish", name).Str("date", p.Date).Msg("skipping prediction with unparsable date")
			continue
		}
		dish.Points = append(dish.Points, DayPrediction{
			Date:        date,
			Yhat:        p.Yhat,
			ProphetYhat: p.ProphetYhat,
			ResidualHat: p.ResidualHat,
		})
	}
	return dish
}
