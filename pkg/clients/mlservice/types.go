package mlservice

import "time"

// PredictionStatus tags the normalized outcome of a predict call. The raw
// service response is heterogeneous; the parser maps it into these variants
// once, at the boundary.
type PredictionStatus string

const (
	StatusOK               PredictionStatus = "ok"
	StatusTraining         PredictionStatus = "training"
	StatusInsufficientData PredictionStatus = "insufficient_data"
	StatusError            PredictionStatus = "error"
)

// Status is the normalized reply of GET /store/{id}/status. A transport
// failure, non-2xx reply or empty body yields ServiceAvailable=false with
// everything else zeroed; the call never fails.
type Status struct {
	StoreID          int64
	HasModels        bool
	IsTraining       bool
	Dishes           []string
	DaysAvailable    int
	TrainingProgress *TrainingProgress
	ServiceAvailable bool
}

// TrainingProgress reports per-dish training counts while a store is
// being trained.
type TrainingProgress struct {
	Trained     int    `json:"trained"`
	Failed      int    `json:"failed"`
	Total       int    `json:"total"`
	CurrentDish string `json:"current_dish"`
}

// TrainResult is the normalized reply of POST /store/{id}/train.
type TrainResult struct {
	Status  string
	StoreID int64
	Message string
}

// PredictResult is the normalized reply of POST /store/{id}/predict.
type PredictResult struct {
	StoreID       int64
	Status        PredictionStatus
	Message       string
	DaysAvailable int
	// Predictions is keyed by dish name, only populated when Status is ok.
	Predictions map[string]DishPrediction
}

// DishPrediction holds one dish's forecast points, or the per-dish error
// marker when the service failed for that dish alone.
type DishPrediction struct {
	Dish       string
	Model      string
	ModelCombo string
	Points     []DayPrediction
	Err        string
}

// DayPrediction is a single day's predicted demand.
type DayPrediction struct {
	Date        time.Time
	Yhat        float64
	ProphetYhat *float64
	ResidualHat *float64
}
