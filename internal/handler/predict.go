package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KalaiSelvam31/Fuel-Prediction/internal/ml"
	"github.com/KalaiSelvam31/Fuel-Prediction/internal/util"

	"github.com/gin-gonic/gin"
)

// PredictHandler serves fuel blend property predictions.
type PredictHandler struct {
	ML *ml.Service
}

func NewPredictHandler(svc *ml.Service) *PredictHandler {
	return &PredictHandler{ML: svc}
}

type predictReq struct {
	// Data is either a CSV string (header row included) or a JSON
	// object / array of objects, discriminated by DataType.
	Data     json.RawMessage `json:"data" binding:"required"`
	DataType string          `json:"data_type" binding:"required,oneof=csv json"`
}

// Predict runs the model on the posted input. Validation failures are 400,
// an unloaded model is 503, anything else is 500; the response detail is the
// cause text, never a stack trace.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req predictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid prediction payload: data and data_type (csv|json) are required")
		return
	}

	results, err := h.ML.Predict(req.Data, req.DataType)
	if err != nil {
		var ve *ml.ValidationError
		switch {
		case errors.Is(err, ml.ErrModelNotLoaded):
			util.Error(c, http.StatusServiceUnavailable, err.Error())
		case errors.As(err, &ve):
			util.Error(c, http.StatusBadRequest, err.Error())
		default:
			util.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prediction":    results,
		"status":        "success",
		"message":       "Fuel properties predicted successfully",
		"model_metrics": h.ML.Metrics(),
	})
}

// Health reports liveness and whether the model bundle is loaded.
func (h *PredictHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"model_loaded": h.ML.Loaded(),
	})
}

// Root is the static service descriptor.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Fuel Blend Property Prediction API",
		"endpoints": gin.H{
			"auth":    "/auth",
			"predict": "/api/predict/fuel",
			"health":  "/health",
		},
	})
}
