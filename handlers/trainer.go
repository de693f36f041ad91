package handlers

import (
	"errors"
	"net/http"

	"fitbook/database/repository"
	trainerRepo "fitbook/database/repository/trainer"
	"fitbook/services/booking"
	"fitbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TrainerHandler struct {
	Repo trainerRepo.TrainerRepository
}

func NewTrainerHandler(repo trainerRepo.TrainerRepository) *TrainerHandler {
	return &TrainerHandler{Repo: repo}
}

// GetTrainer handles GET /api/trainers/:id.
func (h *TrainerHandler) GetTrainer(c *gin.Context) {
	trainer, err := h.Repo.GetTrainer(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, booking.CodeTrainerNotFound, "trainer not found", "")
			return
		}
		getLogger(c).Error("Failed to load trainer", zap.String("trainer_id", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, booking.CodeInternal, "Internal server error", "")
		return
	}
	c.JSON(http.StatusOK, trainer)
}
