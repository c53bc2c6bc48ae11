package handlers

import (
	"errors"
	"net/http"

	callrecordsRepo "grotto/database/repository/callrecords"
	"grotto/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// RecordsHandler exposes persisted call records.
type RecordsHandler struct {
	Repo callrecordsRepo.CallRecordRepository
}

func NewRecordsHandler(repo callrecordsRepo.CallRecordRepository) *RecordsHandler {
	return &RecordsHandler{Repo: repo}
}

// GetCallRecordHandler returns one finalized call record by ID.
func (h *RecordsHandler) GetCallRecordHandler(c *gin.Context) {
	id := c.Param("id")
	record, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.JSONError(c, http.StatusNotFound, "Record not found", id)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch record", err.Error())
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetCallerRecordsHandler returns all finalized records for a caller number,
// most recent first.
func (h *RecordsHandler) GetCallerRecordsHandler(c *gin.Context) {
	number := c.Param("number")
	records, err := h.Repo.GetByCaller(c.Request.Context(), number)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch records", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"caller": number, "records": records})
}

// DeleteCallRecordHandler removes one finalized call record by ID.
func (h *RecordsHandler) DeleteCallRecordHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Repo.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, callrecordsRepo.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Record not found", id)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete record", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
