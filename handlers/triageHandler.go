package handlers

import (
	"AfyaCare/models"
	"AfyaCare/services"

	"github.com/gin-gonic/gin"
)

type TriageHandler struct {
	service *services.TriageService
}

func NewTriageHandler(service *services.TriageService) *TriageHandler {
	return &TriageHandler{service: service}
}

func (h *TriageHandler) CreateTriageRecord(c *gin.Context) {
	var record models.TriageRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if record.PatientID == 0 {
		c.JSON(400, gin.H{"error": "patient_id is required"})
		return
	}
	if err := h.service.CreateRecord(c, &record); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, record)
}

func (h *TriageHandler) GetTriageRecordByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	record, err := h.service.GetByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if record == nil {
		c.JSON(404, gin.H{"error": "Triage record not found"})
		return
	}
	c.JSON(200, record)
}

func (h *TriageHandler) GetTriageRecordsForPatient(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	records, err := h.service.GetByPatient(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, records)
}

func (h *TriageHandler) GetAllTriageRecords(c *gin.Context) {
	records, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, records)
}
