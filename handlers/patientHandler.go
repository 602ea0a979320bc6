package handlers

import (
	"AfyaCare/models"
	"AfyaCare/services"
	"AfyaCare/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// RegisterPatient creates a patient unless close matches exist. A blocked
// registration returns 200 with the candidate matches so the desk can decide.
func (h *PatientHandler) RegisterPatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidatePatientData(patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	result, err := h.service.Register(c, &patient)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if !result.Created {
		c.JSON(200, result)
		return
	}
	c.JSON(201, result)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	patient, err := h.service.GetByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if patient == nil {
		c.JSON(404, gin.H{"error": "Patient not found"})
		return
	}
	c.JSON(200, patient)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, patients)
}

func (h *PatientHandler) SearchPatients(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(400, gin.H{"error": "query parameter q is required"})
		return
	}
	patients, err := h.service.Search(c, q)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, patients)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	patient.ID = id
	if err := h.service.Update(c, &patient); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, patient)
}

type statusInput struct {
	Status      string `json:"status"`
	ChangedByID *int64 `json:"changed_by_id"`
}

func (h *PatientHandler) UpdatePatientStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidPatientStatus(input.Status) {
		c.JSON(400, gin.H{"error": "unknown patient status"})
		return
	}
	patient, err := h.service.UpdateStatus(c, id, input.Status, input.ChangedByID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, patient)
}

func (h *PatientHandler) GetStatusHistory(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	history, err := h.service.StatusHistory(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, history)
}
