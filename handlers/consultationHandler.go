package handlers

import (
	"AfyaCare/models"
	"AfyaCare/services"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	service *services.ConsultationService
}

func NewConsultationHandler(service *services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: service}
}

type prescriptionItemInput struct {
	DrugID            uint   `json:"drug_id"`
	QuantityRequested int64  `json:"quantity_requested"`
	Route             string `json:"route"`
	Unit              string `json:"unit"`
	Frequency         string `json:"frequency"`
	Dose              int64  `json:"dose"`
	Duration          int64  `json:"duration"`
}

type prescriptionInput struct {
	Items []prescriptionItemInput `json:"items"`
}

type consultationInput struct {
	PatientID        uint                  `json:"patient_id"`
	Complaints       string                `json:"complaints"`
	History          string                `json:"history"`
	Vitals           models.VitalsSnapshot `json:"vitals"`
	CreatedByID      *int64                `json:"created_by_id"`
	InvestigationIDs []uint                `json:"investigation_ids"`
	DiagnosisIDs     []uint                `json:"diagnosis_ids"`
	Prescriptions    []prescriptionInput   `json:"prescriptions"`
}

func (h *ConsultationHandler) CreateConsultation(c *gin.Context) {
	var input consultationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if input.PatientID == 0 {
		c.JSON(400, gin.H{"error": "patient_id is required"})
		return
	}

	consultation := models.Consultation{
		PatientID:   &input.PatientID,
		Complaints:  input.Complaints,
		History:     input.History,
		Vitals:      input.Vitals,
		CreatedByID: input.CreatedByID,
	}
	for _, p := range input.Prescriptions {
		prescription := models.Prescription{}
		for _, item := range p.Items {
			prescription.Items = append(prescription.Items, models.PrescriptionItem{
				DrugID:            item.DrugID,
				QuantityRequested: item.QuantityRequested,
				Route:             item.Route,
				Unit:              item.Unit,
				Frequency:         item.Frequency,
				Dose:              item.Dose,
				Duration:          item.Duration,
			})
		}
		consultation.Prescriptions = append(consultation.Prescriptions, prescription)
	}

	if err := h.service.Create(c, &consultation, input.InvestigationIDs, input.DiagnosisIDs); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, consultation)
}

func (h *ConsultationHandler) GetConsultationByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	consultation, err := h.service.GetByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if consultation == nil {
		c.JSON(404, gin.H{"error": "Consultation not found"})
		return
	}
	c.JSON(200, consultation)
}

func (h *ConsultationHandler) GetAllConsultations(c *gin.Context) {
	consultations, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, consultations)
}

// CheckEligibility lets the front desk verify the paid-consultation
// precondition before sending a patient to the doctor.
func (h *ConsultationHandler) CheckEligibility(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	eligible, err := h.service.PatientEligible(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"patient_id": id, "eligible": eligible})
}

func (h *ConsultationHandler) CreateInvestigation(c *gin.Context) {
	var investigation models.Investigation
	if err := c.ShouldBindJSON(&investigation); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CreateInvestigation(c, &investigation); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, investigation)
}

func (h *ConsultationHandler) GetAllInvestigations(c *gin.Context) {
	investigations, err := h.service.GetAllInvestigations(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, investigations)
}

func (h *ConsultationHandler) UpdateInvestigation(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var investigation models.Investigation
	if err := c.ShouldBindJSON(&investigation); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	investigation.ID = id
	if err := h.service.UpdateInvestigation(c, &investigation); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, investigation)
}

func (h *ConsultationHandler) CreateDiagnosis(c *gin.Context) {
	var diagnosis models.Diagnosis
	if err := c.ShouldBindJSON(&diagnosis); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CreateDiagnosis(c, &diagnosis); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, diagnosis)
}

func (h *ConsultationHandler) GetAllDiagnoses(c *gin.Context) {
	diagnoses, err := h.service.GetAllDiagnoses(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, diagnoses)
}
