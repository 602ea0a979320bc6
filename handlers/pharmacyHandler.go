package handlers

import (
	"AfyaCare/models"
	"AfyaCare/services"

	"github.com/gin-gonic/gin"
)

type PharmacyHandler struct {
	service *services.PharmacyService
}

func NewPharmacyHandler(service *services.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{service: service}
}

func (h *PharmacyHandler) CreateDrug(c *gin.Context) {
	var drug models.Drug
	if err := c.ShouldBindJSON(&drug); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CreateDrug(c, &drug); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, drug)
}

func (h *PharmacyHandler) GetDrugByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	drug, err := h.service.GetDrugByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if drug == nil {
		c.JSON(404, gin.H{"error": "Drug not found"})
		return
	}
	c.JSON(200, drug)
}

func (h *PharmacyHandler) GetAllDrugs(c *gin.Context) {
	drugs, err := h.service.GetAllDrugs(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, drugs)
}

func (h *PharmacyHandler) UpdateDrug(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var drug models.Drug
	if err := c.ShouldBindJSON(&drug); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	drug.ID = id
	if err := h.service.UpdateDrug(c, &drug); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, drug)
}

type dispenseLineInput struct {
	PrescriptionItemID uint  `json:"prescription_item_id"`
	DrugID             uint  `json:"drug_id"`
	QuantityDispensed  int64 `json:"quantity_dispensed"`
}

type dispenseInput struct {
	PrescriptionID uint                `json:"prescription_id"`
	PerformedByID  *int64              `json:"performed_by_id"`
	Lines          []dispenseLineInput `json:"lines"`
}

func (h *PharmacyHandler) CreateDispense(c *gin.Context) {
	var input dispenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	dispense := models.Dispense{
		PrescriptionID: input.PrescriptionID,
		PerformedByID:  input.PerformedByID,
	}
	lines := make([]models.DispenseLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		lines = append(lines, models.DispenseLine{
			PrescriptionItemID: l.PrescriptionItemID,
			DrugID:             l.DrugID,
			QuantityDispensed:  l.QuantityDispensed,
		})
	}
	if err := h.service.CreateDispense(c, &dispense, lines); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, dispense)
}

func (h *PharmacyHandler) GetDispenseByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	dispense, err := h.service.GetDispenseByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if dispense == nil {
		c.JSON(404, gin.H{"error": "Dispense not found"})
		return
	}
	c.JSON(200, dispense)
}

func (h *PharmacyHandler) GetAllDispenses(c *gin.Context) {
	dispenses, err := h.service.GetAllDispenses(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, dispenses)
}

func (h *PharmacyHandler) GetAuditLogs(c *gin.Context) {
	logs, err := h.service.GetAuditLogs(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, logs)
}
