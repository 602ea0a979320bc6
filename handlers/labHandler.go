package handlers

import (
	"AfyaCare/models"
	"AfyaCare/services"

	"github.com/gin-gonic/gin"
)

type LabHandler struct {
	service *services.LabService
}

func NewLabHandler(service *services.LabService) *LabHandler {
	return &LabHandler{service: service}
}

func (h *LabHandler) CreateLabRequest(c *gin.Context) {
	var request models.LabRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CreateRequest(c, &request); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, request)
}

func (h *LabHandler) GetLabRequestByID(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	request, err := h.service.GetRequestByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if request == nil {
		c.JSON(404, gin.H{"error": "Lab request not found"})
		return
	}
	c.JSON(200, request)
}

func (h *LabHandler) GetAllLabRequests(c *gin.Context) {
	requests, err := h.service.GetAllRequests(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, requests)
}

type labStatusInput struct {
	Status string `json:"status"`
}

func (h *LabHandler) UpdateLabRequestStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var input labStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateRequestStatus(c, id, input.Status); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"id": id, "status": input.Status})
}

// GetLabRequestBilling exposes the invoice generated for a request, so the
// lab desk can tell the patient what is owed before collecting a sample.
func (h *LabHandler) GetLabRequestBilling(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	request, err := h.service.GetRequestByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if request == nil {
		c.JSON(404, gin.H{"error": "Lab request not found"})
		return
	}
	billing, err := h.service.BillingForRequest(c, request)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if billing == nil {
		c.JSON(404, gin.H{"error": "No billing record for this lab request"})
		return
	}
	c.JSON(200, billing)
}

func (h *LabHandler) CreateLabResult(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var result models.LabResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	result.LabRequestID = id
	if err := h.service.CreateResult(c, &result); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, result)
}

func (h *LabHandler) GetLabResult(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	result, err := h.service.GetResultByRequestID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if result == nil {
		c.JSON(404, gin.H{"error": "Lab result not found"})
		return
	}
	c.JSON(200, result)
}
