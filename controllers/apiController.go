package controllers

import (
	"AfyaCare/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes registers every module's routes on the router.
func SetupAPIRoutes(
	router *gin.Engine,
	patientHandler *handlers.PatientHandler,
	triageHandler *handlers.TriageHandler,
	consultationHandler *handlers.ConsultationHandler,
	labHandler *handlers.LabHandler,
	pharmacyHandler *handlers.PharmacyHandler,
	billingHandler *handlers.BillingHandler,
	userHandler *handlers.UserHandler,
	reportHandler *handlers.ReportHandler,
) {
	router.POST("/patients", patientHandler.RegisterPatient)
	router.GET("/patients", patientHandler.GetAllPatients)
	router.GET("/patients/search", patientHandler.SearchPatients)
	router.GET("/patients/:id", patientHandler.GetPatientByID)
	router.PUT("/patients/:id", patientHandler.UpdatePatient)
	router.PUT("/patients/:id/status", patientHandler.UpdatePatientStatus)
	router.GET("/patients/:id/status-history", patientHandler.GetStatusHistory)
	router.GET("/patients/:id/triage", triageHandler.GetTriageRecordsForPatient)
	router.GET("/patients/:id/eligibility", consultationHandler.CheckEligibility)

	router.POST("/triage", triageHandler.CreateTriageRecord)
	router.GET("/triage", triageHandler.GetAllTriageRecords)
	router.GET("/triage/:id", triageHandler.GetTriageRecordByID)

	router.POST("/consultations", consultationHandler.CreateConsultation)
	router.GET("/consultations", consultationHandler.GetAllConsultations)
	router.GET("/consultations/:id", consultationHandler.GetConsultationByID)

	router.POST("/investigations", consultationHandler.CreateInvestigation)
	router.GET("/investigations", consultationHandler.GetAllInvestigations)
	router.PUT("/investigations/:id", consultationHandler.UpdateInvestigation)
	router.POST("/diagnoses", consultationHandler.CreateDiagnosis)
	router.GET("/diagnoses", consultationHandler.GetAllDiagnoses)

	router.POST("/lab/requests", labHandler.CreateLabRequest)
	router.GET("/lab/requests", labHandler.GetAllLabRequests)
	router.GET("/lab/requests/:id", labHandler.GetLabRequestByID)
	router.PUT("/lab/requests/:id/status", labHandler.UpdateLabRequestStatus)
	router.GET("/lab/requests/:id/billing", labHandler.GetLabRequestBilling)
	router.POST("/lab/requests/:id/result", labHandler.CreateLabResult)
	router.GET("/lab/requests/:id/result", labHandler.GetLabResult)

	router.POST("/drugs", pharmacyHandler.CreateDrug)
	router.GET("/drugs", pharmacyHandler.GetAllDrugs)
	router.GET("/drugs/:id", pharmacyHandler.GetDrugByID)
	router.PUT("/drugs/:id", pharmacyHandler.UpdateDrug)
	router.POST("/dispenses", pharmacyHandler.CreateDispense)
	router.GET("/dispenses", pharmacyHandler.GetAllDispenses)
	router.GET("/dispenses/:id", pharmacyHandler.GetDispenseByID)
	router.GET("/audit-logs", pharmacyHandler.GetAuditLogs)

	router.POST("/billings", billingHandler.CreateBilling)
	router.GET("/billings", billingHandler.GetAllBillings)
	router.GET("/billings/search", billingHandler.SearchBillings)
	router.GET("/billings/reports", billingHandler.BillingReports)
	router.GET("/billings/:id", billingHandler.GetBillingByID)
	router.GET("/billings/:id/balance", billingHandler.GetBalance)
	router.POST("/billings/:id/payments", billingHandler.AddPayment)
	router.POST("/billings/:id/mark-paid", billingHandler.MarkPaid)
	router.POST("/billings/:id/cancel", billingHandler.CancelBilling)
	router.DELETE("/payments/:id", billingHandler.DeletePayment)

	router.POST("/users", userHandler.CreateUser)
	router.GET("/users", userHandler.GetAllUsers)
	router.GET("/users/:id", userHandler.GetUserByID)
	router.PUT("/users/:id", userHandler.UpdateUser)
	router.DELETE("/users/:id", userHandler.DeleteUser)
	router.GET("/roles", userHandler.GetRoles)

	router.GET("/reports/operations", reportHandler.GetOperationsReport)
}
