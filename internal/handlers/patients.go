package handlers

import (
	"errors"
	"net/http"

	"patient-records/internal/models"
	"patient-records/internal/service"
	"patient-records/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PatientHandler exposes PatientService over HTTP.
type PatientHandler struct {
	service *service.PatientService
	log     zerolog.Logger
}

func NewPatientHandler(svc *service.PatientService, log zerolog.Logger) *PatientHandler {
	return &PatientHandler{service: svc, log: log}
}

// --- Handler Functions ---

func (h *PatientHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Patient Management System"})
}

func (h *PatientHandler) About(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "A fully functional system to manage the patient records."})
}

func (h *PatientHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PatientHandler) ViewPatients(c *gin.Context) {
	data, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("patient_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *PatientHandler) SortPatients(c *gin.Context) {
	records, err := h.service.Sort(c.Request.Context(), c.Query("sort_by"), c.DefaultQuery("order", "asc"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unable to read request body"})
		return
	}
	patient, err := models.ParsePatient(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), patient); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Patient Created Successfully"})
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unable to read request body"})
		return
	}
	patch, err := models.ParsePatientUpdate(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if _, err := h.service.Update(c.Request.Context(), c.Param("patient_id"), patch); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient Updated Successfully"})
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("patient_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}

func (h *PatientHandler) Stats(c *gin.Context) {
	summary, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// respondError maps service, schema and storage errors to HTTP responses.
func (h *PatientHandler) respondError(c *gin.Context, err error) {
	var (
		verr *models.ValidationError
		iae  *service.InvalidArgumentError
		serr *store.StorageError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": verr.Errors})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Patient Not Found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Patient already exists"})
	case errors.As(err, &iae):
		c.JSON(http.StatusBadRequest, gin.H{"detail": iae.Error()})
	case errors.As(err, &serr):
		_ = c.Error(err)
		h.log.Error().Err(err).Str("op", serr.Op).Msg("Storage failure")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Patient storage is unavailable"})
	default:
		_ = c.Error(err)
		h.log.Error().Err(err).Msg("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
	}
}
