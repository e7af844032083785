package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"citizen-portal/internal/http/middleware"
	"citizen-portal/internal/model"
	"citizen-portal/internal/service"
)

type Handler struct {
	feedbackService  *service.FeedbackService
	catalogService   *service.CatalogService
	directoryService *service.DirectoryService
	log              zerolog.Logger
}

func NewHandler(
	feedbackService *service.FeedbackService,
	catalogService *service.CatalogService,
	directoryService *service.DirectoryService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		feedbackService:  feedbackService,
		catalogService:   catalogService,
		directoryService: directoryService,
		log:              log,
	}
}

// submitFeedback accepts the multipart complaint form: text fields plus
// 0..N file parts under "images". On success the response carries the
// tracking code — the citizen's durable receipt.
func (h *Handler) submitFeedback(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid multipart form"))
		return
	}

	input := service.SubmitFeedbackInput{
		Name:        formValue(form, "name"),
		IsAnonymous: parseBool(formValue(form, "is_anonymous")),
		Phone:       formValue(form, "phone"),
		Email:       formValue(form, "email"),
		Title:       formValue(form, "title"),
		Content:     formValue(form, "content"),
		Address:     formValue(form, "address"),
	}

	if raw := formValue(form, "category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid category"))
			return
		}
		categoryID := uint(id)
		input.CategoryID = &categoryID
	}
	if raw := formValue(form, "priority"); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid priority"))
			return
		}
		input.Priority = priority
	}
	if raw := formValue(form, "latitude"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid latitude"))
			return
		}
		input.Latitude = &lat
	}
	if raw := formValue(form, "longitude"); raw != "" {
		lng, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid longitude"))
			return
		}
		input.Longitude = &lng
	}

	for _, header := range form.File["images"] {
		input.Images = append(input.Images, imageInput(header))
	}

	record, err := h.feedbackService.Submit(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{
		"tracking_code": record.Feedback.TrackingCode,
		"feedback":      record,
	}))
}

func imageInput(header *multipart.FileHeader) service.ImageInput {
	return service.ImageInput{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func (h *Handler) trackFeedback(c *gin.Context) {
	record, err := h.feedbackService.Track(c.Request.Context(), c.Query("tracking_code"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) listFeedback(c *gin.Context) {
	opts, err := parseFeedbackQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	records, err := h.feedbackService.List(c.Request.Context(), opts)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": records}))
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.feedbackService.ListCategories(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": categories}))
}

func (h *Handler) listServices(c *gin.Context) {
	opts := service.SearchServicesOptions{
		Title:        strings.TrimSpace(c.Query("title")),
		PublicSector: strings.TrimSpace(c.Query("public_sector")),
		Department:   strings.TrimSpace(c.Query("department")),
	}
	if raw := strings.TrimSpace(c.Query("service_level")); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid service_level"))
			return
		}
		opts.ServiceLevel = &level
	}
	if raw := strings.TrimSpace(c.Query("jurisdiction")); raw != "" {
		jurisdiction := model.Jurisdiction(strings.ToLower(raw))
		opts.Jurisdiction = &jurisdiction
	}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			opts.Page = page
		}
	}

	page, err := h.catalogService.Search(c.Request.Context(), opts)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(page))
}

func (h *Handler) getService(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid service id"))
		return
	}
	detail, err := h.catalogService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(detail))
}

func (h *Handler) listContacts(c *gin.Context) {
	opts := service.ListDirectoryOptions{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		deptType := model.DepartmentType(raw)
		opts.Type = &deptType
	}

	listing, err := h.directoryService.List(c.Request.Context(), opts)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(listing))
}

func (h *Handler) getDepartment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid department id"))
		return
	}
	record, err := h.directoryService.GetDepartment(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) listEmergencyContacts(c *gin.Context) {
	groups, err := h.directoryService.EmergencyGroups(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"groups": groups}))
}

func (h *Handler) updateFeedbackStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid feedback id"))
		return
	}

	var req struct {
		Status    string  `json:"status" binding:"required"`
		AdminNote *string `json:"admin_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	status := model.FeedbackStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	record, err := h.feedbackService.UpdateStatus(c.Request.Context(), id, status, req.AdminNote)
	if err != nil {
		h.handleError(c, err)
		return
	}

	adminID, _ := middleware.AdminUser(c)
	h.log.Info().
		Str("admin", adminID).
		Uint("feedback_id", id).
		Str("status", string(status)).
		Msg("feedback status updated")

	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) bulkFeedbackStatus(c *gin.Context) {
	var req struct {
		IDs        []uint  `json:"ids"`
		CategoryID *uint   `json:"category_id"`
		Status     *string `json:"status"`
		Priority   *int    `json:"priority"`
		Target     string  `json:"target_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.BulkStatusInput{
		IDs:        req.IDs,
		CategoryID: req.CategoryID,
		Priority:   req.Priority,
		Target:     model.FeedbackStatus(strings.ToLower(strings.TrimSpace(req.Target))),
	}
	if req.Status != nil {
		status := model.FeedbackStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		input.Status = &status
	}

	updated, err := h.feedbackService.BulkUpdateStatus(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	adminID, _ := middleware.AdminUser(c)
	h.log.Info().
		Str("admin", adminID).
		Int64("updated", updated).
		Str("status", string(input.Target)).
		Msg("feedback statuses updated")

	c.JSON(http.StatusOK, successResponse(gin.H{"updated": updated}))
}

func (h *Handler) createCategory(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		Description   string `json:"description"`
		PriorityLevel int    `json:"priority_level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	category, err := h.feedbackService.CreateCategory(c.Request.Context(), service.CreateCategoryInput{
		Name:          req.Name,
		Description:   req.Description,
		PriorityLevel: req.PriorityLevel,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(category))
}

type serviceRequest struct {
	Title             string `json:"title" binding:"required"`
	PublicSector      string `json:"public_sector" binding:"required"`
	Department        string `json:"department" binding:"required"`
	Jurisdiction      string `json:"jurisdiction"`
	ServiceLevel      int    `json:"service_level"`
	Description       string `json:"description"`
	LegalBasis        string `json:"legal_basis"`
	ProcedureSteps    string `json:"procedure_steps"`
	ProcessingTime    string `json:"processing_time"`
	Fee               string `json:"fee"`
	RequiredDocuments string `json:"required_documents"`
	ContactInfo       string `json:"contact_info"`
}

func (r serviceRequest) toInput() service.ServiceInput {
	return service.ServiceInput{
		Title:             r.Title,
		PublicSector:      r.PublicSector,
		Department:        r.Department,
		Jurisdiction:      model.Jurisdiction(strings.ToLower(strings.TrimSpace(r.Jurisdiction))),
		ServiceLevel:      r.ServiceLevel,
		Description:       r.Description,
		LegalBasis:        r.LegalBasis,
		ProcedureSteps:    r.ProcedureSteps,
		ProcessingTime:    r.ProcessingTime,
		Fee:               r.Fee,
		RequiredDocuments: r.RequiredDocuments,
		ContactInfo:       r.ContactInfo,
	}
}

func (h *Handler) createService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	created, err := h.catalogService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(created))
}

func (h *Handler) updateService(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid service id"))
		return
	}
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	updated, err := h.catalogService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(updated))
}

type departmentRequest struct {
	Name           string `json:"name" binding:"required"`
	DepartmentType string `json:"department_type"`
	Description    string `json:"description"`
	Address        string `json:"address" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Hotline        string `json:"hotline"`
	Email          string `json:"email"`
	Fax            string `json:"fax"`
	WorkingHours   string `json:"working_hours"`
	Website        string `json:"website"`
	MapEmbed       string `json:"map_embed"`
	DisplayOrder   int    `json:"display_order"`
	IsActive       *bool  `json:"is_active"`
}

func (r departmentRequest) toInput() service.DepartmentInput {
	return service.DepartmentInput{
		Name:           r.Name,
		DepartmentType: model.DepartmentType(strings.TrimSpace(r.DepartmentType)),
		Description:    r.Description,
		Address:        r.Address,
		Phone:          r.Phone,
		Hotline:        r.Hotline,
		Email:          r.Email,
		Fax:            r.Fax,
		WorkingHours:   r.WorkingHours,
		Website:        r.Website,
		MapEmbed:       r.MapEmbed,
		DisplayOrder:   r.DisplayOrder,
		IsActive:       r.IsActive,
	}
}

func (h *Handler) createDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	created, err := h.directoryService.CreateDepartment(c.Request.Context(), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(created))
}

func (h *Handler) updateDepartment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid department id"))
		return
	}
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	updated, err := h.directoryService.UpdateDepartment(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(updated))
}

func (h *Handler) createContact(c *gin.Context) {
	departmentID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid department id"))
		return
	}
	var req struct {
		FullName       string `json:"full_name" binding:"required"`
		Position       string `json:"position" binding:"required"`
		PositionCustom string `json:"position_custom"`
		Phone          string `json:"phone" binding:"required"`
		Mobile         string `json:"mobile"`
		Email          string `json:"email"`
		DisplayOrder   int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	created, err := h.directoryService.CreateContact(c.Request.Context(), departmentID, service.ContactPersonInput{
		FullName:       req.FullName,
		Position:       model.ContactPosition(strings.TrimSpace(req.Position)),
		PositionCustom: req.PositionCustom,
		Phone:          req.Phone,
		Mobile:         req.Mobile,
		Email:          req.Email,
		DisplayOrder:   req.DisplayOrder,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(created))
}

func (h *Handler) createEmergencyContact(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		EmergencyType string `json:"emergency_type" binding:"required"`
		Phone         string `json:"phone" binding:"required"`
		Description   string `json:"description"`
		DisplayOrder  int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	created, err := h.directoryService.CreateEmergencyContact(c.Request.Context(), service.EmergencyContactInput{
		Name:          req.Name,
		EmergencyType: model.EmergencyType(strings.TrimSpace(req.EmergencyType)),
		Phone:         req.Phone,
		Description:   req.Description,
		DisplayOrder:  req.DisplayOrder,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(created))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseFeedbackQuery(c *gin.Context) (service.ListFeedbackOptions, error) {
	var opts service.ListFeedbackOptions

	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return opts, err
		}
		categoryID := uint(id)
		opts.CategoryID = &categoryID
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := model.FeedbackStatus(strings.ToLower(raw))
		opts.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("priority")); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil {
			return opts, err
		}
		opts.Priority = &priority
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			opts.Limit = v
		}
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			opts.Offset = v
		}
	}
	return opts, nil
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
