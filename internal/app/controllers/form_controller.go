// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/regwizard/internal/app/models"
	"github.com/yigit/regwizard/internal/app/models/dto"
	"github.com/yigit/regwizard/internal/app/services"
	"github.com/yigit/regwizard/internal/app/wizard"
	"github.com/yigit/regwizard/internal/middleware"
	"github.com/yigit/regwizard/internal/pkg/apperrors"
)

// FormController exposes the registration wizard as a JSON API
type FormController struct {
	formService *services.FormService
	logger      zerolog.Logger
}

// NewFormController creates a new FormController
func NewFormController(formService *services.FormService, logger zerolog.Logger) *FormController {
	return &FormController{
		formService: formService,
		logger:      logger,
	}
}

// Validate checks a standalone record against the schema
// @Router /validate [post]
func (c *FormController) Validate(ctx *gin.Context) {
	req, ok := middleware.ValidatedBody[dto.ValidateRequest](ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrBadRequest)
		return
	}

	res := c.formService.ValidateRecord(req.ToModel())
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewValidateResponse(res)})
}

// CreateSession starts a new form session
// @Router /sessions [post]
func (c *FormController) CreateSession(ctx *gin.Context) {
	started, err := c.formService.Start(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to start form session")
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewSessionResponse(started.Session)
	resp.Token = started.Token
	resp.ExpiresAt = &started.ExpiresAt
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// GetSession returns the current state of a session
// @Router /sessions/{token} [get]
func (c *FormController) GetSession(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.view(ctx, session)})
}

// EditField applies a single field edit
// @Router /sessions/{token}/fields [patch]
func (c *FormController) EditField(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}
	req, ok := middleware.ValidatedBody[dto.EditFieldRequest](ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrBadRequest)
		return
	}

	field, known := models.ParseField(req.Field)
	if !known {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrUnknownField, "Unknown form field: "+req.Field))
		return
	}

	updated, res, err := c.formService.Edit(ctx.Request.Context(), session.ID, field, req.Value)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.EditFieldResponse{
		Field:   field,
		Result:  res,
		Session: c.view(ctx, updated),
	}})
}

// Next attempts to move to the password step. A refusal is a 200 with advanced=false.
// @Router /sessions/{token}/next [post]
func (c *FormController) Next(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	updated, res, err := c.formService.Next(ctx.Request.Context(), session.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NextResponse{
		Advanced: res.Advanced,
		Fields:   res.Fields,
		Session:  c.view(ctx, updated),
	}})
}

// Back returns to the details step
// @Router /sessions/{token}/back [post]
func (c *FormController) Back(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	updated, err := c.formService.Back(ctx.Request.Context(), session.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.view(ctx, updated)})
}

// Submit submits the form. Schema and mismatch rejections are 422 with the outcome in the body.
// @Router /sessions/{token}/submit [post]
func (c *FormController) Submit(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	updated, res, err := c.formService.Submit(ctx.Request.Context(), session.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusUnprocessableEntity
	view := c.view(ctx, updated)
	if res.Outcome == models.OutcomeSuccess {
		// The session is gone; its token no longer addresses anything.
		status = http.StatusOK
		view = dto.NewSessionResponse(updated)
		ctx.Writer.Header().Del(middleware.SessionTokenHeader)
		ctx.Writer.Header().Del(middleware.SessionExpiresHeader)
	}
	ctx.JSON(status, dto.APIResponse{Data: dto.SubmitResponse{
		Outcome:      res.Outcome,
		Fields:       res.Fields,
		Notification: res.Notification,
		Submission:   res.Submission,
		Session:      view,
	}})
}

// Reset starts the session over
// @Router /sessions/{token}/reset [post]
func (c *FormController) Reset(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	updated, err := c.formService.Reset(ctx.Request.Context(), session.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.view(ctx, updated)})
}

// view renders a session together with the token renewed for this request
func (c *FormController) view(ctx *gin.Context, session *wizard.Session) dto.SessionResponse {
	resp := dto.NewSessionResponse(session)
	if issued, ok := middleware.CurrentIssue(ctx); ok {
		resp.Token = issued.Token
		expiresAt := issued.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

func (c *FormController) session(ctx *gin.Context) (*wizard.Session, bool) {
	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrSessionNotFound)
		return nil, false
	}
	return session, true
}
