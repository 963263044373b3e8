package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/regwizard/internal/app/models"
	"github.com/yigit/regwizard/internal/app/services"
	"github.com/yigit/regwizard/internal/app/wizard"
	"github.com/yigit/regwizard/internal/pkg/apperrors"
)

// Page actions posted by the wizard form
const (
	ActionNext   = "next"
	ActionBack   = "back"
	ActionSubmit = "submit"
	ActionReset  = "reset"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// PageController renders the registration wizard as HTML
type PageController struct {
	formService *services.FormService
	cookie      CookieConfig
	years       []string
	logger      zerolog.Logger
}

// NewPageController creates a new PageController
func NewPageController(formService *services.FormService, cookie CookieConfig, years []string, logger zerolog.Logger) *PageController {
	return &PageController{
		formService: formService,
		cookie:      cookie,
		years:       years,
		logger:      logger,
	}
}

// FieldView is one input as the template sees it
type FieldView struct {
	Name        models.Field
	Label       string
	Placeholder string
	Type        string
	Value       string
	Error       string
}

// PageData is the template model of the wizard page
type PageData struct {
	Step         int
	Details      []FieldView
	Year         FieldView
	Years        []string
	Passwords    []FieldView
	Notification *models.Notification
	Submission   string
}

// Show renders the wizard for the visitor's session, starting one if needed
func (c *PageController) Show(ctx *gin.Context) {
	issued, err := c.currentOrStart(ctx)
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	c.setCookie(ctx, issued.Token, issued.ExpiresAt)
	c.render(ctx, http.StatusOK, issued.Session, nil)
}

// Post applies the posted field values and the requested action
func (c *PageController) Post(ctx *gin.Context) {
	issued, err := c.currentOrStart(ctx)
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	reqCtx := ctx.Request.Context()

	values := make(map[models.Field]string)
	for _, f := range models.AllFields {
		if v, ok := ctx.GetPostForm(string(f)); ok {
			values[f] = v
		}
	}
	session, err := c.formService.EditMany(reqCtx, issued.Session.ID, values)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	var submitted *models.RegistrationSubmission
	switch action := ctx.PostForm("action"); action {
	case ActionNext:
		session, _, err = c.formService.Next(reqCtx, session.ID)
	case ActionBack:
		session, err = c.formService.Back(reqCtx, session.ID)
	case ActionReset:
		session, err = c.formService.Reset(reqCtx, session.ID)
	case ActionSubmit:
		var res wizard.SubmitResult
		session, res, err = c.formService.Submit(reqCtx, session.ID)
		if err == nil && res.Outcome == models.OutcomeSuccess {
			submitted = res.Submission
		}
	default:
		c.logger.Debug().Str("action", action).Msg("Unknown page action, saving values only")
	}

	if errors.Is(err, apperrors.ErrInvalidStep) {
		c.logger.Warn().Err(err).Msg("Page action not allowed on current step")
		session, err = c.formService.Resolve(reqCtx, issued.Token)
	}
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	if submitted != nil {
		c.clearCookie(ctx)
	} else {
		c.setCookie(ctx, issued.Token, issued.ExpiresAt)
	}
	c.render(ctx, http.StatusOK, session, submitted)
}

// currentOrStart resumes the cookie's session with a renewed token, or starts a
// new session when the cookie is missing or no longer resolves.
func (c *PageController) currentOrStart(ctx *gin.Context) (*services.IssuedSession, error) {
	if token := c.token(ctx); token != "" {
		issued, err := c.formService.Resume(ctx.Request.Context(), token)
		if err == nil {
			return issued, nil
		}
		c.logger.Debug().Err(err).Msg("Session cookie not usable, starting a new session")
	}
	return c.formService.Start(ctx.Request.Context())
}

func (c *PageController) token(ctx *gin.Context) string {
	var token string
	for _, ck := range ctx.Request.Cookies() {
		if ck.Name == c.cookie.Name {
			token = ck.Value
		}
	}
	return token
}

func (c *PageController) setCookie(ctx *gin.Context, token string, expiresAt time.Time) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(time.Until(expiresAt).Seconds())
	ctx.SetCookie(c.cookie.Name, token, maxAge, "/", "", c.cookie.Secure, true)
}

func (c *PageController) clearCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, "", -1, "/", "", c.cookie.Secure, true)
}

func (c *PageController) render(ctx *gin.Context, status int, session *wizard.Session, submitted *models.RegistrationSubmission) {
	data := PageData{
		Step:         int(session.Step),
		Years:        c.years,
		Notification: session.Notice,
	}

	view := func(f models.Field, label, placeholder, typ string) FieldView {
		return FieldView{
			Name:        f,
			Label:       label,
			Placeholder: placeholder,
			Type:        typ,
			Value:       session.Record.Get(f),
			Error:       session.Errors[f],
		}
	}
	data.Details = []FieldView{
		view(models.FieldName, "Username", "Your name", "text"),
		view(models.FieldEmail, "Email", "Email", "text"),
		view(models.FieldStudentID, "Student ID", "Enter Student ID", "text"),
	}
	data.Year = view(models.FieldYear, "School year", "Choose a school year", "select")
	data.Passwords = []FieldView{
		view(models.FieldPassword, "Password", "Enter Password", "password"),
		view(models.FieldConfirmPassword, "Confirm Password", "Confirm Password", "password"),
	}

	if submitted != nil {
		payload, err := json.MarshalIndent(submitted, "", "  ")
		if err != nil {
			c.renderError(ctx, err)
			return
		}
		data.Submission = string(payload)
	}

	ctx.HTML(status, "wizard.tmpl", data)
}

func (c *PageController) renderError(ctx *gin.Context, err error) {
	c.logger.Error().Err(err).Msg("Failed to render registration page")
	ctx.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong. Please reload the page."})
}
