package controllers

import (
	"context"
	"errors"
	"net/http"

	"piercing-studio-site/models"
	"piercing-studio-site/services"
	"piercing-studio-site/templates"
	"piercing-studio-site/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SiteController serves the page and its JSON view API. Every handler
// runs its work against the visitor's ViewController.
type SiteController struct {
	Sessions *services.SessionManager
	Tokens   *utils.SessionTokens
	Logger   *zap.Logger
}

// withSession runs fn against the visitor's session and refreshes the
// cookie. It responds with 500 and returns false if the session could not
// be loaded or saved.
func (s *SiteController) withSession(c *gin.Context, fn func(vc *services.ViewController) error) (bool, error) {
	var fnErr error
	id, err := s.Sessions.Do(c.Request.Context(), utils.SessionID(c), func(vc *services.ViewController) error {
		fnErr = fn(vc)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.Abort()
			return false, nil
		}
		s.Logger.Error("session operation failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Session unavailable")
		return false, nil
	}
	if err := utils.SetSessionCookie(c, s.Tokens, id); err != nil {
		s.Logger.Error("failed to issue session cookie", zap.Error(err))
	}
	return true, fnErr
}

func (s *SiteController) renderPage(c *gin.Context, status int, view models.View) {
	c.HTML(status, templates.Page, gin.H{"View": view})
}

// Page renders the visitor's page. ?tab= selects a tab first.
func (s *SiteController) Page(c *gin.Context) {
	var tab models.Tab
	if raw := c.Query("tab"); raw != "" {
		parsed, err := models.ParseTab(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		tab = parsed
	}

	var view models.View
	if ok, _ := s.withSession(c, func(vc *services.ViewController) error {
		if tab != "" {
			vc.SelectTab(tab)
		}
		view = vc.View()
		return nil
	}); !ok {
		return
	}
	s.renderPage(c, http.StatusOK, view)
}

// SelectTab handles the header buttons.
func (s *SiteController) SelectTab(c *gin.Context) {
	tab, err := models.ParseTab(c.Param("tab"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if ok, _ := s.withSession(c, func(vc *services.ViewController) error {
		vc.SelectTab(tab)
		return nil
	}); !ok {
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// SubmitReleaseForm applies a posted release form and submits it. An
// unchecked checkbox is not posted at all, so it is written as false.
// Values that cannot be applied are shown as field errors and nothing is
// sent.
func (s *SiteController) SubmitReleaseForm(c *gin.Context) {
	var (
		view     models.View
		problems []models.FieldError
	)
	if ok, _ := s.withSession(c, func(vc *services.ViewController) error {
		vc.SelectTab(models.TabReleaseForm)
		for _, field := range models.FormFields {
			value, posted := c.GetPostForm(field)
			if !posted {
				if !isCheckbox(field) {
					continue
				}
				value = "false"
			}
			if err := vc.UpdateField(field, value); err != nil {
				problems = append(problems, inputProblem(field, err))
			}
		}
		if len(problems) > 0 {
			vc.RejectInput(problems)
		} else {
			problems = vc.Submit(c.Request.Context())
		}
		view = vc.View()
		return nil
	}); !ok {
		return
	}

	status := http.StatusOK
	if len(problems) > 0 {
		status = http.StatusUnprocessableEntity
	}
	s.renderPage(c, status, view)
}

func inputProblem(field string, err error) models.FieldError {
	if errors.Is(err, models.ErrInvalidJewelry) {
		return models.FieldError{Field: field, Message: "Please choose one of the listed jewelry options"}
	}
	return models.FieldError{Field: field, Message: "Invalid value"}
}

func isCheckbox(field string) bool {
	for _, f := range models.CheckboxFields {
		if f == field {
			return true
		}
	}
	return false
}
