package controllers

import (
	"net/http"

	"piercing-studio-site/models"
	"piercing-studio-site/services"
	"piercing-studio-site/utils"

	"github.com/gin-gonic/gin"
)

type SelectTabInput struct {
	Tab string `json:"tab" binding:"required"`
}

type UpdateFieldInput struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// GetView returns the visitor's derived page as JSON.
func (s *SiteController) GetView(c *gin.Context) {
	var view models.View
	if ok, _ := s.withSession(c, func(vc *services.ViewController) error {
		view = vc.View()
		return nil
	}); !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *SiteController) APISelectTab(c *gin.Context) {
	var input SelectTabInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	tab, err := models.ParseTab(input.Tab)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var view models.View
	if ok, _ := s.withSession(c, func(vc *services.ViewController) error {
		vc.SelectTab(tab)
		view = vc.View()
		return nil
	}); !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *SiteController) APIUpdateField(c *gin.Context) {
	var input UpdateFieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var view models.View
	ok, fnErr := s.withSession(c, func(vc *services.ViewController) error {
		if err := vc.UpdateField(input.Field, input.Value); err != nil {
			return err
		}
		view = vc.View()
		return nil
	})
	if !ok {
		return
	}
	if fnErr != nil {
		utils.RespondWithError(c, http.StatusBadRequest, fnErr.Error())
		return
	}
	c.JSON(http.StatusOK, view)
}

// APISubmit submits the current form. Missing required inputs are
// reported with 422 and nothing is sent upstream.
func (s *SiteController) APISubmit(c *gin.Context) {
	var (
		view     models.View
		problems []models.FieldError
	)
	if ok, _ := s.withSession(c, func(vc *services.ViewController) error {
		problems = vc.Submit(c.Request.Context())
		view = vc.View()
		return nil
	}); !ok {
		return
	}
	if len(problems) > 0 {
		utils.RespondWithValidation(c, http.StatusUnprocessableEntity, problems)
		return
	}
	c.JSON(http.StatusOK, view)
}
