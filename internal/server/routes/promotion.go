package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ngrobisa/artifactory-plugin/internal/auth"
	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/usecase"
	"github.com/samber/do"
)

func RegisterPromotionAPI(injector *do.Injector, e *echo.Echo) {
	g := e.Group("/api/builds/:project/:number")

	// GET is the view chooser: form when idle, progress while running.
	g.GET("/promote", func(c echo.Context) error {
		project, number, err := coordinates(c)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		usecase := do.MustInvoke[usecase.GetPromotionViewUsecase](injector)
		view, err := usecase.Execute(c.Request().Context(), project, number)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, view)
	})

	g.POST("/promote", func(c echo.Context) error {
		project, number, err := coordinates(c)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		var req entity.PromotionRequest
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		usecase := do.MustInvoke[usecase.SubmitPromotionUsecase](injector)
		taskID, err := usecase.Execute(c.Request().Context(), project, number, req, auth.CurrentUser(c))
		if err != nil {
			return respondError(c, err)
		}

		type response struct {
			TaskID string `json:"task_id"`
		}
		return c.JSON(http.StatusAccepted, &response{TaskID: taskID})
	})

	g.GET("/promote/log", func(c echo.Context) error {
		project, number, err := coordinates(c)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		usecase := do.MustInvoke[usecase.GetPromotionLogUsecase](injector)
		log, err := usecase.Execute(c.Request().Context(), project, number)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, log)
	})
}

func coordinates(c echo.Context) (string, int, error) {
	project := c.Param("project")
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || project == "" || number <= 0 {
		return "", 0, entity.ErrInvalid
	}
	return project, number, nil
}

func respondError(c echo.Context, err error) error {
	type body struct {
		Error string `json:"error"`
	}
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return c.JSON(http.StatusNotFound, &body{Error: err.Error()})
	case errors.Is(err, entity.ErrInvalid):
		return c.JSON(http.StatusBadRequest, &body{Error: err.Error()})
	case errors.Is(err, entity.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, &body{Error: err.Error()})
	case errors.Is(err, entity.ErrAlreadyInProgress), errors.Is(err, entity.ErrConflict):
		return c.JSON(http.StatusConflict, &body{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, &body{Error: err.Error()})
	}
}
