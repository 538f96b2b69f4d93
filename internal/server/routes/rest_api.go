package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/usecase"
	"github.com/samber/do"
)

func RegisterRestAPI(injector *do.Injector, e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	g.POST("/builds", func(c echo.Context) error {
		type request struct {
			Project  string `json:"project"`
			Number   int    `json:"number"`
			ServerID string `json:"server_id"`
		}
		var req request
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		usecase := do.MustInvoke[usecase.RegisterBuildUsecase](injector)
		build, err := usecase.Execute(c.Request().Context(), &entity.Build{
			Project:  req.Project,
			Number:   req.Number,
			ServerID: req.ServerID,
		})
		if err != nil {
			if err == entity.ErrInvalid {
				return c.NoContent(http.StatusBadRequest)
			}
			if err == entity.ErrConflict {
				return c.NoContent(http.StatusConflict)
			}
			return c.NoContent(http.StatusInternalServerError)
		}

		return c.JSON(http.StatusCreated, build)
	})
	g.GET("/builds", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.ListBuildsUsecase](injector)
		builds, err := usecase.Execute(c.Request().Context())
		if err != nil {
			return c.NoContent(http.StatusInternalServerError)
		}

		type response struct {
			Builds []*entity.Build `json:"builds"`
		}

		result := &response{Builds: make([]*entity.Build, len(builds))}
		copy(result.Builds, builds)

		return c.JSON(http.StatusOK, result)
	})
}
