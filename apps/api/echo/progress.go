package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core/connection"
	"github.com/ustazbot/myhafiz/core/progress"
	"github.com/ustazbot/myhafiz/core/user"
)

type progressApi struct {
	svc     progress.ServiceInterface
	connSvc connection.ServiceInterface
	usrSvc  user.ServiceInterface
}

func registerProgressAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc progress.ServiceInterface,
	connSvc connection.ServiceInterface,
	usrSvc user.ServiceInterface,
) {
	api := progressApi{
		svc:     svc,
		connSvc: connSvc,
		usrSvc:  usrSvc,
	}

	pg := g.Group("/progress", jwt)
	pg.POST("/surahs/:n/ayahs/:a/toggle", api.toggle, roleMiddleware(user.RoleStudent))

	// reads restricted to self and connected teachers/parents
	dg := pg.Group("/:userID", api.canViewMiddleware())
	dg.GET("", api.list)
	dg.GET("/summary", api.summary)
	dg.GET("/surahs/:n", api.retrieveSurah)
}

func (api *progressApi) canViewMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			viewer, err := getContextUser(ctx, api.usrSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			ok, err := api.connSvc.CanViewProgress(ctx.Request().Context(), viewer, ctx.Param("userID"))
			if err != nil {
				return errors.Wrap(err, "checking progress visibility")
			}
			if !ok {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

// Handlers

func (api *progressApi) toggle(ctx echo.Context) error {
	surahNumber, err := strconv.Atoi(ctx.Param("n"))
	if err != nil {
		return errHttpNotFound
	}
	ayah, err := strconv.Atoi(ctx.Param("a"))
	if err != nil {
		return errHttpNotFound
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	memorized, err := api.svc.Toggle(ctx.Request().Context(), usr.ID, surahNumber, ayah)
	if err != nil {
		return errors.Wrap(err, "toggling ayah")
	}
	return ctx.JSON(http.StatusOK, SurahProgressResponse{
		SurahNumber:    surahNumber,
		MemorizedAyahs: memorized,
		TotalAyahs:     progress.SurahTotalAyahs(surahNumber),
	})
}

func (api *progressApi) list(ctx echo.Context) error {
	recs := api.svc.GetUserProgress(ctx.Request().Context(), ctx.Param("userID"))
	return ctx.JSON(http.StatusOK, recs)
}

func (api *progressApi) summary(ctx echo.Context) error {
	summary := api.svc.Summarize(ctx.Request().Context(), ctx.Param("userID"))
	return ctx.JSON(http.StatusOK, summary)
}

func (api *progressApi) retrieveSurah(ctx echo.Context) error {
	surahNumber, err := strconv.Atoi(ctx.Param("n"))
	if err != nil {
		return errHttpNotFound
	}

	memorized, err := api.svc.GetMemorizedAyahs(ctx.Request().Context(), ctx.Param("userID"), surahNumber)
	if err != nil {
		return errors.Wrap(err, "getting memorized ayahs")
	}
	return ctx.JSON(http.StatusOK, SurahProgressResponse{
		SurahNumber:    surahNumber,
		MemorizedAyahs: memorized,
		TotalAyahs:     progress.SurahTotalAyahs(surahNumber),
	})
}

type SurahProgressResponse struct {
	SurahNumber    int   `json:"surah_number"`
	MemorizedAyahs []int `json:"memorized_ayahs"`
	TotalAyahs     int   `json:"total_ayahs"`
}
