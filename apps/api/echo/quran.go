package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core/quran"
)

type quranApi struct {
	client quran.ClientInterface
}

func registerQuranAPI(g *echo.Group, jwt echo.MiddlewareFunc, client quran.ClientInterface) {
	api := quranApi{client: client}

	qg := g.Group("/quran", jwt)
	qg.GET("/chapters", api.chapters)
	qg.GET("/chapters/:id/verses", api.verses)
	qg.GET("/chapters/:id/audio", api.audio)
	qg.GET("/reciters", api.reciters)
}

// Handlers

func (api *quranApi) chapters(ctx echo.Context) error {
	chapters, err := api.client.FetchChapters(ctx.Request().Context())
	if err != nil {
		return quranErr(err)
	}
	return ctx.JSON(http.StatusOK, chapters)
}

func (api *quranApi) verses(ctx echo.Context) error {
	chapterID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	verses, err := api.client.FetchVerses(ctx.Request().Context(), chapterID)
	if err != nil {
		return quranErr(err)
	}
	return ctx.JSON(http.StatusOK, verses)
}

func (api *quranApi) audio(ctx echo.Context) error {
	chapterID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	reciterID, _ := strconv.Atoi(ctx.QueryParam("reciter"))

	audio, err := api.client.FetchAudio(ctx.Request().Context(), reciterID, chapterID)
	if err != nil {
		return quranErr(err)
	}
	return ctx.JSON(http.StatusOK, audio)
}

func (api *quranApi) reciters(ctx echo.Context) error {
	reciters, err := api.client.FetchReciters(ctx.Request().Context())
	if err != nil {
		return quranErr(err)
	}
	return ctx.JSON(http.StatusOK, reciters)
}

// quranErr maps provider exhaustion to a bad gateway; both providers failed.
func quranErr(err error) error {
	if errors.Cause(err) == quran.ErrUnavailable {
		return errContentUnavailable
	}
	return errors.Wrap(err, "fetching quran content")
}
