package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ustazbot/myhafiz/core/i18n"
)

type i18nApi struct {
	translators *i18n.Translators
}

func registerI18nAPI(g *echo.Group, translators *i18n.Translators) {
	api := i18nApi{translators: translators}

	// public; the frontend loads its catalog before login
	g.GET("/i18n/:lang", api.catalog)
}

func (api *i18nApi) catalog(ctx echo.Context) error {
	lang := ctx.Param("lang")
	return ctx.JSON(http.StatusOK, CatalogResponse{
		Language: i18n.Resolve(lang),
		Catalog:  api.translators.Catalog(lang),
	})
}

type CatalogResponse struct {
	Language string            `json:"language"`
	Catalog  map[string]string `json:"catalog"`
}
