package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core"
	"github.com/ustazbot/myhafiz/core/connection"
	"github.com/ustazbot/myhafiz/core/user"
)

type connectionApi struct {
	svc      connection.ServiceInterface
	usrSvc   user.ServiceInterface
	validate *validator.Validate
}

func registerConnectionAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc connection.ServiceInterface,
	usrSvc user.ServiceInterface,
	validate *validator.Validate,
) {
	api := connectionApi{
		svc:      svc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	cg := g.Group("/connections", jwt)
	cg.GET("", api.list)
	cg.POST("", api.send, roleMiddleware(user.RoleTeacher, user.RoleParent))
	cg.GET("/pending-count", api.pendingCount)
	cg.POST("/:id/accept", api.accept, roleMiddleware(user.RoleStudent))
	cg.POST("/:id/reject", api.reject)
}

// Handlers

func (api *connectionApi) send(ctx echo.Context) error {
	var data connection.NewConnectionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewConnectionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	requester, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	conn, err := api.svc.Send(ctx.Request().Context(), requester, data)
	if err != nil {
		if errors.Cause(err) == connection.ErrNotFound {
			return errHttpForbidden
		}
		return errors.Wrap(err, "sending connection request")
	}
	return ctx.JSON(http.StatusCreated, conn)
}

func (api *connectionApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	conns, err := api.svc.ListForUser(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "listing connections")
	}
	return ctx.JSON(http.StatusOK, conns)
}

// pendingCount backs the notification badge; the frontend polls it.
func (api *connectionApi) pendingCount(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	count := api.svc.PendingCount(ctx.Request().Context(), usr)
	return ctx.JSON(http.StatusOK, PendingCountResponse{Count: count})
}

func (api *connectionApi) accept(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	conn, err := api.svc.Accept(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		switch errors.Cause(err) {
		case connection.ErrNotFound:
			return errHttpNotFound
		case connection.ErrNotPending:
			return core.NewValidationError(connection.ErrNotPending)
		}
		return errors.Wrap(err, "accepting connection request")
	}
	return ctx.JSON(http.StatusOK, conn)
}

func (api *connectionApi) reject(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.Reject(ctx.Request().Context(), usr, ctx.Param("id")); err != nil {
		switch errors.Cause(err) {
		case connection.ErrNotFound:
			return errHttpNotFound
		case connection.ErrNotPending:
			return core.NewValidationError(connection.ErrNotPending)
		}
		return errors.Wrap(err, "rejecting connection request")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type PendingCountResponse struct {
	Count int `json:"count"`
}
