package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/delivery"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/token"
	"github.com/floorbook/goapi/middleware"
)

type handler struct {
	token token.Repo
}

func New(e *echo.Echo, tokenRepo token.Repo) {
	h := &handler{
		token: tokenRepo,
	}

	g := e.Group("/tokens")
	g.GET("/:chainId/:contract/:tokenId", h.getToken, middleware.IsValidAddress("contract"))
}

func (h *handler) getToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  domain.ChainId `param:"chainId" validate:"required"`
		Contract domain.Address `param:"contract" validate:"required"`
		TokenId  domain.TokenId `param:"tokenId" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.token.FindOne(ctx, token.Id{
		ChainId:  p.ChainId,
		Contract: p.Contract.ToLower(),
		TokenId:  p.TokenId,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
