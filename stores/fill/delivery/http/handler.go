package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/delivery"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/fill"
)

type handler struct {
	fill fill.Repo
}

func New(e *echo.Echo, fillRepo fill.Repo) {
	h := &handler{
		fill: fillRepo,
	}

	g := e.Group("/sales")
	g.GET("", h.getSales)
}

func (h *handler) getSales(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  domain.ChainId   `query:"chainId" validate:"required"`
		Contract domain.Address   `query:"contract"`
		OrderId  domain.OrderHash `query:"orderId"`
		TxHash   domain.TxHash    `query:"txHash"`
		Offset   int32            `query:"offset"`
		Limit    int32            `query:"limit" validate:"max=100"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if p.Limit == 0 {
		p.Limit = 20
	}

	opts := []fill.FindAllOptionsFunc{
		fill.WithChainId(p.ChainId),
		fill.WithPagination(p.Offset, p.Limit),
		fill.WithSort("-timestamp"),
	}
	if !p.Contract.IsEmpty() {
		opts = append(opts, fill.WithContract(p.Contract))
	}
	if p.OrderId != "" {
		opts = append(opts, fill.WithOrderId(p.OrderId))
	}
	if p.TxHash != "" {
		opts = append(opts, fill.WithTxHash(p.TxHash))
	}

	res, err := h.fill.FindAllEvents(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
