package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/floorbook/goapi/base/ctx"
	"github.com/floorbook/goapi/base/delivery"
	"github.com/floorbook/goapi/domain"
	"github.com/floorbook/goapi/domain/order"
)

type handler struct {
	saver order.Saver
	order order.Repo
}

func New(e *echo.Echo, saver order.Saver, orderRepo order.Repo) {
	h := &handler{
		saver: saver,
		order: orderRepo,
	}

	g := e.Group("/orders")
	g.POST("", h.postOrders)
	g.GET("", h.getOrders)
	g.GET("/:chainId/:orderId", h.getOrder)
}

func (h *handler) postOrders(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Items []*order.Info `json:"items" validate:"required,min=1,max=50"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	results, err := h.saver.Save(ctx, p.Items)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, results)
}

func (h *handler) getOrder(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId domain.ChainId   `param:"chainId" validate:"required"`
		OrderId domain.OrderHash `param:"orderId" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.order.FindOne(ctx, order.Id{ChainId: p.ChainId, Id: p.OrderId.ToLower()})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getOrders(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  domain.ChainId    `query:"chainId" validate:"required"`
		Maker    domain.Address    `query:"maker"`
		Contract domain.Address    `query:"contract"`
		Side     order.Side        `query:"side"`
		Status   string            `query:"status"`
		TokenSet domain.TokenSetId `query:"tokenSetId"`
		Offset   int32             `query:"offset"`
		Limit    int32             `query:"limit" validate:"max=100"`
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

	opts := []order.FindAllOptionsFunc{
		order.WithChainId(p.ChainId),
		order.WithPagination(p.Offset, p.Limit),
		order.WithSort("-createdAt"),
	}
	if !p.Maker.IsEmpty() {
		opts = append(opts, order.WithMaker(p.Maker.ToLower()))
	}
	if !p.Contract.IsEmpty() {
		opts = append(opts, order.WithContract(p.Contract.ToLower()))
	}
	if p.Side != "" {
		opts = append(opts, order.WithSide(p.Side))
	}
	if p.Status != "" {
		opts = append(opts, order.WithFillabilityStatus(order.FillabilityStatus(p.Status)))
	}
	if p.TokenSet != "" {
		opts = append(opts, order.WithTokenSetId(p.TokenSet))
	}

	res, err := h.order.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
