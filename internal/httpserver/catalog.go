package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hoversale/internal/catalog"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/internal/transport"
	"github.com/Skotchmaster/hoversale/internal/util"
	"github.com/Skotchmaster/hoversale/pkg/logging"
)

type CatalogHTTP struct {
	Svc    *catalog.CatalogService
	Orders *orders.Store
}

func pageParams(c echo.Context) (offset, limit int) {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	return util.Calculate(page, size)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	offset, limit := pageParams(c)
	total, items, err := h.Svc.GetProducts(ctx, offset, limit)
	if err != nil {
		return respondError(c, l, "get_products_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": items})
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	offset, limit := pageParams(c)
	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return respondError(c, l, "search_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": items})
}

func (h *CatalogHTTP) ByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.by_category")

	items, err := h.Svc.GetByCategory(ctx, c.Param("category"))
	if err != nil {
		return respondError(c, l, "by_category_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.categories")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return respondError(c, l, "categories_error", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "create_category_error", "invalid body", err)
	}
	cat, err := h.Svc.CreateCategory(ctx, req.Name)
	if err != nil {
		return respondError(c, l, "create_category_error", err)
	}
	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func productInput(req transport.ProductRequest) catalog.ProductInput {
	return catalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "create_product_error", "invalid body", err)
	}
	p, err := h.Svc.CreateProduct(ctx, productInput(req))
	if err != nil {
		return respondError(c, l, "create_product_error", err)
	}
	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Product added", "id": p.ID})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, l, "update_product_error", "invalid id", err)
	}
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "update_product_error", "invalid body", err)
	}
	p, err := h.Svc.UpdateProduct(ctx, id, productInput(req))
	if err != nil {
		return respondError(c, l, "update_product_error", err)
	}
	l.Info("update_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, l, "delete_product_error", "invalid id", err)
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return respondError(c, l, "delete_product_error", err)
	}
	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}

func (h *CatalogHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	products, err := h.Svc.Count(ctx)
	if err != nil {
		return respondError(c, l, "dashboard_error", err)
	}
	sum, err := h.Orders.Summary(ctx)
	if err != nil {
		return respondError(c, l, "dashboard_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users":    sum.Customers,
		"products": products,
		"orders":   sum.Orders,
		"revenue":  sum.Revenue,
	})
}

func (h *CatalogHTTP) LowStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.low_stock")

	items, err := h.Svc.LowStock(ctx)
	if err != nil {
		return respondError(c, l, "low_stock_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) OutOfStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.out_of_stock")

	items, err := h.Svc.OutOfStock(ctx)
	if err != nil {
		return respondError(c, l, "out_of_stock_error", err)
	}
	return c.JSON(http.StatusOK, items)
}
