package api

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/example/footwear-wholesale/domain/product"
	"github.com/example/footwear-wholesale/modules/orders"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var errUploadsDisabled = errors.New("uploads are disabled")

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/sitemap.xml", m.sitemap)

	api := app.Group("/api")

	products := api.Group("/products")
	products.Get("/", m.listProducts)
	products.Post("/", m.createProduct)
	products.Get("/:id", m.getProduct)
	products.Put("/:id", m.updateProduct)
	products.Patch("/:id", m.updateProduct)
	products.Delete("/:id", m.deleteProduct)

	api.Post("/orders", m.placeOrder)
	api.Post("/quick-order", m.quickOrder)
	api.Post("/upload", m.upload)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status:  "healthy",
		Modules: make(map[string]ModuleHealth, len(m.checks)),
	}
	for name, module := range m.checks {
		h := module.Health(c.Context())
		resp.Modules[name] = ModuleHealth{
			Healthy: h.Healthy,
			Message: h.Message,
			Details: h.Details,
		}
		if !h.Healthy {
			resp.Status = "degraded"
		}
	}

	status := fiber.StatusOK
	if resp.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}

// listProducts handles GET /api/products.
func (m *Module) listProducts(c *fiber.Ctx) error {
	products, err := m.catalog.ListProducts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// getProduct handles GET /api/products/:id.
// An unknown id is reported like any other failure.
func (m *Module) getProduct(c *fiber.Ctx) error {
	p, err := m.catalog.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// createProduct handles POST /api/products.
func (m *Module) createProduct(c *fiber.Ctx) error {
	var fields product.Fields
	if err := c.BodyParser(&fields); err != nil {
		return fiber.ErrBadRequest
	}

	p, err := m.catalog.CreateProduct(c.Context(), &fields)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// updateProduct handles PUT and PATCH /api/products/:id. Both are partial.
func (m *Module) updateProduct(c *fiber.Ctx) error {
	var patch product.Patch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.ErrBadRequest
	}

	p, err := m.catalog.UpdateProduct(c.Context(), c.Params("id"), &patch)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// deleteProduct handles DELETE /api/products/:id.
func (m *Module) deleteProduct(c *fiber.Ctx) error {
	if err := m.catalog.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(SuccessResponse{Success: true})
}

// placeOrder handles POST /api/orders.
// The order is acknowledged even when the orders service fails downstream.
func (m *Module) placeOrder(c *fiber.Ctx) error {
	var req orders.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	if _, err := m.orders.PlaceOrder(c.Context(), &req); err != nil {
		m.logger.Error("Order not forwarded", "customer", req.Name, "error", err)
	}
	return c.JSON(SuccessResponse{Success: true})
}

// quickOrder handles POST /api/quick-order. The total is computed from the stored price.
func (m *Module) quickOrder(c *fiber.Ctx) error {
	var req orders.QuickOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	resp, err := m.orders.QuickOrder(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(QuickOrderResponse{
		Success:   true,
		Reference: resp.Reference,
		Total:     resp.Total,
	})
}

// upload handles POST /api/upload with a single multipart file field.
func (m *Module) upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		header, err = c.FormFile("image")
	}
	if err != nil {
		return fiber.ErrBadRequest
	}
	if m.uploader == nil {
		return errUploadsDisabled
	}

	data, err := readFormFile(header)
	if err != nil {
		return err
	}

	url, err := m.uploader.Upload(c.Context(), header.Filename, data)
	if err != nil {
		return err
	}
	return c.JSON(UploadResponse{URL: url})
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
