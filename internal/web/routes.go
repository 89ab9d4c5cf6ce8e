// Package web serves read-only board views over HTTP for floor screens and
// browsers that cannot speak gRPC.
package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Leganyst/production-board/internal/board"
	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/service"
	"github.com/Leganyst/production-board/internal/table"
)

// maxColumns bounds ?columns= of the text view.
const maxColumns = 1000

// BoardQuery is read from ?date=YYYY-MM-DD&width=N&columns=N.
type BoardQuery struct {
	Date    string  `query:"date"`
	Width   float64 `query:"width"`
	Columns int     `query:"columns"`
}

// TableQuery is read from ?page=N&page_size=N.
type TableQuery struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

type handlers struct {
	board  *service.BoardService
	loc    func() *time.Location
	logger *zap.Logger
}

// New builds the HTTP app. loc gives the board time zone used when no date
// is requested.
func New(boardSvc *service.BoardService, loc func() *time.Location, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{board: boardSvc, loc: loc, logger: logger}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          h.errorHandler,
	})
	routes(app, h)
	return app
}

func routes(app *fiber.App, h *handlers) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Get("/board.svg", h.boardSVG)
	api.Get("/board.txt", h.boardText)
	api.Get("/table", h.table)
}

func (h *handlers) frame(c *fiber.Ctx) (*board.Frame, BoardQuery, error) {
	var q BoardQuery
	if err := c.QueryParser(&q); err != nil {
		return nil, q, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	cursor := layout.ProductionDayKey(time.Now().In(h.loc()))
	if q.Date != "" {
		d, err := layout.ParseDay(q.Date)
		if err != nil {
			return nil, q, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		cursor = d
	}
	f, err := h.board.RenderDays(c.UserContext(), cursor, q.Width)
	return f, q, err
}

func (h *handlers) boardSVG(c *fiber.Ctx) error {
	f, _, err := h.frame(c)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(board.SVG(f))
}

func (h *handlers) boardText(c *fiber.Ctx) error {
	f, q, err := h.frame(c)
	if err != nil {
		return err
	}
	if q.Columns > maxColumns {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("columns must be at most %d", maxColumns))
	}
	if q.Columns <= 0 {
		q.Columns = 96
	}
	return c.SendString(board.Text(f, q.Columns))
}

func (h *handlers) table(c *fiber.Ctx) error {
	var q TableQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	p, err := h.board.ListTable(c.UserContext(), q.Page, q.PageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"rows":      tableRows(p),
		"page":      p.Page,
		"page_size": p.PageSize,
		"total":     p.Total,
		"has_next":  p.HasNext,
		"has_prev":  p.HasPrev,
	})
}

func tableRows(p table.Page[table.Row]) []fiber.Map {
	rows := make([]fiber.Map, 0, len(p.Items))
	for _, r := range p.Items {
		rows = append(rows, fiber.Map{
			"id":              r.ID.String(),
			"schedule_number": r.ScheduleNumber,
			"product_name":    r.ProductName,
			"line":            r.Line,
			"day":             r.Day.String(),
			"start":           r.Start,
			"end":             r.End,
			"quantity":        r.Quantity,
			"total_quantity":  r.TotalQuantity,
			"status":          r.Status,
			"sync":            r.Sync,
			"notes":           r.Notes,
		})
	}
	return rows
}

func (h *handlers) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		h.logger.Warn("http request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
