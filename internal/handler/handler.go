// Package handler содержит chi HTTP API консоли. Вход и выход в форме приложения (camelCase).
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/Leganyst/rental-console/internal/availability"
	"github.com/Leganyst/rental-console/internal/calendar"
	"github.com/Leganyst/rental-console/internal/domain"
	"github.com/Leganyst/rental-console/internal/finance"
	"github.com/Leganyst/rental-console/internal/metrics"
	"github.com/Leganyst/rental-console/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	console *service.Console
	log     *slog.Logger
}

func New(console *service.Console, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{console: console, log: log}
}

type ErrorResponse struct {
	Error     string                  `json:"error"`
	Kind      string                  `json:"kind"`
	Field     string                  `json:"field,omitempty"`
	Shortages []availability.Shortage `json:"shortages,omitempty"`
}

type itemRequest struct {
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	RentalPrice decimal.Decimal `json:"rentalPrice"`
}

type inventoryResponse struct {
	Items      []domain.InventoryItem `json:"items"`
	TotalUnits int                    `json:"totalUnits"`
}

// bookingView: бронь вместе с именем клиента.
type bookingView struct {
	domain.Booking
	ClientName string `json:"clientName"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 8<<20) // договор может прийти data URL
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "request"})
}

// fail переводит ошибку консоли в HTTP-ответ: ввод (422), не найдено (404), хранилище (502).
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		shortage *service.ShortageError
		vErr     *domain.ValidationError
	)
	switch {
	case errors.As(err, &shortage):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:     err.Error(),
			Kind:      "validation",
			Shortages: shortage.Shortages,
		})
	case domain.IsValidation(err):
		resp := ErrorResponse{Error: err.Error(), Kind: "validation"}
		if errors.As(err, &vErr) {
			resp.Field = vErr.Field
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: "not_found"})
	case errors.Is(err, domain.ErrPersistence):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "could not save your data: " + err.Error(), Kind: "persistence"})
	default:
		h.log.Error("unexpected error",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error", Kind: "internal"})
	}
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Reload handles POST /reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.console.Load(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"clients":   len(h.console.Clients("")),
		"inventory": len(h.console.Inventory()),
		"bookings":  len(h.console.Bookings()),
	})
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.console.Clients(r.URL.Query().Get("q")))
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	h.saveClient(w, r, "")
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	h.saveClient(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) saveClient(w http.ResponseWriter, r *http.Request, id string) {
	var req domain.Client
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	client, err := h.console.SaveClient(r.Context(), req, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, client)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.console.Client(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.console.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, inventoryResponse{
		Items:      h.console.Inventory(),
		TotalUnits: h.console.TotalUnits(),
	})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	item, err := h.console.AddItem(r.Context(), req.Name, req.Quantity, req.Cost, req.RentalPrice)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /inventory/{id}. Имя позиции не меняется.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	item, err := h.console.UpdateItem(r.Context(), chi.URLParam(r, "id"), req.Quantity, req.Cost, req.RentalPrice)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.console.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBookings handles GET /bookings?page=&page_size=
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))

	writeJSON(w, http.StatusOK, calendar.Paginate(h.views(h.console.Bookings()), page, size))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.console.Booking(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(b))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	h.saveBooking(w, r, "")
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	h.saveBooking(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) saveBooking(w http.ResponseWriter, r *http.Request, id string) {
	var req service.BookingInput
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	b, err := h.console.SaveBooking(r.Context(), req, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, h.view(b))
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.console.DeleteBooking(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Agenda handles GET /agenda/{date}
func (h *Handler) Agenda(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		h.fail(w, r, domain.NewValidationError("date", "date must be YYYY-MM-DD", err))
		return
	}
	writeJSON(w, http.StatusOK, h.views(h.console.Agenda(date)))
}

// Availability handles GET /availability?date=&start=&end=&exclude=
// Без start и end считается остаток на весь день.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		h.fail(w, r, domain.NewValidationError("date", "date must be YYYY-MM-DD", err))
		return
	}

	start, end := q.Get("start"), q.Get("end")
	if start == "" && end == "" {
		writeJSON(w, http.StatusOK, h.console.AvailabilityForDay(date))
		return
	}
	remaining, err := h.console.AvailabilityForWindow(date, start, end, q.Get("exclude"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, remaining)
}

func (h *Handler) views(bookings []domain.Booking) []bookingView {
	out := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, h.view(b))
	}
	return out
}

func (h *Handler) view(b domain.Booking) bookingView {
	return bookingView{Booking: b, ClientName: h.console.ClientName(b.ClientID)}
}

// FinancialReport handles GET /reports/financial?period=&year=&format=
func (h *Handler) FinancialReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period, err := finance.ParsePeriod(q.Get("period"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	year := 0
	if s := q.Get("year"); s != "" {
		if year, err = strconv.Atoi(s); err != nil || year < 1 {
			h.fail(w, r, domain.NewValidationError("year", fmt.Sprintf("invalid year %q", s), err))
			return
		}
	}

	report := h.console.FinancialReport(period, year)

	switch format := q.Get("format"); format {
	case "", "json":
		metrics.IncReportBuilt(string(period), "json")
		writeJSON(w, http.StatusOK, report)
	case "xlsx":
		metrics.IncReportBuilt(string(period), "xlsx")
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="relatorio_%s_%d.xlsx"`, period, report.Year))
		if err := finance.WriteXLSX(w, report); err != nil {
			h.log.Error("write xlsx report", slog.Any("error", err))
		}
	default:
		h.fail(w, r, domain.NewValidationError("format", fmt.Sprintf("unknown format %q", format), nil))
	}
}

// History handles GET /history/{table}/{id}?limit=
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	events, err := h.console.History(r.Context(), chi.URLParam(r, "table"), chi.URLParam(r, "id"), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Activity handles GET /activity?from=&to= (даты YYYY-MM-DD, to не включается).
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.Parse(time.DateOnly, q.Get("from"))
	if err != nil {
		h.fail(w, r, domain.NewValidationError("from", "from must be YYYY-MM-DD", err))
		return
	}
	to, err := time.Parse(time.DateOnly, q.Get("to"))
	if err != nil {
		h.fail(w, r, domain.NewValidationError("to", "to must be YYYY-MM-DD", err))
		return
	}
	events, err := h.console.Activity(r.Context(), from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
