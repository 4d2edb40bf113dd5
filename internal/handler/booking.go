package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/export"
	"github.com/iliyamo/waste-pickup/internal/logger"
	"github.com/iliyamo/waste-pickup/internal/middleware"
	"github.com/iliyamo/waste-pickup/internal/model"
	"github.com/iliyamo/waste-pickup/internal/service"
	"github.com/iliyamo/waste-pickup/internal/storage"
)

// PhotoStore keeps uploaded photos and hands back a filename.
type PhotoStore interface {
	Save(r io.Reader) (string, error)
	Remove(name string) error
}

// BookingHandler serves the booking endpoints.
type BookingHandler struct {
	Bookings *service.BookingManager
	Photos   PhotoStore
	MaxPhoto int64
	Log      *logger.Logger
}

func NewBookingHandler(b *service.BookingManager, photos PhotoStore, maxPhoto int64, log *logger.Logger) *BookingHandler {
	return &BookingHandler{Bookings: b, Photos: photos, MaxPhoto: maxPhoto, Log: log}
}

// ----- DTOs -----

type bookingView struct {
	ID           uint64    `json:"id"`
	UserID       *uint64   `json:"userId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Photo        string    `json:"photo"`
	PhotoURL     string    `json:"photoUrl"`
	Status       string    `json:"status"`
	NextStatuses []string  `json:"nextStatuses,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type statusReq struct {
	Status string `json:"status"`
}

func toBookingView(b model.Booking) bookingView {
	return bookingView{
		ID:        b.ID,
		UserID:    b.UserID,
		Name:      b.Name,
		Email:     b.Email,
		Address:   b.Address,
		Date:      b.PickupDate.Format(model.PickupDateLayout),
		Time:      b.PickupTime,
		Photo:     b.Photo,
		PhotoURL:  "/uploads/" + b.Photo,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

func toBookingViews(bs []model.Booking) []bookingView {
	out := make([]bookingView, len(bs))
	for i, b := range bs {
		out[i] = toBookingView(b)
	}
	return out
}

// Create: POST /api/bookings (multipart/form-data with a "photo" file).
// Anonymous requests are allowed; a logged-in user owns the booking.
func (h *BookingHandler) Create(c echo.Context) error {
	name, problem, err := h.savePhoto(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	req := service.BookingRequest{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Address: c.FormValue("address"),
		Date:    c.FormValue("date"),
		Time:    c.FormValue("time"),
		Photo:   name,
	}
	if uid, ok := middleware.UserID(c); ok && middleware.Role(c) == model.RoleUser {
		req.UserID = &uid
	}

	// A bad photo is reported together with the other invalid fields.
	if problem != "" {
		details := map[string]string{}
		var ae *apperror.AppError
		if errors.As(h.Bookings.Validate(req), &ae) {
			for k, v := range ae.Details {
				details[k] = v
			}
		}
		details["photo"] = problem
		return respondError(c, h.Log, apperror.Validation("validation failed", details))
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	id, err := h.Bookings.Create(ctx, req)
	if err != nil {
		if rerr := h.Photos.Remove(name); rerr != nil {
			h.Log.Warn("orphan photo not removed", "photo", name, "error", rerr)
		}
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"bookingId": id})
}

// savePhoto stores the uploaded photo.  A rejected upload comes back as a
// field message in problem; err is set only when the store itself failed.
func (h *BookingHandler) savePhoto(c echo.Context) (name, problem string, err error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		return "", "is required", nil
	}
	if h.MaxPhoto > 0 && fh.Size > h.MaxPhoto {
		return "", photoTooLarge(h.MaxPhoto), nil
	}
	f, err := fh.Open()
	if err != nil {
		return "", "could not be read", nil
	}
	defer f.Close()

	name, err = h.Photos.Save(f)
	switch {
	case err == nil:
		return name, "", nil
	case errors.Is(err, storage.ErrUnsupportedType):
		return "", "must be a JPEG, PNG, GIF or WebP image", nil
	case errors.Is(err, storage.ErrTooLarge):
		return "", photoTooLarge(h.MaxPhoto), nil
	case errors.Is(err, storage.ErrEmpty):
		return "", "is empty", nil
	default:
		return "", "", apperror.Persistence("could not store photo", err)
	}
}

func photoTooLarge(max int64) string {
	return "must be at most " + formatSize(max)
}

// formatSize renders n in the largest unit that divides it evenly.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// List: GET /api/bookings[?status=]
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	bs, err := h.Bookings.ListFiltered(ctx, c.QueryParam("status"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": toBookingViews(bs)})
}

// Mine: GET /api/users/me/bookings
func (h *BookingHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	bs, err := h.Bookings.ListForUser(ctx, uid)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": toBookingViews(bs)})
}

// Get: GET /api/bookings/:id
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	v := toBookingView(b)
	for _, s := range h.Bookings.NextStatuses(b.Status) {
		v.NextStatuses = append(v.NextStatuses, string(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": v})
}

// UpdateStatus: PUT /api/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.Log, invalidBody())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	st, err := h.Bookings.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(st)})
}

// Export: GET /api/bookings/export
func (h *BookingHandler) Export(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	bs, err := h.Bookings.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	buf, err := export.BookingsXLSX(bs)
	if err != nil {
		return respondError(c, h.Log, apperror.Persistence("could not build export", err))
	}
	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
