package httpapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-gateway/internal/export"
	"github.com/i474232898/weather-gateway/internal/geo"
	"github.com/i474232898/weather-gateway/internal/render"
	"github.com/i474232898/weather-gateway/internal/store"
	"github.com/i474232898/weather-gateway/internal/weather"
)

var validate = validator.New()

const (
	outputShow = "show"
	outputSave = "save"

	defaultProvider = "aerisWeather"
	defaultLocation = "london,uk"
	locationCurrent = "current"
)

// CityLocator resolves the city of the requesting client.
type CityLocator interface {
	CityForRequest(ctx context.Context, addr geo.ClientAddr) string
}

// Deps are the collaborators the routes need.
type Deps struct {
	Service *weather.Service
	Locator CityLocator
	Probes  *store.ProbeStore
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. Static routes are
// registered before the per-provider ones so they win.
func RegisterRoutes(app *fiber.App, deps Deps) {
	h := &handlers{deps: deps}

	app.Get("/health", h.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/my-api")
	api.Get("/current-weather", h.currentByQuery)
	api.Get("/weather-by-date", h.byDateByQuery)

	app.Get("/:serviceName/current-weather", h.currentByPath)
	app.Get("/:serviceName/weather-by-date", h.byDateByPath)
}

// ErrorHandler is the app-wide error responder: every failure is reported as
// {"error": true, "message": ...} with the status carried by a *fiber.Error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

type handlers struct {
	deps Deps
}

// weatherQuery holds the query parameters shared by every weather route.
type weatherQuery struct {
	ServiceName string `validate:"required"`
	ContextType string `validate:"oneof=json xml yaml"`
	Location    string `validate:"required"`
	Date        string `validate:"required"`
	Output      string `validate:"oneof=show save"`
}

func bindQuery(c *fiber.Ctx, serviceName, location string) (weatherQuery, error) {
	q := weatherQuery{
		ServiceName: serviceName,
		ContextType: c.Query("contextType", render.FormatJSON),
		Location:    c.Query("location", location),
		Date:        c.Query("date", weather.CurrentDate),
		Output:      c.Query("output", outputShow),
	}
	if err := validate.Struct(q); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, describeValidation(err))
	}
	return q, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "ContextType":
		return fmt.Sprintf("Wrong result type: %v. Try json, xml or yaml", fe.Value())
	case "Output":
		return fmt.Sprintf("Wrong output type: %v. Try save or show", fe.Value())
	default:
		return fmt.Sprintf("Invalid parameter %s: %v", fe.Field(), fe.Value())
	}
}

func (h *handlers) currentByQuery(c *fiber.Ctx) error {
	q, err := bindQuery(c, c.Query("serviceName", defaultProvider), defaultLocation)
	if err != nil {
		return err
	}
	q.Date = weather.CurrentDate
	return h.respond(c, q)
}

func (h *handlers) byDateByQuery(c *fiber.Ctx) error {
	q, err := bindQuery(c, c.Query("serviceName", defaultProvider), defaultLocation)
	if err != nil {
		return err
	}
	return h.respond(c, q)
}

func (h *handlers) currentByPath(c *fiber.Ctx) error {
	q, err := bindQuery(c, c.Params("serviceName"), locationCurrent)
	if err != nil {
		return err
	}
	q.Date = weather.CurrentDate
	return h.respond(c, q)
}

func (h *handlers) byDateByPath(c *fiber.Ctx) error {
	q, err := bindQuery(c, c.Params("serviceName"), locationCurrent)
	if err != nil {
		return err
	}
	return h.respond(c, q)
}

func (h *handlers) respond(c *fiber.Ctx, q weatherQuery) error {
	location := q.Location
	if location == locationCurrent && h.deps.Locator != nil {
		location = h.deps.Locator.CityForRequest(c.UserContext(), clientAddr(c))
	}

	w, err := h.deps.Service.Get(c.UserContext(), q.ServiceName, q.Date, location)
	if err != nil {
		return toHTTPError(err, location)
	}

	text, contentType, err := render.Render(w, q.ContextType)
	if err != nil {
		log.Warn().Err(err).Str("format", q.ContextType).Msg("rendering weather failed")
		return fiber.NewError(fiber.StatusInternalServerError,
			"Unexpected problems with parse data to right format, please choose other format or try again later")
	}

	if q.Output == outputSave {
		doc, err := export.Docx(q.ServiceName, string(text))
		if err != nil {
			log.Warn().Err(err).Msg("creating word file failed")
			return fiber.NewError(fiber.StatusInternalServerError,
				"Unexpected problems with creating word file, please choose show option or try again later")
		}
		c.Attachment(export.DocxFilename)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		return c.Send(doc)
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(text)
}

func clientAddr(c *fiber.Ctx) geo.ClientAddr {
	return geo.ClientAddr{
		ForwardedFor:    c.Get(fiber.HeaderXForwardedFor),
		ProxyClientIP:   c.Get("Proxy-Client-IP"),
		WLProxyClientIP: c.Get("WL-Proxy-Client-IP"),
		RemoteAddr:      c.IP(),
	}
}

// toHTTPError turns a classified failure into a user-facing message and status.
func toHTTPError(err error, location string) error {
	var reqErr *weather.RequestError
	var provErr *weather.ProviderError

	switch {
	case errors.Is(err, weather.ErrUnknownProvider):
		errors.As(err, &reqErr)
		return fiber.NewError(fiber.StatusNotFound,
			fmt.Sprintf("Wrong service name: %s. %s", reqErr.Value, reqErr.Detail))
	case errors.Is(err, weather.ErrInvalidDateFormat):
		errors.As(err, &reqErr)
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Date incorrect format: %s. Try this format: yyyy-MM-dd", reqErr.Value))
	case errors.Is(err, weather.ErrPastDate):
		errors.As(err, &reqErr)
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Wrong date: %s. Try current or future date", reqErr.Value))
	case errors.Is(err, weather.ErrForecastHorizonExceeded):
		errors.As(err, &reqErr)
		return fiber.NewError(fiber.StatusNotFound,
			fmt.Sprintf("Date in the distant future: %s. %s", reqErr.Value, reqErr.Detail))
	case errors.Is(err, weather.ErrWrongLocation):
		return fiber.NewError(fiber.StatusNotFound,
			fmt.Sprintf("Wrong location: %s or this service cannot return weather data for this city. "+
				"Please try enter city at right format (Example: london,uk)", location))
	case errors.Is(err, weather.ErrNoDataForDate):
		errors.As(err, &provErr)
		return fiber.NewError(fiber.StatusNotFound,
			fmt.Sprintf("%s returned no weather data for the requested date", provErr.Provider))
	case errors.Is(err, weather.ErrUnexpectedResponse):
		errors.As(err, &provErr)
		return fiber.NewError(fiber.StatusBadGateway,
			fmt.Sprintf("Weather service response reading failed: %s. Please try other service or try later", provErr.Provider))
	case errors.Is(err, weather.ErrTransport):
		errors.As(err, &provErr)
		return fiber.NewError(fiber.StatusBadGateway,
			fmt.Sprintf("Weather service failed: %s. Please try other service or try later", provErr.Provider))
	default:
		log.Error().Err(err).Msg("unclassified weather failure")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

func (h *handlers) health(c *fiber.Ctx) error {
	var probes []store.Probe
	if h.deps.Probes != nil {
		probes = h.deps.Probes.LatestAll()
	}
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "weather-gateway",
		"providers": h.deps.Service.Descriptors(),
		"probes":    probes,
	})
}
