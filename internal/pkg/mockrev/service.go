package mockrev

import (
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/revspeech/rev-go/pkg/rev"
)

// Data keeps data required for service work
type Data struct {
	Port     int
	PageSize int
	Store    *Store
}

// StartWebServer starts the API emulator web service
func StartWebServer(data *Data) error {
	goapp.Log.Info().Int("port", data.Port).Msg("Starting order API emulator")
	if err := validate(data); err != nil {
		return err
	}

	e := initRoutes(data)

	e.Server.Addr = ":" + strconv.Itoa(data.Port)
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 180 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	gracehttp.SetLogger(log.New(goapp.Log, "", 0))

	return gracehttp.Serve(e.Server)
}

func validate(data *Data) error {
	if data.Store == nil {
		return errors.New("no store")
	}
	if data.PageSize <= 0 {
		return errors.Errorf("wrong page size %d", data.PageSize)
	}
	return nil
}

var promMdlw *prometheus.Prometheus

func init() {
	promMdlw = prometheus.NewPrometheus("mockrev", nil)
}

func initRoutes(data *Data) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Logger())
	promMdlw.Use(e)

	api := e.Group("/api/v1", authMdlw)
	api.GET("/orders", listOrders(data))
	api.POST("/orders", submitOrder(data))
	api.GET("/orders/:num", getOrder(data))
	api.POST("/orders/:num/cancel", cancelOrder(data))
	api.GET("/attachments/:id", getAttachment(data))
	api.GET("/attachments/:id/content", getAttachmentContent(data))
	api.POST("/inputs", postInput(data))

	e.POST("/mock/orders/:num/complete", completeOrder(data))
	e.GET("/live", live(data))

	goapp.Log.Info().Msg("Routes:")
	for _, r := range e.Routes() {
		goapp.Log.Info().Msgf("  %s %s", r.Method, r.Path)
	}
	return e
}

func authMdlw(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Rev ") || !strings.Contains(auth, ":") {
			return echo.NewHTTPError(http.StatusUnauthorized)
		}
		return next(c)
	}
}

func live(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"service":"OK"}`))
	}
}

type apiErr struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func badRequest(c echo.Context, code int, message string) error {
	logEvent(c, goapp.Log.Warn()).Int("code", code).Str("message", message).Msg("bad request")
	return c.JSON(http.StatusBadRequest, apiErr{Code: code, Message: message})
}

func logEvent(c echo.Context, le *zerolog.Event) *zerolog.Event {
	return le.Str("method", c.Request().Method).Str("path", c.Request().URL.Path)
}

func listOrders(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("listOrders method")()
		page, _ := strconv.Atoi(c.QueryParam("page"))
		res := data.Store.GetOrdersPage(page, data.PageSize, c.QueryParam("clientRef"))
		return c.JSON(http.StatusOK, res)
	}
}

func getOrder(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("getOrder method")()
		order := data.Store.GetOrder(c.Param("num"))
		if order == nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.JSON(http.StatusOK, order)
	}
}

func submitOrder(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("submitOrder method")()
		var req rev.OrderRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, 0, "can't parse request")
		}
		if req.Payment == nil {
			return badRequest(c, rev.CodeMissingPaymentInfo, "Missing Payment Info")
		}
		if req.Payment.Type == "" {
			return badRequest(c, rev.CodeMissingPaymentType, "Missing Payment Type")
		}
		if req.TranscriptionOptions != nil && req.CaptionOptions != nil {
			return badRequest(c, rev.CodeMultipleOptionsSpecified, "Multiple options specified")
		}
		if req.TranscriptionOptions == nil && req.CaptionOptions == nil {
			return badRequest(c, rev.CodeOptionsNotSpecified, "OPTIONS_NOT_SPECIFIED")
		}
		var inputs []rev.Input
		if req.TranscriptionOptions != nil {
			inputs = req.TranscriptionOptions.Inputs
		} else {
			inputs = req.CaptionOptions.Inputs
		}
		if len(inputs) == 0 {
			return badRequest(c, rev.CodeMissingInputs, "Missing Inputs")
		}
		for _, in := range inputs {
			if in.URI != "" && in.ExternalLink != "" {
				return badRequest(c, rev.CodeExternalLinkAndURISpecified, "External Link and URI specified")
			}
			if in.URI == "" && in.ExternalLink == "" {
				return badRequest(c, rev.CodeExternalLinkOrURINotSpecified, "Input location is not specified")
			}
			if in.URI != "" && !data.Store.HasInput(in.URI) {
				return badRequest(c, rev.CodeInvalidInputs, "Invalid Input")
			}
		}
		number := data.Store.AddOrder(&req)
		c.Response().Header().Set("Location", locationURL(c, "/api/v1/orders/"+number))
		return c.NoContent(http.StatusCreated)
	}
}

func cancelOrder(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("cancelOrder method")()
		found, ok := data.Store.CancelOrder(c.Param("num"))
		if !found {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		if !ok {
			return echo.NewHTTPError(http.StatusForbidden, "cancellation window has passed")
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func completeOrder(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		text := c.QueryParam("text")
		if text == "" {
			text = "mock result"
		}
		if !data.Store.CompleteOrder(c.Param("num"), text) {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func getAttachment(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("getAttachment method")()
		meta, _, _ := data.Store.GetAttachment(c.Param("id"))
		if meta == nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.JSON(http.StatusOK, meta)
	}
}

func getAttachmentContent(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("getAttachmentContent method")()
		meta, content, contentType := data.Store.GetAttachment(c.Param("id"))
		if meta == nil || content == nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		accept := c.Request().Header.Get("Accept")
		if !acceptable(accept, contentType) {
			return echo.NewHTTPError(http.StatusNotAcceptable,
				fmt.Sprintf("can't provide representation '%s'", accept))
		}
		return c.Blob(http.StatusOK, contentType, content)
	}
}

func acceptable(accept, contentType string) bool {
	if accept == "" || accept == "*/*" {
		return true
	}
	mime, _, _ := strings.Cut(accept, ";")
	return strings.TrimSpace(mime) == contentType
}

func postInput(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		defer goapp.Estimate("postInput method")()
		contentType := c.Request().Header.Get(echo.HeaderContentType)
		var filename string
		if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
			var req struct {
				URL         string `json:"url"`
				Filename    string `json:"filename"`
				ContentType string `json:"content_type"`
			}
			if err := c.Bind(&req); err != nil || req.URL == "" {
				return badRequest(c, rev.CodeCouldNotRetrieveMedia, "Could not retrieve file")
			}
			filename = req.Filename
			if filename == "" {
				filename = FilenameFromURL(req.URL)
			}
			contentType = req.ContentType
		} else {
			_, params, err := mime.ParseMediaType(c.Request().Header.Get("Content-Disposition"))
			if err != nil {
				return badRequest(c, rev.CodeInvalidMultipartRequest, "Invalid request")
			}
			filename = params["filename"]
		}
		if filename == "" {
			return badRequest(c, rev.CodeUnspecifiedFilename, "Unspecified filename")
		}
		uri := data.Store.AddInput(filename, contentType)
		c.Response().Header().Set("Location", uri)
		return c.NoContent(http.StatusCreated)
	}
}

func locationURL(c echo.Context, path string) string {
	return "http://" + c.Request().Host + path
}
