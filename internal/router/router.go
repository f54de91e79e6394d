package router

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"

	"blog/internal/config"
	apperrors "blog/internal/errors"
	"blog/internal/handler"
	"blog/internal/logger"
	"blog/internal/view"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *logger.Logger,
	renderer echo.Renderer,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	pageHandler *handler.PageHandler,
) {
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Infow("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/static", cfg.StaticDir)
	e.Static("/media", cfg.MediaDir)

	// HTML pages
	e.GET("/", pageHandler.Home)
	e.GET("/posts", pageHandler.Home)
	e.GET("/posts/:id", pageHandler.Post)
	e.GET("/users/:id/posts", pageHandler.UserPosts)

	api := e.Group("/api")

	bearer := echojwt.WithConfig(echojwt.Config{
		ContextKey:     handler.CurrentUserKey,
		ParseTokenFunc: authHandler.ParseBearer,
		ErrorHandler:   authHandler.BearerError,
	})

	users := api.Group("/user")
	users.POST("", userHandler.CreateUser)
	users.POST("/token", authHandler.Login)
	users.GET("/me", authHandler.Me, bearer)
	users.GET("/:id", userHandler.GetUser)
	users.PATCH("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
	users.GET("/:id/posts", userHandler.ListUserPosts)

	posts := api.Group("/post")
	posts.GET("", postHandler.ListPosts)
	posts.GET("/posts", postHandler.ListPosts)
	posts.POST("", postHandler.CreatePost)
	posts.GET("/:id", postHandler.GetPost)
	posts.PUT("/:id", postHandler.ReplacePost)
	posts.PUT("/full_update/:id", postHandler.ReplacePost)
	posts.PATCH("/:id", postHandler.PatchPost)
	posts.PATCH("/partial_update/:id", postHandler.PatchPost)
	posts.DELETE("/:id", postHandler.DeletePost)
}

// ErrorHandler writes every error as JSON under /api and as the rendered
// error page elsewhere. 401 responses carry a Bearer challenge.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := toErrorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Errorw("request failed",
				"error", err,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
		}
		if status == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		if !isAPIPath(c.Request().URL.Path) && c.Echo().Renderer != nil {
			page := view.ErrorPage{Title: http.StatusText(status), Status: status, Message: body.Error}
			if renderErr := c.Render(status, "error.html", page); renderErr == nil {
				return
			}
		}
		_ = c.JSON(status, body)
	}
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

func toErrorResponse(err error) (int, apperrors.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			return he.Code, msg
		case string:
			return he.Code, apperrors.ErrorResponse{Error: msg, Code: statusCode(he.Code)}
		default:
			return he.Code, apperrors.ErrorResponse{Error: http.StatusText(he.Code), Code: statusCode(he.Code)}
		}
	}
	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse()
}

// statusCode turns 404 into "NOT_FOUND".
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
