package router

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"aits/internal/auth"
	"aits/internal/config"
	"aits/internal/errors"
	"aits/internal/handler"
	"aits/internal/validation"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens auth.TokenService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	issueHandler *handler.IssueHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins(cfg.AllowedOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Add validator
	e.Validator = validation.New()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/token/refresh", authHandler.Refresh)

	// Secured routes (require an access token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return tokens.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "authentication credentials were not provided or are invalid",
				Code:  "UNAUTHORIZED",
			})
		},
	}))

	secured.POST("/logout", authHandler.Logout)
	secured.GET("/me", userHandler.Me)

	// Profile routes
	secured.GET("/profile/:kind", userHandler.GetProfile)
	secured.PUT("/profile/:kind", userHandler.UpdateProfile)

	// Issue routes
	secured.POST("/issues", issueHandler.Create)
	secured.GET("/issues/mine", issueHandler.Mine)
	secured.GET("/issues/resolved", issueHandler.Resolved)
	secured.GET("/issues/count", issueHandler.Count)
	secured.GET("/issues/:id", issueHandler.Get)
	secured.POST("/issues/:id/assign", issueHandler.Assign)
	secured.POST("/issues/:id/resolve", issueHandler.Resolve)
}

func allowedOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
