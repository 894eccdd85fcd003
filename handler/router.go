package handler

import (
	"github.com/AnnaCarter465/taxpadi/access"
	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Store is everything the HTTP layer reads and writes.
type Store interface {
	CompanyDB
	UserLookup
	UserDB
}

type Deps struct {
	Store          Store
	Ledger         Ledger
	Resolver       *access.Resolver
	MaxUploadBytes int64
}

func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	Register(e, deps)

	return e
}

func Register(e *echo.Echo, deps Deps) {
	// Handlers call vl directly; no echo Validator is installed.
	vl := validator.New()

	reqLog := logger.WithComponent("http")

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := reqLog.Info()
			if v.Error != nil {
				ev = reqLog.Error().Err(v.Error)
			}

			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")

			return nil
		},
	}))

	auth := NewAuthHandler(vl, deps.Store, deps.Resolver)
	th := NewTaxHandler(vl, deps.Store)
	rh := NewReceiptHandler(deps.Ledger, deps.MaxUploadBytes)
	ph := NewReportHandler(vl, deps.Store, deps.Ledger)
	ah := NewAdminHandler(vl, deps.Store, deps.Resolver)

	e.GET("/", Healthcheck)
	e.POST("/login", auth.Login)

	g := e.Group("", auth.Authenticate)
	g.GET("/me", auth.Me)
	g.GET("/views/:feature", auth.View)

	need := auth.RequireFeature

	g.POST("/classify", th.Classify, need(access.FeatureClassifier))
	g.GET("/company/status", th.CompanyStatus, need(access.FeatureClassifier))
	g.POST("/levy", th.Levy, need(access.FeatureLevy))
	g.POST("/paye", th.Paye, need(access.FeaturePAYE))
	g.POST("/pit", th.Pit, need(access.FeaturePAYE))

	g.POST("/receipts", rh.Upload, need(access.FeatureVAT))
	g.GET("/receipts", rh.List, need(access.FeatureVAT))
	g.GET("/vat/net", rh.NetVat, need(access.FeatureVAT))

	g.POST("/reports/filing", ph.Filing, need(access.FeatureReports))
	g.GET("/reports/deadlines", ph.Deadlines, need(access.FeatureReports))

	admin := g.Group("/admin", need(access.FeatureAdmin))
	admin.GET("/users", ah.ListUsers)
	admin.POST("/users", ah.CreateUser)
	admin.PUT("/users/:id", ah.UpdateUser)
	admin.GET("/roles/:role", ah.RolePermissions)
}
