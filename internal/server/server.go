package server

import (
	"context"
	"net/http"
	"time"

	"github.com/doodhly/doodhly/internal/billing"
	billingdomain "github.com/doodhly/doodhly/internal/billing/domain"
	"github.com/doodhly/doodhly/internal/clock"
	"github.com/doodhly/doodhly/internal/config"
	"github.com/doodhly/doodhly/internal/customer"
	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/doodhly/doodhly/internal/ledger"
	ledgerdomain "github.com/doodhly/doodhly/internal/ledger/domain"
	"github.com/doodhly/doodhly/internal/migration"
	"github.com/doodhly/doodhly/internal/observability"
	obsmiddleware "github.com/doodhly/doodhly/internal/observability/logger"
	obsmetrics "github.com/doodhly/doodhly/internal/observability/metrics"
	"github.com/doodhly/doodhly/internal/providers/pdf"
	"github.com/doodhly/doodhly/internal/reconcile"
	reconciledomain "github.com/doodhly/doodhly/internal/reconcile/domain"
	"github.com/doodhly/doodhly/internal/reporting"
	reportingdomain "github.com/doodhly/doodhly/internal/reporting/domain"
	"github.com/doodhly/doodhly/internal/sequence"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	clock.Module,
	fx.Provide(registerGin),
	migration.Module,
	sequence.Module,
	customer.Module,
	ledger.Module,
	billing.Module,
	reconcile.Module,
	reporting.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	customerSvc  customerdomain.Service
	ledgerSvc    ledgerdomain.Service
	billingSvc   billingdomain.Service
	reconcileSvc reconciledomain.Service
	reportingSvc reportingdomain.Service
	pdfProvider  pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	CustomerSvc  customerdomain.Service
	LedgerSvc    ledgerdomain.Service
	BillingSvc   billingdomain.Service
	ReconcileSvc reconciledomain.Service
	ReportingSvc reportingdomain.Service
	PDFProvider  pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		customerSvc:  p.CustomerSvc,
		ledgerSvc:    p.LedgerSvc,
		billingSvc:   p.BillingSvc,
		reconcileSvc: p.ReconcileSvc,
		reportingSvc: p.ReportingSvc,
		pdfProvider:  p.PDFProvider,
	}

	svc.registerCustomerRoutes()
	svc.registerMilkRoutes()
	svc.registerBillingRoutes()
	svc.registerSellerRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerCustomerRoutes() {
	customers := s.engine.Group("/customers")

	customers.POST("", s.CreateCustomer)
	customers.GET("", s.ListCustomers)
	customers.PUT("/sequence-update", s.ReorderCustomers)
	customers.GET("/:id", s.GetCustomer)
	customers.PUT("/:id", s.UpdateCustomer)
	customers.DELETE("/:id", s.DeleteCustomer)
}

func (s *Server) registerMilkRoutes() {
	milk := s.engine.Group("/milk")

	milk.POST("/daily-entry", s.UpsertDailyEntries)
	milk.GET("/daily-entry/:date", s.GetEntriesByDate)
}

func (s *Server) registerBillingRoutes() {
	billing := s.engine.Group("/billing")

	billing.POST("", s.CreateBill)
	billing.GET("", s.ListBills)
	billing.GET("/milk-entries", s.GetMilkEntries)
	billing.GET("/monthly-report", s.MonthlyReport)
	billing.GET("/reports/summary", s.AccountingReport)
	billing.GET("/pdf/:id", s.RenderBillPDF)
	billing.GET("/:customerId/:month", s.GetBillByCustomerMonth)
	billing.PUT("/update-milk-entries", s.SyncBillMilkEntries)
	billing.PUT("/mark-paid/:id", s.MarkBillPaid)
	billing.PUT("/payment-status/:id", s.SetBillPaymentStatus)
	billing.PUT("/:id", s.UpdateBill)
}

func (s *Server) registerSellerRoutes() {
	seller := s.engine.Group("/seller", s.SellerTokenRequired())

	seller.GET("/summary/:date", s.DailySummary)
	seller.GET("/ytdsummary", s.YTDSummary)
}
