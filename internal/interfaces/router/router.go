package router

import (
	"context"
	"net/http"
	"strings"

	"rentledger-backend/internal/application/auth"
	"rentledger-backend/internal/application/ledger"
	"rentledger-backend/internal/config"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"
	"rentledger-backend/internal/infrastructure/sequencer"
	authhandler "rentledger-backend/internal/interfaces/handlers/auth"
	cashflowhandler "rentledger-backend/internal/interfaces/handlers/cashflow"
	disthandler "rentledger-backend/internal/interfaces/handlers/distributions"
	eventhandler "rentledger-backend/internal/interfaces/handlers/events"
	healthhandler "rentledger-backend/internal/interfaces/handlers/health"
	prophandler "rentledger-backend/internal/interfaces/handlers/properties"
	proposalhandler "rentledger-backend/internal/interfaces/handlers/proposals"
	settlementhandler "rentledger-backend/internal/interfaces/handlers/settlement"
	sharehandler "rentledger-backend/internal/interfaces/handlers/shares"
	vaulthandler "rentledger-backend/internal/interfaces/handlers/vault"
	"rentledger-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func setLogLevel(level string) {
	if level == "" {
		return
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown LOG_LEVEL, keeping default")
		return
	}
	zerolog.SetGlobalLevel(l)
}

// CreateApp wires middleware, the ledger and every route. The ledger routes are
// mounted only when a database is configured.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	setLogLevel(cfg.LogLevel)

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(middleware.Tracing())
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	if cfg.DatabaseURL == "" {
		log.Warn().Msg("no database configured; ledger routes disabled")
		return app, nil, rdb, nil
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}
	hh.DB = &gormDBPinger{db: db}

	l := ledger.New(db, sequencer.NewRedis(rdb, cfg.LockTTL), domain.Address(cfg.DeployerAddress))
	if err := l.Bootstrap(context.Background()); err != nil {
		return nil, nil, nil, err
	}
	hh.Ledger = l.Registry

	ah := &authhandler.Handlers{
		Accounts: &auth.Service{DB: db},
		Rdb:      rdb,
		Config:   sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", ah.Register)
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	api := app.Group("/api/v1", middleware.RequireAuth())

	ph := &prophandler.Handlers{Service: l.Registry}
	pg := api.Group("/properties")
	pg.Post("/mint", ph.Mint)
	pg.Post("/:id/transfer", ph.Transfer)
	pg.Get("/", ph.List)
	pg.Get("/last-id", ph.LastID)
	pg.Get("/:id", ph.Get)

	sh := &sharehandler.Handlers{Service: l.Shares}
	sg := api.Group("/shares")
	sg.Post("/initialize", sh.Initialize)
	sg.Post("/mint", sh.Mint)
	sg.Post("/transfer", sh.Transfer)
	sg.Get("/:property_id", sh.Get)
	sg.Get("/:property_id/holders", sh.Holders)
	sg.Get("/:property_id/transfers", sh.Transfers)
	sg.Get("/:property_id/balance/:holder", sh.Balance)

	vh := &vaulthandler.Handlers{Ledger: l}
	vg := api.Group("/vault")
	vg.Post("/authorize", vh.Authorize)
	vg.Post("/deposit", vh.Deposit)
	vg.Post("/withdraw", vh.Withdraw)
	vg.Post("/reset-period", vh.ResetPeriod)
	vg.Get("/:property_id", vh.Get)
	vg.Get("/:property_id/periods/:period", vh.PeriodRent)

	prh := &proposalhandler.Handlers{Service: l.Proposals}
	prg := api.Group("/proposals")
	prg.Post("/create", prh.Create)
	prg.Post("/vote", prh.Vote)
	prg.Post("/finalize", prh.Finalize)
	prg.Get("/:property_id/count", prh.Count)
	prg.Get("/:property_id/:proposal_id", prh.Get)
	prg.Get("/:property_id/:proposal_id/voters/:voter", prh.Voter)

	ch := &cashflowhandler.Handlers{Service: l.CashFlow}
	cg := api.Group("/cashflow")
	cg.Post("/expense", ch.Expense)
	cg.Post("/capex", ch.Capex)
	cg.Post("/reserve/allocate", ch.AllocateReserve)
	cg.Post("/reserve/release", ch.ReleaseReserve)
	cg.Post("/reset-period", ch.ResetPeriod)
	cg.Get("/:property_id", ch.Get)
	cg.Get("/:property_id/distributable", ch.Distributable)

	dh := &disthandler.Handlers{Service: l.Distributor}
	dg := api.Group("/distributions")
	dg.Post("/distribute", dh.Distribute)
	dg.Post("/claim", dh.Claim)
	dg.Post("/reset-period", dh.ResetPeriod)
	dg.Get("/:property_id/current-period", dh.CurrentPeriod)
	dg.Get("/:property_id/:period", dh.Get)
	dg.Get("/:property_id/:period/claimable/:user", dh.Claimable)
	dg.Get("/:property_id/:period/claims/:user", dh.ClaimStatus)

	seth := &settlementhandler.Handlers{Service: l.Settlement}
	setg := api.Group("/settlement")
	setg.Post("/mint", seth.Mint)
	setg.Post("/transfer", seth.Transfer)
	setg.Get("/balance/:account", seth.Balance)

	eh := &eventhandler.Handlers{Service: l.Events}
	api.Get("/events/:property_id", eh.ListByProperty)

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
