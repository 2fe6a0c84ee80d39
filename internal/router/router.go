package router

import (
	"time"

	"saborpos/internal/config"
	"saborpos/internal/handler"
	"saborpos/internal/infra"
	"saborpos/internal/middleware"
	"saborpos/internal/repository"
	"saborpos/internal/service"
	"saborpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	pdfGen := infra.NewReporteCostosPDF(cfg.PDFStoragePath)
	cache := service.NewCacheCosteo(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	insumoRepo := repository.NewInsumoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	tipoCostoRepo := repository.NewTipoCostoRepository(db)
	historialRepo := repository.NewHistorialCostoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	espejoSvc := service.NewEspejoService(productoRepo, insumoRepo, historialRepo)
	productoSvc := service.NewProductoService(productoRepo, insumoRepo, tipoCostoRepo, espejoSvc, cache)
	insumoSvc := service.NewInsumoService(insumoRepo, historialRepo, dispatcher, cache)
	tipoCostoSvc := service.NewTipoCostoService(tipoCostoRepo, cache)
	costeoSvc := service.NewCosteoService(productoRepo, insumoRepo, tipoCostoRepo, cache, pdfGen, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	insumosH := handler.NewInsumosHandler(insumoSvc)
	tiposCostoH := handler.NewTiposCostoHandler(tipoCostoSvc)
	costeoH := handler.NewCosteoHandler(costeoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operador, supervisor, administrador — declared per-endpoint
		lectura := middleware.RequireRole("operador", "supervisor", "administrador")
		gestion := middleware.RequireRole("supervisor", "administrador")
		admin := middleware.RequireRole("administrador")

		// Productos — reads for everyone, writes for supervisor+
		v1.GET("/productos", lectura, productosH.Listar)
		v1.GET("/productos/:id", lectura, productosH.Obtener)
		prods := v1.Group("/productos", gestion)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.POST("/:id/reactivar", productosH.Reactivar)
		}

		// Insumos
		v1.GET("/insumos", lectura, insumosH.Listar)
		v1.GET("/insumos/:id", lectura, insumosH.Obtener)
		v1.GET("/insumos/:id/historial-costos", lectura, insumosH.HistorialCostos)
		ins := v1.Group("/insumos", gestion)
		{
			ins.POST("", insumosH.Crear)
			ins.PUT("/:id", insumosH.Actualizar)
			ins.DELETE("/:id", insumosH.Desactivar)
			ins.POST("/:id/reactivar", insumosH.Reactivar)
		}

		// Tipos de costo — global pricing config, administrador only for writes
		v1.GET("/tipos-costo", lectura, tiposCostoH.Listar)
		v1.GET("/tipos-costo/:id", lectura, tiposCostoH.Obtener)
		tipos := v1.Group("/tipos-costo", admin)
		{
			tipos.POST("", tiposCostoH.Crear)
			tipos.PUT("/:id", tiposCostoH.Actualizar)
			tipos.DELETE("/:id", tiposCostoH.Desactivar)
			tipos.POST("/:id/reactivar", tiposCostoH.Reactivar)
		}

		// Costeo — breakdowns readable by all roles, reports for supervisor+
		v1.GET("/costeo", lectura, costeoH.ListarDesgloses)
		v1.GET("/costeo/reporte", gestion, costeoH.GenerarReporte)
		v1.POST("/costeo/reporte/email", gestion, costeoH.EnviarReporte)
		v1.GET("/costeo/:producto_id", lectura, costeoH.Desglose)

		// Usuarios — administrador only
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
