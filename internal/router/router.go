package router

import (
	"strings"
	"time"

	"tresetapas/internal/carrito"
	"tresetapas/internal/config"
	"tresetapas/internal/handler"
	"tresetapas/internal/infra"
	"tresetapas/internal/metrics"
	"tresetapas/internal/middleware"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"
	"tresetapas/internal/service"
	"tresetapas/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure pieces built once in cmd/server and shared with
// the worker pool.
type Deps struct {
	Mailer     *infra.Mailer
	Dispatcher *worker.Dispatcher
	Codigos    service.GeneradorCodigos
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(strings.Split(cfg.CORSOrigins, ",")...))
	r.Use(middleware.ErrorHandler(handler.StatusFor))
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP
	r.Use(metrics.Middleware())

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	consultaRepo := repository.NewConsultaRepository(db)
	historialPrecioRepo := repository.NewHistorialPrecioRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, movimientoStockRepo, historialPrecioRepo, rdb)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoStockRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, movimientoStockRepo, deps.Codigos, deps.Dispatcher, cfg.NombreTienda)
	carritoSvc := service.NewCarritoService(carrito.NewRedisStore(rdb), productoRepo, pedidoSvc)
	consultaSvc := service.NewConsultaService(consultaRepo, deps.Dispatcher)
	contabilidadSvc := service.NewContabilidadService(pedidoRepo)
	almacenSvc := service.NewAlmacenService(pedidoRepo)
	dashboardSvc := service.NewDashboardService(pedidoSvc, consultaSvc, inventarioSvc, contabilidadSvc, almacenSvc, cfg.RotacionDias)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	catalogoH := handler.NewCatalogoHandler(productoSvc, categoriaSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	ventasH := handler.NewVentasHandler(pedidoSvc)
	carritoH := handler.NewCarritoHandler(carritoSvc)
	consultasH := handler.NewConsultasHandler(consultaSvc)
	contabilidadH := handler.NewContabilidadHandler(contabilidadSvc)
	almacenH := handler.NewAlmacenHandler(almacenSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, deps.Mailer))
	r.GET("/metrics", metrics.Handler())

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Storefront, no auth required
	public := r.Group("/v1")
	{
		public.GET("/catalogo", catalogoH.Listar)
		public.GET("/catalogo/categorias", catalogoH.Categorias)
		public.GET("/catalogo/:id", catalogoH.Producto)

		public.GET("/carrito/:id", carritoH.Obtener)
		public.POST("/carrito/:id/items", carritoH.Agregar)
		public.PUT("/carrito/:id/items/:producto_id", carritoH.ActualizarCantidad)
		public.DELETE("/carrito/:id/items/:producto_id", carritoH.Quitar)
		public.DELETE("/carrito/:id", carritoH.Vaciar)
		public.POST("/carrito/:id/checkout", middleware.PublicFormRateLimiter(), carritoH.Checkout)

		public.POST("/pedidos", middleware.PublicFormRateLimiter(), pedidosH.Crear)
		public.GET("/pedidos/seguimiento/:codigo", pedidosH.Seguimiento)
		public.POST("/consultas", middleware.PublicFormRateLimiter(), consultasH.Crear)
	}

	// Protected routes, admins pass every permission check
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/dashboard", middleware.RequirePermiso(model.PermisoDashboard), dashboardH.Resumen)

		prods := v1.Group("/productos", middleware.RequirePermiso(model.PermisoProductos))
		{
			prods.GET("", productosH.Listar)
			prods.POST("", productosH.Crear)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
			prods.PATCH("/:id/stock", productosH.AjustarStock)
			prods.GET("/:id/historial-precios", productosH.HistorialPrecios)
		}
		v1.POST("/precios/calcular", middleware.RequirePermiso(model.PermisoProductos), productosH.CalcularPrecio)

		// Categorías y ubicaciones
		cats := v1.Group("", middleware.RequirePermiso(model.PermisoProductos))
		{
			cats.GET("/categorias", categoriasH.Listar)
			cats.POST("/categorias", categoriasH.Crear)
			cats.PUT("/categorias/:id", categoriasH.Actualizar)
			cats.DELETE("/categorias/:id", categoriasH.Desactivar)
			cats.GET("/ubicaciones", categoriasH.ListarUbicaciones)
			cats.POST("/ubicaciones", categoriasH.CrearUbicacion)
			cats.PUT("/ubicaciones/:id", categoriasH.RenombrarUbicacion)
		}

		peds := v1.Group("/pedidos", middleware.RequirePermiso(model.PermisoPedidos))
		{
			peds.GET("", pedidosH.Listar)
			peds.GET("/pendientes", pedidosH.Pendientes)
			peds.GET("/exportar", pedidosH.Exportar)
			peds.GET("/:id", pedidosH.ObtenerPorID)
			peds.PATCH("/:id/estado", pedidosH.ActualizarEstado)
			peds.GET("/:id/recibo", pedidosH.Recibo)
		}

		v1.POST("/ventas", middleware.RequirePermiso(model.PermisoVentas), ventasH.Registrar)

		cons := v1.Group("/consultas", middleware.RequirePermiso(model.PermisoConsultas))
		{
			cons.GET("", consultasH.Listar)
			cons.PATCH("/:id/contactada", consultasH.MarcarContactada)
		}

		alm := v1.Group("", middleware.RequirePermiso(model.PermisoAlmacen))
		{
			alm.GET("/almacen/rotacion", almacenH.Rotacion)
			alm.GET("/inventario/alertas", inventarioH.ObtenerAlertas)
			alm.GET("/inventario/movimientos", inventarioH.ListarMovimientos)
		}

		cont := v1.Group("/contabilidad", middleware.RequirePermiso(model.PermisoContabilidad))
		{
			cont.GET("", contabilidadH.Resumen)
			cont.GET("/exportar", contabilidadH.ExportarCSV)
			cont.GET("/pedidos/:id", contabilidadH.Detalle)
		}

		usuarios := v1.Group("/usuarios", middleware.RequirePermiso(model.PermisoUsuarios))
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/permisos", usuariosH.Permisos)
			usuarios.POST("", middleware.RequireRole(model.RolAdmin), usuariosH.Crear)
			usuarios.PUT("/:id", middleware.RequireRole(model.RolAdmin), usuariosH.Actualizar)
			usuarios.PUT("/:id/permisos", middleware.RequireRole(model.RolAdmin), usuariosH.ActualizarPermisos)
			usuarios.DELETE("/:id", middleware.RequireRole(model.RolAdmin), usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", middleware.RequireRole(model.RolAdmin), usuariosH.Reactivar)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
