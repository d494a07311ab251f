package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/littlelemon/ordering-api/controllers"
	"github.com/littlelemon/ordering-api/middlewares"
	"github.com/littlelemon/ordering-api/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Attached before any route is registered, since gin snapshots each
	// route's handler chain at registration time.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	menuItemCtrl := controllers.NewMenuItemController(db)
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	groupCtrl := controllers.NewGroupController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Uploaded menu images
	r.Static("/uploads", "public/uploads")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Catalog reads are open to everyone, anonymous included.
	r.GET("/categories", categoryCtrl.ListCategories)
	r.GET("/categories/:cat_id", categoryCtrl.GetCategory)
	r.GET("/menu-items", menuItemCtrl.ListMenuItems)
	r.GET("/menu-items/:item_id", menuItemCtrl.GetMenuItem)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware(db))
	{
		auth.GET("/profile", userCtrl.GetProfile)

		auth.GET("/cart", cartCtrl.GetCart)
		auth.POST("/cart", cartCtrl.AddToCart)
		auth.DELETE("/cart/:line_id", cartCtrl.RemoveFromCart)

		auth.GET("/orders", orderCtrl.ListOrders)
		auth.POST("/orders", orderCtrl.PlaceOrder)
		auth.GET("/orders/:order_id", orderCtrl.GetOrder)
		auth.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
		auth.PATCH("/orders/:order_id", orderCtrl.PatchOrder)

		// Catalog writes
		manager := auth.Group("/")
		manager.Use(middlewares.RequireRoles(models.RoleManager, models.RoleAdmin))
		{
			manager.POST("/categories", categoryCtrl.CreateCategory)
			manager.PUT("/categories/:cat_id", categoryCtrl.UpdateCategory)
			manager.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
			manager.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

			manager.POST("/menu-items", menuItemCtrl.CreateMenuItem)
			manager.PUT("/menu-items/:item_id", menuItemCtrl.UpdateMenuItem)
			manager.PATCH("/menu-items/:item_id", menuItemCtrl.UpdateMenuItem)
			manager.DELETE("/menu-items/:item_id", menuItemCtrl.DeleteMenuItem)

			manager.GET("/delivery_crew", groupCtrl.ListDeliveryCrew)
			manager.POST("/delivery_crew", groupCtrl.AddDeliveryCrew)
			manager.DELETE("/delivery_crew/:user_id", groupCtrl.RemoveDeliveryCrew)
		}

		admin := auth.Group("/")
		admin.Use(middlewares.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/managers", groupCtrl.ListManagers)
			admin.POST("/managers", groupCtrl.AddManager)
			admin.DELETE("/managers/:user_id", groupCtrl.RemoveManager)
		}
	}

	return r
}
