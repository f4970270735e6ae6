package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bistroboard/bistroboard/controllers"
	"github.com/bistroboard/bistroboard/middlewares"
	"github.com/bistroboard/bistroboard/services"
)

func SetupRouter(db *gorm.DB, cache *services.QueryCache) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	gateway := services.NewPaymentGateway()
	availability := services.NewAvailabilityService(db)

	userCtrl := controllers.NewUserController(db, cache)
	tableCtrl := controllers.NewTableController(db, cache)
	customerCtrl := controllers.NewCustomerController(db, cache)
	categoryCtrl := controllers.NewMenuCategoryController(db, cache)
	menuCtrl := controllers.NewMenuController(db, cache)
	orderCtrl := controllers.NewOrderController(db, cache, gateway)
	reservationCtrl := controllers.NewReservationController(db, cache, availability)
	teamCtrl := controllers.NewTeamController(db, cache)
	moderationCtrl := controllers.NewModerationController(db, cache)
	dashboardCtrl := controllers.NewDashboardController(db, cache)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Online intake: ordering and booking without a staff login.
	r.POST("/api/orders/:business_id", orderCtrl.CreateOrder)
	r.GET("/api/menu/:business_id", menuCtrl.GetAllMenuItems)
	r.GET("/api/menu/:business_id/categories", categoryCtrl.GetAllCategories)
	r.POST("/api/reservations/:business_id", reservationCtrl.CreateReservation)
	r.GET("/api/reservations/:business_id/availability", reservationCtrl.GetAvailability)

	// Payment gateway callback (signature-checked, not session-authed).
	r.POST("/api/payments/callback", orderCtrl.HandlePaymentCallback)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)

	// USERS / MODERATION (admin)
	adminOnly := auth.Group("/")
	adminOnly.Use(middlewares.RequireRole("admin"))
	{
		adminOnly.GET("/users", userCtrl.GetAllUsers)
		adminOnly.POST("/users/:user_id/suspend", userCtrl.SuspendUser)
		adminOnly.POST("/users/:user_id/unsuspend", userCtrl.UnsuspendUser)

		adminOnly.GET("/posts", moderationCtrl.GetAllPosts)
		adminOnly.PATCH("/posts/:post_id/status", moderationCtrl.SetPostStatus)
		adminOnly.GET("/reports", moderationCtrl.GetAllReports)
		adminOnly.PATCH("/reports/:report_id", moderationCtrl.ResolveReport)
	}
	auth.POST("/reports", moderationCtrl.CreateReport)

	// ORDERS (staff/admin)
	auth.GET("/api/orders/:business_id", orderCtrl.GetAllOrders)
	auth.POST("/api/orders/:business_id", orderCtrl.CreateOrder)
	auth.GET("/api/orders/:business_id/:order_id", orderCtrl.GetOrderByID)
	auth.POST("/api/orders/:business_id/:order_id/advance", orderCtrl.AdvanceOrderStatus)
	auth.POST("/api/orders/:business_id/:order_id/cancel", orderCtrl.CancelOrder)
	auth.PATCH("/api/orders/:business_id/:order_id/payment", orderCtrl.SetPaymentStatus)
	auth.POST("/api/orders/:business_id/:order_id/charge", orderCtrl.ChargeQRIS)

	// RESERVATIONS (staff/admin)
	auth.GET("/api/reservations/:business_id", reservationCtrl.GetAllReservations)
	auth.POST("/api/reservations/:business_id", reservationCtrl.CreateReservation)
	auth.GET("/api/reservations/:business_id/availability", reservationCtrl.GetAvailability)
	auth.GET("/api/reservations/:business_id/:reservation_id", reservationCtrl.GetReservationByID)
	auth.POST("/api/reservations/:business_id/:reservation_id/advance", reservationCtrl.AdvanceReservationStatus)
	auth.POST("/api/reservations/:business_id/:reservation_id/cancel", reservationCtrl.CancelReservation)
	auth.PATCH("/api/reservations/:business_id/:reservation_id/table", reservationCtrl.AssignTable)
	auth.PATCH("/api/reservations/:business_id/:reservation_id/notes", reservationCtrl.UpdateNotes)

	// TABLES
	auth.GET("/api/tables/:business_id", tableCtrl.GetAllTables)
	auth.POST("/api/tables/:business_id", tableCtrl.CreateTable)
	auth.PATCH("/api/tables/:business_id/:table_id", tableCtrl.UpdateTable)
	auth.PATCH("/api/tables/:business_id/:table_id/status", tableCtrl.UpdateTableStatus)

	// CUSTOMERS (CRM)
	auth.GET("/api/customers/:business_id", customerCtrl.GetAllCustomers)
	auth.POST("/api/customers/:business_id", customerCtrl.CreateCustomer)
	auth.GET("/api/customers/:business_id/:customer_id", customerCtrl.GetCustomerByID)
	auth.PATCH("/api/customers/:business_id/:customer_id", customerCtrl.UpdateCustomer)
	auth.POST("/api/customers/:business_id/:customer_id/points", customerCtrl.AdjustPoints)
	auth.DELETE("/api/customers/:business_id/:customer_id", customerCtrl.DeleteCustomer)

	// MENU
	auth.GET("/api/menu/:business_id", menuCtrl.GetAllMenuItems)
	auth.POST("/api/menu/:business_id", menuCtrl.CreateMenuItem)
	auth.GET("/api/menu/:business_id/items/:item_id", menuCtrl.GetMenuItemByID)
	auth.PATCH("/api/menu/:business_id/items/:item_id", menuCtrl.UpdateMenuItem)
	auth.DELETE("/api/menu/:business_id/items/:item_id", menuCtrl.DeleteMenuItem)
	auth.POST("/api/menu/:business_id/categories", categoryCtrl.CreateCategory)
	auth.PATCH("/api/menu/:business_id/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/api/menu/:business_id/categories/:cat_id", categoryCtrl.DeleteCategory)

	// TEAM (admin)
	team := auth.Group("/api/business/:business_id/team")
	team.Use(middlewares.RequireRole("admin"))
	{
		team.GET("", teamCtrl.GetTeam)
		team.POST("", teamCtrl.InviteMember)
		team.PATCH("/:member_id/role", teamCtrl.UpdateMemberRole)
		team.POST("/:member_id/revoke", teamCtrl.RevokeMember)
	}

	// ANALYTICS
	auth.GET("/api/analytics/:business_id/dashboard", dashboardCtrl.GetDashboardStats)

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetAllNotifications)
	auth.POST("/notifications", notificationCtrl.CreateNotification)
	auth.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	auth.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	// WebSocket feed
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.LiveHandler)
	}

	return r
}
