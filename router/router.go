package router

import (
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/orderlink/controllers"
	"github.com/yeremiapane/orderlink/hub"
	"github.com/yeremiapane/orderlink/middlewares"
	"github.com/yeremiapane/orderlink/services"
)

// SetupRouter wires the HTTP surface. Everything is explicitly passed
// in so tests can assemble an isolated instance per case.
func SetupRouter(db *gorm.DB, svc *services.OrderService, registry *services.SessionRegistry, store *services.OrderStore, h *hub.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	orderCtrl := controllers.NewOrderController(svc, store, h)
	sessionCtrl := controllers.NewSessionController(svc, registry)
	notifCtrl := controllers.NewNotificationController(db)
	staffCtrl := controllers.NewStaffController(h)

	serviceLimiter := middlewares.NewServiceRequestLimiter()

	// Customer-facing ordering surface
	tables := r.Group("/tables/:table_ref")
	{
		tables.POST("/orders", orderCtrl.SubmitOrder)
		tables.GET("/session", sessionCtrl.GetSession)
		tables.POST("/bill", serviceLimiter, sessionCtrl.RequestBill)
		tables.POST("/waiter", serviceLimiter, sessionCtrl.CallWaiter)
	}

	// Order reads and staff-side status updates
	orders := r.Group("/orders")
	{
		orders.GET("/recent", orderCtrl.GetRecentOrders)
		orders.GET("/:order_id", orderCtrl.GetOrderByID)
		orders.PATCH("/:order_id/status", orderCtrl.AdvanceStatus)
	}

	// Staff terminals
	r.GET("/ws/staff", staffCtrl.Connect)
	r.GET("/mailbox", notifCtrl.GetMailbox)
	r.GET("/notifications", notifCtrl.GetAllNotifications)

	return r
}
