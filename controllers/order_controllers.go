package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/orderlink/hub"
	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/services"
	"github.com/yeremiapane/orderlink/utils"
)

type OrderController struct {
	Svc   *services.OrderService
	Store *services.OrderStore
	Hub   *hub.Hub
}

func NewOrderController(svc *services.OrderService, store *services.OrderStore, h *hub.Hub) *OrderController {
	return &OrderController{Svc: svc, Store: store, Hub: h}
}

// SubmitOrder -> the customer-facing entry point: cart in, durable
// order out, fan-out initiated.
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	tableRef := c.Param("table_ref")

	type ReqBody struct {
		Items []models.CartLine `json:"items" binding:"required"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Svc.SubmitOrder(body.Items, tableRef)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetOrderByID -> detail of one order; the read side of the customer
// status poller.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id := c.Param("order_id")

	order, err := oc.Store.GetOrder(id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetRecentOrders -> bounded history, newest first.
func (oc *OrderController) GetRecentOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, err := oc.Store.RecentOrders(limit)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Recent orders", orders)
}

// AdvanceStatus -> staff side moves an order's kitchen status forward.
// Items and total are frozen; only the status column is touched.
func (oc *OrderController) AdvanceStatus(c *gin.Context) {
	id := c.Param("order_id")

	type ReqBody struct {
		Status models.KitchenStatus `json:"status" binding:"required"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Store.AdvanceKitchenStatus(id, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrInvalidStatusShift):
			utils.RespondError(c, http.StatusBadRequest, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	oc.Hub.BroadcastOrderUpdate(*order)

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
