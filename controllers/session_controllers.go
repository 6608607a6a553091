package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/services"
	"github.com/yeremiapane/orderlink/utils"
)

type SessionController struct {
	Svc      *services.OrderService
	Registry *services.SessionRegistry
}

func NewSessionController(svc *services.OrderService, registry *services.SessionRegistry) *SessionController {
	return &SessionController{Svc: svc, Registry: registry}
}

// GetSession -> the table's open tab: attached orders, running total
// and how long the table has been occupied.
func (sc *SessionController) GetSession(c *gin.Context) {
	tableRef := c.Param("table_ref")

	sess, err := sc.Registry.GetSession(tableRef)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session detail", gin.H{
		"session":  sess,
		"orders":   sc.Svc.SessionOrders(sess),
		"duration": services.CalculateDuration(sess.StartTime),
	})
}

// RequestBill -> customer asks for the bill; session transitions and
// the request rides the fan-out pipeline.
func (sc *SessionController) RequestBill(c *gin.Context) {
	tableRef := c.Param("table_ref")

	sess, err := sc.Svc.RequestBill(tableRef)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveSession):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrSessionClosed):
			utils.RespondError(c, http.StatusConflict, err)
		default:
			var vErr *models.ValidationError
			if errors.As(err, &vErr) {
				utils.RespondError(c, http.StatusBadRequest, err)
				return
			}
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bill requested", sess)
}

// CallWaiter -> service request with no cart and no session change.
func (sc *SessionController) CallWaiter(c *gin.Context) {
	tableRef := c.Param("table_ref")

	if err := sc.Svc.CallWaiter(tableRef); err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Waiter called", gin.H{"table_ref": tableRef})
}
