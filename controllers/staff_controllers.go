package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/orderlink/hub"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type StaffController struct {
	Hub *hub.Hub
}

func NewStaffController(h *hub.Hub) *StaffController {
	return &StaffController{Hub: h}
}

// Connect -> websocket endpoint for staff terminals. Registered
// terminals receive every broadcast envelope live; anything missed
// while disconnected is recoverable from the mailbox.
func (st *StaffController) Connect(c *gin.Context) {
	role := c.DefaultQuery("role", "staff")
	if role != "chef" && role != "staff" && role != "admin" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	st.Hub.Register(ws, role)

	// Drain client frames until the terminal disconnects.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	st.Hub.Unregister(ws)
}
