package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/storefront-api/middlewares"
	"github.com/yeremiapane/storefront-api/realtime"
	"github.com/yeremiapane/storefront-api/utils"
)

type RealtimeController struct {
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewRealtimeController(hub *realtime.Hub) *RealtimeController {
	return &RealtimeController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			// Auth lewat ?token= sudah dicek middleware, origin tidak dibatasi
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// AdminFeed -> endpoint WebSocket notifikasi admin
func (rc *RealtimeController) AdminFeed(c *gin.Context) {
	userID, role, ok := middlewares.CurrentUser(c)
	if !ok || role != utils.RoleAdmin {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Warnf("Websocket upgrade failed: %v", err)
		return
	}

	rc.Hub.Serve(ws, userID)
}
