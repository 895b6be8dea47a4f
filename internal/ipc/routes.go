package ipc

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, ctl Controller, info Info) {
	e.GET("/status", statusHandler(ctl, info))
	e.POST("/command", commandHandler(ctl))
	e.POST("/stop", stopHandler(ctl))
}
