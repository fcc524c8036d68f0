// Package server exposes the pin controller over HTTP. Routes and payload
// shapes follow the REST API consumed by the Home Assistant integration.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gpioserver/gpio"
)

const version = "1.0.0"

const (
	defaultPulseDuration = 500 * time.Millisecond
	defaultBlinkTimes    = 5
	defaultBlinkInterval = 500 * time.Millisecond
)

// Server binds the HTTP routes to a pin controller.
type Server struct {
	ctl *gpio.Controller
	log *logrus.Entry
}

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(ctl *gpio.Controller, log *logrus.Entry) *gin.Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Server{ctl: ctl, log: log}

	router := gin.Default()

	api := router.Group("/api")
	api.GET("/health", s.health)

	g := api.Group("/gpio")
	g.POST("/:pin/on", s.turnOn)
	g.POST("/:pin/off", s.turnOff)
	g.POST("/:pin/toggle", s.toggle)
	g.POST("/:pin/pulse", s.pulse)
	g.POST("/:pin/blink", s.blink)
	g.GET("/:pin/status", s.pinStatus)
	g.GET("/all/status", s.allStatus)
	g.POST("/all/off", s.allOff)
	g.POST("/setup", s.setup)
	g.POST("/cleanup", s.cleanup)
	g.GET("/info", s.info)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Endpoint not found"})
	})

	return router
}

// CreateServer builds the router and serves it on host:port. It blocks until
// the listener fails.
func CreateServer(ctl *gpio.Controller, log *logrus.Entry, host string, port int, debug bool) error {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := NewRouter(ctl, log)
	return router.Run(fmt.Sprintf("%s:%d", host, port))
}

// pinParam parses the :pin path parameter. A non-numeric value is a request
// shape problem, answered before the controller is involved.
func pinParam(c *gin.Context) (int, bool) {
	pin, err := strconv.Atoi(c.Param("pin"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("Invalid pin %q: must be a number", c.Param("pin")),
		})
		return 0, false
	}
	return pin, true
}

// errStatus maps controller failures to HTTP status codes: invalid pin
// numbers are the client's fault, unconfigured pins are missing resources,
// everything else is a driver fault.
func errStatus(err error) int {
	switch {
	case errors.Is(err, gpio.ErrInvalidPin):
		return http.StatusBadRequest
	case gpio.IsNotConfigured(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Raspberry Pi GPIO API is running",
		"version": version,
	})
}

func (s *Server) turnOn(c *gin.Context) {
	s.setLevel(c, gpio.High)
}

func (s *Server) turnOff(c *gin.Context) {
	s.setLevel(c, gpio.Low)
}

func (s *Server) setLevel(c *gin.Context, level gpio.Level) {
	pin, ok := pinParam(c)
	if !ok {
		return
	}
	if err := s.ctl.SetLevel(pin, level); err != nil {
		c.JSON(errStatus(err), gin.H{"status": "error", "message": err.Error(), "pin": pin})
		return
	}
	s.log.WithFields(logrus.Fields{"pin": pin, "state": level.String()}).Info("pin switched")
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Pin %d turned %s", pin, map[gpio.Level]string{gpio.High: "ON", gpio.Low: "OFF"}[level]),
		"pin":     pin,
		"state":   level.String(),
	})
}

func (s *Server) toggle(c *gin.Context) {
	pin, ok := pinParam(c)
	if !ok {
		return
	}
	if err := s.ctl.Toggle(pin); err != nil {
		c.JSON(errStatus(err), gin.H{"status": "error", "message": err.Error(), "pin": pin})
		return
	}
	level, err := s.ctl.ReadLevel(pin)
	if err != nil {
		c.JSON(errStatus(err), gin.H{"status": "error", "message": err.Error(), "pin": pin})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Pin %d toggled", pin),
		"pin":     pin,
		"state":   level.String(),
	})
}

func (s *Server) pulse(c *gin.Context) {
	pin, ok := pinParam(c)
	if !ok {
		return
	}
	var req struct {
		DurationMs int `json:"duration_ms"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid JSON body"})
			return
		}
	}
	duration := defaultPulseDuration
	if req.DurationMs > 0 {
		duration = time.Duration(req.DurationMs) * time.Millisecond
	}
	if err := s.ctl.Pulse(pin, duration); err != nil {
		c.JSON(errStatus(err), gin.H{"status": "error", "message": err.Error(), "pin": pin})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Pin %d pulsed for %s", pin, duration),
		"pin":     pin,
	})
}

func (s *Server) blink(c *gin.Context) {
	pin, ok := pinParam(c)
	if !ok {
		return
	}
	var req struct {
		Times      int `json:"times"`
		IntervalMs int `json:"interval_ms"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid JSON body"})
			return
		}
	}
	times := defaultBlinkTimes
	if req.Times > 0 {
		times = req.Times
	}
	interval := defaultBlinkInterval
	if req.IntervalMs > 0 {
		interval = time.Duration(req.IntervalMs) * time.Millisecond
	}
	if err := s.ctl.Blink(pin, times, interval); err != nil {
		c.JSON(errStatus(err), gin.H{"status": "error", "message": err.Error(), "pin": pin})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Pin %d blinked %d times", pin, times),
		"pin":     pin,
	})
}

func (s *Server) pinStatus(c *gin.Context) {
	pin, ok := pinParam(c)
	if !ok {
		return
	}
	level, err := s.ctl.ReadLevel(pin)
	if err != nil {
		// An unconfigured pin is reported as such, never as a level.
		c.JSON(errStatus(err), gin.H{"status": "error", "message": err.Error(), "pin": pin})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"pin":    pin,
		"state":  level.String(),
		"value":  int(level),
	})
}

func (s *Server) allStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"pins":   s.ctl.SnapshotAll(),
	})
}

func (s *Server) allOff(c *gin.Context) {
	if err := s.ctl.AllOff(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "All pins turned OFF"})
}

func (s *Server) setup(c *gin.Context) {
	var req struct {
		Pins    []int `json:"pins" binding:"required"`
		Initial *int  `json:"initial"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Missing or invalid pins configuration in request body",
		})
		return
	}
	initial := gpio.Low
	if req.Initial != nil && *req.Initial != 0 {
		initial = gpio.High
	}
	results := s.ctl.ConfigureMany(req.Pins, initial)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Pins configured",
		"results": results,
	})
}

func (s *Server) cleanup(c *gin.Context) {
	s.ctl.Release()
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "GPIO cleanup completed"})
}

func (s *Server) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"info":   s.ctl.Info(),
	})
}
