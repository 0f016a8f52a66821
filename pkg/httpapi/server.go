// Package httpapi exposes the room service as a JSON API.
package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vctt94/holdemtable/pkg/lobby"
	"github.com/vctt94/holdemtable/pkg/poker"
)

// Server routes HTTP requests to a lobby.Service.
type Server struct {
	svc     *lobby.Service
	engine  *gin.Engine
	started time.Time
}

// NewServer builds the router for svc.
func NewServer(svc *lobby.Service) *Server {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	s := &Server{svc: svc, engine: r, started: time.Now()}

	r.GET("/ping", func(c *gin.Context) {
		success(c, gin.H{"message": "pong"})
	})
	r.GET("/debug/stats", s.stats)

	g := r.Group("/poker")
	{
		g.POST("/create", s.createRoom)
		g.POST("/join", s.joinRoom)
		g.POST("/start", s.startGame)
		g.POST("/action", s.act)
		g.POST("/poll", s.poll)
		g.POST("/state", s.state)
		g.POST("/leave", s.leave)
		g.GET("/tables", s.listTables)
	}
	return s
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugf("%s %s %d %v", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}

type createBody struct {
	Name string `json:"name" binding:"required"`
}

type joinBody struct {
	RoomCode string `json:"roomCode" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type playerBody struct {
	RoomCode    string `json:"roomCode" binding:"required"`
	PlayerToken string `json:"playerToken" binding:"required"`
}

type actionBody struct {
	RoomCode    string       `json:"roomCode" binding:"required"`
	PlayerToken string       `json:"playerToken" binding:"required"`
	Action      poker.Action `json:"action"`
}

// errorStatus maps service and engine errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, lobby.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrInvalidToken),
		errors.Is(err, lobby.ErrNotCreator):
		return http.StatusForbidden
	case errors.Is(err, lobby.ErrConflictRetries):
		return http.StatusConflict
	case errors.Is(err, lobby.ErrInvalidName),
		errors.Is(err, lobby.ErrRoomFull),
		errors.Is(err, lobby.ErrNameTaken),
		errors.Is(err, lobby.ErrNotEnoughPlayers),
		errors.Is(err, lobby.ErrAlreadyStarted),
		errors.Is(err, poker.ErrInvalidSeat),
		errors.Is(err, poker.ErrNotYourTurn),
		errors.Is(err, poker.ErrHandComplete),
		errors.Is(err, poker.ErrInvalidCheck),
		errors.Is(err, poker.ErrNothingToCall),
		errors.Is(err, poker.ErrRaiseBelowMinimum),
		errors.Is(err, poker.ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		failure(c, status, "internal server error")
		return
	}
	failure(c, status, err.Error())
}

func (s *Server) createRoom(c *gin.Context) {
	var body createBody
	if err := c.ShouldBindJSON(&body); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.svc.CreateRoom(c.Request.Context(), body.Name)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, res)
}

func (s *Server) joinRoom(c *gin.Context) {
	var body joinBody
	if err := c.ShouldBindJSON(&body); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.svc.JoinRoom(c.Request.Context(), body.RoomCode, body.Name)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, res)
}

func (s *Server) startGame(c *gin.Context) {
	var body playerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := s.svc.StartGame(c.Request.Context(), body.RoomCode, body.PlayerToken)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, view)
}

func (s *Server) act(c *gin.Context) {
	var body actionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := poker.ParseActionType(strings.TrimSpace(string(body.Action.Type)))
	if err != nil {
		failure(c, http.StatusBadRequest, "invalid action type")
		return
	}
	body.Action.Type = t
	if t == poker.ActionRaise && body.Action.Amount <= 0 {
		failure(c, http.StatusBadRequest, "raise requires a positive amount")
		return
	}

	view, err := s.svc.Act(c.Request.Context(), body.RoomCode, body.PlayerToken, body.Action)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, view)
}

func (s *Server) poll(c *gin.Context) {
	var body playerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := s.svc.Poll(c.Request.Context(), body.RoomCode, body.PlayerToken)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, view)
}

func (s *Server) state(c *gin.Context) {
	var body playerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := s.svc.State(c.Request.Context(), body.RoomCode, body.PlayerToken)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, view)
}

func (s *Server) leave(c *gin.Context) {
	var body playerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.Leave(c.Request.Context(), body.RoomCode, body.PlayerToken); err != nil {
		fail(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true}, "left the table")
}

func (s *Server) listTables(c *gin.Context) {
	tables, err := s.svc.ListRooms(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"tables": tables})
}
