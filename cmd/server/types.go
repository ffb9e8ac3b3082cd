package main

import (
	"net/http/httputil"

	"codeberg.org/algorave/errorstack/internal/config"
	"codeberg.org/algorave/errorstack/internal/history"
	"codeberg.org/algorave/errorstack/internal/parser"
	"codeberg.org/algorave/errorstack/internal/store"
	ws "codeberg.org/algorave/errorstack/internal/websocket"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the error service
type Server struct {
	config  *config.Config
	store   *store.Store
	chain   *parser.Chain
	hub     *ws.Hub
	mirror  *store.RedisMirror
	history *history.Store
	proxy   *httputil.ReverseProxy
	router  *gin.Engine
}
