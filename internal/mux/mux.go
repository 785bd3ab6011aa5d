package mux

import (
	"net/http"
	"time"

	"conga-server/internal/config"
	"conga-server/pkg/conga"
	"conga-server/pkg/room"

	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	lobby   *room.Lobby
}

// NewMux returns a new HTTP mux
func NewMux(version string) *Mux {
	cfg := config.Instance()

	lobby := room.NewLobby(conga.Options{
		CloseThreshold: cfg.Game.CloseThreshold,
		TargetScore:    cfg.Game.TargetScore,
	}, time.Duration(cfg.Game.ForfeitGraceSeconds)*time.Second, logrus.StandardLogger())
	lobby.StartShift()

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		lobby:   lobby,
	}

	this.Router.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	this.Router.Methods(http.MethodGet).Path("/ws").Handler(this.getWS())

	return this
}
