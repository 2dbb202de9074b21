package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grandplaza/roomvoice/pkg/config"
	"github.com/grandplaza/roomvoice/pkg/guest"
	"github.com/grandplaza/roomvoice/pkg/menu"
	"github.com/grandplaza/roomvoice/pkg/order"
	"github.com/grandplaza/roomvoice/pkg/speech"
)

// ProviderFactory builds the reasoning provider for one call, bound to that
// call's function dispatcher.
type ProviderFactory func(dispatcher speech.Dispatcher) (speech.Provider, error)

type Handlers struct {
	db          *gorm.DB
	catalog     *menu.Catalog
	directory   guest.Directory
	submitter   order.Submitter
	newProvider ProviderFactory
}

func NewHandlers(db *gorm.DB, catalog *menu.Catalog, directory guest.Directory, submitter order.Submitter, newProvider ProviderFactory) *Handlers {
	return &Handlers{
		db:          db,
		catalog:     catalog,
		directory:   directory,
		submitter:   submitter,
		newProvider: newProvider,
	}
}

func (h *Handlers) Register(engine *gin.Engine) {
	r := engine.Group(config.GlobalConfig.APIPrefix)

	sessions := r.Group("/sessions")
	{
		sessions.GET("", h.ListSessions)
		sessions.POST("", h.CreateSession)
		sessions.GET("/by-session-id/:sessionId", h.GetSessionBySessionID)
		sessions.GET("/:id", h.GetSession)
		sessions.PATCH("/:id/status", h.UpdateSessionStatus)
	}

	r.GET("/voice/call", h.HandleVoiceCall)
}
