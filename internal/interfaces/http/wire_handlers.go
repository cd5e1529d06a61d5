package http

import (
	"github.com/schoolit/servicedesk/internal/interfaces/http/handlers"
	callhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/calls"
	inventoryhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/inventory"
	schoolhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/school"
	streamhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/stream"
	sessionhandlers "github.com/schoolit/servicedesk/internal/interfaces/http/handlers/worksession"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler    *handlers.HealthHandler
	callHandler      *callhandlers.Handler
	inventoryHandler *inventoryhandlers.Handler
	sessionHandler   *sessionhandlers.Handler
	schoolHandler    *schoolhandlers.Handler
	streamHandler    *streamhandlers.Handler
}

func newHandlers(c *Container) *allHandlers {
	u := c.ucs
	log := c.log

	return &allHandlers{
		healthHandler: handlers.NewHealthHandler(c.db),
		callHandler: callhandlers.NewHandler(
			u.createCall, u.transitionStatus, u.setPriority, u.setCategory,
			u.addNote, u.supplyEquipment, u.getCall, u.listCalls, u.callStats, log,
		),
		inventoryHandler: inventoryhandlers.NewHandler(
			u.addItem, u.updateItem, u.restock, u.adjustStock,
			u.listItems, u.getItem, u.listMovements, log,
		),
		sessionHandler: sessionhandlers.NewHandler(
			u.clockIn, u.clockOut, u.activeSession, u.listSessions, u.hoursByTech, log,
		),
		schoolHandler: schoolhandlers.NewHandler(
			u.createSchool, u.getSchool, u.updateSettings, u.deleteSchool,
			u.meta, u.createAccount, u.listAccounts, log,
		),
		streamHandler: streamhandlers.NewHandler(c.hub, c.catalog, c.cfg.Server.MaxStreams, log),
	}
}
