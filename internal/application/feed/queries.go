package feed

import (
	"context"

	callusecases "github.com/schoolit/servicedesk/internal/application/servicecall/usecases"
	invusecases "github.com/schoolit/servicedesk/internal/application/inventory/usecases"
	sessionusecases "github.com/schoolit/servicedesk/internal/application/worksession/usecases"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
)

// Catalog builds the queries the desk UI subscribes to.
type Catalog struct {
	listCalls     callusecases.ListCallsExecutor
	getCall       callusecases.GetCallExecutor
	listItems     invusecases.ListItemsExecutor
	activeSession sessionusecases.ActiveSessionExecutor
	listSessions  sessionusecases.ListSessionsExecutor
}

func NewCatalog(
	listCalls callusecases.ListCallsExecutor,
	getCall callusecases.GetCallExecutor,
	listItems invusecases.ListItemsExecutor,
	activeSession sessionusecases.ActiveSessionExecutor,
	listSessions sessionusecases.ListSessionsExecutor,
) *Catalog {
	return &Catalog{
		listCalls:     listCalls,
		getCall:       getCall,
		listItems:     listItems,
		activeSession: activeSession,
		listSessions:  listSessions,
	}
}

// Calls follows a filtered call list. ClientID and RoomNumber narrow both
// the read and the events that trigger it.
func (c *Catalog) Calls(q callusecases.ListCallsQuery) Query {
	return Query{
		Name: "calls",
		Match: func(e pubsub.ChangeEvent) bool {
			if e.Topic == pubsub.TopicSchools {
				return q.SchoolID == "" || e.SchoolID == q.SchoolID
			}
			if e.Topic != pubsub.TopicCalls {
				return false
			}
			if q.SchoolID != "" && e.SchoolID != q.SchoolID {
				return false
			}
			if q.ClientID != "" && e.ClientID != q.ClientID {
				return false
			}
			if q.RoomNumber != "" && e.RoomNumber != q.RoomNumber {
				return false
			}
			return true
		},
		Load: func(ctx context.Context) (any, error) {
			return c.listCalls.Execute(ctx, q)
		},
	}
}

func (c *Catalog) Call(callID string) Query {
	return Query{
		Name: "call",
		Match: func(e pubsub.ChangeEvent) bool {
			return e.Topic == pubsub.TopicCalls && e.CallID == callID
		},
		Load: func(ctx context.Context) (any, error) {
			return c.getCall.Execute(ctx, callusecases.GetCallQuery{CallID: callID})
		},
	}
}

func (c *Catalog) Inventory(q invusecases.ListItemsQuery) Query {
	return Query{
		Name: "inventory",
		Match: func(e pubsub.ChangeEvent) bool {
			return e.Topic == pubsub.TopicInventory
		},
		Load: func(ctx context.Context) (any, error) {
			return c.listItems.Execute(ctx, q)
		},
	}
}

func (c *Catalog) ActiveSession(techID string) Query {
	return Query{
		Name: "active_session",
		Match: func(e pubsub.ChangeEvent) bool {
			return e.Topic == pubsub.TopicSessions && e.TechID == techID
		},
		Load: func(ctx context.Context) (any, error) {
			return c.activeSession.Execute(ctx, techID)
		},
	}
}

func (c *Catalog) Sessions(q sessionusecases.ListSessionsQuery) Query {
	return Query{
		Name: "sessions",
		Match: func(e pubsub.ChangeEvent) bool {
			if e.Topic != pubsub.TopicSessions {
				return false
			}
			if q.TechID != "" && e.TechID != q.TechID {
				return false
			}
			return q.SchoolID == "" || e.SchoolID == q.SchoolID
		},
		Load: func(ctx context.Context) (any, error) {
			return c.listSessions.Execute(ctx, q)
		},
	}
}
