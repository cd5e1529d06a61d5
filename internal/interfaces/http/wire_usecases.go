package http

import (
	invusecases "github.com/schoolit/servicedesk/internal/application/inventory/usecases"
	schoolusecases "github.com/schoolit/servicedesk/internal/application/school/usecases"
	callusecases "github.com/schoolit/servicedesk/internal/application/servicecall/usecases"
	sessionusecases "github.com/schoolit/servicedesk/internal/application/worksession/usecases"
	"github.com/schoolit/servicedesk/internal/shared/services/plaintext"
)

type allUseCases struct {
	// Service calls
	createCall       *callusecases.CreateCallUseCase
	transitionStatus *callusecases.TransitionStatusUseCase
	setPriority      *callusecases.SetPriorityUseCase
	setCategory      *callusecases.SetCategoryUseCase
	addNote          *callusecases.AddNoteUseCase
	supplyEquipment  *callusecases.SupplyEquipmentUseCase
	getCall          *callusecases.GetCallUseCase
	listCalls        *callusecases.ListCallsUseCase
	callStats        *callusecases.CallStatsUseCase

	// Inventory
	addItem       *invusecases.AddItemUseCase
	updateItem    *invusecases.UpdateItemUseCase
	restock       *invusecases.RestockUseCase
	adjustStock   *invusecases.AdjustStockUseCase
	listItems     *invusecases.ListItemsUseCase
	getItem       *invusecases.GetItemUseCase
	listMovements *invusecases.ListMovementsUseCase

	// Work sessions
	clockIn       *sessionusecases.ClockInUseCase
	clockOut      *sessionusecases.ClockOutUseCase
	activeSession *sessionusecases.ActiveSessionUseCase
	listSessions  *sessionusecases.ListSessionsUseCase
	hoursByTech   *sessionusecases.HoursByTechnicianUseCase

	// Schools
	createSchool   *schoolusecases.CreateSchoolUseCase
	getSchool      *schoolusecases.GetSchoolUseCase
	updateSettings *schoolusecases.UpdateSettingsUseCase
	deleteSchool   *schoolusecases.DeleteSchoolUseCase
	meta           *schoolusecases.MetaUseCase
	createAccount  *schoolusecases.CreateAccountUseCase
	listAccounts   *schoolusecases.ListAccountsUseCase
}

func newUseCases(c *Container) *allUseCases {
	r := c.repos
	log := c.log
	wf := c.cfg.Workflow

	return &allUseCases{
		createCall:       callusecases.NewCreateCallUseCase(r.callRepo, r.schoolRepo, r.metaRepo, c.txMgr, c.bus, c.relay, log),
		transitionStatus: callusecases.NewTransitionStatusUseCase(r.callRepo, c.txMgr, c.bus, c.relay, wf, log),
		setPriority:      callusecases.NewSetPriorityUseCase(r.callRepo, c.txMgr, c.bus, log),
		setCategory:      callusecases.NewSetCategoryUseCase(r.callRepo, r.metaRepo, c.txMgr, c.bus, log),
		addNote:          callusecases.NewAddNoteUseCase(r.callRepo, c.txMgr, c.bus, plaintext.NewCleaner(), wf, log),
		supplyEquipment:  callusecases.NewSupplyEquipmentUseCase(r.callRepo, r.itemRepo, c.txMgr, c.bus, log),
		getCall:          callusecases.NewGetCallUseCase(r.callRepo, log),
		listCalls:        callusecases.NewListCallsUseCase(r.callRepo, log),
		callStats:        callusecases.NewCallStatsUseCase(r.callRepo, log),

		addItem:       invusecases.NewAddItemUseCase(r.itemRepo, c.bus, log),
		updateItem:    invusecases.NewUpdateItemUseCase(r.itemRepo, c.txMgr, c.bus, log),
		restock:       invusecases.NewRestockUseCase(r.itemRepo, c.txMgr, c.bus, log),
		adjustStock:   invusecases.NewAdjustStockUseCase(r.itemRepo, c.txMgr, c.bus, log),
		listItems:     invusecases.NewListItemsUseCase(r.itemRepo, log),
		getItem:       invusecases.NewGetItemUseCase(r.itemRepo, log),
		listMovements: invusecases.NewListMovementsUseCase(r.itemRepo, log),

		clockIn:       sessionusecases.NewClockInUseCase(r.sessionRepo, r.schoolRepo, c.txMgr, c.bus, log),
		clockOut:      sessionusecases.NewClockOutUseCase(r.sessionRepo, c.txMgr, c.bus, log),
		activeSession: sessionusecases.NewActiveSessionUseCase(r.sessionRepo, log),
		listSessions:  sessionusecases.NewListSessionsUseCase(r.sessionRepo, log),
		hoursByTech:   sessionusecases.NewHoursByTechnicianUseCase(r.sessionRepo, log),

		createSchool:   schoolusecases.NewCreateSchoolUseCase(r.schoolRepo, c.bus, log),
		getSchool:      schoolusecases.NewGetSchoolUseCase(r.schoolRepo, log),
		updateSettings: schoolusecases.NewUpdateSettingsUseCase(r.schoolRepo, c.txMgr, c.bus, log),
		deleteSchool: schoolusecases.NewDeleteSchoolUseCase(
			r.schoolRepo, r.callRepo, r.accountRepo, r.metaRepo,
			c.txMgr, c.bus, c.cfg.Database.DeleteBatchSize, log,
		),
		meta:          schoolusecases.NewMetaUseCase(r.schoolRepo, r.metaRepo, c.bus, log),
		createAccount: schoolusecases.NewCreateAccountUseCase(r.schoolRepo, r.accountRepo, log),
		listAccounts:  schoolusecases.NewListAccountsUseCase(r.schoolRepo, r.accountRepo, log),
	}
}
