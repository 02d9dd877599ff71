package api

import (
	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Objectives() storage.ObjectiveRepository
	Metrics() storage.MetricRepository
	Rituals() storage.RitualRepository
	Tasks() storage.TaskRepository
	Waitlist() storage.WaitlistRepository
}

type application struct {
	logger internal.Logger
	store  storage.Store
}

func NewApp(logger internal.Logger, store storage.Store) App {
	return &application{logger: logger, store: store}
}

func (a *application) Logger() internal.Logger                 { return a.logger }
func (a *application) Objectives() storage.ObjectiveRepository { return a.store }
func (a *application) Metrics() storage.MetricRepository       { return a.store }
func (a *application) Rituals() storage.RitualRepository       { return a.store }
func (a *application) Tasks() storage.TaskRepository           { return a.store }
func (a *application) Waitlist() storage.WaitlistRepository    { return a.store }
