package factory

import (
	"context"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
	"github.com/SalvatoreBevilacqua/monitoring-app/services/generator/engine"
	"github.com/SalvatoreBevilacqua/monitoring-app/services/generator/sampler"
	"github.com/SalvatoreBevilacqua/monitoring-app/services/generator/templates"
	"github.com/SalvatoreBevilacqua/monitoring-app/storage"
)

// ArgsComponentsHandler defines the generator components arguments
type ArgsComponentsHandler struct {
	Connection    string
	DatabaseName  string
	Days          int
	Reset         bool
	Seed          uint64
	TemplatesPath string
	NowHandler    func() time.Time
}

type componentsHandler struct {
	store   Store
	sampler engine.Sampler
	engine  Engine
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(args ArgsComponentsHandler) (*componentsHandler, error) {
	catalog, err := templates.LoadCatalog(args.TemplatesPath)
	if err != nil {
		return nil, err
	}

	smp, err := sampler.NewSampler(sampler.ArgsSampler{
		Seed:    args.Seed,
		Catalog: catalog,
	})
	if err != nil {
		return nil, err
	}

	target, err := storage.ParseTarget(args.Connection, args.DatabaseName)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLStorage(target)
	if err != nil {
		return nil, err
	}

	eng, err := engine.NewGeneratorEngine(engine.ArgsGeneratorEngine{
		Days:       args.Days,
		Reset:      args.Reset,
		Sampler:    smp,
		Writer:     store,
		NowHandler: args.NowHandler,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &componentsHandler{
		store:   store,
		sampler: smp,
		engine:  eng,
	}, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() Store {
	return ch.store
}

// GetSampler returns the sampler component
func (ch *componentsHandler) GetSampler() engine.Sampler {
	return ch.sampler
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() Engine {
	return ch.engine
}

// Process runs the generation once
func (ch *componentsHandler) Process(ctx context.Context) (common.GenerationResult, error) {
	return ch.engine.Process(ctx)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	_ = ch.store.Close()
}
