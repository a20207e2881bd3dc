package api

import (
	"github.com/intellisort/intellisort/internal/analytics"
	"github.com/intellisort/intellisort/internal/classifications"
	"github.com/intellisort/intellisort/internal/classifier"
	"github.com/intellisort/intellisort/internal/config"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Classifier      classifier.System
	Classifications classifications.System
	Analytics       analytics.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	gateway := classifier.New(&cfg.Classifier, runtime.Logger)

	classificationsSystem := classifications.New(
		runtime.Database.Connection(),
		gateway,
		runtime.Logger,
		runtime.Pagination,
	)

	analyticsSystem := analytics.New(
		classificationsSystem,
		runtime.Logger,
		&cfg.Analytics,
	)

	return &Domain{
		Classifier:      gateway,
		Classifications: classificationsSystem,
		Analytics:       analyticsSystem,
	}
}
