package processor

import (
	"sync"

	"github.com/nguyentantai21042004/slidecast/internal/artifact"
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/generate"
	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

type implProcessor struct {
	cfg         *config.Config
	store       jobs.Store
	transcriber Transcriber
	generator   generate.Generator
	artifacts   artifact.Store
	logger      logger.Logger
	sem         *semaphore
	wg          sync.WaitGroup
	newCode     func() (string, error)
}

// New creates a new Processor instance
func New(cfg *config.Config, store jobs.Store, tr Transcriber, gen generate.Generator, artifacts artifact.Store, log logger.Logger) Processor {
	return &implProcessor{
		cfg:         cfg,
		store:       store,
		transcriber: tr,
		generator:   gen,
		artifacts:   artifacts,
		logger:      log,
		sem:         newSemaphore(cfg.Performance.MaxConcurrent),
		newCode:     jobs.NewCode,
	}
}
