// Package bootstrap wires the fault pipeline from environment configuration:
// backend, optional journal, dispatcher and capture service.
package bootstrap

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"faultcapture/src/capture"
	"faultcapture/src/database"
	"faultcapture/src/journal"
	"faultcapture/src/logs"
	"faultcapture/src/metrics"
	"faultcapture/src/repository"
)

// Stack is a wired fault pipeline. DB and Faults are nil when the journal is
// disabled.
type Stack struct {
	Dispatcher *logs.Dispatcher
	Capture    *capture.Service
	Metrics    *metrics.Collector
	DB         *gorm.DB
	Faults     *repository.FaultRepository
}

// Build reads the logging, database, journal and capture configuration and
// registers the capture service. The caller still defers HandleShutdown.
func Build() (*Stack, error) {
	logCfg := logs.GetConfig()
	logs.SetupLogger(logCfg)

	backend, err := logs.NewBackend(logCfg)
	if err != nil {
		return nil, err
	}

	s := &Stack{Metrics: metrics.Default()}

	dbCfg := database.GetConfig()
	if dbCfg.EnableDB {
		minLevel, err := journal.GetConfig().Level()
		if err != nil {
			return nil, fmt.Errorf("JOURNAL_MIN_LEVEL: %w", err)
		}
		db, err := database.Open(dbCfg)
		if err != nil {
			return nil, err
		}
		s.DB = db
		s.Faults = repository.NewFaultRepository(db)
		backend = journal.NewBackend(backend, s.Faults, minLevel)
	}

	s.Dispatcher = logs.New(backend,
		logs.WithExportDepth(logCfg.ExportDepth),
		logs.WithResponseBodyLimit(logCfg.ResponseBodyLimit),
		logs.WithMetrics(s.Metrics),
	)

	captureCfg := capture.GetConfig()
	mask, err := captureCfg.Mask()
	if err != nil {
		return nil, err
	}
	s.Capture = capture.New(s.Dispatcher, capture.WithMetrics(s.Metrics))
	s.Capture.Register(mask)

	logger.WithFields(map[string]interface{}{
		"app":     captureCfg.AppName,
		"backend": logCfg.LogBackend,
		"journal": dbCfg.EnableDB,
	}).Info("[bootstrap] fault capture ready")
	return s, nil
}

// OpenJournal connects to the journal database without building the rest of
// the pipeline.
func OpenJournal() (*repository.FaultRepository, error) {
	db, err := database.Open(database.GetConfig())
	if err != nil {
		return nil, err
	}
	return repository.NewFaultRepository(db), nil
}
