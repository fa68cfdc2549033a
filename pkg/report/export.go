package report

import (
	"context"
	"errors"

	"github.com/dd0wney/cluso-vaxsim/pkg/experiment"
	"github.com/dd0wney/cluso-vaxsim/pkg/logging"
	"github.com/dd0wney/cluso-vaxsim/pkg/metrics"
)

// Exporter renders a comparison once and hands it to every sink.
type Exporter struct {
	sinks    []Sink
	compress bool
	logger   logging.Logger
	metrics  *metrics.Registry
}

// NewExporter creates an exporter. logger and reg may be nil.
func NewExporter(sinks []Sink, compress bool, logger logging.Logger, reg *metrics.Registry) *Exporter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Exporter{
		sinks:    sinks,
		compress: compress,
		logger:   logger.With(logging.Component("export")),
		metrics:  reg,
	}
}

// ObjectName returns the name an experiment is exported under.
func (e *Exporter) ObjectName(experimentID string) string {
	name := "vaxsim-" + experimentID + ".csv"
	if e.compress {
		name += CompressedExt
	}
	return name
}

// Export writes cmp to every sink. A failing sink does not stop the others;
// all failures are returned joined. The whole export is logged as one timed
// operation.
func (e *Exporter) Export(ctx context.Context, cmp *experiment.Comparison) error {
	data, err := EncodeCSV(cmp)
	if err != nil {
		return err
	}
	if e.compress {
		data = Compress(data)
	}
	name := e.ObjectName(cmp.ExperimentID)
	timer := logging.StartTimer(e.logger, "export",
		logging.Path(name),
		logging.Int("bytes", len(data)),
		logging.Int("sinks", len(e.sinks)))

	var errs []error
	for _, sink := range e.sinks {
		err := sink.Put(ctx, name, data)
		if e.metrics != nil {
			e.metrics.RecordExport(sink.Name(), len(data), err)
		}
		if err != nil {
			e.logger.Warn("export sink failed", logging.String("sink", sink.Name()), logging.Error(err))
			errs = append(errs, err)
			continue
		}
		e.logger.Debug("export written", logging.String("sink", sink.Name()), logging.Path(name))
	}

	if err := errors.Join(errs...); err != nil {
		timer.EndError(err)
		return err
	}
	timer.End()
	return nil
}
