package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/client"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/metrics"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

// Status classifies how a pipeline run ended
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNoData   Status = "no_data_found"
	StatusAPIError Status = "api_error"
	StatusCritical Status = "critical_error"
)

// Result summarizes one pipeline run
type Result struct {
	Pipeline       string
	Status         Status
	TotalProcessed int
	Inserted       int
	Updated        int
	Errors         int
}

// Outcome reports what an upsert did with a single record
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeUpdated
)

// run executes the shared fetch → transform → persist flow for one
// entity. process transforms a record, checks its references and
// upserts it; validation, reference and persistence failures are
// counted and the run continues. Fetch failures end the run.
func run[R any](
	ctx context.Context,
	name string,
	fetch func(context.Context) ([]R, error),
	process func(context.Context, R) (Outcome, error),
) (*Result, error) {
	start := time.Now()
	result := &Result{Pipeline: name}

	log.Info().Str("pipeline", name).Msg("Pipeline run starting")

	records, err := fetch(ctx)
	if err != nil {
		result.Status = classifyFetchError(err)
		metrics.RecordPipelineRun(name, string(result.Status), time.Since(start).Seconds())
		log.Error().Err(err).
			Str("pipeline", name).
			Str("status", string(result.Status)).
			Msg("Pipeline fetch failed")
		return result, err
	}

	if len(records) == 0 {
		result.Status = StatusNoData
		metrics.RecordPipelineRun(name, string(result.Status), time.Since(start).Seconds())
		log.Warn().Str("pipeline", name).Msg("Pipeline fetched no records")
		return result, nil
	}

	for _, record := range records {
		result.TotalProcessed++

		outcome, err := process(ctx, record)
		if err != nil {
			result.Errors++
			logRecordError(name, err)
			continue
		}

		switch outcome {
		case OutcomeInserted:
			result.Inserted++
		case OutcomeUpdated:
			result.Updated++
		}
	}

	result.Status = StatusSuccess
	metrics.RecordPipelineRun(name, string(result.Status), time.Since(start).Seconds())
	metrics.RecordPipelineRecords(name, result.Inserted, result.Updated, result.Errors)

	log.Info().
		Str("pipeline", name).
		Int("processed", result.TotalProcessed).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("errors", result.Errors).
		Dur("duration", time.Since(start)).
		Msg("Pipeline run complete")

	return result, nil
}

// classifyFetchError maps a run-level fetch failure onto a status.
// Feed-side failures (transport, bad status, throttling) are api_error;
// anything else means our own stack is broken.
func classifyFetchError(err error) Status {
	var transportErr *client.TransportError
	var remoteErr *client.RemoteServiceError
	var rateErr *client.RateLimitError

	if errors.As(err, &transportErr) || errors.As(err, &remoteErr) || errors.As(err, &rateErr) {
		return StatusAPIError
	}
	return StatusCritical
}

// logRecordError logs a per-record failure at a level matching its kind
func logRecordError(pipeline string, err error) {
	var validationErr *models.ValidationError
	var referenceErr *ReferenceError

	switch {
	case errors.As(err, &validationErr):
		log.Warn().Err(err).Str("pipeline", pipeline).Msg("Record failed validation, skipping")
	case errors.As(err, &referenceErr):
		log.Warn().Err(err).Str("pipeline", pipeline).Msg("Record reference missing, skipping")
	default:
		log.Error().Err(err).Str("pipeline", pipeline).Msg("Record failed to persist, skipping")
	}
}
