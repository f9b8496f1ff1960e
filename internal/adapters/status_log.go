package adapters

import (
	"github.com/rs/zerolog/log"

	"msstore-packager/internal/ports"
)

// LogStatus reports external command progress through the global zerolog
// logger. It is observational only and never alters command outcomes.
type LogStatus struct{}

func NewLogStatus() LogStatus {
	return LogStatus{}
}

func (LogStatus) Start(scope string) {
	log.Info().Str("scope", scope).Msg("running")
}

func (LogStatus) Success(scope string) {
	log.Info().Str("scope", scope).Msg("done")
}

func (LogStatus) Failure(scope string, err error) {
	log.Warn().Str("scope", scope).Err(err).Msg("failed")
}

// NopStatus discards all status callbacks; used by tests and embedding
// callers that bring their own display.
type NopStatus struct{}

func (NopStatus) Start(string)          {}
func (NopStatus) Success(string)        {}
func (NopStatus) Failure(string, error) {}

var _ ports.StatusPort = LogStatus{}
var _ ports.StatusPort = NopStatus{}
