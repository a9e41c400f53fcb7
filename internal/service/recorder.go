package service

import "github.com/propcodes/platform/internal/domain"

// Recorder receives business counters. infra.Metrics implements it.
type Recorder interface {
	VoteRecorded(voteType domain.VoteType)
	AnalyticsRecorded(eventType string)
	LoginAttempt(result string)
}

// Login results passed to Recorder.LoginAttempt.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginLocked  = "locked"
)

type nopRecorder struct{}

func (nopRecorder) VoteRecorded(domain.VoteType) {}
func (nopRecorder) AnalyticsRecorded(string) {}
func (nopRecorder) LoginAttempt(string) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
