// Package pipelinepolicy derives an application's overall status from the
// stage results recorded against it.
//
// Stage ordering is not enforced: any stage name may be recorded at any time
// and the newest result wins.
package pipelinepolicy

import (
	"errors"
	"strings"

	"github.com/dalemusser/placementhub/internal/domain/models"
)

// OfferStage is treated as a final stage even when the company's process
// does not list it.
const OfferStage = "offer"

var (
	// ErrInvalidResult is returned for a result outside passed/failed/pending.
	ErrInvalidResult = errors.New("result must be one of passed, failed, pending")
	// ErrStageRequired is returned when no stage name is given.
	ErrStageRequired = errors.New("stage is required")
	// ErrNotWithdrawable is returned when an application already reached a
	// final outcome.
	ErrNotWithdrawable = errors.New("application can no longer be withdrawn")
)

// IsFinalStage reports whether stage closes company c's process.
func IsFinalStage(c *models.Company, stage string) bool {
	stage = strings.TrimSpace(stage)
	if strings.EqualFold(stage, OfferStage) {
		return true
	}
	final := c.FinalStage()
	return final != "" && strings.EqualFold(stage, final)
}

// NextStatus returns the application status after recording result for
// stage.
func NextStatus(c *models.Company, stage, result string) (string, error) {
	if strings.TrimSpace(stage) == "" {
		return "", ErrStageRequired
	}
	switch result {
	case models.StageResultFailed:
		return models.ApplicationRejected, nil
	case models.StageResultPassed:
		if IsFinalStage(c, stage) {
			return models.ApplicationSelected, nil
		}
		return models.ApplicationInProgress, nil
	case models.StageResultPending:
		return models.ApplicationInProgress, nil
	default:
		return "", ErrInvalidResult
	}
}

// CheckWithdraw returns nil when an application in status may be withdrawn.
func CheckWithdraw(status string) error {
	switch status {
	case models.ApplicationApplied, models.ApplicationInProgress:
		return nil
	}
	return ErrNotWithdrawable
}
