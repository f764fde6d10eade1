package config

import "github.com/smplat/fulfillment/internal/logger"

const (
	StageProd  = logger.StageProd
	StageDev   = logger.StageDev
	StageLocal = logger.StageLocal
)

// IsValidStage mirrors the teacher's helpers.IsValidStage: the three
// deploy stages a process may be started with.
func IsValidStage(stage string) bool {
	switch stage {
	case StageProd, StageDev, StageLocal:
		return true
	}
	return false
}
