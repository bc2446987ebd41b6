package utils

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// GetCPUUsage samples process-wide CPU usage over window, as a percentage.
// It returns 0 when the platform cannot report it.
func GetCPUUsage(ctx context.Context, window time.Duration) (float64, error) {
	percentage, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return 0, err
	}
	if len(percentage) > 0 {
		return percentage[0], nil
	}
	return 0, nil
}
