package volume

import (
	"math"

	"github.com/leandrodaf/midivol/sdk/contracts"
)

// DefaultMaxLevel is the level produced by a fully opened controller.
const DefaultMaxLevel = 7.0

// MaxControllerValue is the largest 7-bit controller value.
const MaxControllerValue = 127

// Convert maps a controller value onto [0, max], quantized to one decimal.
func Convert(value uint8, max float64) float64 {
	if value > MaxControllerValue {
		value = MaxControllerValue
	}
	return math.Round(float64(value)/MaxControllerValue*max*10) / 10
}

// Percent maps a level on the [0, contracts.VolumeScale] scale to a whole
// percentage, clamping out-of-range input.
func Percent(level float64) int {
	switch {
	case level <= 0:
		return 0
	case level >= contracts.VolumeScale:
		return 100
	}
	return int(math.Round(level / contracts.VolumeScale * 100))
}
