package contracts

// VolumeScale is the upper bound of the level scale understood by VolumeWriter.
const VolumeScale = 10.0

// VolumeWriter applies an output level on the host. Writing the same level
// twice must be harmless.
type VolumeWriter interface {
	SetVolume(level float64) error // level is in [0, VolumeScale].
}
