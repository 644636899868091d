package driver

// Stage identifies a step of the per-package pipeline, for progress UIs.
type Stage uint8

const (
	StageInspect Stage = iota
	StageValidate
	StageSynth
	StageWrite
	StageCached
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageInspect:
		return "inspect"
	case StageValidate:
		return "validate"
	case StageSynth:
		return "synth"
	case StageWrite:
		return "write"
	case StageCached:
		return "cached"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// Event reports pipeline progress for one package.
type Event struct {
	PkgPath string
	Stage   Stage
	// Path is the file being written for StageWrite events.
	Path string
	// Failed is set on StageDone when the package produced errors.
	Failed bool
}

func (o *Options) emit(ev Event) {
	if o.Events == nil {
		return
	}
	o.Events <- ev
}
