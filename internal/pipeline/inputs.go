package pipeline

import (
	"context"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/loader"
)

// FileInputs reads the run inputs from the configured file paths.
type FileInputs struct {
	cfg *config.Config
}

// NewFileInputs creates an InputReader over the configured paths.
func NewFileInputs(cfg *config.Config) *FileInputs {
	return &FileInputs{cfg: cfg}
}

// ReadInputs loads the three input files. The smaller files go first so a
// misconfigured path fails before the multi-hundred-megabyte dataset is read.
func (f *FileInputs) ReadInputs(ctx context.Context) (Inputs, error) {
	var in Inputs
	var err error

	if in.Multipliers, err = loader.LoadMultipliers(f.cfg.MultiplierPath); err != nil {
		return Inputs{}, err
	}
	if in.Vocabulary, err = loader.LoadVocabulary(f.cfg.VocabPath); err != nil {
		return Inputs{}, err
	}
	if err = ctx.Err(); err != nil {
		return Inputs{}, err
	}
	if in.Events, in.LoadStats, err = loader.LoadEvents(f.cfg.StormDataPath); err != nil {
		return Inputs{}, err
	}
	return in, nil
}
