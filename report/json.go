package report

import (
	"encoding/json"

	"github.com/google/renameio/v2"

	"github.com/wippyai/proptest/errors"
)

// WriteJSON writes suites to path. The file is replaced atomically so
// readers never observe a partial report.
func WriteJSON(path string, suites []*Suite) error {
	data, err := json.MarshalIndent(struct {
		Suites []*Suite `json:"suites"`
		Counts Counts   `json:"counts"`
	}{suites, total(suites)}, "", "  ")
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "encode report")
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "create report "+path)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(append(data, '\n')); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "write report "+path)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "replace report "+path)
	}
	return nil
}

func total(suites []*Suite) Counts {
	var c Counts
	for _, s := range suites {
		c = c.Add(s.Counts())
	}
	return c
}
