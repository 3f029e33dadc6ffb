package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core/progress"
)

// importProgress runs the one-time migration of legacy progress exports into
// the canonical table.
func (cli *commandLine) importProgress(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading progress file")
	}

	var recs []progress.LegacyRecord
	if err = json.Unmarshal(data, &recs); err != nil {
		return errors.Wrap(err, "unmarshaling progress file")
	}

	imported, err := cli.progSvc.ImportLegacy(context.Background(), recs)
	if err != nil {
		return errors.Wrap(err, "importing progress records")
	}
	logger.Printf("imported %d of %d records\n", imported, len(recs))
	return nil
}
