// Copyright 2026 Repovault, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	vaulterrors "github.com/repovault/repovault/internal/errors"
	"github.com/repovault/repovault/internal/log"
)

// Directory names under the backup destination. Created up front by the
// command so a write never has to mkdir.
const (
	IssuesDir = "issues"
	PullsDir  = "pulls"
)

// Writer persists records to the destination directory, one JSON file
// per entry. It is the consuming half of the pipeline and runs strictly
// sequentially so a disk failure stops the backup at a known point.
type Writer struct {
	dest string
}

// NewWriter creates a writer rooted at dest.
func NewWriter(dest string) *Writer {
	return &Writer{dest: dest}
}

// Run drains records from in until the channel is closed, writing each
// to disk as it arrives. It returns the number of records written. The
// first write failure aborts the drain; callers must then unblock the
// producer.
func (w *Writer) Run(in <-chan *Record) (int, error) {
	logger := log.Named("write")
	written := 0
	for rec := range in {
		path := w.recordPath(rec)
		if err := writeRecord(path, rec); err != nil {
			logger.Error().Str("path", path).Err(err).Msg("could not write record")
			return written, fmt.Errorf("%w: %s: %v", vaulterrors.ErrWriteFailed, rec, err)
		}
		logger.Debug().Str("path", path).Msgf("wrote %s", rec)
		written++
	}
	return written, nil
}

func (w *Writer) recordPath(rec *Record) string {
	dir := IssuesDir
	if rec.Type == KindPull {
		dir = PullsDir
	}
	return filepath.Join(w.dest, dir, fmt.Sprintf("%d.json", rec.Number()))
}

func writeRecord(path string, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
