package promote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ngrobisa/artifactory-plugin/internal/artifactory"
	"github.com/ngrobisa/artifactory-plugin/internal/entity"
)

// benignPrefix marks the message class that must not fail a promotion even
// at WARNING or ERROR level: Artifactory reports "No items were moved" /
// "No items were copied" when a repeated promotion finds nothing to do.
const benignPrefix = "No items were"

// Verdict is the pass/fail classification of one phase's response.
type Verdict struct {
	OK       bool
	Failure  string
	Rejected *entity.Message
}

// Interpret classifies a stage-build response. It is deterministic and free
// of side effects; the worker decides what to log from the verdict.
//
// A non-200 status fails the phase, with wording that tells the operator
// whether remote state may have changed. Otherwise the body's messages are
// evaluated in order and the first disallowed WARNING or ERROR fails the
// phase; messages after it are not considered. INFO never fails.
func Interpret(res *artifactory.StageResponse, dryRun bool) Verdict {
	if res.StatusCode != http.StatusOK {
		if dryRun {
			return Verdict{Failure: fmt.Sprintf(
				"promotion failed during dry run (no change in Artifactory was done): %s\n%s",
				res.Status, res.Body)}
		}
		return Verdict{Failure: fmt.Sprintf(
			"promotion failed, view Artifactory logs for more details: %s\n%s",
			res.Status, res.Body)}
	}

	var parsed struct {
		Messages []entity.Message `json:"messages"`
	}
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return Verdict{Failure: fmt.Sprintf("failed parsing promotion response: %v", err)}
	}
	for i := range parsed.Messages {
		m := parsed.Messages[i]
		if m.Level != entity.LevelWarning && m.Level != entity.LevelError {
			continue
		}
		if strings.HasPrefix(m.Text, benignPrefix) {
			continue
		}
		return Verdict{
			Failure:  fmt.Sprintf("received %s: %s", m.Level, m.Text),
			Rejected: &m,
		}
	}
	return Verdict{OK: true}
}
