package executor

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/lanedrift/reelforge/internal/model"
)

// Preflight checks that every external binary a graph's tasks will invoke
// is available on PATH, grounded on the teacher's internal/dispatch.
// Preflight (same needed-set/exec.LookPath/missing-list shape). Command and
// external-tool steps name their program explicitly in the payload, so the
// needed set is read off the graph rather than guessed from the task kind.
func Preflight(st *model.WorkflowState) error {
	needed := make(map[string]bool)
	for _, t := range st.OrderedTasks() {
		switch t.Kind {
		case model.KindCommand:
			needed["bash"] = true
		case model.KindTTS, model.KindImageGen, model.KindVideoGen, model.KindAudioNormal,
			model.KindMux, model.KindConcat, model.KindTranscribe, model.KindQualityAudit:
			if program := optionalStringPayload(t, "program"); program != "" {
				needed[program] = true
			}
		}
	}

	var missing []string
	for bin := range needed {
		if _, err := exec.LookPath(bin); err != nil {
			missing = append(missing, bin)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required binaries not found in PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}
