package ux

import (
	"fmt"
	"sort"

	"github.com/lanedrift/reelforge/internal/model"
)

// RenderStatus prints the full status display for a workflow run, adapted
// from the teacher's ticket/phase status view onto tasks and artifacts.
func RenderStatus(st *model.WorkflowState) {
	fmt.Printf("%sWorkflow:%s %s (v%s)\n", Bold, Reset, st.Name, st.Version)
	if st.Complete {
		fmt.Printf("%sState:%s    %s%scomplete%s\n", Bold, Reset, Green, Bold, Reset)
	} else {
		fmt.Printf("%sState:%s    %.0f%% complete\n", Bold, Reset, st.Progress()*100)
	}

	fmt.Printf("\n%sTasks:%s\n", Bold, Reset)
	for _, t := range st.OrderedTasks() {
		marker, color := statusMarker(t.Status.Kind)
		detail := ""
		switch t.Status.Kind {
		case model.TaskFailed:
			detail = fmt.Sprintf(" — %s", t.Status.Error)
		case model.TaskSkipped:
			detail = fmt.Sprintf(" — %s", t.Status.Reason)
		case model.TaskBlocked:
			if len(t.Status.WaitingOn) > 0 {
				detail = fmt.Sprintf(" — waiting on %v", t.Status.WaitingOn)
			}
		}
		fmt.Printf("  %s%s%s  %-20s %s(%s)%s%s\n",
			color, marker, Reset, t.ID, Dim, t.Kind, Reset, detail)
	}

	fmt.Printf("\n%sArtifacts:%s\n", Bold, Reset)
	if len(st.Artifacts) == 0 {
		fmt.Printf("  %s(none)%s\n", Dim, Reset)
		return
	}
	for _, id := range artifactIDsSorted(st) {
		a := st.Artifacts[id]
		fmt.Printf("  %-24s %s(%s)%s  %s\n", id, Dim, a.Status, Reset, a.Path)
	}
	fmt.Println()
}

func statusMarker(kind model.TaskStatusKind) (string, string) {
	switch kind {
	case model.TaskComplete:
		return "✓", Green
	case model.TaskFailed:
		return "✗", Red
	case model.TaskSkipped:
		return "–", Dim
	case model.TaskRunning:
		return "▶", Cyan
	case model.TaskReady:
		return "→", Yellow
	default:
		return " ", Dim
	}
}

func artifactIDsSorted(st *model.WorkflowState) []string {
	ids := make([]string, 0, len(st.Artifacts))
	for id := range st.Artifacts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
