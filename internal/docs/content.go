package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with reelforge",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Title:   "Workflow Schema",
		Summary: "Document schema, step records, and segments",
		Content: topicConfig,
	},
	{
		Name:    "kinds",
		Title:   "Task Kinds",
		Summary: "mkdir, write-file, command, llm-text, checkpoint, and the media-step kinds",
		Content: topicKinds,
	},
	{
		Name:    "variables",
		Title:   "Template Variables",
		Summary: "{{name}} substitution and the merged variable map",
		Content: topicVariables,
	},
	{
		Name:    "scheduler",
		Title:   "Scheduler & Invalidation",
		Summary: "Dispatch order, sequential groups, resources, resume, and cascading invalidation",
		Content: topicScheduler,
	},
	{
		Name:    "state",
		Title:   "State & Reports",
		Summary: "Structure of .reelforge/ and what gets persisted",
		Content: topicState,
	},
}

const topicQuickstart = `Quick Start
===========

1. Create a workflow document:

    name: orbital-mechanics-short
    schema-version: 1
    vars:
      TOPIC: "orbital mechanics"
    steps:
      - id: write-script
        kind: llm-text
        prompt: "write a 200 word narration script about {{TOPIC}}"
        outputs:
          - {artifact: script, primary: true}
      - id: narrate
        kind: tts
        inputs:
          - {kind: required, artifact: script}
        outputs:
          - {artifact: narration, primary: true}
        program: tts-cli
        args: ["--in", "{{script}}", "--out", "{{narration}}"]

2. Preview it (parse, validate, and print the task and artifact list —
   no side effects; the document itself is not re-serialized):

    reelforge show --workdir ./runs/demo --config workflow.yaml

3. Run it for real:

    reelforge run --workdir ./runs/demo --config workflow.yaml

4. Resume after a crash or edit, skipping steps whose declared output
   is still valid:

    reelforge run --workdir ./runs/demo --config workflow.yaml --resume

CLI Flags
---------

  reelforge show --workdir DIR --config FILE     Parse and print, no side effects
  reelforge run  --workdir DIR --config FILE      Run the workflow
    --var KEY=VALUE       Variable override (repeatable)
    --resume              Skip steps whose declared output is already valid
    --allow PROGRAM        Allow-list entry for run_command (repeatable)
    --dry-run              Record intended side effects, touch nothing
    --llm-provider URL      LLM provider base URL (OpenAI-compatible)
    --llm-model NAME        LLM model name
    --mock-llm TEXT          Canned LLM response, no network calls
    --watch                  Re-invalidate on external artifact edits
    --metrics-addr HOST:PORT  Serve Prometheus metrics
  reelforge doctor --workdir DIR    Summarize a run's Failed/Blocked tasks
`

const topicConfig = `Workflow Schema
===============

Top-level fields
----------------

  schema-version   int       Required.
  name             string    Required.
  description      string    Optional.
  vars             map       variable-name -> string-value, declaration order preserved.
  steps            list      Required. One or more step records.
  segments         list      Optional. Named groupings of step ids.

Step record fields
-------------------

  id               string    Required, unique.
  kind             string    Required, one of the Task Kinds (see 'reelforge docs kinds').
  resume_output    string    Path checked by --resume to decide whether this
                             step can be skipped (see 'reelforge docs scheduler').
  depends_on       list      Task ids this step must follow, even with no
                             shared artifact (pure ordering).
  inputs           list      {kind: required|optional|placeholder, artifact: ID,
                             default: STRING, placeholder_kind: KIND}
  outputs          list      {artifact: ID, path: PATH, primary: bool}
  constraints      map       Optional. Holds the three keys below.
    sequential_group string  At most one task in this group dispatches at a time.
    resource         string  At most one task holding this resource dispatches at a time.
    max_parallelism  int     Advisory; stored on the task, not enforced by the scheduler.

Everything else in a step record (prompt, program, args, content, command,
system, provider, cwd, ...) is step-kind-specific payload, carried opaquely
to the executor.

Segments
--------

  name             string    Required.
  segment_type     string    One of music-only, narration-only, mixed.
  step_ids         list      Step ids belonging to this segment.

Validation Rules
-----------------

- Step ids must be unique and non-empty.
- kind must be a recognized Task Kind.
- Every input's artifact id must be non-empty; placeholder inputs must
  name a recognized placeholder_kind.
- depends_on must reference an earlier-or-later step id that exists.
- The resulting graph must be acyclic (a cycle is a ConfigurationError,
  caught before any task runs).
`

const topicKinds = `Task Kinds
==========

Built-in (implemented directly against the Runtime Facade)
-------------------------------------------------------------

  mkdir        payload: none              Ensures each declared output directory exists.
  write-file   payload: content           Template-expands content, writes to the primary output.
  command      payload: command, cwd      Template-expands command, runs "bash -c <command>".
  llm-text     payload: prompt, system,    Template-expands prompt/system, calls the configured
               provider                  LLM, writes the completion to the primary output.

External-tool kinds (uniformly dispatched as program+args)
---------------------------------------------------------------

  tts, image-gen, video-gen, audio-normalize, mux, concat, transcribe,
  quality-audit

  payload: program, args (list), cwd

  Each of these names an external program and a template-expanded
  argument list; reelforge has no built-in understanding of how to
  synthesize speech, render video, or mux a container — it shells out
  to whatever program + args the step declares. A non-zero exit is an
  ExecutorError and fails the task.

Gate kind
---------

  checkpoint   payload: none

  Blocks the scheduling frontier until approved, either by --auto
  (auto-approve) or an external approval recorded against the
  checkpoint's task id. Never fails outright — only ever Blocked or
  Complete.

Placeholder synthesis
----------------------

A placeholder input whose artifact is still Missing gets a synthetic
stand-in written before the consuming task dispatches:

  solid-color    writes a "placeholder:solid-color" marker
  silent-audio   writes a "placeholder:silent-audio" marker
  static-image   writes a "placeholder:static-image" marker
  skip           writes nothing; the consumer is expected to omit the input
`

const topicVariables = `Template Variables
==================

Any string-valued payload field may contain {{name}} tokens. Before a
step dispatches, every token is replaced from the merged variable map:
the document's vars plus any --var KEY=VALUE overrides, overrides
taking precedence. Substitution is total except for one failure mode:

  {{name}} where name is absent from the merged map -> TemplateError,
  attributed to the step where it appears. The run continues on the
  rest of the graph; the failing task (and its transitive consumers)
  end up Failed/Blocked.

Variables are not recursively expanded — a variable's value is not
itself scanned for further {{...}} tokens.
`

const topicScheduler = `Scheduler & Invalidation
========================

Dispatch order
--------------

Each pass: every non-terminal task is refreshed (Ready if every Required
input is satisfied, Blocked otherwise — a placeholder input synthesizes
its stand-in the first time it's seen Missing). Among Ready tasks, one
batch is selected for dispatch, excluding any task whose
sequential_group or resource is already occupied by a task running (or
reserved earlier in the same batch). Ties are broken by declared step
order.

Sequential groups and resources
--------------------------------

sequential_group and resource both mean "at most one task using this
label runs at a time" — group models a semantic ordering constraint
(e.g. every step that narrates segment 3), resource models a physical
contention point (e.g. a single GPU). Both are enforced identically by
the scheduler.

Resume
------

With --resume, at dispatch time a task whose resume_output path (or
primary declared output) already passes the output-validity check
(non-empty file; for audio/video extensions, ffprobe reports a
positive duration) is recorded Skipped instead of re-executed. This is
checked per task, every run — there is no separate "skip list".

Invalidation
------------

Invalidating an artifact (on external edit, or an explicit user
request) resets every Complete task that consumes it — via Required,
Optional, or Placeholder input alike — to Blocked, demotes whatever
those tasks produce to Invalidated, and cascades transitively. The
changed artifact itself keeps its status, so its consumers run again
on the next scheduler pass. A task
whose producer Failed stays Blocked on that producer forever; there is
no separate failure-propagation step.

Checkpoints
-----------

A checkpoint task behaves like every other Blocked/Ready task except
it never becomes Ready until externally approved; reaching it emits a
checkpoint-reached event exactly once per approval cycle.
`

const topicState = `State & Reports
===============

reelforge creates a .reelforge/ directory under --workdir to persist
run state.

  .reelforge/
  ├── state.json              Full WorkflowState snapshot (atomic writes)
  ├── report.json             Run Report from the most recent run
  └── feedback/
      └── from-<task-id>.md   Captured output from a failed task

state.json
----------

The complete task/artifact graph with current statuses, the merged
variable map, and checkpoint approvals. Written atomically (temp file
plus rename) when a run starts and again when it ends, so a crash
during a write leaves either the old or the new snapshot, never a
partial one.

report.json
-----------

The Run Report: one entry per task (outcome, timing, error or blocking
reference), plus a summary tally of ok/skipped/failed/blocked counts.
Produced at the end of every run, successful or not — a failed run
never crashes instead of reporting.

feedback/
---------

When a task ends Failed, its captured stdout/stderr is written to
feedback/from-<task-id>.md. 'reelforge doctor' reads these back
alongside the Failed/Blocked task list to summarize what needs fixing
before a resume.
`

// SchemaReference returns the combined workflow schema, task kind, and
// variable documentation suitable for embedding in generated scaffolds.
func SchemaReference() string {
	return topicConfig + "\n\n" + topicKinds + "\n\n" + topicVariables
}
