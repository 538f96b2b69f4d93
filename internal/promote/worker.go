package promote

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/ngrobisa/artifactory-plugin/internal/artifactory"
	"github.com/ngrobisa/artifactory-plugin/internal/config"
	"github.com/ngrobisa/artifactory-plugin/internal/entity"
	"github.com/ngrobisa/artifactory-plugin/internal/registry"
)

// Recorder persists the outcome of a promotion run. Saving is best-effort
// bookkeeping; a failure to record never fails the promotion itself.
type Recorder interface {
	Save(ctx context.Context, build entity.Build, rec entity.PromotionRecord) error
}

// Worker performs one two-phase promotion: a dry run against the remote
// Artifactory followed, only on success, by the real run. It runs detached
// from the submitting request and reports exclusively through its progress
// log. The client session it opens is released on every exit path.
type Worker struct {
	build      entity.Build
	req        entity.PromotionRequest
	server     *registry.Server
	creds      config.Credentials
	ciUser     string
	taskID     string
	log        *ProgressLog
	recorder   Recorder
	minVisible time.Duration
	done       func()
}

func (w *Worker) Run(ctx context.Context) {
	started := time.Now()
	defer w.done()
	defer w.pace(started)
	defer func() {
		if r := recover(); r != nil {
			w.log.Errorf("promotion task failed: %v\n%s", r, debug.Stack())
		}
	}()
	w.perform(ctx)
}

func (w *Worker) perform(ctx context.Context) {
	w.log.Println("Promoting build ....")

	client, err := w.server.NewClient(w.creds)
	if err != nil {
		w.log.Errorf("failed opening Artifactory session: %v", err)
		w.save(ctx, false, false)
		return
	}
	defer client.Close()

	payload := w.payload(true)

	w.log.Println("Performing dry run promotion (no changes are made during dry run) ...")
	dryRes, err := client.StageBuild(ctx, w.build.Project, w.build.Number, payload)
	if err != nil {
		w.log.Errorf("dry run promotion failed: %v", err)
		w.save(ctx, false, false)
		return
	}
	if v := Interpret(dryRes, true); !v.OK {
		w.log.Error(v.Failure)
		w.save(ctx, false, false)
		return
	}
	w.log.Println("Dry run finished successfully.")

	w.log.Println("Performing promotion ...")
	payload.DryRun = false
	realRes, err := client.StageBuild(ctx, w.build.Project, w.build.Number, payload)
	if err != nil {
		w.log.Errorf("promotion failed: %v", err)
		w.save(ctx, true, false)
		return
	}
	if v := Interpret(realRes, false); !v.OK {
		w.log.Error(v.Failure)
		w.save(ctx, true, false)
		return
	}
	w.log.Println("Promotion completed successfully!")
	w.save(ctx, true, true)
}

func (w *Worker) payload(dryRun bool) artifactory.Promotion {
	return artifactory.Promotion{
		Status:       string(w.req.TargetStatus),
		Comment:      w.req.Comment,
		CiUser:       w.ciUser,
		TargetRepo:   w.req.RepositoryKey,
		Dependencies: w.req.IncludeDependencies,
		Copy:         w.req.UseCopy,
		DryRun:       dryRun,
	}
}

func (w *Worker) save(ctx context.Context, dryRunPassed, realRunPassed bool) {
	rec := entity.PromotionRecord{
		TaskID:        w.taskID,
		Project:       w.build.Project,
		BuildNumber:   w.build.Number,
		TargetStatus:  w.req.TargetStatus,
		RepositoryKey: w.req.RepositoryKey,
		Comment:       w.req.Comment,
		CiUser:        w.ciUser,
		DryRunPassed:  dryRunPassed,
		RealRunPassed: realRunPassed,
		Succeeded:     dryRunPassed && realRunPassed,
	}
	if err := w.recorder.Save(ctx, w.build, rec); err != nil {
		w.log.Errorf("failed saving promotion record: %v", err)
	}
}

// pace keeps a fast task visible: an operator's page refresh right after
// submitting should still find the progress view, so completion is delayed
// until the task has been observable for the configured minimum.
func (w *Worker) pace(started time.Time) {
	if remain := w.minVisible - time.Since(started); remain > 0 {
		time.Sleep(remain)
	}
}
