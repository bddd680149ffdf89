package job

import (
	"os"
	"runtime/debug"
	"time"

	"github.com/gobuffalo/buffalo/worker"

	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/log"
)

const (
	handlerKey = "job_handler"
	argJobType = "job_type"
)

const (
	SendReminders = "send_reminders"
	Cleanup       = "cleanup"
)

var w *worker.Worker

var handlers = map[string]func(worker.Args) error{
	SendReminders: sendRemindersHandler,
	Cleanup:       cleanupHandler,
}

func Init(appWorker *worker.Worker) {
	w = appWorker
	if err := (*w).Register(handlerKey, mainHandler); err != nil {
		log.Errorf("error registering '%s' handler, %s", handlerKey, err)
	}

	delay := time.Second * 10

	// Kick off the first runs between 1h11 and 3h27 from now
	if domain.Env.GoEnv != domain.EnvDevelopment {
		randMins := time.Duration(domain.RandomInsecureIntInRange(71, 387))
		delay = randMins * time.Minute
	}

	if err := SubmitDelayed(SendReminders, delay, map[string]any{}); err != nil {
		log.Error("error initializing SendReminders job:", err)
		os.Exit(1)
	}

	if err := SubmitDelayed(Cleanup, delay, map[string]any{}); err != nil {
		log.Error("error initializing Cleanup job:", err)
		os.Exit(1)
	}
}

func mainHandler(args worker.Args) error {
	jobType := args[argJobType].(string)

	log.Infof("starting %s job", jobType)
	start := time.Now().UTC()

	defer func() {
		if err := recover(); err != nil {
			log.Errorf("panic in job handler %s: %s\n%s", jobType, err, debug.Stack())
		}
	}()

	if err := handlers[jobType](args); err != nil {
		log.Errorf("batch job %s failed: %s", jobType, err)
	}

	log.Infof("completed %s job in %s seconds", jobType, time.Since(start))
	return nil
}

// Submit enqueues a new Worker job for the given job type. Arguments can be provided in `args`.
func Submit(jobType string, args map[string]any) error {
	if domain.Env.GoEnv == domain.EnvTest {
		return nil
	}
	job := worker.Job{
		Queue:   "default",
		Args:    args,
		Handler: handlerKey,
	}
	job.Args[argJobType] = jobType
	return (*w).Perform(job)
}

// SubmitDelayed enqueues a delayed Worker job for the given job type. Arguments can be provided in `args`.
func SubmitDelayed(jobType string, delay time.Duration, args map[string]any) error {
	if domain.Env.GoEnv == domain.EnvTest {
		return nil
	}
	job := worker.Job{
		Queue:   "default",
		Args:    args,
		Handler: handlerKey,
	}
	job.Args[argJobType] = jobType
	return (*w).PerformIn(job, delay)
}
