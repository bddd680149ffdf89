package job

import (
	"time"

	"github.com/gobuffalo/buffalo/worker"
	"github.com/gobuffalo/pop/v6"

	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/models"
)

// sendRemindersHandler is the Worker handler that nudges GCs on tickets still
// awaiting a reply, per the configured reminder frequency and cap
func sendRemindersHandler(_ worker.Args) error {
	defer resubmitRemindersJob()

	nw := time.Now().UTC()

	var count int
	err := models.DB.Transaction(func(tx *pop.Connection) error {
		var err error
		count, err = models.SendDueReminders(tx)
		return err
	})
	if err != nil {
		return err
	}

	log.Infof("queued %d GC reminders in %v seconds", count, time.Since(nw).Seconds())
	return nil
}

func resubmitRemindersJob() {
	// Run twice a day, in case it errors out
	delay := time.Hour * 12

	// uncomment this in development, if you want it to run more often for debugging
	// delay = time.Second * 10

	if err := SubmitDelayed(SendReminders, delay, map[string]any{}); err != nil {
		log.Errorf("error resubmitting sendRemindersHandler: %s", err)
	}
}
