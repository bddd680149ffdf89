package job

import (
	"time"

	"github.com/gobuffalo/buffalo/worker"
	"github.com/gobuffalo/pop/v6"

	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/models"
)

// cleanupHandler is the Worker handler that sweeps expired approval tokens
// and uploaded files nothing ever got linked to
func cleanupHandler(_ worker.Args) error {
	defer resubmitCleanupJob()

	err := models.DB.Transaction(func(tx *pop.Connection) error {
		destroyed, err := models.DestroyExpiredTokens(tx)
		if err != nil {
			return err
		}
		if destroyed > 0 {
			log.Infof("destroyed %d expired approval tokens", destroyed)
		}

		var assets models.Assets
		return assets.DeleteUnlinked(tx)
	})
	return err
}

func resubmitCleanupJob() {
	delay := time.Hour * 24
	if err := SubmitDelayed(Cleanup, delay, map[string]any{}); err != nil {
		log.Errorf("error resubmitting cleanupHandler: %s", err)
	}
}
