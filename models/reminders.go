package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
)

// SendDueReminders nudges the GC on every ticket still awaiting a reply whose
// last outbound email is older than the reminder frequency. Project settings
// override the stored app settings where present. Run on a schedule by the
// background job.
func SendDueReminders(tx *pop.Connection) (int, error) {
	settings, err := GetAppSettings(tx)
	if err != nil {
		return 0, err
	}

	var tickets TNMTickets
	if err := tx.Where("status in (?)",
		api.TNMStatusSent, api.TNMStatusViewed, api.TNMStatusPartiallyApproved).All(&tickets); err != nil {
		return 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	sent := 0
	for i := range tickets {
		t := &tickets[i]
		t.LoadProject(tx, false)

		if !settings.RemindersEnabled || !t.Project.RemindersEnabled {
			continue
		}

		frequencyDays := settings.ReminderFrequencyDays
		if t.Project.ReminderFrequencyDays > 0 {
			frequencyDays = t.Project.ReminderFrequencyDays
		}
		maxReminders := settings.MaxReminders
		if t.Project.MaxReminders > 0 {
			maxReminders = t.Project.MaxReminders
		}

		if t.ReminderCount >= maxReminders {
			continue
		}

		last, err := lastOutboundEmailAt(tx, t)
		if err != nil {
			return sent, err
		}
		if time.Since(last) < time.Duration(frequencyDays)*domain.DurationDay {
			continue
		}

		if err := t.Remind(tx); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// lastOutboundEmailAt finds when the GC last heard about the ticket. Falls
// back to the ticket's own timestamp if no email was ever logged for it.
func lastOutboundEmailAt(tx *pop.Connection, t *TNMTicket) (time.Time, error) {
	var entry EmailLog
	err := tx.Where("ticket_id = ? and kind in (?)", t.ID, EmailKindRFCO, EmailKindReminder).
		Order("created_at desc").First(&entry)
	if err != nil {
		if domain.IsOtherThanNoRows(err) {
			return time.Time{}, appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return t.UpdatedAt, nil
	}
	return entry.CreatedAt, nil
}
