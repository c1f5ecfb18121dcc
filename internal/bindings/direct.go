package bindings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/LeafDesk/internal/gateway"
)

const (
	labelSubmitting        = "Submitting..."
	labelConfirmed         = "✓ Confirmed!"
	labelReported          = "⚑ Reported"
	labelFollowUpScheduled = "Follow-up Scheduled!"
	labelScheduleAdded     = "Schedule Added!"

	msgReasonRequired = "Please provide a reason for your report."
)

// ToggleTask flips the completion state of a task row. Each synced func
// sees the row after a successful toggle.
func (b *Bindings) ToggleTask(tasks *List[TaskRow], id string, synced ...func(TaskRow)) tea.Cmd {
	row := tasks.Find(id)
	if row == nil || row.Busy {
		return nil
	}
	before := *row
	row.Busy = true

	return b.submit.Submit(gateway.ToggleTaskRequest(id), func(res gateway.Result, err error) tea.Cmd {
		row := tasks.Find(id)
		if row == nil {
			return nil
		}
		row.Busy = before.Busy
		if err != nil {
			b.transportFailed("toggle_task", err)
			return nil
		}
		if !res.OK() {
			b.dialog.Alert("Error", res.MessageOr("Could not update task."))
			return nil
		}
		if res.IsCompleted != nil {
			row.Completed = *res.IsCompleted
		} else {
			row.Completed = !before.Completed
		}
		for _, fn := range synced {
			fn(*row)
		}
		return nil
	})
}

// ScheduleFollowUp books a follow-up check seven days out.
func (b *Bindings) ScheduleFollowUp(p *DiagnosisPanel) tea.Cmd {
	if p.FollowUp.Disabled {
		return nil
	}
	before := p.FollowUp
	p.FollowUp.Disabled = true

	return b.submit.Submit(gateway.ScheduleFollowUpRequest(p.ID), func(res gateway.Result, err error) tea.Cmd {
		if err != nil {
			p.FollowUp = before
			b.transportFailed("schedule_follow_up", err)
			return nil
		}
		if !res.OK() {
			p.FollowUp = before
			b.dialog.Alert("Error", res.MessageOr("Could not schedule follow-up."))
			return nil
		}
		p.FollowUp = Button{Label: labelFollowUpScheduled, Disabled: true}
		b.dialog.Alert("Success", res.Message)
		return nil
	})
}

// AddSchedule copies the diagnosis' treatment schedule into the calendar.
// An empty schedule sends nothing.
func (b *Bindings) AddSchedule(p *DiagnosisPanel) tea.Cmd {
	if p.AddSchedule.Disabled || len(p.Schedule) == 0 {
		return nil
	}
	before := p.AddSchedule
	p.AddSchedule.Disabled = true

	return b.submit.Submit(gateway.AddScheduleRequest(p.ID, p.Schedule), func(res gateway.Result, err error) tea.Cmd {
		if err != nil {
			p.AddSchedule = before
			b.transportFailed("add_schedule_to_calendar", err)
			return nil
		}
		if !res.OK() {
			p.AddSchedule = before
			b.dialog.Alert("Error", res.MessageOr("Could not add schedule."))
			return nil
		}
		p.AddSchedule = Button{Label: labelScheduleAdded, Disabled: true}
		b.dialog.Alert("Success", res.Message)
		return nil
	})
}

// ConfirmAccuracy records that the diagnosis was right. Both feedback
// buttons are locked while the call is out.
func (b *Bindings) ConfirmAccuracy(p *DiagnosisPanel) tea.Cmd {
	if p.Confirm.Disabled {
		return nil
	}
	beforeConfirm, beforeReport := p.Confirm, p.Report
	p.Confirm = Button{Label: labelSubmitting, Disabled: true}
	p.Report.Disabled = true

	restore := func() {
		p.Confirm = beforeConfirm
		p.Report = beforeReport
	}
	return b.submit.Submit(gateway.ConfirmDiagnosisRequest(p.ID), func(res gateway.Result, err error) tea.Cmd {
		if err != nil {
			restore()
			b.transportFailed("confirm_diagnosis", err)
			return nil
		}
		if !res.OK() {
			restore()
			b.dialog.Alert("Error", res.MessageOr("Could not confirm diagnosis."))
			return nil
		}
		p.Confirm.Label = labelConfirmed
		b.dialog.Alert("Feedback Received", res.Message)
		return nil
	})
}

// OpenReport shows the report form for p.
func (b *Bindings) OpenReport(form *ReportForm, p *DiagnosisPanel) {
	if p.Report.Disabled {
		return
	}
	form.Open = true
	form.DiagnosisID = p.ID
}

// CloseReport hides the report form without sending anything.
func (b *Bindings) CloseReport(form *ReportForm) {
	form.Open = false
	form.DiagnosisID = ""
}

// SubmitReport files an inaccuracy report. A blank reason is rejected
// before anything is sent. p may be nil when the diagnosis is not on screen.
func (b *Bindings) SubmitReport(form *ReportForm, p *DiagnosisPanel, reason string) tea.Cmd {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		b.dialog.Alert("Error", msgReasonRequired)
		return nil
	}
	if !form.Open || form.DiagnosisID == "" || form.Submit.Disabled {
		return nil
	}
	id := form.DiagnosisID
	before := form.Submit
	form.Submit = Button{Label: labelSubmitting, Disabled: true}

	return b.submit.Submit(gateway.ReportDiagnosisRequest(id, reason), func(res gateway.Result, err error) tea.Cmd {
		form.Submit = before
		if err != nil {
			b.transportFailed("report_diagnosis", err)
			return nil
		}
		b.CloseReport(form)
		if !res.OK() {
			b.dialog.Alert("Error", res.MessageOr("Could not submit report."))
			return nil
		}
		b.dialog.Alert("Report Submitted", res.Message)
		if p != nil {
			p.Report = Button{Label: labelReported, Disabled: true}
			p.Confirm.Disabled = true
		}
		return nil
	})
}

// EditUser saves the edited columns of a user account.
func (b *Bindings) EditUser(users *List[UserRow], id string, fields gateway.UserFields) tea.Cmd {
	row := users.Find(id)
	if row == nil || row.Busy {
		return nil
	}
	row.Busy = true

	return b.submit.Submit(gateway.UpdateUserRequest(id, fields), func(res gateway.Result, err error) tea.Cmd {
		row := users.Find(id)
		if row == nil {
			return nil
		}
		row.Busy = false
		if err != nil {
			b.transportFailed("admin_update_user", err)
			return nil
		}
		if !res.OK() {
			b.dialog.Alert("Error", res.MessageOr("Could not update user."))
			return nil
		}
		row.UserFields = fields
		return nil
	})
}
