package gateway

import (
	"context"
	"net/http"
	"net/url"
)

// Request builders. Bindings hand these to the core, which calls Do.

func DeleteTaskRequest(taskID string) Request {
	return Request{Method: http.MethodDelete, Path: "/api/delete_task/" + escape(taskID), Endpoint: "delete_task"}
}

func ToggleTaskRequest(taskID string) Request {
	return Request{Method: http.MethodPost, Path: "/api/toggle_task/" + escape(taskID), Endpoint: "toggle_task"}
}

func AddScheduleRequest(diagnosisID string, tasks []ScheduleItem) Request {
	return Request{
		Method:   http.MethodPost,
		Path:     "/api/add_schedule_to_calendar",
		Endpoint: "add_schedule_to_calendar",
		Body: struct {
			Tasks       []ScheduleItem `json:"tasks"`
			DiagnosisID string         `json:"diagnosis_id"`
		}{Tasks: tasks, DiagnosisID: diagnosisID},
	}
}

func ScheduleFollowUpRequest(diagnosisID string) Request {
	return Request{Method: http.MethodPost, Path: "/api/schedule_follow_up/" + escape(diagnosisID), Endpoint: "schedule_follow_up"}
}

func ConfirmDiagnosisRequest(diagnosisID string) Request {
	return Request{Method: http.MethodPost, Path: "/api/confirm_diagnosis/" + escape(diagnosisID), Endpoint: "confirm_diagnosis"}
}

func ReportDiagnosisRequest(diagnosisID, reason string) Request {
	return Request{
		Method:   http.MethodPost,
		Path:     "/api/report_diagnosis/" + escape(diagnosisID),
		Endpoint: "report_diagnosis",
		Body: struct {
			Reason string `json:"reason"`
		}{Reason: reason},
	}
}

// Admin and logbook mutations are full-page form posts. The server answers
// them with a redirect; only a redirect to Landing means the change was made.

const (
	adminUsersPage = "/admin/users"
	logbookPage    = "/logbook"
)

func DeleteUserRequest(userID string) Request {
	return Request{Method: http.MethodPost, Path: "/admin/delete_user/" + escape(userID), Endpoint: "admin_delete_user", Form: url.Values{}, Landing: adminUsersPage}
}

func DeleteDiagnosisRequest(diagnosisID string) Request {
	return Request{Method: http.MethodPost, Path: "/delete_diagnosis/" + escape(diagnosisID), Endpoint: "delete_diagnosis", Form: url.Values{}, Landing: logbookPage}
}

// UserFields are the editable columns of a user account.
type UserFields struct {
	Name         string
	Email        string
	Role         string
	Country      string
	CropLocation string
	Address      string
}

func UpdateUserRequest(userID string, f UserFields) Request {
	form := url.Values{}
	form.Set("name", f.Name)
	form.Set("email", f.Email)
	form.Set("role", f.Role)
	form.Set("country", f.Country)
	form.Set("crop_location", f.CropLocation)
	form.Set("address", f.Address)
	return Request{Method: http.MethodPost, Path: "/admin/update_user/" + escape(userID), Endpoint: "admin_update_user", Form: form, Landing: adminUsersPage}
}

// Read-only endpoints.

// CalendarEvents fetches every task of the signed-in user as calendar events.
func (c *Client) CalendarEvents(ctx context.Context) ([]CalendarEvent, error) {
	var out []CalendarEvent
	if err := c.getJSON(ctx, "/api/calendar_events", "calendar_events", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChartData fetches the admin feedback summary.
func (c *Client) ChartData(ctx context.Context) (*ChartData, error) {
	var out ChartData
	if err := c.getJSON(ctx, "/api/admin/chart_data", "chart_data", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
