package gateway

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/LeafDesk/internal/metrics"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *metrics.Gateway) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	m := metrics.NewGateway(prometheus.NewRegistry())
	opts = append([]Option{WithLogger(quietLogger()), WithMetrics(m)}, opts...)
	return New(srv.URL+"/", opts...), m
}

func TestDo_DeleteTaskSuccess(t *testing.T) {
	var gotMethod, gotPath, gotRequestID string
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"Task deleted successfully."}`))
	})

	res, err := c.Do(context.Background(), DeleteTaskRequest("42"))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "Task deleted successfully.", res.Message)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/delete_task/42", gotPath)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("DELETE", "delete_task", metrics.OutcomeSuccess)))
}

func TestDo_ApplicationFailureOnErrorStatus(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"Already confirmed"}`))
	})

	res, err := c.Do(context.Background(), ConfirmDiagnosisRequest("d1"))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "Already confirmed", res.Message)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("POST", "confirm_diagnosis", metrics.OutcomeApplication)))
}

func TestDo_MissingStatusIsApplicationFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"no status here"}`))
	})

	res, err := c.Do(context.Background(), ScheduleFollowUpRequest("d1"))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "no status here", res.Message)
}

func TestDo_HTMLBodyIsApplicationFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html>login</html>`))
	})

	res, err := c.Do(context.Background(), ToggleTaskRequest("1"))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Empty(t, res.Status)
	assert.Equal(t, "fallback", res.MessageOr("fallback"))
}

func TestDo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	m := metrics.NewGateway(prometheus.NewRegistry())
	c := New(url, WithLogger(quietLogger()), WithMetrics(m))

	_, err := c.Do(context.Background(), DeleteTaskRequest("42"))
	require.Error(t, err)
	assert.True(t, IsTransport(err))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.MethodDelete, te.Method)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("DELETE", "delete_task", metrics.OutcomeTransport)))
}

func TestDo_CanceledContextIsTransportFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Do(ctx, ToggleTaskRequest("1"))
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_JSONBodyAndHeaders(t *testing.T) {
	var body map[string]any
	var contentType, cookie, ua string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		ua = r.Header.Get("User-Agent")
		if ck, err := r.Cookie("session"); err == nil {
			cookie = ck.Value
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"status":"success","message":"added"}`))
	}, WithSessionCookie("abc"), WithUserAgent("test-agent"))

	req := AddScheduleRequest("d9", []ScheduleItem{{Date: "In 3 days", Task: "Spray", Details: "Copper"}})
	res, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.OK())

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "abc", cookie)
	assert.Equal(t, "test-agent", ua)
	assert.Equal(t, "d9", body["diagnosis_id"])
	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Spray", tasks[0].(map[string]any)["task"])
}

func TestDo_ReportCarriesReason(t *testing.T) {
	var body map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"status":"success","message":"Report submitted"}`))
	})

	_, err := c.Do(context.Background(), ReportDiagnosisRequest("d1", "wrong leaf"))
	require.NoError(t, err)
	assert.Equal(t, "wrong leaf", body["reason"])
}

func TestDo_ToggleReturnsCompletion(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","is_completed":true}`))
	})

	res, err := c.Do(context.Background(), ToggleTaskRequest("7"))
	require.NoError(t, err)
	require.NotNil(t, res.IsCompleted)
	assert.True(t, *res.IsCompleted)
}

// flaskSession builds a session cookie value carrying flashed messages the
// way the tracker signs it. The signature is never checked by the client.
func flaskSession(t *testing.T, compress bool, pairs ...[2]string) string {
	t.Helper()
	var fl []any
	for _, p := range pairs {
		fl = append(fl, map[string][]string{" t": {p[0], p[1]}})
	}
	data, err := json.Marshal(map[string]any{"_flashes": fl, "_user_id": "u0"})
	require.NoError(t, err)
	prefix := ""
	if compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		_, err = zw.Write(data)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		data, prefix = buf.Bytes(), "."
	}
	return prefix + base64.RawURLEncoding.EncodeToString(data) + ".ZxYwVu.c2lnbmF0dXJl"
}

func redirectWith(location, session string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session != "" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: session, Path: "/"})
		}
		http.Redirect(w, r, location, http.StatusFound)
	}
}

func TestDo_FormSubmitLandsOnExpectedPage(t *testing.T) {
	var form string
	session := flaskSession(t, false, [2]string{"success", "User updated successfully!"})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		form = r.PostForm.Get("email")
		redirectWith("/admin/users", session)(w, r)
	})

	res, err := c.Do(context.Background(), UpdateUserRequest("u1", UserFields{Name: "Alice", Email: "a@x.io"}))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "User updated successfully!", res.Message)
	assert.Equal(t, "a@x.io", form)
}

func TestDo_FormSubmitRedirectOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		handler http.HandlerFunc
		ok      bool
		message string
	}{
		{
			name:    "expired session goes to login",
			req:     DeleteUserRequest("u1"),
			handler: redirectWith("/login?next=%2Fadmin%2Fdelete_user%2Fu1", ""),
			message: "Your session has expired. Please log in again.",
		},
		{
			name: "non admin sent to dashboard",
			req:  DeleteUserRequest("u1"),
			handler: redirectWith("/dashboard",
				flaskSession(t, false, [2]string{"error", "This page is for admins only."})),
			message: "This page is for admins only.",
		},
		{
			name:    "dashboard without a readable flash",
			req:     DeleteDiagnosisRequest("d1"),
			handler: redirectWith("/dashboard", ""),
			message: "The server did not accept the change.",
		},
		{
			name: "self delete flashes an error on the landing page",
			req:  DeleteUserRequest("u1"),
			handler: redirectWith("/admin/users",
				flaskSession(t, true, [2]string{"error", "You cannot delete your own account."})),
			message: "You cannot delete your own account.",
		},
		{
			name: "duplicate email on edit",
			req:  UpdateUserRequest("u1", UserFields{Email: "taken@x.io"}),
			handler: redirectWith("/admin/users",
				flaskSession(t, false, [2]string{"error", "That email address is already in use by another account."})),
			message: "That email address is already in use by another account.",
		},
		{
			name: "logbook delete lands on the logbook",
			req:  DeleteDiagnosisRequest("d1"),
			handler: redirectWith("/logbook",
				flaskSession(t, true, [2]string{"success", "Logbook entry and all associated tasks have been deleted."})),
			ok:      true,
			message: "Logbook entry and all associated tasks have been deleted.",
		},
		{
			name:    "logbook delete redirected elsewhere",
			req:     DeleteDiagnosisRequest("d1"),
			handler: redirectWith("/admin/users", ""),
			message: "The server did not accept the change.",
		},
		{
			name: "plain 200 page is not a redirect",
			req:  DeleteUserRequest("u1"),
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>login</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)
			res, err := c.Do(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, res.OK())
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestSessionFlashes_UnreadableCookie(t *testing.T) {
	h := http.Header{}
	h.Add("Set-Cookie", "session=not*base64.x.y; Path=/")
	assert.Empty(t, sessionFlashes(h))
	assert.Empty(t, sessionFlashes(http.Header{}))
}

func TestDo_FormSubmitServerErrorIsFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	res, err := c.Do(context.Background(), DeleteUserRequest("u1"))
	require.NoError(t, err)
	assert.False(t, res.OK())
}

func TestCalendarEvents(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/calendar_events", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":"1","title":"Tomato: Spray","start":"2026-10-19T09:00:00","allDay":false},
			{"id":"2","title":"Follow-up for: Tomato","start":"2026-10-26T10:30:00.123456","allDay":true,"extendedProps":{"is_completed":true}}
		]`))
	})

	events, err := c.CalendarEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Tomato: Spray", events[0].Title)
	assert.Equal(t, 9, events[0].Start.Hour())
	assert.True(t, events[1].AllDay)
	assert.True(t, events[1].Completed)
	assert.Equal(t, 26, events[1].Start.Day())
}

func TestCalendarEvents_BadStart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","title":"x","start":"tomorrow"}]`))
	})

	_, err := c.CalendarEvents(context.Background())
	var re *ResponseError
	assert.True(t, errors.As(err, &re))
}

func TestChartData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pieData":{"labels":["Confirmed Accurate","Reported Inaccurate"],"counts":[3,0]},"barData":{"labels":[],"counts":[]}}`))
	})

	data, err := c.ChartData(context.Background())
	require.NoError(t, err)
	require.NotNil(t, data.PieData)
	assert.Equal(t, []int{3, 0}, data.PieData.Counts)
	assert.Empty(t, data.BarData.Labels)
}

func TestChartData_ServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, err := c.ChartData(context.Background())
	var re *ResponseError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
	assert.False(t, IsTransport(err))
}

func TestRequestPathsEscapeIDs(t *testing.T) {
	assert.Equal(t, "/api/delete_task/a%2Fb", DeleteTaskRequest("a/b").Path)
	assert.Equal(t, "/admin/update_user/u1", UpdateUserRequest("u1", UserFields{}).Path)
	assert.NotNil(t, DeleteDiagnosisRequest("d").Form)
}
