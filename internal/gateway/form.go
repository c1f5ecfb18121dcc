package gateway

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	sessionCookieName = "session"
	loginPage         = "/login"

	msgSessionExpired = "Your session has expired. Please log in again."
	msgFormRejected   = "The server did not accept the change."
)

// formResult classifies the answer to a form post. The server redirects
// whether or not the change went through, so success needs a redirect to
// landing and no error among the messages it flashed into the session.
func formResult(landing string, resp response) Result {
	res := Result{Status: "error", StatusCode: resp.status}
	flashes := sessionFlashes(resp.header)
	if msg, ok := flashes.last("error"); ok {
		res.Message = msg
		return res
	}

	if resp.status < 300 || resp.status >= 400 {
		if landing == "" && resp.status >= 200 && resp.status < 300 {
			res.Status = StatusSuccess
		}
		return res
	}

	target := redirectPath(resp.header.Get("Location"))
	switch {
	case target == loginPage:
		res.Message = msgSessionExpired
		return res
	case landing != "" && target != landing:
		res.Message = msgFormRejected
		return res
	}
	res.Status = StatusSuccess
	res.Message, _ = flashes.last("success")
	return res
}

func redirectPath(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	if u.Path == "/" {
		return u.Path
	}
	return strings.TrimSuffix(u.Path, "/")
}

// flash is one (category, message) pair flashed by the server.
type flash struct {
	Category string
	Message  string
}

// Flashed pairs are tagged tuples, {" t": [category, message]}, or plain
// two-element lists.
func (f *flash) UnmarshalJSON(data []byte) error {
	var pair []string
	var tagged struct {
		T []string `json:" t"`
	}
	if err := json.Unmarshal(data, &tagged); err == nil && tagged.T != nil {
		pair = tagged.T
	} else if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	switch len(pair) {
	case 0:
	case 1:
		f.Category, f.Message = "message", pair[0]
	default:
		f.Category, f.Message = pair[0], pair[1]
	}
	return nil
}

type flashes []flash

func (fs flashes) last(category string) (string, bool) {
	for i := len(fs) - 1; i >= 0; i-- {
		if fs[i].Category == category {
			return fs[i].Message, true
		}
	}
	return "", false
}

// sessionFlashes reads the messages a redirect flashed into the signed
// session cookie. The payload is readable without the signing key; a
// cookie that cannot be read yields no flashes.
func sessionFlashes(h http.Header) flashes {
	var value string
	for _, c := range (&http.Response{Header: h}).Cookies() {
		if c.Name == sessionCookieName {
			value = c.Value
		}
	}
	if value == "" {
		return nil
	}

	compressed := strings.HasPrefix(value, ".")
	value = strings.TrimPrefix(value, ".")
	payload, _, _ := strings.Cut(value, ".")
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return nil
	}
	if compressed {
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil
		}
		defer zr.Close()
		if data, err = io.ReadAll(zr); err != nil {
			return nil
		}
	}

	var session struct {
		Flashes flashes `json:"_flashes"`
	}
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}
	return session.Flashes
}
