package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/nilx/io-bds/pkg/bds"
)

func newTestEcho(limits bds.Limits) *echo.Echo {
	server := NewServer(NewArrayStore(), ServerConfig{Limits: limits})
	server.clock = func() time.Time { return time.Unix(1700000000, 0) }
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doStream(t *testing.T, e *echo.Echo, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/arrays", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, MIMEBDS)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func encodeStream(t *testing.T, d bds.Dims, data []float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bds.Write(&buf, data, d); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody[map[string]ErrorBody](t, rec)
	return body["error"].Type
}

func TestUploadGetDataDeleteLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEcho(bds.DefaultLimits())
	d := bds.Dims{NX: 3, NY: 2, NC: 2}
	data := make([]float32, 12)
	for i := range data {
		data[i] = float32(i * i)
	}
	stream := encodeStream(t, d, data)

	createRec := doStream(t, e, stream)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", createRec.Code, createRec.Body.String())
	}
	created := decodeBody[ArrayInfo](t, createRec)
	if !strings.HasPrefix(created.ID, "arr_") {
		t.Fatalf("id: got %q", created.ID)
	}
	if created.NX != 3 || created.NY != 2 || created.NC != 2 || created.Elements != 12 {
		t.Fatalf("dims: got %+v", created)
	}
	if created.Bytes != len(stream) {
		t.Fatalf("bytes: got %d want %d", created.Bytes, len(stream))
	}
	if created.Stats.Min == nil || *created.Stats.Min != 0 || *created.Stats.Max != 121 {
		t.Fatalf("stats: got %+v", created.Stats)
	}
	if len(created.Channels) != 2 {
		t.Fatalf("channels: got %d", len(created.Channels))
	}
	if created.CreatedAt != 1700000000 || created.Source != "bds" {
		t.Fatalf("meta: got created_at=%d source=%q", created.CreatedAt, created.Source)
	}

	getRec := doJSON(t, e, http.MethodGet, "/v1/arrays/"+created.ID, "")
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status: got %d body=%s", getRec.Code, getRec.Body.String())
	}
	if got := decodeBody[ArrayInfo](t, getRec); got.ID != created.ID {
		t.Fatalf("get id: got %q", got.ID)
	}

	dataRec := doJSON(t, e, http.MethodGet, "/v1/arrays/"+created.ID+"/data", "")
	if dataRec.Code != http.StatusOK {
		t.Fatalf("data status: got %d", dataRec.Code)
	}
	if ct := dataRec.Header().Get(echo.HeaderContentType); ct != MIMEBDS {
		t.Fatalf("content type: got %q", ct)
	}
	if !bytes.Equal(dataRec.Body.Bytes(), stream) {
		t.Fatalf("data body differs from upload")
	}

	delRec := doJSON(t, e, http.MethodDelete, "/v1/arrays/"+created.ID, "")
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d", delRec.Code)
	}
	if del := decodeBody[DeleteArrayResp](t, delRec); !del.Deleted || del.ID != created.ID {
		t.Fatalf("delete body: got %+v", del)
	}

	missRec := doJSON(t, e, http.MethodGet, "/v1/arrays/"+created.ID, "")
	if missRec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d", missRec.Code)
	}
	if typ := errorType(t, missRec); typ != "not_found_error" {
		t.Fatalf("error type: got %q", typ)
	}
}

func TestUploadRejectsBadStreams(t *testing.T) {
	t.Parallel()

	good := encodeStream(t, bds.Dims{NX: 2, NY: 2, NC: 1}, []float32{1, 2, 3, 4})
	badVersion := bytes.Clone(good)
	copy(badVersion[8:12], "0001")
	badTag := bytes.Clone(good)
	copy(badTag[12:16], " dbl")

	cases := []struct {
		name string
		body []byte
	}{
		{"empty", nil},
		{"foreign", []byte("GIF89a, definitely not a stream of floats at all.............")},
		{"version", badVersion},
		{"tag", badTag},
		{"truncated payload", good[:len(good)-3]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(bds.DefaultLimits())
			rec := doStream(t, e, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
			}
			if typ := errorType(t, rec); typ != "invalid_request_error" {
				t.Fatalf("error type: got %q", typ)
			}
		})
	}
}

func TestUploadRespectsLimits(t *testing.T) {
	t.Parallel()

	e := newTestEcho(bds.Limits{MaxElements: 8})
	stream := encodeStream(t, bds.Dims{NX: 3, NY: 3, NC: 1}, make([]float32, 9))
	rec := doStream(t, e, stream)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if typ := errorType(t, rec); typ != "payload_too_large_error" {
		t.Fatalf("error type: got %q", typ)
	}

	rec = doJSON(t, e, http.MethodPost, "/v1/arrays/json", `{"nx":3,"ny":3,"nc":1,"samples":[0,0,0,0,0,0,0,0,0]}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("json status: got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUploadJSON(t *testing.T) {
	t.Parallel()

	e := newTestEcho(bds.DefaultLimits())
	rec := doJSON(t, e, http.MethodPost, "/v1/arrays/json",
		`{"nx":2,"ny":1,"nc":1,"samples":[1.5,-2.5],"labels":["calibration"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	info := decodeBody[ArrayInfo](t, rec)
	if info.Source != "json" || len(info.Labels) != 1 || info.Labels[0] != "calibration" {
		t.Fatalf("info: got %+v", info)
	}
	if *info.Stats.Mean != -0.5 {
		t.Fatalf("mean: got %v", *info.Stats.Mean)
	}

	dataRec := doJSON(t, e, http.MethodGet, "/v1/arrays/"+info.ID+"/data", "")
	a, err := bds.Read(dataRec.Body)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if a.Dims != (bds.Dims{NX: 2, NY: 1, NC: 1}) || a.Data[0] != 1.5 || a.Data[1] != -2.5 {
		t.Fatalf("round trip: got %v %v", a.Dims, a.Data)
	}
}

func TestUploadJSONRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"syntax", `{"nx":`},
		{"count", `{"nx":2,"ny":2,"nc":1,"samples":[1,2,3]}`},
		{"too large", `{"nx":9999999999999999,"ny":9999999999999999,"nc":9999999999999999,"samples":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(bds.DefaultLimits())
			rec := doJSON(t, e, http.MethodPost, "/v1/arrays/json", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListArraysOrdered(t *testing.T) {
	t.Parallel()

	e := newTestEcho(bds.DefaultLimits())
	for i := 0; i < 3; i++ {
		rec := doJSON(t, e, http.MethodPost, "/v1/arrays/json", `{"nx":1,"ny":1,"nc":1,"samples":[7]}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d: got %d", i, rec.Code)
		}
	}
	rec := doJSON(t, e, http.MethodGet, "/v1/arrays", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status: got %d", rec.Code)
	}
	list := decodeBody[ArrayList](t, rec)
	if list.Object != "list" || len(list.Data) != 3 {
		t.Fatalf("list: got %+v", list)
	}
	for i := 1; i < len(list.Data); i++ {
		if list.Data[i-1].ID > list.Data[i].ID {
			t.Fatalf("list not ordered: %q before %q", list.Data[i-1].ID, list.Data[i].ID)
		}
	}
}

func TestDataUnknownArray(t *testing.T) {
	t.Parallel()

	e := newTestEcho(bds.DefaultLimits())
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/arrays/arr_missing/data"},
		{http.MethodDelete, "/v1/arrays/arr_missing"},
	} {
		rec := doJSON(t, e, tc.method, tc.path, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s: got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestSummariseNonFinite(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	st := summarise([]float32{nan, 2, 4})
	if st.NonFinite != 1 || *st.Min != 2 || *st.Max != 4 || *st.Mean != 3 {
		t.Fatalf("stats: got nonfinite=%d min=%v max=%v mean=%v", st.NonFinite, *st.Min, *st.Max, *st.Mean)
	}
	if empty := summarise(nil); empty.Min != nil || empty.Mean != nil {
		t.Fatalf("empty stats should have nil fields")
	}
}

func frameOnly(t *testing.T, d bds.Dims) []byte {
	t.Helper()
	hdr, err := bds.EncodeHeader(d)
	if err != nil {
		t.Fatalf("encode header: %v", err)
	}
	sig := bds.Signature()
	return append(sig[:], hdr[:]...)
}

func TestUploadHugeDeclaredSize(t *testing.T) {
	t.Parallel()

	// Unset limits fall back to DefaultMaxElements.
	e := newTestEcho(bds.Limits{})
	rec := doStream(t, e, frameOnly(t, bds.Dims{NX: 1 << 30, NY: 1, NC: 1}))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	// Within the cap but with no payload: rejected as a short read.
	rec = doStream(t, e, frameOnly(t, bds.Dims{NX: DefaultMaxElements, NY: 1, NC: 1}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("short payload status: got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestNewServerDefaults(t *testing.T) {
	t.Parallel()

	s := NewServer(nil, ServerConfig{})
	if s.limits.MaxElements != DefaultMaxElements || s.maxJSON != DefaultMaxJSONBytes {
		t.Fatalf("defaults: got limits=%+v maxJSON=%d", s.limits, s.maxJSON)
	}
	if got := s.MaxBodyBytes(); got != DefaultMaxJSONBytes {
		t.Fatalf("max body: got %d want %d", got, DefaultMaxJSONBytes)
	}
	if got := streamBodyLimit(bds.Limits{MaxElements: 10}); got != int64(bds.FrameLen)+40 {
		t.Fatalf("body limit: got %d", got)
	}
	if got := streamBodyLimit(bds.Limits{MaxElements: math.MaxUint64}); got != math.MaxInt64 {
		t.Fatalf("body limit should saturate, got %d", got)
	}
}

func TestUploadJSONBodyLimit(t *testing.T) {
	t.Parallel()

	server := NewServer(NewArrayStore(), ServerConfig{MaxJSONBytes: 40})
	e := echo.New()
	server.Register(e)

	rec := doJSON(t, e, http.MethodPost, "/v1/arrays/json", `{"nx":4,"ny":1,"nc":1,"samples":[1,2,3,4]}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if typ := errorType(t, rec); typ != "payload_too_large_error" {
		t.Fatalf("error type: got %q", typ)
	}

	rec = doJSON(t, e, http.MethodPost, "/v1/arrays/json", `{"nx":1,"ny":1,"nc":1,"samples":[1]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("small body status: got %d body=%s", rec.Code, rec.Body.String())
	}
}
