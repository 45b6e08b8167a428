package submit_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/submit"
)

func newSession() *evidence.Session {
	s := evidence.NewSession()
	s.Business.Name = "Bondi Bakes"
	s.Owner.FullName = "Alex Tran"
	s.Connections = evidence.Connections{BankConnected: true, POSConnected: true}
	s.CashFlow[0].Date = "2024-01-01"
	s.CashFlow[0].Inflow = "150.50"
	s.CommunityNote = "Market regular"

	return s
}

func TestService_Submit_Payload(t *testing.T) {
	var (
		got        map[string]any
		attachment string
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		f, hdr, err := r.FormFile("payload")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()

		assert.Equal(t, "payload.json", hdr.Filename)
		assert.Equal(t, "application/json", hdr.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(f).Decode(&got))

		af, _, err := r.FormFile("bank_exports")
		if !assert.NoError(t, err) {
			return
		}
		defer af.Close()

		b, _ := io.ReadAll(af)
		attachment = string(b)

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	svc := submit.NewService(ts.URL, 5*time.Second, "intake-test")

	res, err := svc.Submit(context.Background(), newSession(), []submit.Attachment{
		{Field: "bank_exports", Filename: "jan.csv", Content: strings.NewReader("Date,Amount\n")},
	})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "Date,Amount\n", attachment)

	payload := got["payload"].(map[string]any)
	business := payload["business"].(map[string]any)
	assert.Equal(t, "Bondi Bakes", business["businessName"])
	assert.Equal(t, "Alex Tran", business["ownerFullName"])

	computed := payload["computed"].(map[string]any)
	assert.EqualValues(t, 55, computed["dataCoverage"])

	totals := computed["totals"].(map[string]any)
	assert.EqualValues(t, 150.5, totals["inflow"])
	assert.EqualValues(t, 1, totals["weeks"])

	ctx := got["context"].(map[string]any)
	blocks := ctx["fileBlocks"].([]any)
	require.Len(t, blocks, 9)

	first := blocks[0].(map[string]any)
	assert.Equal(t, "cash_log", first["fileField"])
	rows := first["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "150.50", rows[0].(map[string]any)["inflow"])

	last := blocks[8].(map[string]any)
	assert.Equal(t, "community_note", last["fileField"])
	assert.Equal(t, "Market regular", last["data"])

	assert.Equal(t, "intake-test", got["client"].(map[string]any)["ua"])
}

func TestService_Submit_Responses(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")

	type testCase struct {
		name    string
		handler http.HandlerFunc
		verify  func(t *testing.T, res *submit.Result)
		wantErr error
	}

	tests := []testCase{
		{
			name: "PDFWithFilename",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				w.Header().Set("Content-Disposition", `attachment; filename="Bondi Bakes.pdf"`)
				_, _ = w.Write(pdf)
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.Equal(t, pdf, res.PDF)
				assert.Equal(t, "Bondi_Bakes.pdf", res.Filename)
			},
		},
		{
			name: "PDFEncodedFilename",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				w.Header().Set("Content-Disposition", `attachment; filename*=UTF-8''caf%C3%A9.pdf`)
				_, _ = w.Write(pdf)
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.Equal(t, "café.pdf", res.Filename)
			},
		},
		{
			name: "PDFWithoutFilename",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = w.Write(pdf)
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.True(t, strings.HasPrefix(res.Filename, "summary-"))
				assert.True(t, strings.HasSuffix(res.Filename, ".pdf"))
			},
		},
		{
			name: "PDFWithTraversalFilename",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				w.Header().Set("Content-Disposition", `attachment; filename=".."`)
				_, _ = w.Write(pdf)
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.True(t, strings.HasPrefix(res.Filename, "summary-"))
			},
		},
		{
			name: "PDFWithNestedPathFilename",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				w.Header().Set("Content-Disposition", `attachment; filename="../../etc/report.pdf"`)
				_, _ = w.Write(pdf)
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.Equal(t, "report.pdf", res.Filename)
			},
		},
		{
			name: "JSONBase64RootFilename",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				body := `{"pdf":"` + base64.StdEncoding.EncodeToString(pdf) + `","filename":"/"}`
				_, _ = w.Write([]byte(body))
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.Equal(t, pdf, res.PDF)
				assert.True(t, strings.HasPrefix(res.Filename, "summary-"))
				assert.True(t, strings.HasSuffix(res.Filename, ".pdf"))
			},
		},
		{
			name: "JSONURL",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				_, _ = w.Write([]byte(`{"pdfUrl":"https://files.example.com/s.pdf"}`))
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.Equal(t, "https://files.example.com/s.pdf", res.PDFURL)
				assert.Nil(t, res.PDF)
			},
		},
		{
			name: "JSONBase64DataURL",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				body := `{"pdf":"data:application/pdf;base64,` + base64.StdEncoding.EncodeToString(pdf) + `","filename":"one-pager.pdf"}`
				_, _ = w.Write([]byte(body))
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.Equal(t, pdf, res.PDF)
				assert.Equal(t, "one-pager.pdf", res.Filename)
			},
		},
		{
			name: "JSONWithoutDocument",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"ok":true}`))
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.True(t, res.Fallback)
			},
		},
		{
			name: "PlainText",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("Workflow was started"))
			},
			verify: func(t *testing.T, res *submit.Result) {
				assert.True(t, res.Fallback)
			},
		},
		{
			name: "ServerError",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr: submit.ErrWebhook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			svc := submit.NewService(ts.URL, 5*time.Second, "")
			res, err := svc.Submit(context.Background(), newSession(), nil)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.verify(t, res)
		})
	}
}

func TestService_Submit_Rejects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("webhook must not be called")
	}))
	defer ts.Close()

	ctx := context.Background()

	_, err := submit.NewService("", time.Second, "").Submit(ctx, newSession(), nil)
	assert.ErrorIs(t, err, submit.ErrNotConfigured)

	svc := submit.NewService(ts.URL, time.Second, "")

	unnamed := newSession()
	unnamed.Business.Name = "  "
	_, err = svc.Submit(ctx, unnamed, nil)
	assert.ErrorIs(t, err, submit.ErrBusinessNameRequired)

	_, err = svc.Submit(ctx, newSession(), []submit.Attachment{
		{Field: "selfies", Filename: "me.png", Content: strings.NewReader("x")},
	})
	assert.ErrorIs(t, err, submit.ErrUnknownAttachment)
}

func TestService_Submit_RateLimited(t *testing.T) {
	var calls atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer ts.Close()

	svc := submit.NewService(ts.URL, time.Second, "").WithRateLimit(1)

	_, err := svc.Submit(context.Background(), newSession(), nil)
	require.NoError(t, err)

	// The next token is a minute away, well past this deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = svc.Submit(ctx, newSession(), nil)
	assert.ErrorIs(t, err, submit.ErrRateLimited)
	assert.Equal(t, int32(1), calls.Load())
}
