package submit

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/unlockgrowth/intake/internal/evidence"
)

var (
	ErrNotConfigured        = errors.New("webhook url not configured")
	ErrBusinessNameRequired = errors.New("business name is required")
	ErrUnknownAttachment    = errors.New("unknown attachment field")
	ErrWebhook              = errors.New("webhook request failed")
	ErrRateLimited          = errors.New("too many submissions")
)

// DefaultPerMinute is how many submissions a Service forwards per minute
// unless WithRateLimit says otherwise.
const DefaultPerMinute = 30

// AttachmentFields are the multipart fields the webhook accepts files under.
var AttachmentFields = []string{
	"invoice_attachments",
	"bill_attachments",
	"rent_attachments",
	"compliance_attachments",
	"ratings_attachments",
	"bank_exports",
	"pos_exports",
	"receipt_images",
}

const maxPDFSize = 32 << 20

// Attachment is one uploaded file forwarded alongside the payload.
type Attachment struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Result is what the webhook produced. Exactly one of PDF, PDFURL or
// Fallback is meaningful.
type Result struct {
	PDF      []byte
	Filename string
	PDFURL   string
	// Fallback is set when the webhook answered without a document and the
	// caller should show the locally projected summary instead.
	Fallback bool
}

type Service struct {
	url       string
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	now       func() time.Time
}

func NewService(url string, timeout time.Duration, userAgent string) *Service {
	return &Service{
		url:       url,
		client:    &http.Client{Timeout: timeout},
		limiter:   newLimiter(DefaultPerMinute),
		userAgent: userAgent,
		now:       time.Now,
	}
}

// WithRateLimit caps outbound submissions at perMinute, allowing a burst of
// the same size. A non-positive value removes the cap.
func (s *Service) WithRateLimit(perMinute int) *Service {
	s.limiter = newLimiter(perMinute)
	return s
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// Configured reports whether a webhook url is set.
func (s *Service) Configured() bool {
	return s.url != ""
}

// Submit posts the session and its attachments to the summary webhook.
func (s *Service) Submit(ctx context.Context, sess *evidence.Session, attachments []Attachment) (*Result, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	if strings.TrimSpace(sess.Business.Name) == "" {
		return nil, ErrBusinessNameRequired
	}

	for _, a := range attachments {
		if !slices.Contains(AttachmentFields, a.Field) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttachment, a.Field)
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	body, contentType, err := s.encode(sess, attachments)
	if err != nil {
		return nil, fmt.Errorf("encoding submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)

	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWebhook, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrWebhook, resp.StatusCode)
	}

	return s.readResult(resp)
}

func (s *Service) encode(sess *evidence.Session, attachments []Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="payload"; filename="payload.json"`)
	h.Set("Content-Type", "application/json")

	pw, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("creating payload part: %w", err)
	}

	if err := json.NewEncoder(pw).Encode(buildEnvelope(sess, s.userAgent, s.now())); err != nil {
		return nil, "", fmt.Errorf("writing payload: %w", err)
	}

	for _, a := range attachments {
		fw, err := mw.CreateFormFile(a.Field, a.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("creating %s part: %w", a.Field, err)
		}

		if _, err := io.Copy(fw, a.Content); err != nil {
			return nil, "", fmt.Errorf("copying %s: %w", a.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

type jsonResponse struct {
	PDFURL   *string `json:"pdfUrl"`
	PDF      *string `json:"pdf"`
	Filename string  `json:"filename"`
}

func (s *Service) readResult(resp *http.Response) (*Result, error) {
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))

	switch mediaType {
	case "application/pdf":
		pdf, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFSize))
		if err != nil {
			return nil, fmt.Errorf("%w: reading pdf: %w", ErrWebhook, err)
		}

		return &Result{PDF: pdf, Filename: s.determineFilename(resp)}, nil
	case "application/json":
		var data jsonResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxPDFSize)).Decode(&data); err != nil {
			return &Result{Fallback: true}, nil
		}

		if data.PDFURL != nil {
			return &Result{PDFURL: *data.PDFURL}, nil
		}

		if data.PDF != nil {
			pdf, err := decodePDF(*data.PDF)
			if err != nil {
				return nil, fmt.Errorf("%w: decoding pdf: %w", ErrWebhook, err)
			}

			return &Result{PDF: pdf, Filename: s.safeFilename(data.Filename)}, nil
		}
	}

	return &Result{Fallback: true}, nil
}

// decodePDF accepts bare base64 or a data URL, taking whatever follows the
// last comma.
func decodePDF(s string) ([]byte, error) {
	if i := strings.LastIndex(s, ","); i >= 0 {
		s = s[i+1:]
	}

	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func (s *Service) determineFilename(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok {
				return s.safeFilename(filename)
			}
		}
	}

	return s.fallbackFilename()
}

func (s *Service) fallbackFilename() string {
	return fmt.Sprintf("summary-%d.pdf", s.now().UnixMilli())
}

// safeFilename keeps only the last path element of a webhook supplied name.
// Names that do not resolve to a file fall back to a generated one.
func (s *Service) safeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))

	switch base {
	case "", ".", "..", string(filepath.Separator):
		return s.fallbackFilename()
	}

	return strings.ReplaceAll(base, " ", "_")
}
