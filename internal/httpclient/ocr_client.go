package httpclient

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
)

// OCRClient POSTs a document as multipart/form-data and returns the
// response body as OCR text.
type OCRClient struct {
	client *retryablehttp.Client
}

// NewOCRClient builds an OCRClient.
func NewOCRClient() *OCRClient {
	return &OCRClient{client: NewClient()}
}

// Recognize uploads data (named filename) to endpoint, returning the
// response body. key, if non-empty, is attached as a Bearer token.
func (c *OCRClient) Recognize(ctx context.Context, endpoint, filename string, data []byte, key logger.Sensitive) (string, error) {
	body, contentType, err := buildMultipart(filename, data)
	if err != nil {
		return "", errors.Wrap(err, "building multipart OCR request body")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "building OCR request")
	}
	req.Header.Set("Content-Type", contentType)
	attachBearer(req.Header, key)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling OCR endpoint")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading OCR response body")
	}
	if resp.StatusCode >= 400 {
		return "", errors.Errorf("OCR endpoint returned status %d", resp.StatusCode)
	}
	return string(respBody), nil
}

func buildMultipart(filename string, data []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
