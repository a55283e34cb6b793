package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
)

// BatchZipFilter narrows the notifications packed by BatchZip.
// Dates are YYYY-MM-DD; empty fields are not sent.
type BatchZipFilter struct {
	RUC       string
	StartDate string
	EndDate   string
}

func (f BatchZipFilter) query() string {
	query := url.Values{}
	if f.RUC != "" {
		query.Set("ruc", f.RUC)
	}
	if f.StartDate != "" {
		query.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		query.Set("end_date", f.EndDate)
	}
	return query.Encode()
}

// DownloadFile streams the PDF of notification id into w and returns the
// file name the backend suggested
func (c *Client) DownloadFile(ctx context.Context, id int, w io.Writer) (string, error) {
	return c.download(ctx, "/files/download/"+strconv.Itoa(id), w)
}

// BatchZip streams a ZIP of the notification PDFs matching filter into w
func (c *Client) BatchZip(ctx context.Context, filter BatchZipFilter, w io.Writer) (string, error) {
	p := "/files/batch-zip"
	if q := filter.query(); q != "" {
		p += "?" + q
	}
	return c.download(ctx, p, w)
}

// DownloadPath streams a stored registry file (e.g. a proposal ZIP) into w.
// The backend only serves paths inside its registry directory.
func (c *Client) DownloadPath(ctx context.Context, storagePath string, w io.Writer) (string, error) {
	return c.download(ctx, "/files/download?"+url.Values{"path": {storagePath}}.Encode(), w)
}

// download is a GET whose body is copied to w instead of decoded
func (c *Client) download(ctx context.Context, p string, w io.Writer) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, p, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", newAPIError(http.MethodGet, BasePath+p, resp.StatusCode, body)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("failed to read download: %w", err)
	}

	return attachmentName(resp.Header.Get("Content-Disposition")), nil
}

// attachmentName extracts a safe base name from a Content-Disposition header
func attachmentName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := path.Base(params["filename"])
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
